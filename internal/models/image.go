package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"tradejournal/internal/validator"
)

// Image is one attached image's metadata: url, description and upload_date
// plus optional tags (type, pattern_type, section) that are kept verbatim.
type Image map[string]any

func (i Image) URL() string {
	s, _ := i["url"].(string)
	return s
}

func (i Image) Description() string {
	s, _ := i["description"].(string)
	return s
}

func (i Image) UploadDate() string {
	s, _ := i["upload_date"].(string)
	return s
}

func (i Image) Tag(key string) string {
	s, _ := i[key].(string)
	return s
}

type Images []Image

func (imgs Images) validate(field string) error {
	raw := make([]map[string]any, len(imgs))
	for idx, img := range imgs {
		raw[idx] = img
	}
	if err := validator.ValidateImageList(raw); err != nil {
		return prefixField(err, field)
	}
	return nil
}

func (imgs Images) clone() Images {
	out := make(Images, len(imgs))
	for idx, img := range imgs {
		cp := make(Image, len(img))
		for k, v := range img {
			cp[k] = v
		}
		out[idx] = cp
	}
	return out
}

func (imgs Images) Value() (driver.Value, error) {
	if imgs == nil {
		return "[]", nil
	}
	raw, err := json.Marshal(imgs)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

func (imgs *Images) Scan(src any) error {
	raw, err := jsonBytes(src)
	if err != nil {
		return err
	}
	if raw == nil {
		*imgs = Images{}
		return nil
	}
	var out Images
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("scan images: %w", err)
	}
	if out == nil {
		out = Images{}
	}
	*imgs = out
	return nil
}

// ImagesFromList converts a decoded JSON list into Images, rejecting anything
// that is not a list of objects.
func ImagesFromList(list any) (Images, error) {
	if err := validator.ValidateImageList(list); err != nil {
		return nil, err
	}
	var out Images
	switch v := list.(type) {
	case []map[string]any:
		out = make(Images, len(v))
		for i, item := range v {
			out[i] = item
		}
	case []any:
		out = make(Images, len(v))
		for i, item := range v {
			out[i] = item.(map[string]any)
		}
	}
	return out, nil
}

func prefixField(err error, field string) error {
	var verr *validator.Error
	if field == "" || !errors.As(err, &verr) {
		return err
	}
	if rest, ok := strings.CutPrefix(verr.Field, "images"); ok {
		return validator.WithField(err, field+rest)
	}
	return validator.WithField(err, field+"."+verr.Field)
}

func validateImageURL(field string, url *string) error {
	if url == nil {
		return nil
	}
	if err := validator.ValidateImageURL(*url); err != nil {
		return validator.WithField(err, field)
	}
	return nil
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
