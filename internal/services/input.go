package services

import (
	"errors"
	"strings"

	"tradejournal/internal/models"
	"tradejournal/internal/validator"
)

// setImageList converts a decoded JSON value and hands it to an entity
// setter. Conversion errors are reported against field.
func setImageList(raw any, field string, set func(models.Images) error) error {
	images, err := models.ImagesFromList(raw)
	if err != nil {
		var verr *validator.Error
		if errors.As(err, &verr) {
			if rest, ok := strings.CutPrefix(verr.Field, "images"); ok {
				return validator.WithField(err, field+rest)
			}
		}
		return err
	}
	return set(images)
}

func setDocument(dst *models.Document, value *models.Document) {
	if value != nil {
		*dst = *value
	}
}

func setString(dst *string, value *string) {
	if value != nil {
		*dst = *value
	}
}
