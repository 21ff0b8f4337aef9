package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Document is an untyped structured value (risk rules, markets, metrics,
// parameters). It holds any JSON value: an object, a list or a scalar. Its
// schema belongs to the caller and it is stored as JSON.
type Document struct {
	v any
}

// NewDocument wraps a decoded JSON value. Maps and slices are stored as
// given, so callers should not mutate them afterwards.
func NewDocument(v any) Document {
	return Document{v: v}
}

// Any returns the wrapped value; nil for a null document.
func (d Document) Any() any {
	return d.v
}

func (d Document) IsNull() bool {
	return d.v == nil
}

// Get looks up a top-level key. It returns nil when the document is not an
// object or the key is missing.
func (d Document) Get(key string) any {
	obj, ok := d.v.(map[string]any)
	if !ok {
		return nil
	}
	return obj[key]
}

func (d Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.v)
}

func (d *Document) UnmarshalJSON(raw []byte) error {
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		d.v = nil
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return err
	}
	d.v = v
	return nil
}

func (d Document) Value() (driver.Value, error) {
	if d.v == nil {
		return nil, nil
	}
	raw, err := json.Marshal(d.v)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

func (d *Document) Scan(src any) error {
	raw, err := jsonBytes(src)
	if err != nil {
		return err
	}
	if raw == nil {
		d.v = nil
		return nil
	}
	if err := d.UnmarshalJSON(raw); err != nil {
		return fmt.Errorf("scan document: %w", err)
	}
	return nil
}

func jsonBytes(src any) ([]byte, error) {
	switch v := src.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("unsupported json source %T", src)
	}
}
