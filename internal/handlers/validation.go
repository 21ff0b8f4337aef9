package handlers

import (
	"bytes"
	"encoding/json"
	"time"

	"tradejournal/internal/validator"
)

var jsonNull = []byte("null")

// optional records whether a JSON key was present at all, so an explicit
// null can clear a field while an absent key leaves it alone.
type optional[T any] struct {
	Set   bool
	Value *T
}

func (o *optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		o.Value = nil
		return nil
	}
	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	o.Value = &value
	return nil
}

func (o optional[T]) cleared() bool {
	return o.Set && o.Value == nil
}

func parseTime(field, raw string) (time.Time, error) {
	parsed, err := validator.ValidateTimestamp(field, raw)
	if err != nil {
		return time.Time{}, err
	}
	return parsed.UTC(), nil
}

func parseOptionalTime(field string, raw *string) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}
	parsed, err := parseTime(field, *raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
