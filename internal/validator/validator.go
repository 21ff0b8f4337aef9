package validator

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

var (
	ErrInvalidEmail     = errors.New("invalid email")
	ErrInvalidUsername  = errors.New("invalid username")
	ErrInvalidPassword  = errors.New("invalid password")
	ErrInvalidImageURL  = errors.New("invalid image url")
	ErrInvalidImageList = errors.New("invalid image list")
	ErrRequired         = errors.New("required")
	ErrTooLong          = errors.New("too long")
	ErrInvalidTimestamp = errors.New("invalid timestamp")
)

// Error reports which field failed which rule. It unwraps to one of the
// rule sentinels above.
type Error struct {
	Field   string
	Rule    string
	Message string
	err     error
}

func (e *Error) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *Error) Unwrap() error {
	return e.err
}

func newError(field, rule string, sentinel error, format string, args ...any) *Error {
	return &Error{
		Field:   field,
		Rule:    rule,
		Message: fmt.Sprintf(format, args...),
		err:     sentinel,
	}
}

// WithField returns a copy of err attributed to field. Non-validation errors
// are returned unchanged.
func WithField(err error, field string) error {
	var verr *Error
	if !errors.As(err, &verr) {
		return err
	}
	out := *verr
	out.Field = field
	return &out
}

const (
	emailMinLength    = 5
	emailMaxLength    = 120
	usernameMinLength = 3
	usernameMaxLength = 80
	passwordMinLength = 8
	passwordMaxLength = 128
	imageURLMaxLength = 255
	passwordSpecials  = "@$!%*?&"
)

var (
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9-]+(\.[a-zA-Z0-9-]+)*\.[a-zA-Z]{2,}$`)
	usernameRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)
	imageURLRegex = regexp.MustCompile(`^/static/[a-zA-Z0-9/_-]+\.(?i:png|jpg|jpeg|gif)$`)
)

func ValidateEmail(email string) error {
	if n := len(email); n < emailMinLength || n > emailMaxLength {
		return newError("email", "length", ErrInvalidEmail, "must be between %d and %d characters", emailMinLength, emailMaxLength)
	}
	if !emailRegex.MatchString(email) {
		return newError("email", "format", ErrInvalidEmail, "must look like local@domain.tld")
	}
	return nil
}

func ValidateUsername(username string) error {
	if n := len(username); n < usernameMinLength || n > usernameMaxLength {
		return newError("username", "length", ErrInvalidUsername, "must be between %d and %d characters", usernameMinLength, usernameMaxLength)
	}
	if !usernameRegex.MatchString(username) {
		return newError("username", "format", ErrInvalidUsername, "must start with a letter and contain only letters, digits, underscores or hyphens")
	}
	return nil
}

func ValidatePassword(password string) error {
	if n := utf8.RuneCountInString(password); n < passwordMinLength || n > passwordMaxLength {
		return newError("password", "length", ErrInvalidPassword, "must be between %d and %d characters", passwordMinLength, passwordMaxLength)
	}
	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		}
	}
	switch {
	case !upper:
		return newError("password", "uppercase", ErrInvalidPassword, "must contain an uppercase letter")
	case !lower:
		return newError("password", "lowercase", ErrInvalidPassword, "must contain a lowercase letter")
	case !digit:
		return newError("password", "digit", ErrInvalidPassword, "must contain a digit")
	case !special:
		return newError("password", "special", ErrInvalidPassword, "must contain one of %s", passwordSpecials)
	}
	return nil
}

// ValidateImageURL only admits same-origin assets under /static/.
func ValidateImageURL(url string) error {
	if len(url) > imageURLMaxLength {
		return newError("url", "length", ErrInvalidImageURL, "must be at most %d characters", imageURLMaxLength)
	}
	if !imageURLRegex.MatchString(url) {
		return newError("url", "format", ErrInvalidImageURL, "must be a /static/ path ending in .png, .jpg, .jpeg or .gif")
	}
	return nil
}

var imageRequiredKeys = []string{"url", "description", "upload_date"}

// ValidateImageList checks a decoded JSON list of image metadata objects.
// It accepts []map[string]any or []any whose elements are objects.
func ValidateImageList(list any) error {
	var items []map[string]any
	switch v := list.(type) {
	case []map[string]any:
		items = v
	case []any:
		items = make([]map[string]any, 0, len(v))
		for i, raw := range v {
			obj, ok := raw.(map[string]any)
			if !ok {
				return newError(fmt.Sprintf("images[%d]", i), "image_object", ErrInvalidImageList, "must be an object")
			}
			items = append(items, obj)
		}
	default:
		return newError("images", "image_list", ErrInvalidImageList, "must be a list of objects")
	}
	for i, item := range items {
		field := fmt.Sprintf("images[%d]", i)
		for _, key := range imageRequiredKeys {
			if _, ok := item[key]; !ok {
				return newError(field+"."+key, "required", ErrInvalidImageList, "is required")
			}
		}
		url, ok := item["url"].(string)
		if !ok {
			return newError(field+".url", "type", ErrInvalidImageList, "must be a string")
		}
		if err := ValidateImageURL(url); err != nil {
			return WithField(err, field+".url")
		}
		if _, ok := item["description"].(string); !ok {
			return newError(field+".description", "type", ErrInvalidImageList, "must be a string")
		}
		uploaded, ok := item["upload_date"].(string)
		if !ok {
			return newError(field+".upload_date", "type", ErrInvalidImageList, "must be a string")
		}
		if _, err := ParseTimestamp(uploaded); err != nil {
			return newError(field+".upload_date", "iso8601", ErrInvalidImageList, "must be an ISO-8601 timestamp")
		}
	}
	return nil
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTimestamp parses the ISO-8601 shapes clients send for upload dates.
// Values without a zone are read as UTC.
func ParseTimestamp(value string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", value)
}

// ValidateTimestamp parses a client supplied timestamp for field.
func ValidateTimestamp(field, value string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, newError(field, "required", ErrRequired, "is required")
	}
	parsed, err := ParseTimestamp(value)
	if err != nil {
		return time.Time{}, newError(field, "iso8601", ErrInvalidTimestamp, "must be an ISO-8601 timestamp")
	}
	return parsed, nil
}

func ValidateRequired(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return newError(field, "required", ErrRequired, "is required")
	}
	return nil
}

func ValidateMaxLength(field, value string, max int) error {
	if utf8.RuneCountInString(value) > max {
		return newError(field, "max_length", ErrTooLong, "must be at most %d characters", max)
	}
	return nil
}

// Required builds the error reported when a non-string required value is
// absent.
func Required(field string) error {
	return newError(field, "required", ErrRequired, "is required")
}
