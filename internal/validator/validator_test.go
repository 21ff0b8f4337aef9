package validator

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEmail(t *testing.T) {
	valid := []string{
		"user@example.com",
		"user.name@example.com",
		"user+label@example.com",
		"user@subdomain.example.com",
		"a_b%c-d@ex-ample.io",
	}
	for _, email := range valid {
		assert.NoError(t, ValidateEmail(email), email)
	}

	invalid := []string{
		"",
		"a@b",
		"notanemail",
		"@nodomain.com",
		"no spaces@test.com",
		"user@example.c",
		"user@example",
		"user@@example.com",
		strings.Repeat("a", 121) + "@test.com",
	}
	for _, email := range invalid {
		err := ValidateEmail(email)
		require.Error(t, err, email)
		assert.ErrorIs(t, err, ErrInvalidEmail)
	}
}

func TestValidateEmailLengthBounds(t *testing.T) {
	local := strings.Repeat("a", 120-len("@ex.com"))
	assert.NoError(t, ValidateEmail(local+"@ex.com"))
	assert.Error(t, ValidateEmail(local+"a@ex.com"))
}

func TestValidateUsername(t *testing.T) {
	for _, username := range []string{"john123", "john_doe", "john-doe", "johndoe", "abc", strings.Repeat("a", 80)} {
		assert.NoError(t, ValidateUsername(username), username)
	}
	for _, username := range []string{"", "ab", "123john", "_john", "john@doe", "john doe", strings.Repeat("a", 81)} {
		err := ValidateUsername(username)
		require.Error(t, err, username)
		assert.ErrorIs(t, err, ErrInvalidUsername)
	}
}

func TestValidatePassword(t *testing.T) {
	for _, password := range []string{"Test123!@", "SecurePass123$", "MyP@ssw0rd", "Aa1&aaaa", "Aa1?" + strings.Repeat("x", 124)} {
		assert.NoError(t, ValidatePassword(password), password)
	}

	cases := map[string]string{
		"":                                "length",
		"short1!":                         "length",
		"nouppercase1!":                   "uppercase",
		"NOLOWERCASE1!":                   "lowercase",
		"NoNumbers!":                      "digit",
		"NoSpecial1":                      "special",
		"NoAllowedSpecial1#":              "special",
		"Aa1!" + strings.Repeat("a", 125): "length",
	}
	for password, rule := range cases {
		err := ValidatePassword(password)
		require.Error(t, err, password)
		assert.ErrorIs(t, err, ErrInvalidPassword)
		var verr *Error
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "password", verr.Field)
		assert.Equal(t, rule, verr.Rule, password)
	}
}

func TestValidateImageURL(t *testing.T) {
	valid := []string{
		"/static/trades/image1.png",
		"/static/journal/analysis_1.jpg",
		"/static/strategy/example-1.jpeg",
		"/static/plans/risk-management.gif",
		"/static/plans/UPPER.PNG",
	}
	for _, url := range valid {
		assert.NoError(t, ValidateImageURL(url), url)
	}

	invalid := []string{
		"http://external-site.com/image.png",
		"http://external.com/x.png",
		"/static/image.bmp",
		"static/image.png",
		"/static/invalid<chars>.png",
		"/static/.png",
		"/assets/image.png",
		"/static/" + strings.Repeat("a", 250) + ".png",
	}
	for _, url := range invalid {
		err := ValidateImageURL(url)
		require.Error(t, err, url)
		assert.ErrorIs(t, err, ErrInvalidImageURL)
	}
}

func TestValidateImageList(t *testing.T) {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	valid := []map[string]any{{
		"url":         "/static/test/image1.png",
		"description": "Test image",
		"upload_date": now,
		"type":        "analysis",
	}}
	assert.NoError(t, ValidateImageList(valid))
	assert.NoError(t, ValidateImageList([]any{map[string]any{
		"url":         "/static/test/image1.png",
		"description": "",
		"upload_date": "2025-01-15T10:30:00.123456",
	}}))
	assert.NoError(t, ValidateImageList([]map[string]any{}))

	t.Run("missing upload date", func(t *testing.T) {
		err := ValidateImageList([]map[string]any{{
			"url":         "/static/test/image1.png",
			"description": "Test image",
		}})
		var verr *Error
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "images[0].upload_date", verr.Field)
		assert.Equal(t, "required", verr.Rule)
	})

	t.Run("invalid url", func(t *testing.T) {
		err := ValidateImageList([]map[string]any{{
			"url":         "invalid-url",
			"description": "Test image",
			"upload_date": now,
		}})
		assert.ErrorIs(t, err, ErrInvalidImageURL)
		var verr *Error
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "images[0].url", verr.Field)
	})

	t.Run("invalid date", func(t *testing.T) {
		err := ValidateImageList([]map[string]any{{
			"url":         "/static/test/image1.png",
			"description": "Test image",
			"upload_date": "invalid-date",
		}})
		assert.ErrorIs(t, err, ErrInvalidImageList)
	})

	t.Run("description not a string", func(t *testing.T) {
		for _, description := range []any{nil, 42, []any{"a"}} {
			err := ValidateImageList([]map[string]any{{
				"url":         "/static/test/image1.png",
				"description": description,
				"upload_date": now,
			}})
			assert.ErrorIs(t, err, ErrInvalidImageList, "%v", description)
			var verr *Error
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, "images[0].description", verr.Field)
			assert.Equal(t, "type", verr.Rule)
		}
	})

	t.Run("not a list", func(t *testing.T) {
		assert.ErrorIs(t, ValidateImageList(map[string]any{"url": "/static/a.png"}), ErrInvalidImageList)
		assert.ErrorIs(t, ValidateImageList("nope"), ErrInvalidImageList)
		assert.ErrorIs(t, ValidateImageList([]any{"nope"}), ErrInvalidImageList)
	})
}

func TestParseTimestamp(t *testing.T) {
	for _, value := range []string{
		"2025-01-15T10:30:00Z",
		"2025-01-15T10:30:00+02:00",
		"2025-01-15T10:30:00.123456",
		"2025-01-15T10:30:00",
		"2025-01-15 10:30:00",
		"2025-01-15",
	} {
		_, err := ParseTimestamp(value)
		assert.NoError(t, err, value)
	}
	_, err := ParseTimestamp("15/01/2025")
	assert.Error(t, err)
}

func TestValidateTimestamp(t *testing.T) {
	parsed, err := ValidateTimestamp("entry_time", "2025-01-15T10:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, 10, parsed.Hour())

	_, err = ValidateTimestamp("entry_time", "")
	assert.ErrorIs(t, err, ErrRequired)

	_, err = ValidateTimestamp("exit_time", "yesterday")
	assert.ErrorIs(t, err, ErrInvalidTimestamp)
	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "exit_time", verr.Field)
}

func TestRequiredAndMaxLength(t *testing.T) {
	err := ValidateRequired("name", "  ")
	assert.ErrorIs(t, err, ErrRequired)
	assert.EqualError(t, err, "name: is required")
	assert.NoError(t, ValidateRequired("name", "plan"))

	assert.ErrorIs(t, ValidateMaxLength("symbol", "EURUSDEURUSD", 10), ErrTooLong)
	assert.NoError(t, ValidateMaxLength("symbol", "EURUSD", 10))
}

func TestWithFieldKeepsRule(t *testing.T) {
	err := WithField(ValidateImageURL("/static/a.bmp"), "entry_image_url")
	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "entry_image_url", verr.Field)
	assert.ErrorIs(t, err, ErrInvalidImageURL)

	plain := errors.New("boom")
	assert.Same(t, plain, WithField(plain, "x"))
}
