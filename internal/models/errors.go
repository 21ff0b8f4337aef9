package models

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrAuthentication = errors.New("authentication failed")
	ErrPasswordNotSet = errors.New("password not set")
)

const (
	AuthInvalidCredentials = "invalid_credentials"
	AuthInactive           = "inactive"
	AuthDuplicate          = "duplicate"
	AuthIncorrectPassword  = "incorrect_password"
)

// AuthError is a rejected credential or identity operation. It matches
// ErrAuthentication under errors.Is.
type AuthError struct {
	Reason  string
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

func (e *AuthError) Is(target error) bool {
	return target == ErrAuthentication
}

func NewAuthError(reason, message string) *AuthError {
	return &AuthError{Reason: reason, Message: message}
}

// IntegrityError is a storage constraint violation that application checks
// did not catch.
type IntegrityError struct {
	Constraint string
	Kind       string
	Err        error
}

func (e *IntegrityError) Error() string {
	if e.Constraint == "" {
		return fmt.Sprintf("integrity violation (%s): %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("integrity violation (%s) on %s: %v", e.Kind, e.Constraint, e.Err)
}

func (e *IntegrityError) Unwrap() error {
	return e.Err
}

const (
	IntegrityUnique     = "unique"
	IntegrityForeignKey = "foreign_key"
	IntegrityNotNull    = "not_null"
)
