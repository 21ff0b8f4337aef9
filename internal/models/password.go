package models

import (
	"tradejournal/internal/auth"
	"tradejournal/internal/validator"
)

// PasswordHolder is implemented by entities that authenticate with a
// password.
type PasswordHolder interface {
	SetPassword(password string, opts ...PasswordOption) error
	CheckPassword(password string) (bool, error)
	ChangePassword(current, next string) error
	HasPassword() bool
}

type passwordSettings struct {
	skipPolicy bool
}

type PasswordOption func(*passwordSettings)

// BypassPasswordPolicy skips the password policy. Only privileged internal
// paths (operator provisioning, migrations of legacy accounts) may pass it,
// and they are expected to record that they did.
func BypassPasswordPolicy() PasswordOption {
	return func(s *passwordSettings) {
		s.skipPolicy = true
	}
}

// passwordHash is embedded by entities that store a password hash.
type passwordHash struct {
	hash string
}

func (p *passwordHash) SetPassword(password string, opts ...PasswordOption) error {
	var settings passwordSettings
	for _, opt := range opts {
		opt(&settings)
	}
	if !settings.skipPolicy {
		if err := validator.ValidatePassword(password); err != nil {
			return err
		}
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	p.hash = hash
	return nil
}

// CheckPassword fails with ErrPasswordNotSet when no hash is stored; that is
// a different state from a wrong password.
func (p *passwordHash) CheckPassword(password string) (bool, error) {
	if p.hash == "" {
		return false, ErrPasswordNotSet
	}
	return auth.CheckPassword(p.hash, password), nil
}

func (p *passwordHash) ChangePassword(current, next string) error {
	ok, err := p.CheckPassword(current)
	if err != nil {
		return err
	}
	if !ok {
		return NewAuthError(AuthIncorrectPassword, "current password is incorrect")
	}
	return p.SetPassword(next)
}

func (p *passwordHash) HasPassword() bool {
	return p.hash != ""
}

func (p *passwordHash) PasswordHash() string {
	return p.hash
}

var _ PasswordHolder = (*User)(nil)
