package models

import (
	"time"

	"tradejournal/internal/validator"

	"github.com/google/uuid"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	defaultProfilePicture = "default.png"
	profilePicturePrefix  = "/static/profile_pictures/"
	roleMaxLength         = 20
)

type User struct {
	ID                      string
	Email                   string
	Username                string
	IsActive                bool
	Role                    string
	LastLogin               *time.Time
	ProfilePictureUpdatedAt *time.Time
	CreatedAt               time.Time
	UpdatedAt               time.Time

	profilePicture *string
	passwordHash
}

// NewUser validates email and username. The password is set separately.
func NewUser(email, username string) (*User, error) {
	if err := validator.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := validator.ValidateUsername(username); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &User{
		ID:        uuid.NewString(),
		Email:     email,
		Username:  username,
		IsActive:  true,
		Role:      RoleUser,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// RestoreUser rebuilds a persisted user. The stored hash is trusted as-is.
func RestoreUser(u User, passwordHash string, profilePicture *string) *User {
	u.hash = passwordHash
	u.profilePicture = copyString(profilePicture)
	return &u
}

func (u *User) Validate() error {
	if err := validator.ValidateEmail(u.Email); err != nil {
		return err
	}
	if err := validator.ValidateUsername(u.Username); err != nil {
		return err
	}
	if err := validator.ValidateRequired("role", u.Role); err != nil {
		return err
	}
	if err := validator.ValidateMaxLength("role", u.Role, roleMaxLength); err != nil {
		return err
	}
	if !u.HasPassword() {
		return validator.Required("password")
	}
	return nil
}

func (u *User) ProfilePicture() *string {
	return copyString(u.profilePicture)
}

// SetProfilePicture stores a file name under /static/profile_pictures/.
// nil clears it.
func (u *User) SetProfilePicture(filename *string, now time.Time) error {
	if filename != nil {
		if err := validator.ValidateImageURL(profilePicturePrefix + *filename); err != nil {
			return validator.WithField(err, "profile_picture")
		}
	}
	u.profilePicture = copyString(filename)
	stamp := now.UTC()
	u.ProfilePictureUpdatedAt = &stamp
	return nil
}

func (u *User) ProfilePictureURL() string {
	if u.profilePicture == nil || *u.profilePicture == "" {
		return profilePicturePrefix + defaultProfilePicture
	}
	return profilePicturePrefix + *u.profilePicture
}

func (u *User) RecordLogin(now time.Time) {
	stamp := now.UTC()
	u.LastLogin = &stamp
}
