package model

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
)

// User is an account that can own loan applications and analysis history.
type User struct {
	id             int64
	email          string
	hashedPassword string
	fullName       string
	createdAt      time.Time
}

// NormalizeEmail trims and lower-cases an email address so lookups are
// case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NewUser creates a user that has not been persisted yet.
func NewUser(email, hashedPassword, fullName string, now time.Time) (User, error) {
	email = NormalizeEmail(email)
	fullName = strings.TrimSpace(fullName)
	if exceedsRunes(email, MaxEmailLength) {
		return User{}, fmt.Errorf("%w: email must be at most %d characters", ErrValidation, MaxEmailLength)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return User{}, fmt.Errorf("%w: invalid email address", ErrValidation)
	}
	if exceedsRunes(fullName, MaxNameLength) {
		return User{}, fmt.Errorf("%w: full name must be at most %d characters", ErrValidation, MaxNameLength)
	}
	if hashedPassword == "" {
		return User{}, fmt.Errorf("%w: password hash is required", ErrValidation)
	}
	return User{
		email:          email,
		hashedPassword: hashedPassword,
		fullName:       fullName,
		createdAt:      now,
	}, nil
}

// ReconstructUser rebuilds a user from persistence.
func ReconstructUser(id int64, email, hashedPassword, fullName string, createdAt time.Time) User {
	return User{
		id:             id,
		email:          email,
		hashedPassword: hashedPassword,
		fullName:       fullName,
		createdAt:      createdAt,
	}
}

func (u User) ID() int64              { return u.id }
func (u User) Email() string          { return u.email }
func (u User) HashedPassword() string { return u.hashedPassword }
func (u User) FullName() string       { return u.fullName }
func (u User) CreatedAt() time.Time   { return u.createdAt }
