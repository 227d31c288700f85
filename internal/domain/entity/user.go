package entity

import (
	"net/mail"
	"strings"
	"time"
)

const minPasswordLength = 8

// User is an API account.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Active       bool
	LastLoginAt  *time.Time
	CreatedAt    time.Time
}

// ValidateRegistration checks the inputs accepted by account registration.
func ValidateRegistration(name, email, password, confirmation string) error {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Field: "name", Message: "name is required"}
	}
	if len(name) > 255 {
		return &ValidationError{Field: "name", Message: "name is too long"}
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return &ValidationError{Field: "email", Message: "email is invalid"}
	}
	if len(password) < minPasswordLength {
		return &ValidationError{Field: "password", Message: "password must be at least 8 characters"}
	}
	if password != confirmation {
		return &ValidationError{Field: "password", Message: "password confirmation does not match"}
	}
	return nil
}
