package auth

import "errors"

var (
	// ErrInvalidCredentials is returned by Login for an unknown email or a wrong password.
	ErrInvalidCredentials = errors.New("the provided credentials are incorrect")

	// ErrInactiveUser is returned by Login for a deactivated account.
	ErrInactiveUser = errors.New("account is deactivated")

	// ErrEmailTaken is returned by Register when the email is already registered.
	ErrEmailTaken = errors.New("the email has already been taken")

	// ErrInvalidToken covers malformed, expired, revoked or foreign bearer tokens.
	ErrInvalidToken = errors.New("invalid token")

	// ErrUserNotFound is returned when a token refers to a user that no longer exists.
	ErrUserNotFound = errors.New("user not found")

	// ErrMissingSecret is returned by NewService when no signing secret is configured.
	ErrMissingSecret = errors.New("jwt secret is not configured")
)
