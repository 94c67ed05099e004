package auth

import "errors"

var (
	// ErrInvalidEmail indicates the submitted email failed format validation.
	ErrInvalidEmail = errors.New("auth: invalid email")

	// ErrEmailNotRegistered indicates no code was ever requested for the email.
	ErrEmailNotRegistered = errors.New("auth: no code requested for email")

	// ErrCodeMismatch indicates the submitted code does not equal the stored one.
	ErrCodeMismatch = errors.New("auth: code mismatch")

	// ErrUserNotFound indicates no user record matches the verified email.
	ErrUserNotFound = errors.New("auth: user not found")

	// ErrInvalidToken indicates a token that failed signature, expiry, or
	// type checks.
	ErrInvalidToken = errors.New("auth: invalid token")
)
