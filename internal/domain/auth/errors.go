package auth

import "errors"

var (
	ErrInvalidCredentials    = errors.New("Invalid credentials")
	ErrAccountDisabled       = errors.New("Your account has been deactivated")
	ErrInvalidToken          = errors.New("Invalid token")
	ErrTokenInvalidOrExpired = errors.New("Invalid or expired token")
)
