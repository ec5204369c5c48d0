package user

import "errors"

var (
	ErrUserNotFound     = errors.New("User not found")
	ErrEmailExists      = errors.New("Email already registered")
	ErrEmployeeIDExists = errors.New("Employee ID already registered")
)
