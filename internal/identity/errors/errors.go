package errors

import "errors"

var (
	ErrNotFound = errors.New("user not found")

	ErrInvalidID = errors.New("invalid user ID format")

	ErrDuplicateEmail = errors.New("email is already registered")

	ErrPendingNotFound = errors.New("pending registration not found")

	ErrTokenNotFound = errors.New("no account matches this token")
)
