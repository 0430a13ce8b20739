package errors

import "errors"

var (
	ErrNotFound = errors.New("car not found")

	ErrInvalidID = errors.New("invalid car ID format")

	ErrNotOwned = errors.New("car does not belong to this owner")
)
