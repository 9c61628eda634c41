package owner

import "errors"

// Domain errors for the owner package.
var (
	// ErrNotFound is returned when no owner record matches the given id.
	ErrNotFound = errors.New("owner: not found")

	// ErrInvalidName is returned when an owner name is empty.
	ErrInvalidName = errors.New("owner: invalid name")
)
