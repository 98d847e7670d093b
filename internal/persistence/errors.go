package persistence

import "errors"

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("persistence: not found")
	// ErrInvalidKey is returned for empty keys.
	ErrInvalidKey = errors.New("persistence: invalid key")
)
