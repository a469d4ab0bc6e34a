package storage

import "errors"

// Store errors shared by every backend.
var (
	// ErrNotFound is returned when a requested token or run does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateKey is returned when an insert collides with an existing
	// pool key, token id/address or run id. Stores never update rows.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrInvalidInput is returned when a record fails validation before
	// reaching the backend.
	ErrInvalidInput = errors.New("invalid input")
)
