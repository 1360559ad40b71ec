package models

import "errors"

// Error kinds returned by repositories and services. Handlers use errors.Is
// to pick the HTTP status, so every failure must wrap one of these (or be
// treated as unexpected and reported as a 500 without internal detail).
var (
	// ErrNotFound means the requested product does not exist.
	ErrNotFound = errors.New("product not found")

	// ErrInvalidArgument means a business rule was violated (non-positive
	// price or quantity, negative stock, empty name).
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrStoreUnavailable means the data store rejected the operation, e.g.
	// the ID sequence could not be advanced or the connection was lost.
	ErrStoreUnavailable = errors.New("data store unavailable")
)
