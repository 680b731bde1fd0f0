// Package sentinel holds shared sentinel errors used by stores and services.
// Stores return these so callers can branch with errors.Is without importing
// store-specific error types.
package sentinel

import "errors"

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyUsed indicates a uniqueness constraint was violated
	// (e.g. registering with an email that already has an account).
	ErrAlreadyUsed = errors.New("already used")

	// ErrInvalidState indicates an operation was attempted against a record
	// whose current state does not permit it.
	ErrInvalidState = errors.New("invalid state")
)
