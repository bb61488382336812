package config

import "errors"

var (
	// ErrMissingJWTSecret is returned when JWT_SECRET is not set.
	ErrMissingJWTSecret = errors.New("JWT_SECRET is required")
	// ErrMissingConnectionURI is returned when a persistent store has no CONNECTION_URI.
	ErrMissingConnectionURI = errors.New("CONNECTION_URI is required")
	// ErrUnknownStoreDriver is returned for an unsupported STORE_DRIVER value.
	ErrUnknownStoreDriver = errors.New("unknown STORE_DRIVER")
	// ErrInvalidStoreTimeout is returned when STORE_TIMEOUT is not positive.
	ErrInvalidStoreTimeout = errors.New("STORE_TIMEOUT must be positive")
)
