package note

import "errors"

// Backend-neutral error vocabulary. Repository implementations map their
// substrate failures onto these sentinels; callers check with errors.Is.
var (
	// ErrUnauthorized signals an expired or invalid credential. It is the
	// only error the auth retry decorator is allowed to resolve.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound signals an absent entity. Never retried.
	ErrNotFound = errors.New("not found")

	// ErrTransport signals a network or server-side (5xx) failure.
	ErrTransport = errors.New("transport failure")

	// ErrConflict is reserved for concurrent-edit detection.
	ErrConflict = errors.New("conflict")

	// ErrValidation signals input rejected before any network call.
	ErrValidation = errors.New("validation failure")
)
