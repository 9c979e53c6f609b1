package web

import "errors"

var (
	// ErrUnknownProvider is returned when a request names a provider no
	// adapter was registered for.
	ErrUnknownProvider = errors.New("unknown provider")

	// ErrStateNotFound is returned when a callback carries a state token
	// that was never issued, already consumed, or expired.
	ErrStateNotFound = errors.New("state not found or expired")
)
