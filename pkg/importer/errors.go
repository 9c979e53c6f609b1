package importer

import "errors"

// Flow errors. All four import-fatal kinds abort the run; none is retried
// automatically; a fresh authorization cycle is required after a failure.
var (
	// ErrAuthorizationDenied is returned when the provider redirects back
	// with an error instead of an authorization code.
	ErrAuthorizationDenied = errors.New("authorization denied by provider")

	// ErrTokenExchangeFailed is returned when the authorization code cannot
	// be exchanged for an access token (expired code, client misconfiguration).
	ErrTokenExchangeFailed = errors.New("token exchange failed")

	// ErrInvalidTransition is returned when a flow operation is invoked
	// from a state it cannot proceed from.
	ErrInvalidTransition = errors.New("invalid flow state transition")
)

// Provider call errors.
var (
	// ErrTransportFailure covers network errors, timeouts and non-2xx
	// responses from any provider call. It is propagated unchanged; the
	// pipeline never downgrades it into a partial result.
	ErrTransportFailure = errors.New("transport failure")

	// ErrMalformedResponse is returned when a provider body is not valid
	// JSON or lacks a top-level container the adapter strictly requires.
	// Guessing at structure risks silent data loss, so this is fatal.
	ErrMalformedResponse = errors.New("malformed provider response")
)
