package web

import (
	"context"
	"time"
)

// StateStore persists CSRF state tokens between the authorization redirect
// and the provider callback.
type StateStore interface {
	// Store records a state token with the given lifetime.
	Store(ctx context.Context, state string, ttl time.Duration) error

	// Consume atomically checks that the state exists and removes it.
	// Returns ErrStateNotFound if the token is absent, expired or was
	// already consumed. One-time use prevents replay.
	Consume(ctx context.Context, state string) error
}
