package web

import (
	"context"
	"sync"
	"time"
)

// MemoryStateStore keeps state tokens in process memory. Suitable for
// single-instance deployments and tests; multi-instance deployments should
// use the Redis store so callbacks can land on any instance.
type MemoryStateStore struct {
	mu     sync.Mutex
	states map[string]time.Time
}

// NewMemoryStateStore constructs an empty in-memory state store.
func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{
		states: make(map[string]time.Time),
	}
}

// Store records the state token with the given lifetime.
func (s *MemoryStateStore) Store(_ context.Context, state string, ttl time.Duration) error {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	// Opportunistic sweep keeps abandoned flows from accumulating.
	for k, exp := range s.states {
		if now.After(exp) {
			delete(s.states, k)
		}
	}
	s.states[state] = now.Add(ttl)
	return nil
}

// Consume removes the token, succeeding exactly once per stored state.
func (s *MemoryStateStore) Consume(_ context.Context, state string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.states[state]
	if !ok {
		return ErrStateNotFound
	}
	delete(s.states, state)
	if time.Now().After(exp) {
		return ErrStateNotFound
	}
	return nil
}

var _ StateStore = (*MemoryStateStore)(nil)
