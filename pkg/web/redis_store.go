package web

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisStatePrefix = "omnicontacts:state:"

// RedisStateStore keeps state tokens in Redis so the authorization redirect
// and the callback may be served by different instances.
type RedisStateStore struct {
	client redis.UniversalClient
}

// NewRedisStateStore wraps an established Redis client.
func NewRedisStateStore(client redis.UniversalClient) *RedisStateStore {
	return &RedisStateStore{client: client}
}

// Store records the state token with the given lifetime via SET EX.
func (s *RedisStateStore) Store(ctx context.Context, state string, ttl time.Duration) error {
	if err := s.client.Set(ctx, redisStatePrefix+state, "1", ttl).Err(); err != nil {
		return fmt.Errorf("store state: %w", err)
	}
	return nil
}

// Consume removes the token atomically via GETDEL, so concurrent callbacks
// with the same state cannot both succeed.
func (s *RedisStateStore) Consume(ctx context.Context, state string) error {
	if err := s.client.GetDel(ctx, redisStatePrefix+state).Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrStateNotFound
		}
		return fmt.Errorf("consume state: %w", err)
	}
	return nil
}

var _ StateStore = (*RedisStateStore)(nil)
