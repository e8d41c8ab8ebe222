package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DisabledNoticeStore records the one-shot "account disabled" marker the
// backend client sets when it tears down a session for a disabled
// account. The marker is keyed by the torn-down session ID and carries a
// short TTL, so an unconsumed marker can never linger and resurface on an
// unrelated later login.
type DisabledNoticeStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewDisabledNoticeStore creates a marker store with the given TTL.
func NewDisabledNoticeStore(client redis.UniversalClient, ttl time.Duration) *DisabledNoticeStore {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &DisabledNoticeStore{
		client: client,
		prefix: "disabled:",
		ttl:    ttl,
	}
}

// Mark sets the marker for the given session ID.
func (s *DisabledNoticeStore) Mark(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return errors.New("session ID cannot be empty")
	}
	if err := s.client.Set(ctx, s.prefix+sessionID, "1", s.ttl).Err(); err != nil {
		return fmt.Errorf("set disabled marker: %w", err)
	}
	return nil
}

// Consume reports whether a marker was set for the session ID and clears
// it in the same operation, so the notice is shown exactly once.
func (s *DisabledNoticeStore) Consume(ctx context.Context, sessionID string) (bool, error) {
	if sessionID == "" {
		return false, nil
	}
	_, err := s.client.GetDel(ctx, s.prefix+sessionID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("consume disabled marker: %w", err)
	}
	return true, nil
}
