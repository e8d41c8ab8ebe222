package redis

// Package redis provides Redis-based adapters for the portal's session
// persistence.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	domainauth "github.com/campuskit/fyp-portal/internal/domain/auth"
	"github.com/campuskit/fyp-portal/internal/ports"
)

// SessionStore is a Redis-based session store for production use.
// Each session is one JSON value under one key, so the bearer token and
// the user record are written and cleared as a unit. TTL follows the
// session's ExpiresAt.
type SessionStore struct {
	client redis.UniversalClient
	prefix string
	logger *slog.Logger
}

// NewSessionStore creates a new Redis-based session store.
func NewSessionStore(client redis.UniversalClient) *SessionStore {
	return NewSessionStoreWithPrefix(client, "session:")
}

// NewSessionStoreWithPrefix creates a Redis session store with a custom key prefix.
func NewSessionStoreWithPrefix(client redis.UniversalClient, prefix string) *SessionStore {
	return &SessionStore{
		client: client,
		prefix: prefix,
		logger: slog.Default(),
	}
}

// WithLogger overrides the logger used for corrupted-record warnings.
func (s *SessionStore) WithLogger(logger *slog.Logger) *SessionStore {
	if logger != nil {
		s.logger = logger
	}
	return s
}

func (s *SessionStore) Save(ctx context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	key := s.prefix + sess.ID
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		// Session is already expired, don't save it
		return errors.New("session is expired")
	}

	return s.client.Set(ctx, key, data, ttl).Err()
}

func (s *SessionStore) Get(ctx context.Context, id string) (domainauth.Session, error) {
	if id == "" {
		return domainauth.Session{}, ErrNotFound
	}

	key := s.prefix + id
	data, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domainauth.Session{}, ErrNotFound
		}
		return domainauth.Session{}, fmt.Errorf("redis get: %w", err)
	}

	var sess domainauth.Session
	if unmarshalErr := json.Unmarshal([]byte(data), &sess); unmarshalErr != nil {
		// A corrupted record degrades to "no session" rather than failing
		// the request; the user just has to log in again.
		s.logger.WarnContext(ctx, "discarding corrupted session record",
			"session_id", id, "error", unmarshalErr)
		if deleteErr := s.Delete(ctx, id); deleteErr != nil {
			s.logger.WarnContext(ctx, "cleanup corrupted session failed",
				"session_id", id, "error", deleteErr)
		}
		return domainauth.Session{}, ErrNotFound
	}

	// Double-check expiration (Redis TTL should handle this, but be defensive)
	if time.Now().After(sess.ExpiresAt) {
		// Clean up expired session; if cleanup fails bubble the error up.
		if deleteErr := s.Delete(ctx, id); deleteErr != nil {
			return domainauth.Session{}, fmt.Errorf("cleanup expired session: %w", deleteErr)
		}
		return domainauth.Session{}, ErrNotFound
	}

	return sess, nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil // Nothing to delete
	}

	key := s.prefix + id
	return s.client.Del(ctx, key).Err()
}

// ErrNotFound aliases the port-level sentinel so callers holding only
// the adapter can still test for it.
var ErrNotFound = ports.ErrSessionNotFound
