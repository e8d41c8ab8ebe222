package ports

// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"
	"errors"

	domainauth "github.com/campuskit/fyp-portal/internal/domain/auth"
)

// ErrSessionNotFound is returned by SessionStore.Get when no session
// exists under the given ID. Corrupted or already-expired records read
// as not found too.
var ErrSessionNotFound = errors.New("session not found")

// SessionStore persists and retrieves portal sessions.
// A session record carries the bearer token and the user together; a
// store must write and clear them as one unit.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}

// DisabledNoticeStore holds the one-shot "account disabled" marker set
// when the backend rejects a session with a disabled flag. Consume
// returns whether the marker was present and removes it, so the notice
// is shown at most once.
type DisabledNoticeStore interface {
	Mark(ctx context.Context, sessionID string) error
	Consume(ctx context.Context, sessionID string) (bool, error)
}

// Navigator receives navigation requests from cross-cutting layers (the
// backend client's transport) instead of those layers forcing a redirect
// themselves. The HTTP layer turns requests into real redirects; tests
// substitute a recorder.
type Navigator interface {
	Navigate(ctx context.Context, target string)
}

// BeginInput carries inputs for initiating an SSO auth flow.
type BeginInput struct {
	RedirectURL string
}

// ExchangeInput groups parameters for the code/token exchange.
type ExchangeInput struct {
	Code  string
	State string
	Nonce string
}

// Identity is the authenticated principal an identity provider returns,
// together with the bearer token the backend will accept.
type Identity struct {
	User      domainauth.User
	Token     string
	ExpiresAt int64 // unix seconds; zero means "use the portal session TTL"
}

// IdentityProvider initiates and completes an SSO authentication flow
// against the institution's IdP. Used only when AUTH_MODE=oidc; password
// logins go straight to the backend.
type IdentityProvider interface {
	// Begin starts the login flow and returns the provider auth URL, an opaque state, and a nonce.
	Begin(ctx context.Context, in BeginInput) (authURL, state, nonce string, err error)

	// Exchange completes the login flow, verifying state and nonce, and returns the authenticated identity.
	Exchange(ctx context.Context, in ExchangeInput) (Identity, error)
}
