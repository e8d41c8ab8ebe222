package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/campuskit/fyp-portal/internal/client"
	domainauth "github.com/campuskit/fyp-portal/internal/domain/auth"
	"github.com/campuskit/fyp-portal/internal/ports"
)

// CredentialAuthenticator is the slice of the backend client the auth
// service needs for password logins.
type CredentialAuthenticator interface {
	Login(ctx context.Context, email, password string) (client.LoginResult, error)
}

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Backend  CredentialAuthenticator
	Sessions ports.SessionStore

	// Provider enables the SSO flow; nil when AUTH_MODE=password.
	Provider ports.IdentityProvider

	// SessionTTL bounds every portal session.
	SessionTTL time.Duration
}

// AuthService is the single source of truth for "am I logged in, as
// whom". It orchestrates credential (or SSO) authentication against the
// backend and session persistence; everything else reads sessions
// through it.
type AuthService struct {
	backend    CredentialAuthenticator
	sessions   ports.SessionStore
	provider   ports.IdentityProvider
	sessionTTL time.Duration
}

// ErrNoSession is returned by GetSession when the ID resolves to
// nothing usable: missing, expired, or half-formed. Callers treat it as
// "not logged in", never as a failure.
var ErrNoSession = errors.New("no active session")

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	ttl := opts.SessionTTL
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &AuthService{
		backend:    opts.Backend,
		sessions:   opts.Sessions,
		provider:   opts.Provider,
		sessionTTL: ttl,
	}
}

// LoginOutcome is the result of a credential login attempt.
// Rejected credentials are a business outcome (Session == nil and
// Result.Message says why), not an error; errors mean the backend was
// unreachable or broken.
type LoginOutcome struct {
	Result  client.LoginResult
	Session *domainauth.Session
}

// Login authenticates credentials against the backend and, on success,
// persists a session. The token and the user are written in one Save;
// there is no intermediate state where only one of them exists.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginOutcome, error) {
	result, err := s.backend.Login(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("backend login: %w", err)
	}

	if !result.Success || result.Token == "" {
		// Credential rejection: pass the backend's answer through.
		return &LoginOutcome{Result: result}, nil
	}

	if result.User.ID == 0 {
		// A token without a user can never form a session (they travel
		// together or not at all). Treat it as backend breakage.
		return nil, errors.New("backend login returned a token without a user")
	}

	session := domainauth.Session{
		ID:        generateSessionID(),
		Token:     result.Token,
		User:      result.User,
		ExpiresAt: time.Now().Add(s.sessionTTL),
	}

	if saveErr := s.sessions.Save(ctx, session); saveErr != nil {
		return nil, fmt.Errorf("save session: %w", saveErr)
	}

	return &LoginOutcome{Result: result, Session: &session}, nil
}

// BeginSSOResult contains the redirect data for starting an SSO flow.
type BeginSSOResult struct {
	AuthURL string
	State   string
	Nonce   string
}

// BeginSSO initiates the SSO flow. Only valid when an identity provider
// is configured.
func (s *AuthService) BeginSSO(ctx context.Context, redirectURL string) (*BeginSSOResult, error) {
	if s.provider == nil {
		return nil, errors.New("SSO is not configured")
	}
	if redirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}

	authURL, state, nonce, err := s.provider.Begin(ctx, ports.BeginInput{RedirectURL: redirectURL})
	if err != nil {
		return nil, fmt.Errorf("begin SSO flow: %w", err)
	}

	return &BeginSSOResult{AuthURL: authURL, State: state, Nonce: nonce}, nil
}

// CompleteSSOInput groups parameters for completing an SSO flow.
type CompleteSSOInput struct {
	Code  string
	State string
	Nonce string
}

// CompleteSSO exchanges the authorization code for an identity and
// persists a session, exactly like a successful credential login.
func (s *AuthService) CompleteSSO(ctx context.Context, input CompleteSSOInput) (*domainauth.Session, error) {
	if s.provider == nil {
		return nil, errors.New("SSO is not configured")
	}
	if input.Code == "" {
		return nil, errors.New("authorization code is required")
	}
	if input.State == "" {
		return nil, errors.New("state parameter is required")
	}
	if input.Nonce == "" {
		return nil, errors.New("nonce parameter is required")
	}

	identity, err := s.provider.Exchange(ctx, ports.ExchangeInput(input))
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}
	if identity.Token == "" || identity.User.ID == 0 {
		return nil, errors.New("identity provider returned an incomplete identity")
	}

	expiresAt := time.Now().Add(s.sessionTTL)
	if identity.ExpiresAt > 0 {
		if idpExpiry := time.Unix(identity.ExpiresAt, 0); idpExpiry.Before(expiresAt) {
			expiresAt = idpExpiry
		}
	}

	session := domainauth.Session{
		ID:        generateSessionID(),
		Token:     identity.Token,
		User:      identity.User,
		ExpiresAt: expiresAt,
	}

	if saveErr := s.sessions.Save(ctx, session); saveErr != nil {
		return nil, fmt.Errorf("save session: %w", saveErr)
	}

	return &session, nil
}

// GetSession retrieves a session by ID. Expired or half-formed records
// (a token without a user, or the reverse) read as "no session".
func (s *AuthService) GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	if sessionID == "" {
		return nil, errors.New("session ID is required")
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ports.ErrSessionNotFound) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	if time.Now().After(session.ExpiresAt) {
		if deleteErr := s.sessions.Delete(ctx, sessionID); deleteErr != nil {
			return nil, fmt.Errorf("delete expired session: %w", deleteErr)
		}
		return nil, ErrNoSession
	}

	if !session.IsAuthenticated() {
		// Never report a partial session as authenticated; clear it.
		if deleteErr := s.sessions.Delete(ctx, sessionID); deleteErr != nil {
			return nil, fmt.Errorf("delete partial session: %w", deleteErr)
		}
		return nil, ErrNoSession
	}

	return &session, nil
}

// Logout removes a session. Logging out twice, or with no session at
// all, is a no-op.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil // Nothing to logout
	}

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	return nil
}

// SSOEnabled reports whether the SSO flow is available.
func (s *AuthService) SSOEnabled() bool { return s.provider != nil }

// generateSessionID creates a cryptographically secure random session ID.
func generateSessionID() string {
	// Use UUID for session ID - it's URL-safe and has good entropy
	id := uuid.New()
	return id.String()
}
