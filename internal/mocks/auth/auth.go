package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	domainauth "github.com/campuskit/fyp-portal/internal/domain/auth"
	"github.com/campuskit/fyp-portal/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.SessionStore        = (*MemorySessionStore)(nil)
	_ ports.DisabledNoticeStore = (*MemoryDisabledNoticeStore)(nil)
	_ ports.Navigator           = (*RecordingNavigator)(nil)
	_ ports.IdentityProvider    = (*MockIdentityProvider)(nil)
)

// MemorySessionStore is an in-memory session store for unit tests.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]domainauth.Session

	// SaveErr / GetErr / DeleteErr force failures when set.
	SaveErr   error
	GetErr    error
	DeleteErr error
}

// NewMemorySessionStore creates a new in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]domainauth.Session),
	}
}

func (m *MemorySessionStore) Save(_ context.Context, sess domainauth.Session) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sess.ID] = sess
	return nil
}

func (m *MemorySessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	if m.GetErr != nil {
		return domainauth.Session{}, m.GetErr
	}
	if id == "" {
		return domainauth.Session{}, ErrNotFound
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[id]
	if !ok {
		return domainauth.Session{}, ErrNotFound
	}
	return sess, nil
}

func (m *MemorySessionStore) Delete(_ context.Context, id string) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	if id == "" {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// Len reports how many sessions the store holds.
func (m *MemorySessionStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// MemoryDisabledNoticeStore is an in-memory disabled-account marker
// store for unit tests.
type MemoryDisabledNoticeStore struct {
	mu      sync.Mutex
	markers map[string]bool
}

// NewMemoryDisabledNoticeStore creates an empty marker store.
func NewMemoryDisabledNoticeStore() *MemoryDisabledNoticeStore {
	return &MemoryDisabledNoticeStore{markers: make(map[string]bool)}
}

func (m *MemoryDisabledNoticeStore) Mark(_ context.Context, sessionID string) error {
	if sessionID == "" {
		return errors.New("session ID cannot be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.markers[sessionID] = true
	return nil
}

func (m *MemoryDisabledNoticeStore) Consume(_ context.Context, sessionID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := m.markers[sessionID]
	delete(m.markers, sessionID)
	return seen, nil
}

// Marked reports whether the marker is currently set, without consuming it.
func (m *MemoryDisabledNoticeStore) Marked(sessionID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.markers[sessionID]
}

// RecordingNavigator records navigation requests so tests can assert on
// the target and the number of requests.
type RecordingNavigator struct {
	mu      sync.Mutex
	targets []string
}

func (n *RecordingNavigator) Navigate(_ context.Context, target string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.targets = append(n.targets, target)
}

// Targets returns a copy of all requested navigation targets in order.
func (n *RecordingNavigator) Targets() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.targets...)
}

// MockIdentityProvider simulates an IdP for tests with deterministic
// state/nonce handling.
type MockIdentityProvider struct {
	BeginFunc    func(ctx context.Context, in ports.BeginInput) (authURL, state, nonce string, err error)
	ExchangeFunc func(ctx context.Context, in ports.ExchangeInput) (ports.Identity, error)

	// Deterministic values for predictable testing
	AuthURL         string
	StatePrefix     string
	NoncePrefix     string
	DefaultIdentity ports.Identity

	// Internal state tracking for deterministic behavior
	callCount int
}

// NewMockIdentityProvider creates a MockIdentityProvider with sensible defaults.
func NewMockIdentityProvider() *MockIdentityProvider {
	return &MockIdentityProvider{
		AuthURL:     "https://mock-idp/auth",
		StatePrefix: "state",
		NoncePrefix: "nonce",
		DefaultIdentity: ports.Identity{
			User: domainauth.User{
				ID:    1,
				Name:  "Mock User",
				Email: "mock.user@example.edu",
				Roles: []domainauth.Role{domainauth.RoleStudent},
			},
			Token:     "mock-idp-token",
			ExpiresAt: time.Now().Add(time.Hour).Unix(),
		},
	}
}

func (m *MockIdentityProvider) Begin(ctx context.Context, in ports.BeginInput) (string, string, string, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx, in)
	}

	m.callCount++
	authURL := m.AuthURL
	if authURL == "" {
		authURL = "https://mock-idp/auth"
	}

	state := fmt.Sprintf("%s-%d", m.StatePrefix, m.callCount)
	nonce := fmt.Sprintf("%s-%d", m.NoncePrefix, m.callCount)
	return authURL, state, nonce, nil
}

func (m *MockIdentityProvider) Exchange(ctx context.Context, in ports.ExchangeInput) (ports.Identity, error) {
	if m.ExchangeFunc != nil {
		return m.ExchangeFunc(ctx, in)
	}
	return m.DefaultIdentity, nil
}

// ErrNotFound aliases the port-level sentinel; in-memory stores report
// missing sessions the same way the Redis adapter does.
var ErrNotFound = ports.ErrSessionNotFound
