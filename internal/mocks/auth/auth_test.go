package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/campuskit/fyp-portal/internal/domain/auth"
	"github.com/campuskit/fyp-portal/internal/ports"
)

func sampleSession(id string) domainauth.Session {
	return domainauth.Session{
		ID:    id,
		Token: "token-" + id,
		User: domainauth.User{
			ID:    1,
			Name:  "Test Student",
			Email: "student@example.edu",
			Roles: []domainauth.Role{domainauth.RoleStudent},
		},
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func TestMemorySessionStore_SaveAndGet(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	sess := sampleSession("s1")
	require.NoError(t, store.Save(ctx, sess))

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, sess, got)
	assert.Equal(t, 1, store.Len())
}

func TestMemorySessionStore_GetMissing(t *testing.T) {
	store := NewMemorySessionStore()

	_, err := store.Get(context.Background(), "absent")
	assert.ErrorIs(t, err, ports.ErrSessionNotFound)
}

func TestMemorySessionStore_SaveRejectsEmptyID(t *testing.T) {
	store := NewMemorySessionStore()

	err := store.Save(context.Background(), domainauth.Session{})
	assert.Error(t, err)
	assert.Equal(t, 0, store.Len())
}

func TestMemorySessionStore_Delete(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, sampleSession("s1")))
	require.NoError(t, store.Delete(ctx, "s1"))

	_, err := store.Get(ctx, "s1")
	assert.ErrorIs(t, err, ports.ErrSessionNotFound)

	// Deleting an unknown or empty ID is a no-op.
	assert.NoError(t, store.Delete(ctx, "s1"))
	assert.NoError(t, store.Delete(ctx, ""))
}

func TestMemorySessionStore_ForcedErrors(t *testing.T) {
	store := NewMemorySessionStore()
	boom := errors.New("boom")
	store.SaveErr = boom
	store.GetErr = boom
	store.DeleteErr = boom
	ctx := context.Background()

	assert.ErrorIs(t, store.Save(ctx, sampleSession("s1")), boom)
	_, err := store.Get(ctx, "s1")
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, store.Delete(ctx, "s1"), boom)
}

func TestMemoryDisabledNoticeStore_MarkAndConsume(t *testing.T) {
	store := NewMemoryDisabledNoticeStore()
	ctx := context.Background()

	require.NoError(t, store.Mark(ctx, "s1"))
	assert.True(t, store.Marked("s1"))

	seen, err := store.Consume(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, seen)

	// Consume removes the marker.
	seen, err = store.Consume(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestMemoryDisabledNoticeStore_MarkRejectsEmptyID(t *testing.T) {
	store := NewMemoryDisabledNoticeStore()
	assert.Error(t, store.Mark(context.Background(), ""))
}

func TestRecordingNavigator_Targets(t *testing.T) {
	nav := &RecordingNavigator{}
	ctx := context.Background()

	nav.Navigate(ctx, "/login")
	nav.Navigate(ctx, "/student/choose-path")

	assert.Equal(t, []string{"/login", "/student/choose-path"}, nav.Targets())
}

func TestMockIdentityProvider_Begin_Defaults(t *testing.T) {
	provider := NewMockIdentityProvider()
	ctx := context.Background()

	input := ports.BeginInput{RedirectURL: "http://localhost:8080/auth/callback"}
	authURL, state, nonce, err := provider.Begin(ctx, input)

	require.NoError(t, err)
	assert.Equal(t, "https://mock-idp/auth", authURL)
	assert.Equal(t, "state-1", state)
	assert.Equal(t, "nonce-1", nonce)

	// Second call increments the deterministic counters.
	_, state2, nonce2, err := provider.Begin(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, "state-2", state2)
	assert.Equal(t, "nonce-2", nonce2)
}

func TestMockIdentityProvider_BeginFuncOverrides(t *testing.T) {
	provider := NewMockIdentityProvider()
	provider.BeginFunc = func(_ context.Context, _ ports.BeginInput) (string, string, string, error) {
		return "", "", "", errors.New("idp unreachable")
	}

	_, _, _, err := provider.Begin(context.Background(), ports.BeginInput{})
	assert.Error(t, err)
}

func TestMockIdentityProvider_Exchange_DefaultIdentity(t *testing.T) {
	provider := NewMockIdentityProvider()

	identity, err := provider.Exchange(context.Background(), ports.ExchangeInput{Code: "code-1"})
	require.NoError(t, err)
	assert.Equal(t, "Mock User", identity.User.Name)
	assert.Equal(t, "mock-idp-token", identity.Token)
	assert.Contains(t, identity.User.Roles, domainauth.RoleStudent)
}

func TestMockIdentityProvider_ExchangeFuncOverrides(t *testing.T) {
	provider := NewMockIdentityProvider()
	provider.ExchangeFunc = func(_ context.Context, in ports.ExchangeInput) (ports.Identity, error) {
		return ports.Identity{}, errors.New("code rejected: " + in.Code)
	}

	_, err := provider.Exchange(context.Background(), ports.ExchangeInput{Code: "bad"})
	assert.ErrorContains(t, err, "code rejected: bad")
}
