// Package testutil provides testing utilities and helpers for the portal.
package testutil

import (
	"time"

	domainauth "github.com/campuskit/fyp-portal/internal/domain/auth"
)

// SessionBuilder provides a fluent interface for building Session objects for testing.
type SessionBuilder struct {
	sess domainauth.Session
}

// NewSession creates a SessionBuilder with sensible defaults: an
// authenticated Student with an hour of life left.
func NewSession() *SessionBuilder {
	return &SessionBuilder{
		sess: domainauth.Session{
			ID:    "test-session",
			Token: "test-token",
			User: domainauth.User{
				ID:    1,
				Name:  "Test Student",
				Email: "student@example.edu",
				Roles: []domainauth.Role{domainauth.RoleStudent},
			},
			ExpiresAt: time.Now().Add(time.Hour),
		},
	}
}

// WithID sets the session ID.
func (b *SessionBuilder) WithID(id string) *SessionBuilder {
	b.sess.ID = id
	return b
}

// WithToken sets the bearer token.
func (b *SessionBuilder) WithToken(token string) *SessionBuilder {
	b.sess.Token = token
	return b
}

// WithUser sets the user record.
func (b *SessionBuilder) WithUser(u domainauth.User) *SessionBuilder {
	b.sess.User = u
	return b
}

// WithRoles replaces the user's role list.
func (b *SessionBuilder) WithRoles(roles ...domainauth.Role) *SessionBuilder {
	b.sess.User.Roles = roles
	return b
}

// WithExpiresAt sets the expiry.
func (b *SessionBuilder) WithExpiresAt(t time.Time) *SessionBuilder {
	b.sess.ExpiresAt = t
	return b
}

// Expired makes the session already expired.
func (b *SessionBuilder) Expired() *SessionBuilder {
	b.sess.ExpiresAt = time.Now().Add(-time.Minute)
	return b
}

// Build returns the session.
func (b *SessionBuilder) Build() domainauth.Session {
	return b.sess
}
