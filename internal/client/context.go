package client

import (
	"context"

	domainauth "github.com/campuskit/fyp-portal/internal/domain/auth"
)

// sessionKey is an unexported context key type to avoid collisions across packages.
type sessionKey struct{}

// NewContext returns a child context carrying the session whose bearer
// token the transport should attach to outgoing backend requests. The
// HTTP layer installs it once per authenticated request.
func NewContext(ctx context.Context, sess domainauth.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, sess)
}

// SessionFromContext returns the session attached to ctx, if any.
func SessionFromContext(ctx context.Context) (domainauth.Session, bool) {
	sess, ok := ctx.Value(sessionKey{}).(domainauth.Session)
	return sess, ok
}
