package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/campuskit/fyp-portal/internal/ports"
	"github.com/campuskit/fyp-portal/internal/routes"
)

// maxRejectionBody bounds how much of an error response the transport
// will buffer while looking for the disabled-account flag.
const maxRejectionBody = 64 << 10

// authTransport is the interceptor pipeline around every backend call.
//
// Request phase: if the request context carries a session, set
// Authorization: Bearer <token>; nothing else is touched. Without a
// session the request goes out unauthenticated and the backend decides
// whether that is acceptable.
//
// Response phase (error statuses only; success passes through):
//   - 401: the session is dead server-side. Clear it and request
//     navigation to the login page. The response still reaches the
//     caller so its own error handling runs.
//   - 403 with a disabled flag in the body: clear the session, set the
//     one-shot disabled marker, request navigation. Ordinary 403s pass
//     through untouched.
type authTransport struct {
	base     http.RoundTripper
	sessions ports.SessionStore
	notices  ports.DisabledNoticeStore
	nav      ports.Navigator
	logger   *slog.Logger
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	sess, hasSession := SessionFromContext(req.Context())
	if hasSession && sess.Token != "" {
		req = req.Clone(req.Context())
		req.Header.Set("Authorization", "Bearer "+sess.Token)
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		t.expireSession(req.Context(), sess.ID, hasSession)
	case http.StatusForbidden:
		if disabledFlagged(resp) {
			t.disableAccount(req.Context(), sess.ID, hasSession)
		}
	}

	return resp, nil
}

// expireSession tears down the current session and sends the user back
// to login. Clearing is token+user in one delete; there is no state
// where only half survives.
func (t *authTransport) expireSession(ctx context.Context, sessionID string, hasSession bool) {
	if hasSession && sessionID != "" {
		if err := t.sessions.Delete(ctx, sessionID); err != nil {
			t.logger.WarnContext(ctx, "clear session after 401 failed",
				"session_id", sessionID, "error", err)
		}
	}
	t.nav.Navigate(ctx, routes.Login)
}

func (t *authTransport) disableAccount(ctx context.Context, sessionID string, hasSession bool) {
	if hasSession && sessionID != "" {
		if err := t.sessions.Delete(ctx, sessionID); err != nil {
			t.logger.WarnContext(ctx, "clear session for disabled account failed",
				"session_id", sessionID, "error", err)
		}
		if err := t.notices.Mark(ctx, sessionID); err != nil {
			t.logger.WarnContext(ctx, "set disabled-account marker failed",
				"session_id", sessionID, "error", err)
		}
	}
	t.nav.Navigate(ctx, routes.Login)
}

// disabledFlagged peeks at a 403 body for a truthy "disabled" flag and
// rebuffers the body so downstream decoding still sees it.
func disabledFlagged(resp *http.Response) bool {
	if resp.Body == nil {
		return false
	}

	buf, err := io.ReadAll(io.LimitReader(resp.Body, maxRejectionBody))
	_ = resp.Body.Close()
	resp.Body = io.NopCloser(bytes.NewReader(buf))
	if err != nil {
		return false
	}

	var body struct {
		Disabled bool `json:"disabled"`
	}
	if jsonErr := json.Unmarshal(buf, &body); jsonErr != nil {
		return false
	}
	return body.Disabled
}
