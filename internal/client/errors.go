package client

import (
	"errors"
	"fmt"
)

// ErrSessionExpired is returned when the backend rejects the session's
// bearer token (HTTP 401). By the time a caller sees it, the interceptor
// has already cleared the session and requested navigation to the login
// page; the error exists so the caller's own handling still fires.
var ErrSessionExpired = errors.New("session expired")

// AccountDisabledError is returned when the backend rejects a request
// with 403 and a disabled-account flag. This is distinct from an
// ordinary 403 (insufficient permission for one action), which surfaces
// as a plain APIError.
type AccountDisabledError struct {
	Message string
}

func (e *AccountDisabledError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "account disabled"
}

// IsAccountDisabled reports whether err marks a disabled account.
func IsAccountDisabled(err error) bool {
	var disabled *AccountDisabledError
	return errors.As(err, &disabled)
}

// APIError is a non-2xx backend response, or a 2xx response whose body
// reports success=false. Transport failures (timeout, refused
// connection) are NOT APIErrors; they surface as wrapped url.Error
// values from the underlying client.
type APIError struct {
	Status  int    // HTTP status; 0 for a 2xx body-level rejection
	Code    string // machine-readable code when the backend sends one
	Message string
}

func (e *APIError) Error() string {
	switch {
	case e.Message != "" && e.Status != 0:
		return fmt.Sprintf("backend: %s (status %d)", e.Message, e.Status)
	case e.Message != "":
		return fmt.Sprintf("backend: %s", e.Message)
	default:
		return fmt.Sprintf("backend: request failed (status %d)", e.Status)
	}
}
