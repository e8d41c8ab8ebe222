package client

import (
	"context"
	"errors"

	domainauth "github.com/campuskit/fyp-portal/internal/domain/auth"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult is the backend's answer to a credential login. A rejected
// credential is a normal result with Success=false, never an error;
// errors are reserved for transport failures and backend breakage (5xx).
type LoginResult struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Token   string          `json:"token"`
	User    domainauth.User `json:"user"`
}

// Login POSTs credentials to the backend.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	var res LoginResult
	err := c.post(ctx, "/api/auth/login", loginRequest{Email: email, Password: password}, &res)
	if err == nil {
		return res, nil
	}

	// The backend reports bad credentials as a 4xx; fold that back into
	// a business-level rejection so callers have exactly one shape to
	// handle.
	var apiErr *APIError
	switch {
	case errors.Is(err, ErrSessionExpired):
		return LoginResult{Message: "Invalid email or password."}, nil
	case errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500:
		msg := apiErr.Message
		if msg == "" {
			msg = "Invalid email or password."
		}
		return LoginResult{Message: msg}, nil
	}

	return LoginResult{}, err
}
