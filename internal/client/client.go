package client

// Package client is the portal's typed HTTP client for the FYP backend
// REST API. All backend traffic flows through one configured client:
// fixed base URL, fixed timeout, JSON in and out, and an interceptor
// transport that enforces the session contract (see transport.go).
//
// Backend responses use a success-flag envelope. The envelope is decoded
// exactly once here; callers only ever see typed values or typed errors,
// never a half-interpreted response shape.

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/campuskit/fyp-portal/internal/ports"
)

// Config holds everything the client needs at construction time.
type Config struct {
	// BaseURL is the backend API root, without a trailing slash.
	BaseURL string

	// Timeout is the fixed per-request timeout.
	Timeout time.Duration

	// UserAgent identifies the portal to the backend.
	UserAgent string

	// Sessions is cleared by the interceptor on 401 / disabled-account
	// responses.
	Sessions ports.SessionStore

	// Notices receives the one-shot disabled-account marker.
	Notices ports.DisabledNoticeStore

	// Navigator receives the forced navigation to the login route.
	Navigator ports.Navigator

	// Base is the underlying round tripper. Optional; defaults to
	// http.DefaultTransport. Tests substitute httptest servers instead.
	Base http.RoundTripper

	Logger *slog.Logger
}

// Client is the configured backend API client. One instance is shared by
// every service and handler; it is safe for concurrent use.
type Client struct {
	baseURL   string
	userAgent string
	hc        *http.Client
	logger    *slog.Logger
}

// New builds a Client with the interceptor transport installed.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("backend base URL is required")
	}
	if cfg.Sessions == nil {
		return nil, errors.New("session store is required")
	}
	if cfg.Notices == nil {
		return nil, errors.New("disabled-notice store is required")
	}
	if cfg.Navigator == nil {
		return nil, errors.New("navigator is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	base := cfg.Base
	if base == nil {
		base = http.DefaultTransport
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "fyp-portal"
	}

	return &Client{
		baseURL:   cfg.BaseURL,
		userAgent: userAgent,
		logger:    logger,
		hc: &http.Client{
			Timeout: timeout,
			Transport: &authTransport{
				base:     base,
				sessions: cfg.Sessions,
				notices:  cfg.Notices,
				nav:      cfg.Navigator,
				logger:   logger,
			},
		},
	}, nil
}

// envelope is the backend's standard response wrapper.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// text returns whichever human-readable field the backend populated.
func (e envelope) text() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}

// rejected converts a 2xx success=false envelope into a typed error.
func (e envelope) rejected() error {
	return &APIError{Message: e.text()}
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

// do performs one backend call: build the request, send it through the
// interceptor transport, map error statuses to the client's error
// taxonomy, and decode the JSON body into out.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		// Transport-level failure (timeout, refused, DNS). No central
		// handling; the caller decides how to present it.
		return fmt.Errorf("backend %s %s: %w", method, path, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxRejectionBody))
		_ = resp.Body.Close()
	}()

	if statusErr := c.statusError(resp); statusErr != nil {
		return statusErr
	}

	if out == nil {
		return nil
	}
	if decodeErr := json.NewDecoder(resp.Body).Decode(out); decodeErr != nil {
		return fmt.Errorf("decode backend response: %w", decodeErr)
	}
	return nil
}

// statusError maps non-2xx statuses to the error taxonomy. The
// interceptor has already performed its side effects by the time this
// runs; here we only decide what the caller sees.
func (c *Client) statusError(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	rej := decodeRejection(resp.Body)

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return ErrSessionExpired
	case http.StatusForbidden:
		if rej.Disabled {
			msg := rej.text()
			if msg == "" {
				msg = "Your account has been disabled. Contact the FYP office."
			}
			return &AccountDisabledError{Message: msg}
		}
		return &APIError{Status: resp.StatusCode, Code: "forbidden", Message: rej.text()}
	default:
		return &APIError{Status: resp.StatusCode, Message: rej.text()}
	}
}

// rejection is the envelope plus the disabled-account flag that only
// appears on rejections.
type rejection struct {
	envelope
	Disabled bool `json:"disabled"`
}

func decodeRejection(body io.Reader) rejection {
	var rej rejection
	// A rejection body that fails to parse is still a rejection; the
	// status code alone carries the decision.
	_ = json.NewDecoder(io.LimitReader(body, maxRejectionBody)).Decode(&rej)
	return rej
}
