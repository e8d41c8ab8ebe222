package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	domainauth "github.com/campuskit/fyp-portal/internal/domain/auth"
	"github.com/campuskit/fyp-portal/internal/ports"
	"github.com/campuskit/fyp-portal/internal/routes"
	"github.com/campuskit/fyp-portal/internal/service"
)

// AuthServiceInterface defines the interface for auth service operations.
type AuthServiceInterface interface {
	Login(ctx context.Context, email, password string) (*service.LoginOutcome, error)
	BeginSSO(ctx context.Context, redirectURL string) (*service.BeginSSOResult, error)
	CompleteSSO(ctx context.Context, input service.CompleteSSOInput) (*domainauth.Session, error)
	GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error)
	Logout(ctx context.Context, sessionID string) error
	SSOEnabled() bool
}

// DashboardResolver maps an authenticated session to its landing route.
// It takes the session so the student project lookup can authenticate
// against the backend.
type DashboardResolver interface {
	Resolve(ctx context.Context, sess domainauth.Session) string
}

// AuthHandlers provides HTTP handlers for authentication operations.
type AuthHandlers struct {
	Svc          AuthServiceInterface
	Router       DashboardResolver
	Notices      ports.DisabledNoticeStore
	Renderer     *TemplateRenderer
	BaseURL      string
	CookieDomain string
	Logger       *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// loginPageData carries template data for the login page.
type loginPageData struct {
	Title       string
	UserName    string
	Message     string
	Disabled    bool
	SSOEnabled  bool
	RedirectURI string
	Email       string
}

// LoginPage renders the login form.
// GET /login?redirect_uri=<optional_redirect>.
// Users who are already signed in are sent straight to their dashboard.
// A stale session cookie left by a disabled-account teardown surfaces
// the one-shot disabled notice.
func (h *AuthHandlers) LoginPage(w http.ResponseWriter, r *http.Request) {
	if session, ok := GetUserSessionFromContext(r.Context()); ok {
		http.Redirect(w, r, h.Router.Resolve(r.Context(), *session), http.StatusSeeOther)
		return
	}

	data := loginPageData{
		Title:       "Sign in",
		SSOEnabled:  h.Svc.SSOEnabled(),
		RedirectURI: safeRedirectPath(r.URL.Query().Get("redirect_uri")),
	}

	// The interceptor tore the session down but the browser still holds
	// the old cookie; that is how we know whose notice to consume.
	if cookie, err := r.Cookie(sessionCookieName); err == nil && h.Notices != nil {
		disabled, consumeErr := h.Notices.Consume(r.Context(), cookie.Value)
		if consumeErr != nil {
			h.logger().WarnContext(r.Context(), "disabled notice lookup failed", "error", consumeErr)
		}
		if disabled {
			data.Disabled = true
			data.Message = "Your account has been disabled. Contact the FYP office."
		}
		h.clearCookie(w, r, sessionCookieName)
	}

	h.renderLogin(w, http.StatusOK, data)
}

// Login handles credential login form submissions.
// POST /login with form fields email, password, redirect_uri.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderLogin(w, http.StatusBadRequest, loginPageData{
			Title:      "Sign in",
			Message:    "Invalid form submission.",
			SSOEnabled: h.Svc.SSOEnabled(),
		})
		return
	}

	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")
	redirectURI := safeRedirectPath(r.PostFormValue("redirect_uri"))

	if email == "" || password == "" {
		h.renderLogin(w, http.StatusOK, loginPageData{
			Title:       "Sign in",
			Message:     "Email and password are required.",
			SSOEnabled:  h.Svc.SSOEnabled(),
			RedirectURI: redirectURI,
			Email:       email,
		})
		return
	}

	outcome, err := h.Svc.Login(r.Context(), email, password)
	if err != nil {
		h.logger().ErrorContext(r.Context(), "login failed", "error", err)
		h.renderLogin(w, http.StatusBadGateway, loginPageData{
			Title:       "Sign in",
			Message:     "The system is temporarily unavailable. Please try again.",
			SSOEnabled:  h.Svc.SSOEnabled(),
			RedirectURI: redirectURI,
			Email:       email,
		})
		return
	}

	if outcome.Session == nil {
		// Credential rejection: show the backend's message on the form.
		message := outcome.Result.Message
		if message == "" {
			message = "Invalid email or password."
		}
		h.renderLogin(w, http.StatusOK, loginPageData{
			Title:       "Sign in",
			Message:     message,
			SSOEnabled:  h.Svc.SSOEnabled(),
			RedirectURI: redirectURI,
			Email:       email,
		})
		return
	}

	h.setSessionCookie(w, r, *outcome.Session)

	target := redirectURI
	if target == "" || target == "/" {
		target = h.Router.Resolve(r.Context(), *outcome.Session)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// Logout handles the logout endpoint.
// POST /logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if sessionCookie, err := r.Cookie(sessionCookieName); err == nil {
		if logoutErr := h.Svc.Logout(r.Context(), sessionCookie.Value); logoutErr != nil {
			h.logger().WarnContext(r.Context(), "logout failed", "error", logoutErr)
		}
	}

	h.clearCookie(w, r, sessionCookieName)
	http.Redirect(w, r, routes.Login, http.StatusSeeOther)
}

// Status returns the current authentication status.
// GET /auth/status.
func (h *AuthHandlers) Status(w http.ResponseWriter, r *http.Request) {
	sessionCookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		WriteJSON(w, http.StatusOK, map[string]any{
			"authenticated": false,
		})
		return
	}

	session, err := h.Svc.GetSession(r.Context(), sessionCookie.Value)
	if err != nil {
		if !errors.Is(err, service.ErrNoSession) {
			// A store outage says nothing about the session; keep the
			// cookie and let the client retry.
			h.logger().ErrorContext(r.Context(), "session lookup failed", "error", err)
			WriteError(w, ErrorParams{
				Code:    http.StatusServiceUnavailable,
				ErrCode: "session_lookup_failed",
				Err:     errors.New("session status is temporarily unavailable"),
			})
			return
		}
		// Session is invalid or expired, clear the cookie
		h.clearCookie(w, r, sessionCookieName)
		WriteJSON(w, http.StatusOK, map[string]any{
			"authenticated": false,
		})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"user": map[string]any{
			"id":    session.User.ID,
			"name":  session.User.Name,
			"email": session.User.Email,
			"roles": session.User.Roles,
		},
		"expires_at": session.ExpiresAt,
	})
}

// BeginSSO starts the institutional SSO flow.
// GET /auth/sso?redirect_uri=<optional_redirect>.
func (h *AuthHandlers) BeginSSO(w http.ResponseWriter, r *http.Request) {
	if !h.Svc.SSOEnabled() {
		http.Redirect(w, r, routes.Login, http.StatusSeeOther)
		return
	}

	redirectURI := safeRedirectPath(r.URL.Query().Get("redirect_uri"))
	callbackURL := strings.TrimSuffix(h.BaseURL, "/") + "/auth/callback"

	result, err := h.Svc.BeginSSO(r.Context(), callbackURL)
	if err != nil {
		h.logger().ErrorContext(r.Context(), "begin SSO failed", "error", err)
		h.renderLogin(w, http.StatusBadGateway, loginPageData{
			Title:      "Sign in",
			Message:    "Single sign-on is temporarily unavailable. Please try again.",
			SSOEnabled: true,
		})
		return
	}

	h.setOAuthCookies(w, r, oauthCookieParams{State: result.State, Nonce: result.Nonce, RedirectURI: redirectURI})
	http.Redirect(w, r, result.AuthURL, http.StatusFound)
}

// SSOCallback completes the institutional SSO flow.
// GET /auth/callback?code=<code>&state=<state>.
func (h *AuthHandlers) SSOCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")
	if code == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "missing_code",
			Err:     errors.New("authorization code is required"),
		})
		return
	}
	if state == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "missing_state",
			Err:     errors.New("state parameter is required"),
		})
		return
	}

	stateCookie, err := r.Cookie(oauthStateCookie)
	if err != nil || stateCookie.Value != state {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_state",
			Err:     errors.New("invalid or missing state parameter"),
		})
		return
	}
	nonceCookie, err := r.Cookie(oauthNonceCookie)
	if err != nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "missing_nonce",
			Err:     errors.New("missing nonce parameter"),
		})
		return
	}

	session, err := h.Svc.CompleteSSO(r.Context(), service.CompleteSSOInput{
		Code:  code,
		State: state,
		Nonce: nonceCookie.Value,
	})
	if err != nil {
		h.logger().ErrorContext(r.Context(), "SSO completion failed", "error", err)
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: "login_completion_failed",
			Err:     errors.New("login could not be completed"),
		})
		return
	}

	h.setSessionCookie(w, r, *session)
	h.clearCookie(w, r, oauthStateCookie)
	h.clearCookie(w, r, oauthNonceCookie)

	target := h.getPostLoginRedirect(w, r)
	if target == "" || target == "/" {
		target = h.Router.Resolve(r.Context(), *session)
	}
	http.Redirect(w, r, target, http.StatusFound)
}

func (h *AuthHandlers) renderLogin(w http.ResponseWriter, code int, data loginPageData) {
	if err := h.Renderer.RenderPageStatus(w, code, pageLogin, data); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// clearCookie clears a cookie by setting it to expire immediately.
// It mirrors key attributes (Secure, Path, Domain, SameSite) used when setting cookies
// to maximize compatibility across browsers during deletion.
func (h *AuthHandlers) clearCookie(w http.ResponseWriter, r *http.Request, name string) {
	isSecure := r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   isSecure,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		SameSite: http.SameSiteLaxMode,
	})
}

// oauthCookieParams groups values needed to set OAuth cookies.
type oauthCookieParams struct {
	State       string
	Nonce       string
	RedirectURI string
}

// setOAuthCookies stores OAuth state, nonce, and the post-login redirect in secure cookies.
func (h *AuthHandlers) setOAuthCookies(w http.ResponseWriter, r *http.Request, p oauthCookieParams) {
	isSecure := r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")

	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    p.State,
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   isSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   600, // 10 minutes
	})

	http.SetCookie(w, &http.Cookie{
		Name:     oauthNonceCookie,
		Value:    p.Nonce,
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   isSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   600, // 10 minutes
	})

	http.SetCookie(w, &http.Cookie{
		Name:     redirectCookie,
		Value:    p.RedirectURI,
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   isSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   600, // 10 minutes
	})
}

// setSessionCookie writes the session cookie based on the session's expiry.
func (h *AuthHandlers) setSessionCookie(w http.ResponseWriter, r *http.Request, s domainauth.Session) {
	isSecure := r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    s.ID,
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   isSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(time.Until(s.ExpiresAt).Seconds()),
	})
}

// getPostLoginRedirect returns the post-login redirect URL and clears the cookie.
func (h *AuthHandlers) getPostLoginRedirect(w http.ResponseWriter, r *http.Request) string {
	redirectURI := "/"
	if cookie, err := r.Cookie(redirectCookie); err == nil {
		candidate := cookie.Value
		// Defensive re-validation: allow only relative paths
		u, parseErr := url.Parse(candidate)
		if parseErr == nil && !u.IsAbs() && u.Host == "" && strings.HasPrefix(u.Path, "/") {
			redirectURI = candidate
		}
		h.clearCookie(w, r, redirectCookie)
	}
	return redirectURI
}
