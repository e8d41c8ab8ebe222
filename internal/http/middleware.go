package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"runtime/debug"
	"strings"
	"time"

	domainauth "github.com/campuskit/fyp-portal/internal/domain/auth"
	"github.com/campuskit/fyp-portal/internal/routes"
)

// SessionReader is the slice of the auth service middleware needs.
type SessionReader interface {
	GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error)
}

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			const defaultHTTPStatus = 200
			ww := &respWriter{ResponseWriter: w, status: defaultHTTPStatus}
			next.ServeHTTP(ww, r)
			logger.Info("http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// NavigationCapture returns a middleware that installs a fresh
// navigation recorder for each request, so the backend client's
// transport has somewhere to report its redirects.
func NavigationCapture() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, _ := WithNavigationRecorder(r.Context())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireSession returns a middleware that requires a valid portal
// session. Unauthenticated requests are redirected to the login page
// before any protected handler runs, carrying the attempted path so
// login can return the user there.
func RequireSession(auth SessionReader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := getSessionFromRequest(r, auth)
			if session == nil {
				redirectToLogin(w, r)
				return
			}

			ctx := SetSessionInContext(r.Context(), session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GuardOptions groups dependencies for RequireRoles.
type GuardOptions struct {
	Auth     SessionReader
	Renderer *TemplateRenderer
}

// RequireRoles returns a middleware that requires a valid session whose
// primary role is in the allow list. An empty allow list admits any
// authenticated user. A session with the wrong primary role gets the
// Access Denied page (403) showing what it has versus what the page
// needs; it is never silently bounced to another dashboard.
func RequireRoles(opts GuardOptions, allow ...domainauth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := getSessionFromRequest(r, opts.Auth)
			if session == nil {
				redirectToLogin(w, r)
				return
			}

			if !roleAllowed(session.User, allow) {
				showAccessDenied(w, accessDeniedData{
					Renderer: opts.Renderer,
					User:     session.User,
					Required: allow,
				})
				return
			}

			ctx := SetSessionInContext(r.Context(), session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalSession returns a middleware that attaches the session to the
// request context when one exists, and lets the request through either
// way. Used by the login page, which behaves differently for users who
// are already signed in.
func OptionalSession(auth SessionReader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if session := getSessionFromRequest(r, auth); session != nil {
				r = r.WithContext(SetSessionInContext(r.Context(), session))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// getSessionFromRequest retrieves and validates a session from the request.
func getSessionFromRequest(r *http.Request, auth SessionReader) *domainauth.Session {
	sessionCookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return nil
	}

	session, err := auth.GetSession(r.Context(), sessionCookie.Value)
	if err != nil {
		return nil
	}

	return session
}

// roleAllowed reports whether the user's primary role is in the allow
// list. Only the primary role counts; secondary roles never open a
// door, the same way they never pick a dashboard. An empty allow list
// means any authenticated user.
func roleAllowed(user domainauth.User, allow []domainauth.Role) bool {
	if len(allow) == 0 {
		return true
	}
	primary := user.PrimaryRole().Normalize()
	for _, role := range allow {
		if role.Normalize() == primary {
			return true
		}
	}
	return false
}

// redirectToLogin redirects the request to the login page with the
// current URL as redirect_uri, so there is no flash of protected
// content before the redirect lands.
func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	redirectPath := safeRedirectPath(r.URL.RequestURI())
	loginURL := routes.Login
	if redirectPath != "/" {
		loginURL += "?redirect_uri=" + url.QueryEscape(redirectPath)
	}
	http.Redirect(w, r, loginURL, http.StatusSeeOther)
}

// accessDeniedData groups parameters for showAccessDenied.
type accessDeniedData struct {
	Renderer *TemplateRenderer
	User     domainauth.User
	Required []domainauth.Role
}

// showAccessDenied renders the Access Denied page with the user's
// actual roles and the roles the page requires.
func showAccessDenied(w http.ResponseWriter, data accessDeniedData) {
	if data.Renderer == nil {
		http.Error(w, "Access Denied", http.StatusForbidden)
		return
	}

	required := make([]string, 0, len(data.Required))
	for _, role := range data.Required {
		required = append(required, string(role))
	}
	actual := make([]string, 0, len(data.User.Roles))
	for _, role := range data.User.Roles {
		actual = append(actual, string(role))
	}

	err := data.Renderer.RenderPageStatus(w, http.StatusForbidden, pageAccessDenied, map[string]any{
		"Title":         "Access Denied",
		"UserName":      data.User.Name,
		"ActualRoles":   strings.Join(actual, ", "),
		"RequiredRoles": strings.Join(required, ", "),
	})
	if err != nil {
		http.Error(w, "Access Denied", http.StatusForbidden)
	}
}

// safeRedirectPath ensures the provided redirect is a same-origin relative path
// starting with "/" and not an absolute URL. Returns "/" when invalid.
func safeRedirectPath(candidate string) string {
	if candidate == "" {
		return "/"
	}
	u, err := url.Parse(candidate)
	if err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") {
		return "/"
	}
	return candidate
}
