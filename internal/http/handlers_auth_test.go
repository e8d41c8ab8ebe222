package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/campuskit/fyp-portal/internal/domain/auth"
	mocks "github.com/campuskit/fyp-portal/internal/mocks/auth"
	"github.com/campuskit/fyp-portal/internal/routes"
	"github.com/campuskit/fyp-portal/internal/service"
)

// fakeAuthService is a func-based double for AuthServiceInterface.
type fakeAuthService struct {
	loginFunc       func(ctx context.Context, email, password string) (*service.LoginOutcome, error)
	beginSSOFunc    func(ctx context.Context, redirectURL string) (*service.BeginSSOResult, error)
	completeSSOFunc func(ctx context.Context, input service.CompleteSSOInput) (*domainauth.Session, error)
	getSessionFunc  func(ctx context.Context, sessionID string) (*domainauth.Session, error)
	logoutFunc      func(ctx context.Context, sessionID string) error
	ssoEnabled      bool
}

func (f *fakeAuthService) Login(ctx context.Context, email, password string) (*service.LoginOutcome, error) {
	if f.loginFunc != nil {
		return f.loginFunc(ctx, email, password)
	}
	return &service.LoginOutcome{}, nil
}

func (f *fakeAuthService) BeginSSO(ctx context.Context, redirectURL string) (*service.BeginSSOResult, error) {
	if f.beginSSOFunc != nil {
		return f.beginSSOFunc(ctx, redirectURL)
	}
	return nil, errors.New("SSO is not configured")
}

func (f *fakeAuthService) CompleteSSO(ctx context.Context, input service.CompleteSSOInput) (*domainauth.Session, error) {
	if f.completeSSOFunc != nil {
		return f.completeSSOFunc(ctx, input)
	}
	return nil, errors.New("SSO is not configured")
}

func (f *fakeAuthService) GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	if f.getSessionFunc != nil {
		return f.getSessionFunc(ctx, sessionID)
	}
	return nil, service.ErrNoSession
}

func (f *fakeAuthService) Logout(ctx context.Context, sessionID string) error {
	if f.logoutFunc != nil {
		return f.logoutFunc(ctx, sessionID)
	}
	return nil
}

func (f *fakeAuthService) SSOEnabled() bool { return f.ssoEnabled }

// staticResolver always resolves to one route.
type staticResolver struct{ route string }

func (s staticResolver) Resolve(_ context.Context, _ domainauth.Session) string {
	if s.route == "" {
		return routes.SupervisorDashboard
	}
	return s.route
}

func newAuthHandlers(svc *fakeAuthService) *AuthHandlers {
	return &AuthHandlers{
		Svc:     svc,
		Router:  staticResolver{},
		Notices: mocks.NewMemoryDisabledNoticeStore(),
		BaseURL: "http://localhost:8080",
	}
}

func TestLoginPage_RendersForm(t *testing.T) {
	h := newAuthHandlers(&fakeAuthService{ssoEnabled: true})
	h.Renderer = newTestRenderer(t)

	req := httptest.NewRequest(http.MethodGet, routes.Login, nil)
	rr := httptest.NewRecorder()

	h.LoginPage(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "sso:true")
}

func TestLoginPage_AlreadyAuthenticatedRedirects(t *testing.T) {
	h := newAuthHandlers(&fakeAuthService{})
	h.Renderer = newTestRenderer(t)

	session := testSession(domainauth.RoleSupervisor)
	req := httptest.NewRequest(http.MethodGet, routes.Login, nil)
	req = req.WithContext(SetSessionInContext(req.Context(), session))
	rr := httptest.NewRecorder()

	h.LoginPage(rr, req)

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, routes.SupervisorDashboard, rr.Header().Get("Location"))
}

func TestLoginPage_ConsumesDisabledNotice(t *testing.T) {
	notices := mocks.NewMemoryDisabledNoticeStore()
	require.NoError(t, notices.Mark(context.Background(), "torn-down-session"))

	h := newAuthHandlers(&fakeAuthService{})
	h.Renderer = newTestRenderer(t)
	h.Notices = notices

	req := httptest.NewRequest(http.MethodGet, routes.Login, nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "torn-down-session"})
	rr := httptest.NewRecorder()

	h.LoginPage(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "account has been disabled")
	assert.False(t, notices.Marked("torn-down-session"), "notice is one-shot")

	// The stale cookie gets cleared.
	var cleared bool
	for _, c := range rr.Result().Cookies() {
		if c.Name == "session_id" && c.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared)
}

func TestLoginPage_SecondVisitShowsNoNotice(t *testing.T) {
	notices := mocks.NewMemoryDisabledNoticeStore()
	require.NoError(t, notices.Mark(context.Background(), "torn-down-session"))

	h := newAuthHandlers(&fakeAuthService{})
	h.Renderer = newTestRenderer(t)
	h.Notices = notices

	for i, wantNotice := range []bool{true, false} {
		req := httptest.NewRequest(http.MethodGet, routes.Login, nil)
		req.AddCookie(&http.Cookie{Name: "session_id", Value: "torn-down-session"})
		rr := httptest.NewRecorder()

		h.LoginPage(rr, req)

		got := strings.Contains(rr.Body.String(), "disabled")
		assert.Equal(t, wantNotice, got, "visit %d", i+1)
	}
}

func postLoginForm(values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, routes.Login, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestLogin_MissingFields(t *testing.T) {
	h := newAuthHandlers(&fakeAuthService{})
	h.Renderer = newTestRenderer(t)

	rr := httptest.NewRecorder()
	h.Login(rr, postLoginForm(url.Values{"email": {"a@example.edu"}}))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Email and password are required.")
}

func TestLogin_BackendUnavailable(t *testing.T) {
	svc := &fakeAuthService{
		loginFunc: func(_ context.Context, _, _ string) (*service.LoginOutcome, error) {
			return nil, errors.New("dial tcp: refused")
		},
	}
	h := newAuthHandlers(svc)
	h.Renderer = newTestRenderer(t)

	rr := httptest.NewRecorder()
	h.Login(rr, postLoginForm(url.Values{
		"email":    {"a@example.edu"},
		"password": {"secret"},
	}))

	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.Contains(t, rr.Body.String(), "temporarily unavailable")
}

func TestLogin_CredentialRejectionShowsBackendMessage(t *testing.T) {
	svc := &fakeAuthService{
		loginFunc: func(_ context.Context, _, _ string) (*service.LoginOutcome, error) {
			return &service.LoginOutcome{}, nil
		},
	}
	h := newAuthHandlers(svc)
	h.Renderer = newTestRenderer(t)

	rr := httptest.NewRecorder()
	h.Login(rr, postLoginForm(url.Values{
		"email":    {"a@example.edu"},
		"password": {"wrong"},
	}))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Invalid email or password.")
	assert.Empty(t, rr.Header().Get("Set-Cookie"), "no session cookie on rejection")
}

func TestLogin_SuccessSetsCookieAndRedirects(t *testing.T) {
	session := testSession(domainauth.RoleSupervisor)
	svc := &fakeAuthService{
		loginFunc: func(_ context.Context, email, password string) (*service.LoginOutcome, error) {
			assert.Equal(t, "a@example.edu", email)
			assert.Equal(t, "secret", password)
			return &service.LoginOutcome{Session: session}, nil
		},
	}
	h := newAuthHandlers(svc)
	h.Renderer = newTestRenderer(t)

	rr := httptest.NewRecorder()
	h.Login(rr, postLoginForm(url.Values{
		"email":    {"a@example.edu"},
		"password": {"secret"},
	}))

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, routes.SupervisorDashboard, rr.Header().Get("Location"))

	var sessionCookie *http.Cookie
	for _, c := range rr.Result().Cookies() {
		if c.Name == "session_id" {
			sessionCookie = c
		}
	}
	require.NotNil(t, sessionCookie)
	assert.Equal(t, session.ID, sessionCookie.Value)
	assert.True(t, sessionCookie.HttpOnly)
	assert.Positive(t, sessionCookie.MaxAge)
}

func TestLogin_HonorsRedirectURI(t *testing.T) {
	session := testSession(domainauth.RoleStudent)
	svc := &fakeAuthService{
		loginFunc: func(_ context.Context, _, _ string) (*service.LoginOutcome, error) {
			return &service.LoginOutcome{Session: session}, nil
		},
	}
	h := newAuthHandlers(svc)
	h.Renderer = newTestRenderer(t)

	rr := httptest.NewRecorder()
	h.Login(rr, postLoginForm(url.Values{
		"email":        {"a@example.edu"},
		"password":     {"secret"},
		"redirect_uri": {routes.StudentProjectWork},
	}))

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, routes.StudentProjectWork, rr.Header().Get("Location"))
}

func TestLogin_RejectsAbsoluteRedirectURI(t *testing.T) {
	session := testSession(domainauth.RoleSupervisor)
	svc := &fakeAuthService{
		loginFunc: func(_ context.Context, _, _ string) (*service.LoginOutcome, error) {
			return &service.LoginOutcome{Session: session}, nil
		},
	}
	h := newAuthHandlers(svc)
	h.Renderer = newTestRenderer(t)

	rr := httptest.NewRecorder()
	h.Login(rr, postLoginForm(url.Values{
		"email":        {"a@example.edu"},
		"password":     {"secret"},
		"redirect_uri": {"https://evil.example.com/"},
	}))

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, routes.SupervisorDashboard, rr.Header().Get("Location"))
}

func TestLogout_ClearsCookieAndRedirects(t *testing.T) {
	var loggedOut string
	svc := &fakeAuthService{
		logoutFunc: func(_ context.Context, sessionID string) error {
			loggedOut = sessionID
			return nil
		},
	}
	h := newAuthHandlers(svc)

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "sess-1"})
	rr := httptest.NewRecorder()

	h.Logout(rr, req)

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, routes.Login, rr.Header().Get("Location"))
	assert.Equal(t, "sess-1", loggedOut)

	cookies := rr.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestLogout_WithoutCookieStillRedirects(t *testing.T) {
	svc := &fakeAuthService{
		logoutFunc: func(_ context.Context, _ string) error {
			t.Fatal("Logout should not be called without a cookie")
			return nil
		},
	}
	h := newAuthHandlers(svc)

	rr := httptest.NewRecorder()
	h.Logout(rr, httptest.NewRequest(http.MethodPost, "/logout", nil))

	assert.Equal(t, http.StatusSeeOther, rr.Code)
}

func TestStatus_Unauthenticated(t *testing.T) {
	h := newAuthHandlers(&fakeAuthService{})

	rr := httptest.NewRecorder()
	h.Status(rr, httptest.NewRequest(http.MethodGet, "/auth/status", nil))

	assert.Equal(t, http.StatusOK, rr.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, false, body["authenticated"])
}

func TestStatus_Authenticated(t *testing.T) {
	session := testSession(domainauth.RoleExaminer)
	svc := &fakeAuthService{
		getSessionFunc: func(_ context.Context, id string) (*domainauth.Session, error) {
			require.Equal(t, session.ID, id)
			return session, nil
		},
	}
	h := newAuthHandlers(svc)

	req := httptest.NewRequest(http.MethodGet, "/auth/status", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: session.ID})
	rr := httptest.NewRecorder()

	h.Status(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Authenticated bool `json:"authenticated"`
		User          struct {
			ID    int64    `json:"id"`
			Email string   `json:"email"`
			Roles []string `json:"roles"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.True(t, body.Authenticated)
	assert.Equal(t, session.User.ID, body.User.ID)
	assert.Equal(t, []string{"Examiner"}, body.User.Roles)
}

func TestStatus_ExpiredSessionClearsCookie(t *testing.T) {
	svc := &fakeAuthService{
		getSessionFunc: func(_ context.Context, _ string) (*domainauth.Session, error) {
			return nil, service.ErrNoSession
		},
	}
	h := newAuthHandlers(svc)

	req := httptest.NewRequest(http.MethodGet, "/auth/status", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "expired"})
	rr := httptest.NewRecorder()

	h.Status(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"authenticated":false`)

	cookies := rr.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestStatus_StoreOutageKeepsCookie(t *testing.T) {
	svc := &fakeAuthService{
		getSessionFunc: func(_ context.Context, _ string) (*domainauth.Session, error) {
			return nil, errors.New("get session: redis: connection refused")
		},
	}
	h := newAuthHandlers(svc)

	req := httptest.NewRequest(http.MethodGet, "/auth/status", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "sess-1"})
	rr := httptest.NewRecorder()

	h.Status(rr, req)

	// An outage says nothing about the session: no verdict, no teardown.
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.NotContains(t, rr.Body.String(), `"authenticated"`)
	assert.Empty(t, rr.Result().Cookies(), "cookie must survive a store outage")
}

func TestBeginSSO_DisabledRedirectsToLogin(t *testing.T) {
	h := newAuthHandlers(&fakeAuthService{ssoEnabled: false})

	rr := httptest.NewRecorder()
	h.BeginSSO(rr, httptest.NewRequest(http.MethodGet, "/auth/sso", nil))

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, routes.Login, rr.Header().Get("Location"))
}

func TestBeginSSO_SetsCookiesAndRedirectsToIdP(t *testing.T) {
	svc := &fakeAuthService{
		ssoEnabled: true,
		beginSSOFunc: func(_ context.Context, redirectURL string) (*service.BeginSSOResult, error) {
			assert.Equal(t, "http://localhost:8080/auth/callback", redirectURL)
			return &service.BeginSSOResult{
				AuthURL: "https://idp.example.edu/auth?state=st-1",
				State:   "st-1",
				Nonce:   "n-1",
			}, nil
		},
	}
	h := newAuthHandlers(svc)

	req := httptest.NewRequest(http.MethodGet, "/auth/sso?redirect_uri=/student/project-work", nil)
	rr := httptest.NewRecorder()

	h.BeginSSO(rr, req)

	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "https://idp.example.edu/auth?state=st-1", rr.Header().Get("Location"))

	byName := map[string]*http.Cookie{}
	for _, c := range rr.Result().Cookies() {
		byName[c.Name] = c
	}
	require.Contains(t, byName, "oauth_state")
	require.Contains(t, byName, "oauth_nonce")
	require.Contains(t, byName, "post_login_redirect")
	assert.Equal(t, "st-1", byName["oauth_state"].Value)
	assert.Equal(t, "n-1", byName["oauth_nonce"].Value)
	assert.Equal(t, routes.StudentProjectWork, byName["post_login_redirect"].Value)
}

func TestSSOCallback_MissingCode(t *testing.T) {
	h := newAuthHandlers(&fakeAuthService{ssoEnabled: true})

	rr := httptest.NewRecorder()
	h.SSOCallback(rr, httptest.NewRequest(http.MethodGet, "/auth/callback?state=st-1", nil))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "missing_code")
}

func TestSSOCallback_StateMismatch(t *testing.T) {
	h := newAuthHandlers(&fakeAuthService{ssoEnabled: true})

	req := httptest.NewRequest(http.MethodGet, "/auth/callback?code=c-1&state=st-1", nil)
	req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "different"})
	rr := httptest.NewRecorder()

	h.SSOCallback(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "invalid_state")
}

func TestSSOCallback_Success(t *testing.T) {
	session := testSession(domainauth.RoleStudent)
	svc := &fakeAuthService{
		ssoEnabled: true,
		completeSSOFunc: func(_ context.Context, input service.CompleteSSOInput) (*domainauth.Session, error) {
			assert.Equal(t, "c-1", input.Code)
			assert.Equal(t, "st-1", input.State)
			assert.Equal(t, "n-1", input.Nonce)
			return session, nil
		},
	}
	h := newAuthHandlers(svc)

	req := httptest.NewRequest(http.MethodGet, "/auth/callback?code=c-1&state=st-1", nil)
	req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "st-1"})
	req.AddCookie(&http.Cookie{Name: "oauth_nonce", Value: "n-1"})
	req.AddCookie(&http.Cookie{Name: "post_login_redirect", Value: routes.StudentChoosePath})
	rr := httptest.NewRecorder()

	h.SSOCallback(rr, req)

	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, routes.StudentChoosePath, rr.Header().Get("Location"))

	byName := map[string]*http.Cookie{}
	for _, c := range rr.Result().Cookies() {
		byName[c.Name] = c
	}
	require.Contains(t, byName, "session_id")
	assert.Equal(t, session.ID, byName["session_id"].Value)
	assert.Negative(t, byName["oauth_state"].MaxAge)
	assert.Negative(t, byName["oauth_nonce"].MaxAge)
}

func TestSSOCallback_CompletionFailure(t *testing.T) {
	svc := &fakeAuthService{
		ssoEnabled: true,
		completeSSOFunc: func(_ context.Context, _ service.CompleteSSOInput) (*domainauth.Session, error) {
			return nil, errors.New("exchange authorization code: boom")
		},
	}
	h := newAuthHandlers(svc)

	req := httptest.NewRequest(http.MethodGet, "/auth/callback?code=c-1&state=st-1", nil)
	req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "st-1"})
	req.AddCookie(&http.Cookie{Name: "oauth_nonce", Value: "n-1"})
	rr := httptest.NewRecorder()

	h.SSOCallback(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "login_completion_failed")
}
