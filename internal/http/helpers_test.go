package httpx

import (
	"context"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/require"

	domainauth "github.com/campuskit/fyp-portal/internal/domain/auth"
)

// testTemplates is a minimal template set covering every page name the
// handlers render. Each page echoes enough of its data to assert on.
var testTemplates = fstest.MapFS{
	"layout.tmpl": &fstest.MapFile{Data: []byte(
		`{{define "header"}}<html><body>{{end}}{{define "footer"}}</body></html>{{end}}`)},
	"pages/login.tmpl": &fstest.MapFile{Data: []byte(
		`{{define "login"}}{{template "header" .}}login:{{.Message}}|sso:{{.SSOEnabled}}|email:{{.Email}}{{template "footer" .}}{{end}}`)},
	"pages/access-denied.tmpl": &fstest.MapFile{Data: []byte(
		`{{define "access-denied"}}{{template "header" .}}denied actual:{{.ActualRoles}} required:{{.RequiredRoles}}{{template "footer" .}}{{end}}`)},
	"pages/error.tmpl": &fstest.MapFile{Data: []byte(
		`{{define "error"}}{{template "header" .}}error:{{.Message}}{{template "footer" .}}{{end}}`)},
	"pages/choose-path.tmpl": &fstest.MapFile{Data: []byte(
		`{{define "choose-path"}}{{template "header" .}}choose-path available:{{len .Available}}{{template "footer" .}}{{end}}`)},
	"pages/project-work.tmpl": &fstest.MapFile{Data: []byte(
		`{{define "project-work"}}{{template "header" .}}project:{{.Project.Title}} logs:{{len .Logs}}{{template "footer" .}}{{end}}`)},
	"pages/supervisor-dashboard.tmpl": &fstest.MapFile{Data: []byte(
		`{{define "supervisor-dashboard"}}{{template "header" .}}supervisor proposals:{{len .Proposals}} students:{{len .Students}}{{template "footer" .}}{{end}}`)},
	"pages/moderator-dashboard.tmpl": &fstest.MapFile{Data: []byte(
		`{{define "moderator-dashboard"}}{{template "header" .}}moderator pending:{{len .Pending}}{{template "footer" .}}{{end}}`)},
	"pages/examiner-dashboard.tmpl": &fstest.MapFile{Data: []byte(
		`{{define "examiner-dashboard"}}{{template "header" .}}examiner assignments:{{len .Assignments}}{{template "footer" .}}{{end}}`)},
	"pages/manager-dashboard.tmpl": &fstest.MapFile{Data: []byte(
		`{{define "manager-dashboard"}}{{template "header" .}}manager users:{{len .Users}} notifications:{{len .Notifications}}{{template "footer" .}}{{end}}`)},
}

func newTestRenderer(t *testing.T) *TemplateRenderer {
	t.Helper()
	tr, err := NewTemplateRenderer(TemplateRendererConfig{TemplateFS: testTemplates})
	require.NoError(t, err)
	return tr
}

func testSession(roles ...domainauth.Role) *domainauth.Session {
	if len(roles) == 0 {
		roles = []domainauth.Role{domainauth.RoleStudent}
	}
	return &domainauth.Session{
		ID:    "sess-1",
		Token: "token-1",
		User: domainauth.User{
			ID:    7,
			Name:  "Pat Quinn",
			Email: "pat.quinn@example.edu",
			Roles: roles,
		},
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

// sessionReaderFunc adapts a function to the SessionReader interface.
type sessionReaderFunc func(ctx context.Context, sessionID string) (*domainauth.Session, error)

func (f sessionReaderFunc) GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	return f(ctx, sessionID)
}
