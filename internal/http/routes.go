package httpx

import (
	"io/fs"
	"log/slog"
	"net/http"
	"os"

	fypportal "github.com/campuskit/fyp-portal"
	"github.com/campuskit/fyp-portal/internal/client"
	domainauth "github.com/campuskit/fyp-portal/internal/domain/auth"
	"github.com/campuskit/fyp-portal/internal/ports"
	"github.com/campuskit/fyp-portal/internal/routes"
	"github.com/campuskit/fyp-portal/internal/service"
)

// RouterServices holds everything the HTTP router needs.
type RouterServices struct {
	Auth    *service.AuthService
	Router  *service.DashboardRouter
	Backend *client.Client
	Notices ports.DisabledNoticeStore

	BaseURL      string
	CookieDomain string
	IsDev        bool // Development mode flag: templates and assets served from disk.
	Logger       *slog.Logger
}

// NewRouter creates and configures the portal's HTTP router.
func NewRouter(services RouterServices) (http.Handler, error) {
	mux := http.NewServeMux()

	renderer, err := NewTemplateRenderer(TemplateRendererConfig{
		TemplateFS: templateFS(services.IsDev),
		Logger:     services.Logger,
	})
	if err != nil {
		return nil, err
	}

	authHandlers := &AuthHandlers{
		Svc:          services.Auth,
		Router:       services.Router,
		Notices:      services.Notices,
		Renderer:     renderer,
		BaseURL:      services.BaseURL,
		CookieDomain: services.CookieDomain,
		Logger:       services.Logger,
	}
	pageHandlers := &PageHandlers{
		T:       renderer,
		Backend: services.Backend,
		Logger:  services.Logger,
	}

	registerAuthRoutes(mux, authHandlers, services.Auth)
	registerStudentRoutes(mux, pageHandlers, guardOptions(services, renderer))
	registerSupervisorRoutes(mux, pageHandlers, guardOptions(services, renderer))
	registerModeratorRoutes(mux, pageHandlers, guardOptions(services, renderer))
	registerExaminerRoutes(mux, pageHandlers, guardOptions(services, renderer))
	registerManagerRoutes(mux, pageHandlers, guardOptions(services, renderer))
	registerRootRoute(mux, services)

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	mux.Handle("GET /static/", staticAssets(services.IsDev))

	// Every request gets a recorder so the backend transport can ask
	// for a redirect; logging and panic recovery wrap the lot.
	handler := NavigationCapture()(mux)
	handler = Recover(services.Logger)(handler)
	handler = Logging(services.Logger)(handler)
	return handler, nil
}

func guardOptions(services RouterServices, renderer *TemplateRenderer) GuardOptions {
	return GuardOptions{Auth: services.Auth, Renderer: renderer}
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers, auth SessionReader) {
	// The login page peeks at an existing session to skip the form.
	mux.Handle("GET "+routes.Login, OptionalSession(auth)(http.HandlerFunc(h.LoginPage)))
	mux.HandleFunc("POST "+routes.Login, h.Login)
	mux.HandleFunc("POST /logout", h.Logout)
	mux.HandleFunc("GET /auth/status", h.Status)
	mux.HandleFunc("GET /auth/sso", h.BeginSSO)
	mux.HandleFunc("GET /auth/callback", h.SSOCallback)
}

// registerRootRoute sends authenticated users to their role's dashboard
// and everyone else to the login page.
func registerRootRoute(mux *http.ServeMux, services RouterServices) {
	mux.Handle("GET /{$}", RequireSession(services.Auth)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := GetSessionFromContext(r.Context())
			if session == nil {
				http.Redirect(w, r, routes.Login, http.StatusSeeOther)
				return
			}
			http.Redirect(w, r, services.Router.Resolve(r.Context(), *session), http.StatusSeeOther)
		})))
}

func registerStudentRoutes(mux *http.ServeMux, h *PageHandlers, opts GuardOptions) {
	wrap := RequireRoles(opts, domainauth.RoleStudent)
	mux.Handle("GET "+routes.StudentChoosePath, wrap(http.HandlerFunc(h.ChoosePath)))
	mux.Handle("POST /student/select-project", wrap(http.HandlerFunc(h.SelectProject)))
	mux.Handle("POST /student/proposals", wrap(http.HandlerFunc(h.SubmitProposal)))
	mux.Handle("GET "+routes.StudentProjectWork, wrap(http.HandlerFunc(h.ProjectWork)))
	mux.Handle("POST /student/progress-logs", wrap(http.HandlerFunc(h.AddProgressLog)))
}

func registerSupervisorRoutes(mux *http.ServeMux, h *PageHandlers, opts GuardOptions) {
	wrap := RequireRoles(opts, domainauth.RoleSupervisor)
	mux.Handle("GET "+routes.SupervisorDashboard, wrap(http.HandlerFunc(h.SupervisorDashboard)))
	mux.Handle("POST /supervisor/feedback", wrap(http.HandlerFunc(h.SubmitFeedback)))
}

func registerModeratorRoutes(mux *http.ServeMux, h *PageHandlers, opts GuardOptions) {
	wrap := RequireRoles(opts, domainauth.RoleModerator)
	mux.Handle("GET "+routes.ModeratorDashboard, wrap(http.HandlerFunc(h.ModeratorDashboard)))
	mux.Handle("POST /moderator/decisions", wrap(http.HandlerFunc(h.ModerateProposal)))
}

func registerExaminerRoutes(mux *http.ServeMux, h *PageHandlers, opts GuardOptions) {
	wrap := RequireRoles(opts, domainauth.RoleExaminer)
	mux.Handle("GET "+routes.ExaminerDashboard, wrap(http.HandlerFunc(h.ExaminerDashboard)))
	mux.Handle("POST /examiner/evaluations", wrap(http.HandlerFunc(h.SubmitEvaluation)))
}

func registerManagerRoutes(mux *http.ServeMux, h *PageHandlers, opts GuardOptions) {
	wrap := RequireRoles(opts, domainauth.RoleManager)
	mux.Handle("GET "+routes.ManagerDashboard, wrap(http.HandlerFunc(h.ManagerDashboard)))
	mux.Handle("POST /manager/users", wrap(http.HandlerFunc(h.CreateUser)))
	mux.Handle("POST /manager/users/enabled", wrap(http.HandlerFunc(h.SetUserEnabled)))
	mux.Handle("POST /manager/assignments", wrap(http.HandlerFunc(h.AssignExaminer)))
	mux.Handle("POST /manager/notifications", wrap(http.HandlerFunc(h.SendNotification)))
}

// templateFS picks the template source. Dev mode reads from disk so
// template edits show up without a rebuild.
func templateFS(isDev bool) fs.FS {
	if isDev {
		return os.DirFS("web/templates")
	}
	sub, err := fs.Sub(fypportal.TemplateFS, "web/templates")
	if err != nil {
		// The embed directive guarantees the directory exists.
		return os.DirFS("web/templates")
	}
	return sub
}

// staticAssets serves /static/* from disk in dev mode and from the
// embedded filesystem otherwise.
func staticAssets(isDev bool) http.Handler {
	var fileServer http.Handler
	if isDev {
		fileServer = http.FileServer(http.Dir("web/static"))
	} else {
		sub, err := fs.Sub(fypportal.StaticFS, "web/static")
		if err != nil {
			fileServer = http.FileServer(http.Dir("web/static"))
		} else {
			fileServer = http.FileServer(http.FS(sub))
		}
	}

	stripped := http.StripPrefix("/static/", fileServer)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isDev {
			w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		} else {
			w.Header().Set("Cache-Control", "public, max-age=3600")
		}
		stripped.ServeHTTP(w, r)
	})
}
