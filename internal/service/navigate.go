package service

import (
	"context"
	"log/slog"

	"github.com/campuskit/fyp-portal/internal/client"
	domainauth "github.com/campuskit/fyp-portal/internal/domain/auth"
	"github.com/campuskit/fyp-portal/internal/routes"
)

// ProjectLister is the slice of the backend client the router needs to
// decide where a student lands.
type ProjectLister interface {
	StudentProjects(ctx context.Context, studentID int64) ([]client.Project, error)
}

// DashboardRouterOptions groups dependencies for DashboardRouter.
type DashboardRouterOptions struct {
	Projects ProjectLister
	Logger   *slog.Logger
}

// DashboardRouter maps an authenticated user to their landing page.
// Every role except Student resolves from the role alone; students land
// on their project workspace when they already have a project, and on
// the path-selection page otherwise.
type DashboardRouter struct {
	projects ProjectLister
	logger   *slog.Logger
}

// NewDashboardRouter constructs a new DashboardRouter.
func NewDashboardRouter(opts DashboardRouterOptions) *DashboardRouter {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardRouter{
		projects: opts.Projects,
		logger:   logger,
	}
}

// Resolve returns the route an authenticated user should land on. It
// takes the whole session, not just the user, because the student
// branch calls the backend and that call must carry the session's
// bearer token. It never fails: when the student project lookup errors
// the user lands on the choose-path page, which handles "no project
// yet" anyway.
func (r *DashboardRouter) Resolve(ctx context.Context, sess domainauth.Session) string {
	switch sess.User.PrimaryRole().Normalize() {
	case domainauth.RoleManager:
		return routes.ManagerDashboard
	case domainauth.RoleSupervisor:
		return routes.SupervisorDashboard
	case domainauth.RoleModerator:
		return routes.ModeratorDashboard
	case domainauth.RoleExaminer:
		return routes.ExaminerDashboard
	case domainauth.RoleStudent:
		return r.resolveStudent(ctx, sess)
	default:
		// No usable role: back to login rather than a broken dashboard.
		return routes.Login
	}
}

func (r *DashboardRouter) resolveStudent(ctx context.Context, sess domainauth.Session) string {
	// The router runs right after login or from the root redirect, before
	// any page handler has attached the session for the transport.
	ctx = client.NewContext(ctx, sess)

	projects, err := r.projects.StudentProjects(ctx, sess.User.ID)
	if err != nil {
		// The choose-path page copes with "no project yet", so it is the
		// safe landing spot when we cannot tell.
		r.logger.WarnContext(ctx, "student project lookup failed, routing to path selection",
			"user_id", sess.User.ID, "error", err)
		return routes.StudentChoosePath
	}

	if len(projects) > 0 {
		return routes.StudentProjectWork
	}
	return routes.StudentChoosePath
}
