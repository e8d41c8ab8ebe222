// Package routes holds the portal's navigation targets. They are shared
// by the dashboard router, the route guards, and the backend client's
// interceptor, so they live in one dependency-free package.
package routes

const (
	Login = "/login"

	ManagerDashboard    = "/manager/dashboard"
	SupervisorDashboard = "/supervisor/dashboard"
	ModeratorDashboard  = "/moderator/dashboard"
	ExaminerDashboard   = "/examiner/dashboard"

	// Students land on one of two screens depending on whether they have
	// already committed to a project.
	StudentProjectWork = "/student/project-work"
	StudentChoosePath  = "/student/choose-path"
)
