package httpx

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/campuskit/fyp-portal/internal/client"
	domainauth "github.com/campuskit/fyp-portal/internal/domain/auth"
	"github.com/campuskit/fyp-portal/internal/routes"
)

// PageHandlers serves the role dashboards and their form actions. Every
// handler runs behind RequireRoles, so a session is always in context.
type PageHandlers struct {
	T       *TemplateRenderer
	Backend *client.Client
	Logger  *slog.Logger
}

func (h *PageHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// requestSession returns the guarded request's session and a context
// that carries it for the backend client's transport.
func (h *PageHandlers) requestSession(r *http.Request) (*http.Request, domainauth.Session) {
	session := GetSessionFromContext(r.Context())
	if session == nil {
		// RequireRoles guarantees a session; an empty one here means a
		// wiring bug, and the backend will answer 401 accordingly.
		return r, domainauth.Session{}
	}
	return r.WithContext(client.NewContext(r.Context(), *session)), *session
}

// finishBackendError turns a failed backend call into a response. The
// transport interceptor may have already torn the session down and
// requested a navigation; that wins. Everything else renders the error
// page with whatever the backend said.
func (h *PageHandlers) finishBackendError(w http.ResponseWriter, r *http.Request, err error) {
	if rec := RecorderFromContext(r.Context()); rec != nil {
		if target := rec.Target(); target != "" {
			clearSessionCookie(w, r)
			http.Redirect(w, r, target, http.StatusSeeOther)
			return
		}
	}

	h.logger().ErrorContext(r.Context(), "backend request failed", "error", err,
		"path", r.URL.Path)

	code := http.StatusBadGateway
	message := "The system is temporarily unavailable. Please try again."
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		code = http.StatusOK
		message = apiErr.Message
	}

	renderErr := h.T.RenderPageStatus(w, code, pageError, map[string]any{
		"Title":   "Something went wrong",
		"Message": message,
	})
	if renderErr != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func clearSessionCookie(w http.ResponseWriter, r *http.Request) {
	isSecure := r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   isSecure,
		MaxAge:   -1,
	})
}

func (h *PageHandlers) render(w http.ResponseWriter, name string, data map[string]any) {
	if err := h.T.RenderPage(w, name, data); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// formInt64 parses one named form value as an int64, zero when absent
// or malformed.
func formInt64(r *http.Request, name string) int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(r.PostFormValue(name)), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// ---- Student ----

// ChoosePath renders the student's path-selection page: pick an
// available project or propose an own title.
// GET /student/choose-path.
func (h *PageHandlers) ChoosePath(w http.ResponseWriter, r *http.Request) {
	r, session := h.requestSession(r)

	available, err := h.Backend.AvailableProjects(r.Context())
	if err != nil {
		h.finishBackendError(w, r, err)
		return
	}

	h.render(w, pageChoosePath, map[string]any{
		"Title":     "Choose your path",
		"UserName":  session.User.Name,
		"Available": available,
		"Message":   r.URL.Query().Get("message"),
	})
}

// SelectProject handles the student picking a listed project.
// POST /student/select-project with form field project_id.
func (h *PageHandlers) SelectProject(w http.ResponseWriter, r *http.Request) {
	r, session := h.requestSession(r)

	projectID := formInt64(r, "project_id")
	if projectID == 0 {
		http.Redirect(w, r, routes.StudentChoosePath, http.StatusSeeOther)
		return
	}

	if err := h.Backend.SelectProject(r.Context(), session.User.ID, projectID); err != nil {
		h.finishBackendError(w, r, err)
		return
	}

	http.Redirect(w, r, routes.StudentProjectWork, http.StatusSeeOther)
}

// SubmitProposal handles the student filing an own-title proposal.
// POST /student/proposals with form fields title, abstract, supervisor_id.
func (h *PageHandlers) SubmitProposal(w http.ResponseWriter, r *http.Request) {
	r, session := h.requestSession(r)

	draft := client.ProposalDraft{
		Title:        strings.TrimSpace(r.PostFormValue("title")),
		Abstract:     strings.TrimSpace(r.PostFormValue("abstract")),
		SupervisorID: formInt64(r, "supervisor_id"),
	}
	if draft.Title == "" {
		http.Redirect(w, r, routes.StudentChoosePath+"?message="+
			"A+proposal+needs+a+title.", http.StatusSeeOther)
		return
	}

	if _, err := h.Backend.SubmitProposal(r.Context(), session.User.ID, draft); err != nil {
		h.finishBackendError(w, r, err)
		return
	}

	http.Redirect(w, r, routes.StudentChoosePath+"?message="+
		"Proposal+submitted+for+review.", http.StatusSeeOther)
}

// ProjectWork renders the student's project workspace.
// GET /student/project-work.
func (h *PageHandlers) ProjectWork(w http.ResponseWriter, r *http.Request) {
	r, session := h.requestSession(r)

	var (
		projects []client.Project
		logs     []client.ProgressLog
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		projects, err = h.Backend.StudentProjects(ctx, session.User.ID)
		return err
	})
	g.Go(func() error {
		var err error
		logs, err = h.Backend.ProgressLogs(ctx, session.User.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		h.finishBackendError(w, r, err)
		return
	}

	if len(projects) == 0 {
		// No project yet; the workspace has nothing to show.
		http.Redirect(w, r, routes.StudentChoosePath, http.StatusSeeOther)
		return
	}

	h.render(w, pageProjectWork, map[string]any{
		"Title":    "Project workspace",
		"UserName": session.User.Name,
		"Project":  projects[0],
		"Logs":     logs,
	})
}

// AddProgressLog appends a diary entry to the student's project.
// POST /student/progress-logs with form field entry.
func (h *PageHandlers) AddProgressLog(w http.ResponseWriter, r *http.Request) {
	r, session := h.requestSession(r)

	entry := strings.TrimSpace(r.PostFormValue("entry"))
	if entry == "" {
		http.Redirect(w, r, routes.StudentProjectWork, http.StatusSeeOther)
		return
	}

	if err := h.Backend.AddProgressLog(r.Context(), session.User.ID, entry); err != nil {
		h.finishBackendError(w, r, err)
		return
	}

	http.Redirect(w, r, routes.StudentProjectWork, http.StatusSeeOther)
}

// ---- Supervisor ----

// SupervisorDashboard renders pending proposals and supervised students.
// GET /supervisor/dashboard.
func (h *PageHandlers) SupervisorDashboard(w http.ResponseWriter, r *http.Request) {
	r, session := h.requestSession(r)

	var (
		proposals []client.Proposal
		students  []client.ManagedUser
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		proposals, err = h.Backend.SupervisorProposals(ctx, session.User.ID)
		return err
	})
	g.Go(func() error {
		var err error
		students, err = h.Backend.SupervisorStudents(ctx, session.User.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		h.finishBackendError(w, r, err)
		return
	}

	h.render(w, pageSupervisor, map[string]any{
		"Title":     "Supervisor dashboard",
		"UserName":  session.User.Name,
		"Proposals": proposals,
		"Students":  students,
	})
}

// SubmitFeedback records the supervisor's review of a proposal.
// POST /supervisor/feedback with form fields proposal_id, comment, decision.
func (h *PageHandlers) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	r, _ = h.requestSession(r)

	fb := client.Feedback{
		ProposalID: formInt64(r, "proposal_id"),
		Comment:    strings.TrimSpace(r.PostFormValue("comment")),
		Decision:   r.PostFormValue("decision"),
	}
	if fb.ProposalID == 0 {
		http.Redirect(w, r, routes.SupervisorDashboard, http.StatusSeeOther)
		return
	}

	if err := h.Backend.SubmitFeedback(r.Context(), fb); err != nil {
		h.finishBackendError(w, r, err)
		return
	}

	http.Redirect(w, r, routes.SupervisorDashboard, http.StatusSeeOther)
}

// ---- Moderator ----

// ModeratorDashboard renders proposals awaiting moderation.
// GET /moderator/dashboard.
func (h *PageHandlers) ModeratorDashboard(w http.ResponseWriter, r *http.Request) {
	r, session := h.requestSession(r)

	pending, err := h.Backend.PendingProposals(r.Context())
	if err != nil {
		h.finishBackendError(w, r, err)
		return
	}

	h.render(w, pageModerator, map[string]any{
		"Title":    "Moderation queue",
		"UserName": session.User.Name,
		"Pending":  pending,
	})
}

// ModerateProposal records the moderator's verdict.
// POST /moderator/decisions with form fields proposal_id, approve, note.
func (h *PageHandlers) ModerateProposal(w http.ResponseWriter, r *http.Request) {
	r, _ = h.requestSession(r)

	proposalID := formInt64(r, "proposal_id")
	if proposalID == 0 {
		http.Redirect(w, r, routes.ModeratorDashboard, http.StatusSeeOther)
		return
	}
	decision := client.ModerationDecision{
		Approve: r.PostFormValue("approve") == "true",
		Note:    strings.TrimSpace(r.PostFormValue("note")),
	}

	if err := h.Backend.ModerateProposal(r.Context(), proposalID, decision); err != nil {
		h.finishBackendError(w, r, err)
		return
	}

	http.Redirect(w, r, routes.ModeratorDashboard, http.StatusSeeOther)
}

// ---- Examiner ----

// ExaminerDashboard renders the examiner's evaluation assignments.
// GET /examiner/dashboard.
func (h *PageHandlers) ExaminerDashboard(w http.ResponseWriter, r *http.Request) {
	r, session := h.requestSession(r)

	assignments, err := h.Backend.ExaminerAssignments(r.Context(), session.User.ID)
	if err != nil {
		h.finishBackendError(w, r, err)
		return
	}

	h.render(w, pageExaminer, map[string]any{
		"Title":       "Examiner dashboard",
		"UserName":    session.User.Name,
		"Assignments": assignments,
	})
}

// SubmitEvaluation records the examiner's verdict for one assignment.
// POST /examiner/evaluations with form fields evaluation_id, score, remarks.
func (h *PageHandlers) SubmitEvaluation(w http.ResponseWriter, r *http.Request) {
	r, _ = h.requestSession(r)

	evaluationID := formInt64(r, "evaluation_id")
	if evaluationID == 0 {
		http.Redirect(w, r, routes.ExaminerDashboard, http.StatusSeeOther)
		return
	}
	score, err := strconv.ParseFloat(strings.TrimSpace(r.PostFormValue("score")), 64)
	if err != nil || score < 0 || score > 100 {
		http.Redirect(w, r, routes.ExaminerDashboard, http.StatusSeeOther)
		return
	}

	result := client.EvaluationResult{
		Score:   score,
		Remarks: strings.TrimSpace(r.PostFormValue("remarks")),
	}
	if err := h.Backend.SubmitEvaluation(r.Context(), evaluationID, result); err != nil {
		h.finishBackendError(w, r, err)
		return
	}

	http.Redirect(w, r, routes.ExaminerDashboard, http.StatusSeeOther)
}

// ---- Manager ----

// ManagerDashboard renders accounts and announcements side by side; the
// two independent backend reads run concurrently.
// GET /manager/dashboard.
func (h *PageHandlers) ManagerDashboard(w http.ResponseWriter, r *http.Request) {
	r, session := h.requestSession(r)

	var (
		users         []client.ManagedUser
		notifications []client.Notification
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		users, err = h.Backend.Users(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		notifications, err = h.Backend.Notifications(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		h.finishBackendError(w, r, err)
		return
	}

	h.render(w, pageManager, map[string]any{
		"Title":         "Coordinator dashboard",
		"UserName":      session.User.Name,
		"Users":         users,
		"Notifications": notifications,
	})
}

// CreateUser provisions a new account.
// POST /manager/users with form fields name, email, roles, password.
func (h *PageHandlers) CreateUser(w http.ResponseWriter, r *http.Request) {
	r, _ = h.requestSession(r)

	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, routes.ManagerDashboard, http.StatusSeeOther)
		return
	}
	u := client.NewUser{
		Name:     strings.TrimSpace(r.PostFormValue("name")),
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Roles:    r.PostForm["roles"],
		Password: r.PostFormValue("password"),
	}
	if u.Name == "" || u.Email == "" {
		http.Redirect(w, r, routes.ManagerDashboard, http.StatusSeeOther)
		return
	}

	if _, err := h.Backend.CreateUser(r.Context(), u); err != nil {
		h.finishBackendError(w, r, err)
		return
	}

	http.Redirect(w, r, routes.ManagerDashboard, http.StatusSeeOther)
}

// SetUserEnabled enables or disables an account.
// POST /manager/users/enabled with form fields user_id, enabled.
func (h *PageHandlers) SetUserEnabled(w http.ResponseWriter, r *http.Request) {
	r, _ = h.requestSession(r)

	userID := formInt64(r, "user_id")
	if userID == 0 {
		http.Redirect(w, r, routes.ManagerDashboard, http.StatusSeeOther)
		return
	}
	enabled := r.PostFormValue("enabled") == "true"

	if err := h.Backend.SetUserEnabled(r.Context(), userID, enabled); err != nil {
		h.finishBackendError(w, r, err)
		return
	}

	http.Redirect(w, r, routes.ManagerDashboard, http.StatusSeeOther)
}

// AssignExaminer pairs an examiner with a project.
// POST /manager/assignments with form fields project_id, examiner_id.
func (h *PageHandlers) AssignExaminer(w http.ResponseWriter, r *http.Request) {
	r, _ = h.requestSession(r)

	projectID := formInt64(r, "project_id")
	examinerID := formInt64(r, "examiner_id")
	if projectID == 0 || examinerID == 0 {
		http.Redirect(w, r, routes.ManagerDashboard, http.StatusSeeOther)
		return
	}

	if err := h.Backend.AssignExaminer(r.Context(), projectID, examinerID); err != nil {
		h.finishBackendError(w, r, err)
		return
	}

	http.Redirect(w, r, routes.ManagerDashboard, http.StatusSeeOther)
}

// SendNotification publishes an announcement.
// POST /manager/notifications with form fields subject, body, audience.
func (h *PageHandlers) SendNotification(w http.ResponseWriter, r *http.Request) {
	r, _ = h.requestSession(r)

	n := client.Notification{
		Subject:  strings.TrimSpace(r.PostFormValue("subject")),
		Body:     strings.TrimSpace(r.PostFormValue("body")),
		Audience: r.PostFormValue("audience"),
	}
	if n.Subject == "" {
		http.Redirect(w, r, routes.ManagerDashboard, http.StatusSeeOther)
		return
	}
	if n.Audience == "" {
		n.Audience = "all"
	}

	if err := h.Backend.SendNotification(r.Context(), n); err != nil {
		h.finishBackendError(w, r, err)
		return
	}

	http.Redirect(w, r, routes.ManagerDashboard, http.StatusSeeOther)
}
