package client

import "time"

// Project is a project summary as the backend reports it.
type Project struct {
	ID             int64  `json:"id"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	SupervisorName string `json:"supervisor_name"`
	Status         string `json:"status"`
}

// Proposal is a student-authored project proposal moving through the
// supervisor-review and moderator-approval pipeline.
type Proposal struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Abstract     string    `json:"abstract"`
	StudentID    int64     `json:"student_id"`
	StudentName  string    `json:"student_name"`
	SupervisorID int64     `json:"supervisor_id"`
	Status       string    `json:"status"`
	SubmittedAt  time.Time `json:"submitted_at"`
}

// Feedback is a supervisor's review of a proposal.
type Feedback struct {
	ProposalID int64  `json:"proposal_id"`
	Comment    string `json:"comment"`
	Decision   string `json:"decision"` // "approve", "revise", "reject"
}

// ProgressLog is one dated entry in a student's project diary.
type ProgressLog struct {
	ID        int64     `json:"id"`
	ProjectID int64     `json:"project_id"`
	Entry     string    `json:"entry"`
	CreatedAt time.Time `json:"created_at"`
}

// Evaluation is an examiner's assignment and (once submitted) verdict
// for one project.
type Evaluation struct {
	ID           int64   `json:"id"`
	ProjectID    int64   `json:"project_id"`
	ProjectTitle string  `json:"project_title"`
	StudentName  string  `json:"student_name"`
	Score        float64 `json:"score"`
	Remarks      string  `json:"remarks"`
	Submitted    bool    `json:"submitted"`
}

// ManagedUser is the manager-facing view of an account.
type ManagedUser struct {
	ID       int64    `json:"id"`
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
	Disabled bool     `json:"disabled"`
}

// Notification is a manager-authored announcement.
type Notification struct {
	ID        int64     `json:"id"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	Audience  string    `json:"audience"` // role name or "all"
	CreatedAt time.Time `json:"created_at"`
}
