package client

import (
	"context"
	"fmt"
)

// StudentProjects returns the student's current (active) projects.
// The dashboard router uses this to pick the student's landing screen.
func (c *Client) StudentProjects(ctx context.Context, studentID int64) ([]Project, error) {
	var resp struct {
		envelope
		Projects []Project `json:"projects"`
	}
	if err := c.get(ctx, fmt.Sprintf("/api/students/%d/projects", studentID), &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, resp.rejected()
	}
	return resp.Projects, nil
}

// AvailableProjects lists supervisor-published projects a student can
// still select.
func (c *Client) AvailableProjects(ctx context.Context) ([]Project, error) {
	var resp struct {
		envelope
		Projects []Project `json:"projects"`
	}
	if err := c.get(ctx, "/api/projects/available", &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, resp.rejected()
	}
	return resp.Projects, nil
}

// SelectProject commits the student to a published project title.
// A backend failure here is a failure; it is never reported as a
// successful selection.
func (c *Client) SelectProject(ctx context.Context, studentID, projectID int64) error {
	var resp envelope
	path := fmt.Sprintf("/api/students/%d/projects/%d/select", studentID, projectID)
	if err := c.post(ctx, path, nil, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return resp.rejected()
	}
	return nil
}

// ProposalDraft is the student's own project idea submitted for
// supervisor review.
type ProposalDraft struct {
	Title        string `json:"title"`
	Abstract     string `json:"abstract"`
	SupervisorID int64  `json:"supervisor_id"`
}

// SubmitProposal files a new proposal for the student.
func (c *Client) SubmitProposal(ctx context.Context, studentID int64, draft ProposalDraft) (Proposal, error) {
	var resp struct {
		envelope
		Proposal Proposal `json:"proposal"`
	}
	path := fmt.Sprintf("/api/students/%d/proposals", studentID)
	if err := c.post(ctx, path, draft, &resp); err != nil {
		return Proposal{}, err
	}
	if !resp.Success {
		return Proposal{}, resp.rejected()
	}
	return resp.Proposal, nil
}

// ProgressLogs returns the student's project diary, newest first.
func (c *Client) ProgressLogs(ctx context.Context, studentID int64) ([]ProgressLog, error) {
	var resp struct {
		envelope
		Logs []ProgressLog `json:"logs"`
	}
	if err := c.get(ctx, fmt.Sprintf("/api/students/%d/logs", studentID), &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, resp.rejected()
	}
	return resp.Logs, nil
}

// AddProgressLog appends a diary entry.
func (c *Client) AddProgressLog(ctx context.Context, studentID int64, entry string) error {
	var resp envelope
	body := map[string]string{"entry": entry}
	if err := c.post(ctx, fmt.Sprintf("/api/students/%d/logs", studentID), body, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return resp.rejected()
	}
	return nil
}
