package client

import (
	"context"
	"fmt"
)

// SupervisorProposals lists proposals awaiting the supervisor's review.
func (c *Client) SupervisorProposals(ctx context.Context, supervisorID int64) ([]Proposal, error) {
	var resp struct {
		envelope
		Proposals []Proposal `json:"proposals"`
	}
	path := fmt.Sprintf("/api/supervisors/%d/proposals", supervisorID)
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, resp.rejected()
	}
	return resp.Proposals, nil
}

// SubmitFeedback records the supervisor's review of a proposal.
func (c *Client) SubmitFeedback(ctx context.Context, fb Feedback) error {
	var resp envelope
	path := fmt.Sprintf("/api/proposals/%d/feedback", fb.ProposalID)
	if err := c.post(ctx, path, fb, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return resp.rejected()
	}
	return nil
}

// SupervisorStudents lists students the supervisor currently supervises.
func (c *Client) SupervisorStudents(ctx context.Context, supervisorID int64) ([]ManagedUser, error) {
	var resp struct {
		envelope
		Students []ManagedUser `json:"students"`
	}
	path := fmt.Sprintf("/api/supervisors/%d/students", supervisorID)
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, resp.rejected()
	}
	return resp.Students, nil
}
