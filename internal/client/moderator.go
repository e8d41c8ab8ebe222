package client

import (
	"context"
	"fmt"
)

// PendingProposals lists supervisor-endorsed proposals waiting for
// moderator approval.
func (c *Client) PendingProposals(ctx context.Context) ([]Proposal, error) {
	var resp struct {
		envelope
		Proposals []Proposal `json:"proposals"`
	}
	if err := c.get(ctx, "/api/moderation/proposals", &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, resp.rejected()
	}
	return resp.Proposals, nil
}

// ModerationDecision is the moderator's verdict on a proposal.
type ModerationDecision struct {
	Approve bool   `json:"approve"`
	Note    string `json:"note"`
}

// ModerateProposal records the moderator's decision.
func (c *Client) ModerateProposal(ctx context.Context, proposalID int64, decision ModerationDecision) error {
	var resp envelope
	path := fmt.Sprintf("/api/moderation/proposals/%d", proposalID)
	if err := c.put(ctx, path, decision, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return resp.rejected()
	}
	return nil
}
