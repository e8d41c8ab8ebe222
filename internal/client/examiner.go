package client

import (
	"context"
	"fmt"
)

// ExaminerAssignments lists the projects assigned to the examiner for
// evaluation.
func (c *Client) ExaminerAssignments(ctx context.Context, examinerID int64) ([]Evaluation, error) {
	var resp struct {
		envelope
		Evaluations []Evaluation `json:"evaluations"`
	}
	path := fmt.Sprintf("/api/examiners/%d/evaluations", examinerID)
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, resp.rejected()
	}
	return resp.Evaluations, nil
}

// EvaluationResult is an examiner's submitted verdict.
type EvaluationResult struct {
	Score   float64 `json:"score"`
	Remarks string  `json:"remarks"`
}

// SubmitEvaluation records the examiner's verdict for an assignment.
func (c *Client) SubmitEvaluation(ctx context.Context, evaluationID int64, result EvaluationResult) error {
	var resp envelope
	path := fmt.Sprintf("/api/evaluations/%d", evaluationID)
	if err := c.put(ctx, path, result, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return resp.rejected()
	}
	return nil
}
