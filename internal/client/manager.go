package client

import (
	"context"
	"fmt"
)

// Users lists every account for manager administration.
func (c *Client) Users(ctx context.Context) ([]ManagedUser, error) {
	var resp struct {
		envelope
		Users []ManagedUser `json:"users"`
	}
	if err := c.get(ctx, "/api/users", &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, resp.rejected()
	}
	return resp.Users, nil
}

// NewUser is a manager-created account.
type NewUser struct {
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
	Password string   `json:"password"`
}

// CreateUser provisions an account.
func (c *Client) CreateUser(ctx context.Context, u NewUser) (ManagedUser, error) {
	var resp struct {
		envelope
		User ManagedUser `json:"user"`
	}
	if err := c.post(ctx, "/api/users", u, &resp); err != nil {
		return ManagedUser{}, err
	}
	if !resp.Success {
		return ManagedUser{}, resp.rejected()
	}
	return resp.User, nil
}

// SetUserEnabled enables or disables an account. Disabling takes effect
// on the user's next backend call via the 403+disabled contract.
func (c *Client) SetUserEnabled(ctx context.Context, userID int64, enabled bool) error {
	var resp envelope
	body := map[string]bool{"enabled": enabled}
	if err := c.put(ctx, fmt.Sprintf("/api/users/%d/enabled", userID), body, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return resp.rejected()
	}
	return nil
}

// AssignExaminer attaches an examiner to a project.
func (c *Client) AssignExaminer(ctx context.Context, projectID, examinerID int64) error {
	var resp envelope
	path := fmt.Sprintf("/api/projects/%d/examiners/%d", projectID, examinerID)
	if err := c.post(ctx, path, nil, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return resp.rejected()
	}
	return nil
}

// Notifications lists previously sent announcements, newest first.
func (c *Client) Notifications(ctx context.Context) ([]Notification, error) {
	var resp struct {
		envelope
		Notifications []Notification `json:"notifications"`
	}
	if err := c.get(ctx, "/api/notifications", &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, resp.rejected()
	}
	return resp.Notifications, nil
}

// SendNotification publishes an announcement to a role audience.
func (c *Client) SendNotification(ctx context.Context, n Notification) error {
	var resp envelope
	if err := c.post(ctx, "/api/notifications", n, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return resp.rejected()
	}
	return nil
}
