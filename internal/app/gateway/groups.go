// internal/app/gateway/groups.go
package gateway

import (
	"context"
	"net/http"

	"github.com/dalemusser/studyhub/internal/domain/models"
)

// GroupDraft is the payload for creating or updating a group. Invitee
// emails are trimmed and deduplicated by the store before they get here.
type GroupDraft struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	MemberEmails []string `json:"memberEmails,omitempty"`
}

// ListGroups fetches the full group collection in server order.
func (c *Client) ListGroups(ctx context.Context) ([]models.Group, error) {
	var groups []models.Group
	err := c.do(ctx, http.MethodGet, "/groups", nil, &groups,
		"list groups", "Failed to fetch groups")
	if err != nil {
		return nil, err
	}
	return groups, nil
}

// GetGroup fetches a single group by ID.
func (c *Client) GetGroup(ctx context.Context, id string) (models.Group, error) {
	var g models.Group
	err := c.do(ctx, http.MethodGet, idPath("/groups", id), nil, &g,
		"fetch group", "Failed to fetch group")
	if err != nil {
		return models.Group{}, err
	}
	return g, nil
}

// CreateGroup submits a draft and returns the canonical server record.
func (c *Client) CreateGroup(ctx context.Context, draft GroupDraft) (models.Group, error) {
	var g models.Group
	err := c.do(ctx, http.MethodPost, "/groups", draft, &g,
		"create group", "Failed to create group")
	if err != nil {
		return models.Group{}, err
	}
	return g, nil
}

// UpdateGroup replaces a group's mutable fields and returns the
// canonical server record.
func (c *Client) UpdateGroup(ctx context.Context, id string, draft GroupDraft) (models.Group, error) {
	var g models.Group
	err := c.do(ctx, http.MethodPut, idPath("/groups", id), draft, &g,
		"update group", "Failed to update group")
	if err != nil {
		return models.Group{}, err
	}
	return g, nil
}

// DeleteGroup removes a group. The server's confirmation message is
// returned for the success notification.
func (c *Client) DeleteGroup(ctx context.Context, id string) (string, error) {
	var mb messageBody
	err := c.do(ctx, http.MethodDelete, idPath("/groups", id), nil, &mb,
		"delete group", "Failed to delete group")
	if err != nil {
		return "", err
	}
	return mb.Message, nil
}
