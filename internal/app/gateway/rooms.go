// internal/app/gateway/rooms.go
package gateway

import (
	"context"
	"net/http"

	"github.com/dalemusser/studyhub/internal/domain/models"
)

// RoomDraft is the payload for creating or renaming a room.
type RoomDraft struct {
	Name    string `json:"name"`
	GroupID string `json:"group"`
}

// ListRooms fetches the rooms belonging to one group, in server order.
func (c *Client) ListRooms(ctx context.Context, groupID string) ([]models.Room, error) {
	var rooms []models.Room
	err := c.do(ctx, http.MethodGet, idPath("/rooms", groupID), nil, &rooms,
		"list rooms", "Failed to fetch rooms")
	if err != nil {
		return nil, err
	}
	return rooms, nil
}

// CreateRoom submits a draft and returns the canonical server record.
func (c *Client) CreateRoom(ctx context.Context, draft RoomDraft) (models.Room, error) {
	var r models.Room
	err := c.do(ctx, http.MethodPost, "/rooms", draft, &r,
		"create room", "Failed to create room")
	if err != nil {
		return models.Room{}, err
	}
	return r, nil
}

// UpdateRoom renames a room and returns the canonical server record.
func (c *Client) UpdateRoom(ctx context.Context, id string, draft RoomDraft) (models.Room, error) {
	var r models.Room
	err := c.do(ctx, http.MethodPut, idPath("/rooms", id), draft, &r,
		"update room", "Failed to update room")
	if err != nil {
		return models.Room{}, err
	}
	return r, nil
}

// DeleteRoom removes a room.
func (c *Client) DeleteRoom(ctx context.Context, id string) (string, error) {
	var mb messageBody
	err := c.do(ctx, http.MethodDelete, idPath("/rooms", id), nil, &mb,
		"delete room", "Failed to delete room")
	if err != nil {
		return "", err
	}
	return mb.Message, nil
}
