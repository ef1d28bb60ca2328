// internal/domain/models/room.go
package models

import "time"

// Room is a discussion room inside a group.
type Room struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	GroupID string `json:"group_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ResourceID returns the server-assigned identifier.
func (r Room) ResourceID() string { return r.ID }
