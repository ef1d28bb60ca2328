// internal/domain/models/group.go
package models

import "time"

// Group represents a study group as returned by the remote API.
//
// NOTE:
//   - The server is the only writer. IDs and timestamps are assigned
//     remotely and never fabricated client-side.
//   - Members are embedded in server order; each member ID is unique
//     within the slice.
type Group struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Members     []Member `json:"members"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Member is a user embedded in a group's member list.
type Member struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ResourceID returns the server-assigned identifier.
func (g Group) ResourceID() string { return g.ID }
