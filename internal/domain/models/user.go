// internal/domain/models/user.go
package models

// User is the authenticated account as carried in the session token's
// claims. The client never verifies the token; the gateway is the
// authority on whether it is still good.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
