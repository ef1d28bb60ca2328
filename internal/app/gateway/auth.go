// internal/app/gateway/auth.go
package gateway

import (
	"context"
	"net/http"

	"github.com/dalemusser/studyhub/internal/domain/models"
)

// Credentials is the server's response to a successful login or
// registration. The token is opaque to the client; the session holder
// persists it and decodes its claims for display only.
type Credentials struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// Login exchanges email and password for a session token.
func (c *Client) Login(ctx context.Context, email, password string) (Credentials, error) {
	payload := map[string]string{"email": email, "password": password}
	var creds Credentials
	err := c.do(ctx, http.MethodPost, "/auth/login", payload, &creds,
		"login", "Login failed")
	if err != nil {
		return Credentials{}, err
	}
	return creds, nil
}

// Register creates an account and returns a session token for it.
func (c *Client) Register(ctx context.Context, name, email, password string) (Credentials, error) {
	payload := map[string]string{"name": name, "email": email, "password": password}
	var creds Credentials
	err := c.do(ctx, http.MethodPost, "/auth/register", payload, &creds,
		"register", "Registration failed")
	if err != nil {
		return Credentials{}, err
	}
	return creds, nil
}
