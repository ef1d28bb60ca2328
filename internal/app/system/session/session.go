// internal/app/system/session/session.go
package session

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/securecookie"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/dalemusser/studyhub/internal/domain/models"
)

// fileKey names the encoded blob inside the session file. It doubles
// as the securecookie value name so encode and decode agree.
const fileKey = "studyhub_session"

// Holder keeps the signed-in user's bearer token for the life of the
// process and, when a path is configured, across restarts. It
// satisfies the gateway's TokenSource.
type Holder struct {
	log   *zap.Logger
	path  string
	codec *securecookie.SecureCookie

	mu    sync.Mutex
	token *oauth2.Token
}

// New builds a holder that persists the token, encoded with key, at
// path. An empty path keeps the session in memory only. A token left
// over from a previous run is loaded eagerly; a file that fails to
// decode is treated as a signed-out session.
func New(path string, key []byte, logger *zap.Logger) *Holder {
	h := &Holder{
		log:   logger,
		path:  path,
		codec: securecookie.New(key, nil),
	}
	if path != "" {
		h.restore()
	}
	return h
}

// CurrentToken returns the bearer token for outgoing requests, or ""
// when signed out. An expired token is still returned: the server is
// the authority on whether it is good, and its 401 surfaces as an
// unauthorized error.
func (h *Holder) CurrentToken() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.token == nil {
		return ""
	}
	return h.token.AccessToken
}

// SignedIn reports whether a usable token is held. A token whose exp
// claim has passed counts as signed out, so the UI can prompt for a
// fresh login instead of issuing a doomed request.
func (h *Holder) SignedIn() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.token.Valid()
}

// SetToken stores the bearer token issued at sign-in and persists it
// when a session file is configured.
func (h *Holder) SetToken(raw string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = bearerToken(raw)
	if h.path == "" {
		return nil
	}
	encoded, err := h.codec.Encode(fileKey, raw)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.WriteFile(h.path, []byte(encoded), 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	h.log.Debug("session persisted", zap.String("path", h.path))
	return nil
}

// Clear forgets the token and removes the session file.
func (h *Holder) Clear() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = nil
	if h.path == "" {
		return nil
	}
	if err := os.Remove(h.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

// CurrentUser decodes the identity claims carried in the held token.
// The server remains the authority; the claims are read without
// signature verification, the same as any other bearer-token client.
func (h *Holder) CurrentUser() (models.User, bool) {
	raw := h.CurrentToken()
	if raw == "" {
		return models.User{}, false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		h.log.Debug("token claims unreadable", zap.Error(err))
		return models.User{}, false
	}

	user := models.User{
		ID:    stringClaim(claims, "id"),
		Name:  stringClaim(claims, "name"),
		Email: stringClaim(claims, "email"),
	}
	if user.ID == "" {
		return models.User{}, false
	}
	return user, true
}

// restore loads a persisted token. Decode failures are logged and
// ignored so a corrupt or foreign-key file just means signed out.
func (h *Holder) restore() {
	data, err := os.ReadFile(h.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			h.log.Warn("session file unreadable", zap.Error(err))
		}
		return
	}
	var raw string
	if err := h.codec.Decode(fileKey, string(data), &raw); err != nil {
		h.log.Warn("session file rejected", zap.Error(err))
		return
	}
	h.token = bearerToken(raw)
	h.log.Debug("session restored", zap.String("path", h.path))
}

// bearerToken wraps the raw JWT, lifting its exp claim into the token's
// Expiry so Valid() reflects the real lifetime. A token without an exp
// claim never expires client-side.
func bearerToken(raw string) *oauth2.Token {
	tok := &oauth2.Token{AccessToken: raw, TokenType: "Bearer"}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return tok
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		tok.Expiry = exp.Time
	}
	return tok
}

func stringClaim(claims jwt.MapClaims, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}
