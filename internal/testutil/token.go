// internal/testutil/token.go
package testutil

import (
	"time"

	"github.com/dalemusser/studyhub/internal/domain/models"
	"github.com/golang-jwt/jwt/v5"
)

// mintSecret signs fixture tokens. The client never verifies
// signatures, so the value only matters for producing a well-formed
// JWT.
const mintSecret = "studyhub-test-secret"

// StaticToken is a fixed-value token source for wiring clients in
// tests. The empty string behaves like an anonymous session.
type StaticToken string

// CurrentToken returns the fixed token value.
func (s StaticToken) CurrentToken() string { return string(s) }

// MintToken produces a signed JWT carrying the user's identity claims,
// shaped like the tokens the real gateway issues.
func MintToken(user models.User) string {
	return mintToken(user, time.Now().Add(time.Hour))
}

// MintExpiredToken produces a well-formed JWT whose exp claim already
// passed, for exercising client-side expiry handling.
func MintExpiredToken(user models.User) string {
	return mintToken(user, time.Now().Add(-time.Hour))
}

func mintToken(user models.User, expiry time.Time) string {
	claims := jwt.MapClaims{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
		"exp":   expiry.Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte(mintSecret))
	if err != nil {
		panic("testutil: mint token: " + err.Error())
	}
	return signed
}
