package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims is the payload of a session token. The subject carries the
// user id; roles are always read from the database.
type SessionClaims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}
