package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"slices"

	"github.com/golang-jwt/jwt/v5"
)

// Standard and custom claim names written into access tokens.
const (
	ClaimIssuer      = "iss"
	ClaimSubject     = "sub"
	ClaimAudience    = "aud"
	ClaimExpiresAt   = "exp"
	ClaimNotBefore   = "nbf"
	ClaimIssuedAt    = "iat"
	ClaimID          = "jti"
	ClaimClientID    = "client_id"
	ClaimScope       = "scope"
	ClaimAuthorities = "authorities"
	ClaimUserName    = "user_name"
	ClaimUserID      = "user_id"
)

// Claims is the typed view of a verified access token.
type Claims struct {
	jwt.RegisteredClaims

	ClientID    string   `json:"client_id,omitempty"`
	Scope       []string `json:"scope,omitempty"`
	Authorities []string `json:"authorities,omitempty"`
	UserName    string   `json:"user_name,omitempty"`

	// UserID is only present on tokens issued to a user principal.
	UserID string `json:"user_id,omitempty"`
}

// HasAuthority reports whether the token carries authority.
func (c *Claims) HasAuthority(authority string) bool {
	return slices.Contains(c.Authorities, authority)
}

// HasScope reports whether the token carries scope.
func (c *Claims) HasScope(scope string) bool {
	return slices.Contains(c.Scope, scope)
}

// NewJTI returns a random URL safe token identifier.
func NewJTI() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}
