package domain

import "time"

// TokenResponse is the body of a successful token endpoint call
// (RFC 6749 section 5.1).
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token,omitempty"`
	Scope        string `json:"scope,omitempty"`
	JTI          string `json:"jti,omitempty"`
}

// RefreshToken is the stored form of an opaque refresh token. Only its
// fingerprint is persisted.
type RefreshToken struct {
	ID        string
	UserID    string
	ClientID  string
	TokenHash string
	Scope     []string
	ExpiresAt time.Time
	Revoked   bool
	CreatedAt time.Time
}
