package uaasdk

import (
	"time"

	"github.com/aussiebroadwan/uaa/pkg/jwtx"
)

// ErrorResponse is the wire form of OAuth2Error.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// TokenResponse is a successful token endpoint response (RFC 6749
// section 5.1). RefreshToken is empty for the client_credentials grant.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token,omitempty"`
	Scope        string `json:"scope,omitempty"`
	JTI          string `json:"jti,omitempty"`
}

// ClientRequest creates or updates an external client. ClientSecret may be
// left empty on update to keep the current secret.
type ClientRequest struct {
	ClientID             string `json:"client_id"`
	ClientSecret         string `json:"client_secret,omitempty"`
	TokenValiditySeconds int    `json:"token_validity_seconds"`
}

// ClientSummary is the API view of a client. It never carries the secret.
type ClientSummary struct {
	ClientID             string `json:"client_id"`
	TokenValiditySeconds int    `json:"token_validity_seconds"`
}

// ClientPage is one page of GET /v1/clients. Total comes from the
// X-Total-Count header.
type ClientPage struct {
	Clients []ClientSummary
	Total   int64
	Page    int
	Size    int
}

// CreateUserRequest is submitted by an administrator. The new user receives
// a creation email with a link to choose a password.
type CreateUserRequest struct {
	Login       string   `json:"login"`
	Email       string   `json:"email"`
	FirstName   string   `json:"first_name,omitempty"`
	LastName    string   `json:"last_name,omitempty"`
	LangKey     string   `json:"lang_key,omitempty"`
	Authorities []string `json:"authorities,omitempty"`
	BaseURL     string   `json:"base_url,omitempty"`
}

// RegisterRequest is a self service sign up. The account stays inactive
// until the emailed activation link is followed.
type RegisterRequest struct {
	Login     string `json:"login"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	LangKey   string `json:"lang_key,omitempty"`
	BaseURL   string `json:"base_url,omitempty"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID          string    `json:"id"`
	Login       string    `json:"login"`
	Email       string    `json:"email,omitempty"`
	FirstName   string    `json:"first_name,omitempty"`
	LastName    string    `json:"last_name,omitempty"`
	LangKey     string    `json:"lang_key"`
	Authorities []string  `json:"authorities"`
	Activated   bool      `json:"activated"`
	CreatedAt   time.Time `json:"created_at"`
}

type ResetPasswordInitRequest struct {
	Mail    string `json:"mail"`
	BaseURL string `json:"base_url,omitempty"`
}

type ResetPasswordFinishRequest struct {
	Key         string `json:"key"`
	NewPassword string `json:"new_password"`
}

// HealthResponse is returned by /livez and /readyz. Checks is only set by
// /readyz.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks holds "ok" or "error: ..." per dependency.
type HealthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`
}

// JWKSResponse is the public key set served at /.well-known/jwks.json.
type JWKSResponse jwtx.JWKS
