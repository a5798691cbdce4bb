package domain

import (
	"strconv"
	"strings"
	"time"
)

// Grant types a client may be authorized for.
const (
	GrantClientCredentials = "client_credentials"
	GrantPassword          = "password"
	GrantRefreshToken      = "refresh_token"
	GrantAuthorizationCode = "authorization_code"
	GrantImplicit          = "implicit"
)

// Authorities carried by clients and users.
const (
	AuthorityAdmin    = "ROLE_ADMIN"
	AuthorityUser     = "ROLE_USER"
	AuthorityExternal = "ROLE_EXTERNAL"
)

// Client is a row of oauth_client_details. ClientID is the only key.
type Client struct {
	ClientID             string
	SecretHash           string
	Scope                []string
	ResourceIDs          []string
	AuthorizedGrantTypes []string
	AutoApprove          bool
	Authorities          []string
	AccessTokenValidity  int // seconds
	RefreshTokenValidity int // seconds
	AdditionalInfo       string
	RedirectURI          string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// AllowsGrant reports whether grant is listed in AuthorizedGrantTypes.
func (c *Client) AllowsGrant(grant string) bool {
	for _, g := range c.AuthorizedGrantTypes {
		if g == grant {
			return true
		}
	}
	return false
}

func (c *Client) AccessTokenTTL() time.Duration {
	return time.Duration(c.AccessTokenValidity) * time.Second
}

func (c *Client) RefreshTokenTTL() time.Duration {
	return time.Duration(c.RefreshTokenValidity) * time.Second
}

// Summary is the API view of a client.
func (c *Client) Summary() ClientSummary {
	return ClientSummary{ClientID: c.ClientID, TokenValiditySeconds: c.AccessTokenValidity}
}

// ClientSummary never carries the secret.
type ClientSummary struct {
	ClientID             string `json:"client_id"`
	TokenValiditySeconds int    `json:"token_validity_seconds"`
}

// ClientInput is what an administrator submits to create or update an
// external client. ClientSecret may be blank on update.
type ClientInput struct {
	ClientID             string
	ClientSecret         string
	TokenValiditySeconds int
}

// JoinList encodes a list column the way oauth_client_details stores it.
func JoinList(items []string) string {
	return strings.Join(items, ",")
}

// SplitList decodes a comma joined column, dropping blanks.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// FormatBool and ParseBool encode the autoapprove column.
func FormatBool(b bool) string { return strconv.FormatBool(b) }

func ParseBool(s string) bool {
	b, _ := strconv.ParseBool(strings.TrimSpace(s))
	return b
}
