package uaasdk

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// SDKClient talks to a UAA instance at BaseURL.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewSDKClient returns a client with a 10 second request timeout.
func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// AuthenticateWithClientCredentials creates a session for the client itself
// (machine to machine).
func (c *SDKClient) AuthenticateWithClientCredentials(
	ctx context.Context,
	clientID, clientSecret string,
	scopes []string,
) (*Session, error) {
	tokenResp, err := c.ClientCredentialsGrant(ctx, clientID, clientSecret, scopes)
	if err != nil {
		return nil, err
	}

	return newSession(c, clientID, clientSecret, tokenResp), nil
}

// AuthenticateWithPassword creates a session for a user through the
// password grant.
func (c *SDKClient) AuthenticateWithPassword(
	ctx context.Context,
	clientID, clientSecret, username, password string,
	scopes []string,
) (*Session, error) {
	tokenResp, err := c.PasswordGrant(ctx, clientID, clientSecret, username, password, scopes)
	if err != nil {
		return nil, err
	}

	return newSession(c, clientID, clientSecret, tokenResp), nil
}

// AuthenticateWithRefreshToken creates a session from an existing refresh
// token.
func (c *SDKClient) AuthenticateWithRefreshToken(
	ctx context.Context,
	clientID, clientSecret, refreshToken string,
) (*Session, error) {
	tokenResp, err := c.RefreshGrant(ctx, clientID, clientSecret, refreshToken)
	if err != nil {
		return nil, err
	}

	return newSession(c, clientID, clientSecret, tokenResp), nil
}

// NewSessionFromTokens wraps tokens obtained elsewhere. The session still
// refreshes when the access token expires.
func (c *SDKClient) NewSessionFromTokens(clientID, clientSecret, accessToken, refreshToken, scope string, expiresIn int) *Session {
	return newSession(c, clientID, clientSecret, &TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Scope:        scope,
		ExpiresIn:    expiresIn,
	})
}
