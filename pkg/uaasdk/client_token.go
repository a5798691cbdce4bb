package uaasdk

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// ClientCredentialsGrant requests an access token for the client itself. No
// refresh token is returned.
func (c *SDKClient) ClientCredentialsGrant(
	ctx context.Context,
	clientID, clientSecret string,
	scopes []string,
) (*TokenResponse, error) {
	data := url.Values{"grant_type": {"client_credentials"}}
	if len(scopes) > 0 {
		data.Set("scope", strings.Join(scopes, " "))
	}

	return c.requestToken(ctx, clientID, clientSecret, data)
}

// PasswordGrant exchanges user credentials for an access and refresh token.
func (c *SDKClient) PasswordGrant(
	ctx context.Context,
	clientID, clientSecret, username, password string,
	scopes []string,
) (*TokenResponse, error) {
	data := url.Values{
		"grant_type": {"password"},
		"username":   {username},
		"password":   {password},
	}
	if len(scopes) > 0 {
		data.Set("scope", strings.Join(scopes, " "))
	}

	return c.requestToken(ctx, clientID, clientSecret, data)
}

// RefreshGrant rotates a refresh token. The old token is revoked.
func (c *SDKClient) RefreshGrant(
	ctx context.Context,
	clientID, clientSecret, refreshToken string,
) (*TokenResponse, error) {
	data := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {refreshToken},
	}

	return c.requestToken(ctx, clientID, clientSecret, data)
}

// RevokeToken revokes a refresh token (RFC 7009). Unknown tokens are not an
// error.
func (c *SDKClient) RevokeToken(ctx context.Context, token string) error {
	data := url.Values{"token": {token}}

	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/oauth2/revoke",
		strings.NewReader(data.Encode()),
		map[string]string{"Content-Type": "application/x-www-form-urlencoded"},
	)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return parseErrorResponse(resp, body)
	}
	return nil
}

// requestToken posts to the token endpoint, authenticating the client with
// HTTP Basic when a secret is given and with the client_id form field
// otherwise.
func (c *SDKClient) requestToken(ctx context.Context, clientID, clientSecret string, data url.Values) (*TokenResponse, error) {
	if clientSecret == "" {
		data.Set("client_id", clientID)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/v1/oauth2/token", strings.NewReader(data.Encode()),
		map[string]string{"Content-Type": "application/x-www-form-urlencoded"})
	if err != nil {
		return nil, err
	}
	if clientSecret != "" {
		req.SetBasicAuth(url.QueryEscape(clientID), url.QueryEscape(clientSecret))
	}

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var tokenResp TokenResponse
	if err := decodeJSON(resp, &tokenResp, http.StatusOK); err != nil {
		return nil, err
	}
	return &tokenResp, nil
}
