package uaasdk

import (
	"context"
	"net/http"
	"net/url"
)

// Register signs up a new inactive account and triggers the activation
// email.
func (c *SDKClient) Register(ctx context.Context, req RegisterRequest) (*UserResponse, error) {
	body, headers, err := jsonBody(req)
	if err != nil {
		return nil, err
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/account/register", body, headers)
	if err != nil {
		return nil, err
	}

	var user UserResponse
	if err := decodeJSON(resp, &user, http.StatusCreated); err != nil {
		return nil, err
	}
	return &user, nil
}

// Activate activates the account that owns key.
func (c *SDKClient) Activate(ctx context.Context, key string) (*UserResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/v1/account/activate?key="+url.QueryEscape(key), nil, nil)
	if err != nil {
		return nil, err
	}

	var user UserResponse
	if err := decodeJSON(resp, &user, http.StatusOK); err != nil {
		return nil, err
	}
	return &user, nil
}

// RequestPasswordReset asks for a reset email. The server answers the same
// whether or not the address is known.
func (c *SDKClient) RequestPasswordReset(ctx context.Context, req ResetPasswordInitRequest) error {
	body, headers, err := jsonBody(req)
	if err != nil {
		return err
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/account/reset-password/init", body, headers)
	if err != nil {
		return err
	}
	return decodeJSON(resp, nil, http.StatusOK)
}

// FinishPasswordReset sets a new password using the emailed key.
func (c *SDKClient) FinishPasswordReset(ctx context.Context, req ResetPasswordFinishRequest) error {
	body, headers, err := jsonBody(req)
	if err != nil {
		return err
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/account/reset-password/finish", body, headers)
	if err != nil {
		return err
	}
	return decodeJSON(resp, nil, http.StatusOK)
}
