package http

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/aussiebroadwan/uaa/pkg/uaasdk"
	"github.com/stretchr/testify/require"
)

func TestToken_ClientCredentials(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	rec := f.token(t, adminClientID, adminClientSecret, url.Values{"grant_type": {"client_credentials"}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	resp := decode[uaasdk.TokenResponse](t, rec.Body)
	require.Equal(t, "Bearer", resp.TokenType)
	require.Equal(t, 300, resp.ExpiresIn)
	require.Empty(t, resp.RefreshToken)

	claims, err := f.router.keys.Verifier().Verify(resp.AccessToken)
	require.NoError(t, err)
	require.Equal(t, adminClientID, claims.Subject)
	require.Empty(t, claims.UserID)
	require.NotNil(t, claims.IssuedAt)
}

func TestToken_FormClientCredentials(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {adminClientID},
		"client_secret": {adminClientSecret},
	}
	req := httptest.NewRequest(http.MethodPost, "/v1/oauth2/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := f.do(t, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestToken_PasswordGrantCarriesUserID(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	resp := f.userToken(t, adminLogin, adminPassword)
	require.NotEmpty(t, resp.RefreshToken)

	claims, err := f.router.keys.Verifier().Verify(resp.AccessToken)
	require.NoError(t, err)
	require.NotEmpty(t, claims.UserID)
	require.Equal(t, adminLogin, claims.UserName)
}

func TestToken_RefreshRotates(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	first := f.userToken(t, adminLogin, adminPassword)

	rec := f.token(t, webClientID, webClientSecret, url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {first.RefreshToken},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	second := decode[uaasdk.TokenResponse](t, rec.Body)
	require.NotEqual(t, first.RefreshToken, second.RefreshToken)

	rec = f.token(t, webClientID, webClientSecret, url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {first.RefreshToken},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, uaasdk.ErrorCodeInvalidGrant, decode[uaasdk.ErrorResponse](t, rec.Body).Error)
}

func TestToken_Errors(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	cases := []struct {
		name     string
		id       string
		secret   string
		form     url.Values
		status   int
		code     string
		basicHdr bool
	}{
		{
			name: "bad secret", id: adminClientID, secret: "wrong",
			form:   url.Values{"grant_type": {"client_credentials"}},
			status: http.StatusUnauthorized, code: uaasdk.ErrorCodeInvalidClient, basicHdr: true,
		},
		{
			name: "grant not allowed", id: adminClientID, secret: adminClientSecret,
			form:   url.Values{"grant_type": {"password"}, "username": {adminLogin}, "password": {adminPassword}},
			status: http.StatusBadRequest, code: uaasdk.ErrorCodeUnauthorizedClient,
		},
		{
			name: "unsupported grant", id: webClientID, secret: webClientSecret,
			form:   url.Values{"grant_type": {"device_code"}},
			status: http.StatusBadRequest, code: uaasdk.ErrorCodeUnsupportedGrantType,
		},
		{
			name: "missing grant", id: webClientID, secret: webClientSecret,
			form:   url.Values{},
			status: http.StatusBadRequest, code: uaasdk.ErrorCodeInvalidRequest,
		},
		{
			name: "wrong password", id: webClientID, secret: webClientSecret,
			form:   url.Values{"grant_type": {"password"}, "username": {adminLogin}, "password": {"nope-nope"}},
			status: http.StatusBadRequest, code: uaasdk.ErrorCodeInvalidGrant,
		},
		{
			name: "missing password", id: webClientID, secret: webClientSecret,
			form:   url.Values{"grant_type": {"password"}, "username": {adminLogin}},
			status: http.StatusBadRequest, code: uaasdk.ErrorCodeInvalidRequest,
		},
		{
			name: "scope outside client", id: adminClientID, secret: adminClientSecret,
			form:   url.Values{"grant_type": {"client_credentials"}, "scope": {"openid"}},
			status: http.StatusBadRequest, code: uaasdk.ErrorCodeInvalidScope,
		},
	}

	for _, tc := range cases {
		rec := f.token(t, tc.id, tc.secret, tc.form)
		require.Equal(t, tc.status, rec.Code, tc.name)
		require.Equal(t, tc.code, decode[uaasdk.ErrorResponse](t, rec.Body).Error, tc.name)
		if tc.basicHdr {
			require.NotEmpty(t, rec.Header().Get("WWW-Authenticate"), tc.name)
		}
	}
}

func TestToken_RejectsJSONBody(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/oauth2/token", strings.NewReader(`{"grant_type":"client_credentials"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := f.do(t, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRevoke_InvalidatesRefreshToken(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	resp := f.userToken(t, adminLogin, adminPassword)

	form := url.Values{"token": {resp.RefreshToken}}
	req := httptest.NewRequest(http.MethodPost, "/v1/oauth2/revoke", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := f.do(t, req)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.token(t, webClientID, webClientSecret, url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {resp.RefreshToken},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// unknown tokens are still 200
	form = url.Values{"token": {"does-not-exist"}}
	req = httptest.NewRequest(http.MethodPost, "/v1/oauth2/revoke", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	require.Equal(t, http.StatusOK, f.do(t, req).Code)
}
