package uaasdk

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClientCredentialsGrantUsesBasicAuth(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/oauth2/token", r.URL.Path)
		id, secret, ok := r.BasicAuth()
		require.True(t, ok)
		require.Equal(t, "internal", id)
		require.Equal(t, "s3cr3t", secret)
		require.NoError(t, r.ParseForm())
		require.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
		require.Equal(t, "web-app", r.PostForm.Get("scope"))
		require.Empty(t, r.PostForm.Get("client_id"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(TokenResponse{AccessToken: "at", TokenType: "Bearer", ExpiresIn: 3600, Scope: "web-app"})
	}))
	defer srv.Close()

	session, err := NewSDKClient(srv.URL).AuthenticateWithClientCredentials(context.Background(), "internal", "s3cr3t", []string{"web-app"})
	require.NoError(t, err)
	require.Equal(t, "at", session.AccessToken())
	require.True(t, session.HasScope("web-app"))
}

func TestPasswordGrantWithoutSecretSendsClientID(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _, ok := r.BasicAuth()
		require.False(t, ok)
		require.NoError(t, r.ParseForm())
		require.Equal(t, "web_app", r.PostForm.Get("client_id"))
		require.Equal(t, "alice", r.PostForm.Get("username"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(TokenResponse{AccessToken: "at", RefreshToken: "rt", ExpiresIn: 60})
	}))
	defer srv.Close()

	resp, err := NewSDKClient(srv.URL).PasswordGrant(context.Background(), "web_app", "", "alice", "pw", nil)
	require.NoError(t, err)
	require.Equal(t, "rt", resp.RefreshToken)
}

func TestErrorsAreOAuth2Errors(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ErrInvalidClient.WriteError(w)
	}))
	defer srv.Close()

	_, err := NewSDKClient(srv.URL).ClientCredentialsGrant(context.Background(), "x", "y", nil)
	var oerr *OAuth2Error
	require.True(t, errors.As(err, &oerr))
	require.Equal(t, http.StatusUnauthorized, oerr.StatusCode)
	require.Equal(t, ErrorCodeInvalidClient, oerr.Code)
}

func TestNonJSONErrorFallsBackToStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewSDKClient(srv.URL).GetLiveness(context.Background())
	var oerr *OAuth2Error
	require.True(t, errors.As(err, &oerr))
	require.Equal(t, http.StatusBadGateway, oerr.StatusCode)
	require.Equal(t, ErrorCodeServerError, oerr.Code)
}

func TestListClientsReadsTotalCount(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer at", r.Header.Get("Authorization"))
		require.Equal(t, "1", r.URL.Query().Get("page"))
		require.Equal(t, "2", r.URL.Query().Get("size"))

		w.Header().Set("X-Total-Count", "5")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]ClientSummary{{ClientID: "c3", TokenValiditySeconds: 60}, {ClientID: "c4", TokenValiditySeconds: 90}})
	}))
	defer srv.Close()

	session := NewSDKClient(srv.URL).NewSessionFromTokens("internal", "s", "at", "", "", 3600)
	page, err := session.ListClients(context.Background(), 1, 2)
	require.NoError(t, err)
	require.EqualValues(t, 5, page.Total)
	require.Len(t, page.Clients, 2)
	require.Equal(t, "c3", page.Clients[0].ClientID)
}

func TestSessionRefreshesExpiredToken(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/oauth2/token":
			require.NoError(t, r.ParseForm())
			require.Equal(t, "refresh_token", r.PostForm.Get("grant_type"))
			require.Equal(t, "old-rt", r.PostForm.Get("refresh_token"))
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(TokenResponse{AccessToken: "new-at", RefreshToken: "new-rt", ExpiresIn: 3600})
		case "/v1/account":
			require.Equal(t, "Bearer new-at", r.Header.Get("Authorization"))
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(UserResponse{ID: "u1", Login: "alice"})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	// expires_in 0 puts the token behind the refresh buffer straight away.
	session := NewSDKClient(srv.URL).NewSessionFromTokens("web_app", "", "old-at", "old-rt", "", 0)
	account, err := session.GetAccount(context.Background())
	require.NoError(t, err)
	require.Equal(t, "alice", account.Login)
	require.Equal(t, "new-rt", session.RefreshToken())
}

func TestDeleteClientExpectsNoContent(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/v1/clients/partner", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	session := NewSDKClient(srv.URL).NewSessionFromTokens("internal", "s", "at", "", "", 3600)
	require.NoError(t, session.DeleteClient(context.Background(), "partner"))
}
