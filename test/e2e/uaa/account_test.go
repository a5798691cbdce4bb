package uaa_test

import (
	"net/http"
	"testing"

	"github.com/aussiebroadwan/uaa/pkg/uaasdk"
	"github.com/stretchr/testify/require"
)

func TestPasswordGrantAndRefresh(t *testing.T) {
	client := setupUAAContainer(t)
	ctx := t.Context()

	session, err := client.AuthenticateWithPassword(ctx, webClientID, webClientSecret, adminLogin, adminPassword, nil)
	require.NoError(t, err)
	require.NotEmpty(t, session.RefreshToken())
	require.True(t, session.HasScope("openid"))

	account, err := session.GetAccount(ctx)
	require.NoError(t, err)
	require.Equal(t, adminLogin, account.Login)
	require.Equal(t, adminEmail, account.Email)
	require.Contains(t, account.Authorities, "ROLE_ADMIN")

	oldRefresh := session.RefreshToken()
	refreshed, err := client.AuthenticateWithRefreshToken(ctx, webClientID, webClientSecret, oldRefresh)
	require.NoError(t, err)
	require.NotEqual(t, oldRefresh, refreshed.RefreshToken())

	_, err = client.RefreshGrant(ctx, webClientID, webClientSecret, oldRefresh)
	assertOAuth2Error(t, err, http.StatusBadRequest, uaasdk.ErrorCodeInvalidGrant)

	require.NoError(t, refreshed.Revoke(ctx))
	_, err = client.RefreshGrant(ctx, webClientID, webClientSecret, refreshed.RefreshToken())
	assertOAuth2Error(t, err, http.StatusBadRequest, uaasdk.ErrorCodeInvalidGrant)

	_, err = client.PasswordGrant(ctx, webClientID, webClientSecret, adminLogin, "wrong-password", nil)
	assertOAuth2Error(t, err, http.StatusBadRequest, uaasdk.ErrorCodeInvalidGrant)
}

func TestAccountFlows(t *testing.T) {
	client := setupUAAContainer(t)
	ctx := t.Context()

	user, err := client.Register(ctx, uaasdk.RegisterRequest{
		Login:    "newcomer",
		Email:    "newcomer@example.com",
		Password: "newcomer-password",
	})
	require.NoError(t, err)
	require.False(t, user.Activated)

	// inactive accounts cannot sign in until activated
	_, err = client.PasswordGrant(ctx, webClientID, webClientSecret, "newcomer", "newcomer-password", nil)
	assertOAuth2Error(t, err, http.StatusBadRequest, uaasdk.ErrorCodeInvalidGrant)

	_, err = client.Register(ctx, uaasdk.RegisterRequest{Login: "newcomer", Email: "other@example.com", Password: "another-password"})
	assertOAuth2Error(t, err, http.StatusConflict, "")

	_, err = client.Activate(ctx, "not-a-key")
	assertOAuth2Error(t, err, http.StatusBadRequest, "")

	require.NoError(t, client.RequestPasswordReset(ctx, uaasdk.ResetPasswordInitRequest{Mail: adminEmail}))
	require.NoError(t, client.RequestPasswordReset(ctx, uaasdk.ResetPasswordInitRequest{Mail: "nobody@example.com"}))

	err = client.FinishPasswordReset(ctx, uaasdk.ResetPasswordFinishRequest{Key: "not-a-key", NewPassword: "long-enough-password"})
	assertOAuth2Error(t, err, http.StatusBadRequest, "")
}

func TestAdminCreatesUser(t *testing.T) {
	client := setupUAAContainer(t)
	ctx := t.Context()
	admin := adminSession(t, client)

	user, err := admin.CreateUser(ctx, uaasdk.CreateUserRequest{Login: "Staff", Email: "staff@example.com"})
	require.NoError(t, err)
	require.Equal(t, "staff", user.Login)
	require.True(t, user.Activated)
	require.Equal(t, []string{"ROLE_USER"}, user.Authorities)

	_, err = admin.CreateUser(ctx, uaasdk.CreateUserRequest{Login: "staff2", Email: "staff@example.com"})
	assertOAuth2Error(t, err, http.StatusConflict, "")
}
