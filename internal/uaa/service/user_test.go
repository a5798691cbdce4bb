package service

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/uaa/internal/uaa/domain"
	"github.com/aussiebroadwan/uaa/internal/uaa/mail"
	"github.com/aussiebroadwan/uaa/internal/uaa/store"
	"github.com/stretchr/testify/require"
)

func newUserService(t *testing.T) (*UserService, *recordingMailer, store.Store) {
	t.Helper()
	st := newTestStore(t)
	m := &recordingMailer{}
	return &UserService{Store: st, Hasher: testHasher, Mailer: m}, m, st
}

func TestCreateUser_SendsCreationMail(t *testing.T) {
	ctx := context.Background()
	svc, m, st := newUserService(t)

	u, err := svc.CreateUser(ctx, domain.NewUser{
		Login:   " Carol ",
		Email:   "Carol@Example.com",
		LangKey: "fr",
	}, "https://app.example.com")
	require.NoError(t, err)
	require.Equal(t, "carol", u.Login)
	require.Equal(t, "carol@example.com", u.Email)
	require.True(t, u.Activated)
	require.Equal(t, []string{domain.AuthorityUser}, u.Authorities)

	sent := m.last(t)
	require.Equal(t, mail.TemplateCreation, sent.Template)
	require.Equal(t, "https://app.example.com", sent.BaseURL)
	require.Equal(t, "carol@example.com", sent.User.Email)
	require.Equal(t, "fr", sent.User.LangKey)
	require.NotEmpty(t, sent.User.Key)

	stored, err := st.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotEqual(t, sent.User.Key, stored.ResetKeyHash)

	// The mailed key sets the first password.
	require.NoError(t, svc.FinishPasswordReset(ctx, sent.User.Key, "brand-new-pass"))
	stored, err = st.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.NoError(t, testHasher.Verify("brand-new-pass", stored.PasswordHash))
	require.Empty(t, stored.ResetKeyHash)
	require.Nil(t, stored.ResetDate)
}

func TestCreateUser_Conflicts(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newUserService(t)

	_, err := svc.CreateUser(ctx, domain.NewUser{Login: "dave", Email: "dave@example.com"}, "")
	require.NoError(t, err)

	_, err = svc.CreateUser(ctx, domain.NewUser{Login: "DAVE", Email: "other@example.com"}, "")
	require.ErrorIs(t, err, ErrLoginInUse)

	_, err = svc.CreateUser(ctx, domain.NewUser{Login: "dave2", Email: "dave@example.com"}, "")
	require.ErrorIs(t, err, ErrEmailInUse)

	_, err = svc.CreateUser(ctx, domain.NewUser{Login: "  "}, "")
	require.ErrorIs(t, err, ErrInvalidLogin)

	_, err = svc.CreateUser(ctx, domain.NewUser{Login: "eve", Email: "not-an-address"}, "")
	require.ErrorIs(t, err, ErrInvalidEmail)
	require.ErrorIs(t, err, ErrValidation)
}

func TestRequestPasswordReset(t *testing.T) {
	ctx := context.Background()
	svc, m, st := newUserService(t)

	u, err := svc.CreateUser(ctx, domain.NewUser{Login: "frank", Email: "frank@example.com"}, "")
	require.NoError(t, err)
	sentBefore := len(m.sent)

	t.Run("unknown email sends nothing", func(t *testing.T) {
		require.NoError(t, svc.RequestPasswordReset(ctx, "nobody@example.com", "https://x"))
		require.Len(t, m.sent, sentBefore)
	})

	t.Run("known email gets a fresh key", func(t *testing.T) {
		require.NoError(t, svc.RequestPasswordReset(ctx, "frank@example.com", "https://x"))
		sent := m.last(t)
		require.Equal(t, mail.TemplatePasswordReset, sent.Template)
		require.Equal(t, "https://x", sent.BaseURL)

		stored, err := st.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.NotEmpty(t, stored.ResetKeyHash)
		require.NotNil(t, stored.ResetDate)

		require.ErrorIs(t, svc.FinishPasswordReset(ctx, sent.User.Key, "short"), ErrWeakPassword)
		require.NoError(t, svc.FinishPasswordReset(ctx, sent.User.Key, "long-enough"))
		require.ErrorIs(t, svc.FinishPasswordReset(ctx, sent.User.Key, "long-enough"), ErrInvalidResetKey)
	})
}

func TestFinishPasswordReset_ExpiredKey(t *testing.T) {
	ctx := context.Background()
	svc, m, _ := newUserService(t)

	_, err := svc.CreateUser(ctx, domain.NewUser{Login: "gina", Email: "gina@example.com"}, "")
	require.NoError(t, err)
	key := m.last(t).User.Key

	svc.Clock = func() time.Time { return time.Now().Add(ResetKeyTTL + time.Minute) }
	require.ErrorIs(t, svc.FinishPasswordReset(ctx, key, "long-enough"), ErrInvalidResetKey)
	require.ErrorIs(t, svc.FinishPasswordReset(ctx, "", "long-enough"), ErrInvalidResetKey)
}

func TestFinishPasswordReset_RevokesRefreshTokens(t *testing.T) {
	ctx := context.Background()
	f := newTokenFixture(t)
	m := &recordingMailer{}
	svc := &UserService{Store: f.store, Hasher: testHasher, Mailer: m}

	resp, err := f.svc.ExchangePassword(ctx, "web_app", "web-secret", "alice", "alice-password", nil)
	require.NoError(t, err)

	require.NoError(t, svc.RequestPasswordReset(ctx, "alice@example.com", ""))
	require.NoError(t, svc.FinishPasswordReset(ctx, m.last(t).User.Key, "another-password"))

	_, err = f.svc.ExchangeRefreshToken(ctx, "web_app", "web-secret", resp.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidGrant)
}

func TestRegisterAndActivate(t *testing.T) {
	ctx := context.Background()
	svc, m, _ := newUserService(t)

	_, err := svc.Register(ctx, RegisterInput{
		NewUser:  domain.NewUser{Login: "hank", Email: "hank@example.com"},
		Password: "short",
	}, "")
	require.ErrorIs(t, err, ErrWeakPassword)

	u, err := svc.Register(ctx, RegisterInput{
		NewUser:  domain.NewUser{Login: "hank", Email: "hank@example.com", Authorities: []string{domain.AuthorityAdmin}},
		Password: "hank-password",
	}, "https://app")
	require.NoError(t, err)
	require.False(t, u.Activated)
	require.Equal(t, []string{domain.AuthorityUser}, u.Authorities)

	sent := m.last(t)
	require.Equal(t, mail.TemplateActivation, sent.Template)

	activated, err := svc.Activate(ctx, sent.User.Key)
	require.NoError(t, err)
	require.True(t, activated.Activated)
	require.NoError(t, testHasher.Verify("hank-password", activated.PasswordHash))

	_, err = svc.Activate(ctx, sent.User.Key)
	require.ErrorIs(t, err, ErrInvalidResetKey)
}

func TestGetUserByID(t *testing.T) {
	svc, _, _ := newUserService(t)
	_, err := svc.GetUserByID(context.Background(), "missing")
	require.ErrorIs(t, err, ErrUserNotFound)
}
