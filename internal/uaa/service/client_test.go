package service

import (
	"context"
	"strings"
	"testing"

	"github.com/aussiebroadwan/uaa/internal/uaa/domain"
	"github.com/aussiebroadwan/uaa/internal/uaa/store"
	"github.com/stretchr/testify/require"
)

func newClientService(t *testing.T) (*ClientService, store.Store) {
	t.Helper()
	st := newTestStore(t)
	return &ClientService{
		Store:            st,
		Hasher:           testHasher,
		InitialClientIDs: []string{"web_app", "internal"},
	}, st
}

func TestCreateExternalClient(t *testing.T) {
	ctx := context.Background()
	svc, st := newClientService(t)

	summary, err := svc.CreateExternalClient(ctx, domain.ClientInput{
		ClientID:             "c1",
		ClientSecret:         "s3cr3t",
		TokenValiditySeconds: 10,
	})
	require.NoError(t, err)
	require.Equal(t, domain.ClientSummary{ClientID: "c1", TokenValiditySeconds: 60}, summary)

	stored, err := st.Clients().GetClient(ctx, "c1")
	require.NoError(t, err)
	require.NotEqual(t, "s3cr3t", stored.SecretHash)
	require.NoError(t, testHasher.Verify("s3cr3t", stored.SecretHash))
	require.Equal(t, 60, stored.AccessTokenValidity)
	require.Equal(t, 60, stored.RefreshTokenValidity)
	require.Equal(t, []string{ExternalClientScope}, stored.Scope)
	require.Equal(t, []string{domain.GrantClientCredentials}, stored.AuthorizedGrantTypes)
	require.Equal(t, []string{domain.AuthorityExternal}, stored.Authorities)
	require.True(t, stored.AutoApprove)
}

func TestCreateExternalClient_Validation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newClientService(t)

	cases := []struct {
		name string
		in   domain.ClientInput
		want error
	}{
		{"blank id", domain.ClientInput{ClientID: "  ", ClientSecret: "s"}, ErrInvalidClientID},
		{"long id", domain.ClientInput{ClientID: strings.Repeat("a", 51), ClientSecret: "s"}, ErrInvalidClientID},
		{"blank secret", domain.ClientInput{ClientID: "c1", ClientSecret: " "}, ErrBlankSecret},
		{"protected id", domain.ClientInput{ClientID: "web_app", ClientSecret: "s"}, ErrClientIDInUse},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateExternalClient(ctx, tc.in)
			require.ErrorIs(t, err, tc.want)
		})
	}

	_, err := svc.CreateExternalClient(ctx, domain.ClientInput{ClientID: strings.Repeat("a", 50), ClientSecret: "s"})
	require.NoError(t, err)
}

func TestCreateExternalClient_ValidationErrorsShareParent(t *testing.T) {
	require.ErrorIs(t, ErrInvalidClientID, ErrValidation)
	require.ErrorIs(t, ErrBlankSecret, ErrValidation)
	require.NotErrorIs(t, ErrClientIDInUse, ErrValidation)
}

func TestCreateExternalClient_ExistingIDIsNotOverwritten(t *testing.T) {
	ctx := context.Background()
	svc, st := newClientService(t)

	_, err := svc.CreateExternalClient(ctx, domain.ClientInput{ClientID: "c1", ClientSecret: "first", TokenValiditySeconds: 120})
	require.NoError(t, err)

	_, err = svc.CreateExternalClient(ctx, domain.ClientInput{ClientID: "c1", ClientSecret: "second", TokenValiditySeconds: 900})
	require.ErrorIs(t, err, ErrClientIDInUse)

	stored, err := st.Clients().GetClient(ctx, "c1")
	require.NoError(t, err)
	require.Equal(t, 120, stored.AccessTokenValidity)
	require.NoError(t, testHasher.Verify("first", stored.SecretHash))
}

func TestCreateExternalClient_NegativeValidityIsFloored(t *testing.T) {
	svc, _ := newClientService(t)

	summary, err := svc.CreateExternalClient(context.Background(), domain.ClientInput{
		ClientID:             "c1",
		ClientSecret:         "s",
		TokenValiditySeconds: -5,
	})
	require.NoError(t, err)
	require.Equal(t, MinAccessTokenValiditySeconds, summary.TokenValiditySeconds)
}

func TestCreateExternalClient_HugeValidityIsCapped(t *testing.T) {
	ctx := context.Background()
	svc, st := newClientService(t)

	summary, err := svc.CreateExternalClient(ctx, domain.ClientInput{
		ClientID:             "big",
		ClientSecret:         "s",
		TokenValiditySeconds: 10_000_000_000,
	})
	require.NoError(t, err)
	require.Equal(t, MaxAccessTokenValiditySeconds, summary.TokenValiditySeconds)

	stored, err := st.Clients().GetClient(ctx, "big")
	require.NoError(t, err)
	require.Positive(t, stored.AccessTokenTTL())
	require.Positive(t, stored.RefreshTokenTTL())

	summary, err = svc.UpdateExternalClient(ctx, domain.ClientInput{
		ClientID:             "big",
		TokenValiditySeconds: 1 << 40,
	})
	require.NoError(t, err)
	require.Equal(t, MaxAccessTokenValiditySeconds, summary.TokenValiditySeconds)
}

func TestUpdateExternalClient(t *testing.T) {
	ctx := context.Background()
	svc, st := newClientService(t)

	_, err := svc.CreateExternalClient(ctx, domain.ClientInput{ClientID: "c1", ClientSecret: "old", TokenValiditySeconds: 100})
	require.NoError(t, err)

	t.Run("blank secret keeps hash", func(t *testing.T) {
		before, err := st.Clients().GetClient(ctx, "c1")
		require.NoError(t, err)

		summary, err := svc.UpdateExternalClient(ctx, domain.ClientInput{ClientID: "c1", TokenValiditySeconds: 300})
		require.NoError(t, err)
		require.Equal(t, 300, summary.TokenValiditySeconds)

		after, err := st.Clients().GetClient(ctx, "c1")
		require.NoError(t, err)
		require.Equal(t, before.SecretHash, after.SecretHash)
		require.Equal(t, 300, after.AccessTokenValidity)
		require.Equal(t, 300, after.RefreshTokenValidity)
	})

	t.Run("new secret replaces hash and validity is floored", func(t *testing.T) {
		summary, err := svc.UpdateExternalClient(ctx, domain.ClientInput{ClientID: "c1", ClientSecret: "new", TokenValiditySeconds: 1})
		require.NoError(t, err)
		require.Equal(t, 60, summary.TokenValiditySeconds)

		after, err := st.Clients().GetClient(ctx, "c1")
		require.NoError(t, err)
		require.NoError(t, testHasher.Verify("new", after.SecretHash))
		require.Error(t, testHasher.Verify("old", after.SecretHash))
		require.Equal(t, 60, after.RefreshTokenValidity)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := svc.UpdateExternalClient(ctx, domain.ClientInput{ClientID: "nope", TokenValiditySeconds: 100})
		require.ErrorIs(t, err, ErrClientNotFound)
	})
}

func TestUpdateExternalClient_ProtectedIsNotFoundAndUnchanged(t *testing.T) {
	ctx := context.Background()
	svc, st := newClientService(t)

	require.NoError(t, st.Clients().CreateClient(ctx, domain.Client{
		ClientID:             "web_app",
		SecretHash:           "hash",
		Scope:                []string{"openid"},
		AccessTokenValidity:  600,
		RefreshTokenValidity: 600,
	}))

	_, err := svc.UpdateExternalClient(ctx, domain.ClientInput{ClientID: "web_app", ClientSecret: "x", TokenValiditySeconds: 60})
	require.ErrorIs(t, err, ErrClientNotFound)

	got, err := st.Clients().GetClient(ctx, "web_app")
	require.NoError(t, err)
	require.Equal(t, "hash", got.SecretHash)
	require.Equal(t, 600, got.AccessTokenValidity)
}

func TestFindByID(t *testing.T) {
	ctx := context.Background()
	svc, st := newClientService(t)

	for _, id := range []string{"partner", "internal"} {
		require.NoError(t, st.Clients().CreateClient(ctx, domain.Client{
			ClientID: id, SecretHash: "h", AccessTokenValidity: 120, RefreshTokenValidity: 120,
		}))
	}

	got, err := svc.FindByID(ctx, "partner")
	require.NoError(t, err)
	require.Equal(t, domain.ClientSummary{ClientID: "partner", TokenValiditySeconds: 120}, got)

	_, err = svc.FindByID(ctx, "missing")
	require.ErrorIs(t, err, ErrClientNotFound)

	// protected ids look exactly like unknown ones
	_, err = svc.FindByID(ctx, "internal")
	require.ErrorIs(t, err, ErrClientNotFound)
}

func TestListExternal(t *testing.T) {
	ctx := context.Background()
	svc, st := newClientService(t)

	for _, id := range []string{"zeta", "web_app", "alpha", "internal", "mid"} {
		require.NoError(t, st.Clients().CreateClient(ctx, domain.Client{
			ClientID: id, SecretHash: "h", AccessTokenValidity: 60, RefreshTokenValidity: 60,
		}))
	}

	page, err := svc.ListExternal(ctx, domain.PageRequest{Number: 0, Size: 2})
	require.NoError(t, err)
	require.EqualValues(t, 3, page.Total)
	require.Equal(t, 2, page.Size)
	require.Equal(t, []string{"zeta", "alpha"}, summaryIDs(page.Items))

	page, err = svc.ListExternal(ctx, domain.PageRequest{Number: 1, Size: 2})
	require.NoError(t, err)
	require.Equal(t, []string{"mid"}, summaryIDs(page.Items))

	page, err = svc.ListExternal(ctx, domain.PageRequest{Number: -1, Size: 1000})
	require.NoError(t, err)
	require.Equal(t, 0, page.Number)
	require.Equal(t, domain.MaxPageSize, page.Size)
	require.Len(t, page.Items, 3)
}

func summaryIDs(items []domain.ClientSummary) []string {
	ids := make([]string, len(items))
	for i, s := range items {
		ids[i] = s.ClientID
	}
	return ids
}

func TestDeleteExternalClient(t *testing.T) {
	ctx := context.Background()
	svc, st := newClientService(t)

	require.NoError(t, st.Clients().CreateClient(ctx, domain.Client{
		ClientID: "web_app", SecretHash: "h", AccessTokenValidity: 60, RefreshTokenValidity: 60,
	}))
	_, err := svc.CreateExternalClient(ctx, domain.ClientInput{ClientID: "c1", ClientSecret: "s"})
	require.NoError(t, err)

	t.Run("protected is a no-op", func(t *testing.T) {
		require.NoError(t, svc.DeleteExternalClient(ctx, "web_app"))
		_, err := st.Clients().GetClient(ctx, "web_app")
		require.NoError(t, err)
	})

	t.Run("unknown is ok", func(t *testing.T) {
		require.NoError(t, svc.DeleteExternalClient(ctx, "nope"))
	})

	t.Run("external is removed", func(t *testing.T) {
		require.NoError(t, svc.DeleteExternalClient(ctx, "c1"))
		_, err := svc.FindByID(ctx, "c1")
		require.ErrorIs(t, err, ErrClientNotFound)
	})
}
