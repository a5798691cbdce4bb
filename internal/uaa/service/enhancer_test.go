package service

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/uaa/internal/uaa/domain"
	"github.com/aussiebroadwan/uaa/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestTokenEnhancer_UserPrincipal(t *testing.T) {
	claims := jwtx.NewClaimSet()
	claims.Set(jwtx.ClaimSubject, "alice")

	(&TokenEnhancer{}).Enhance(claims, &domain.User{ID: "U123", Login: "alice"})

	id, ok := claims.Get(jwtx.ClaimUserID)
	require.True(t, ok)
	require.Equal(t, "U123", id)

	iat, ok := claims.Get(jwtx.ClaimIssuedAt)
	require.True(t, ok)
	require.InDelta(t, time.Now().Unix(), iat, 2)
	require.Equal(t, []string{jwtx.ClaimSubject, jwtx.ClaimUserID, jwtx.ClaimIssuedAt}, claims.Keys())
}

func TestTokenEnhancer_PrincipalWithoutID(t *testing.T) {
	for name, p := range map[string]domain.Principal{
		"client":   domain.ClientPrincipal{ClientID: "c1"},
		"nil":      nil,
		"empty id": &domain.User{Login: "bob"},
	} {
		t.Run(name, func(t *testing.T) {
			claims := jwtx.NewClaimSet()
			(&TokenEnhancer{}).Enhance(claims, p)

			_, ok := claims.Get(jwtx.ClaimUserID)
			require.False(t, ok)
			require.Equal(t, []string{jwtx.ClaimIssuedAt}, claims.Keys())
		})
	}
}

func TestTokenEnhancer_IssuedAtOverwritesInPlace(t *testing.T) {
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	claims := jwtx.NewClaimSet()
	claims.Set(jwtx.ClaimIssuedAt, int64(1))
	claims.Set(jwtx.ClaimClientID, "c1")

	(&TokenEnhancer{Clock: func() time.Time { return fixed }}).Enhance(claims, nil)

	iat, _ := claims.Get(jwtx.ClaimIssuedAt)
	require.Equal(t, fixed.Unix(), iat)
	require.Equal(t, []string{jwtx.ClaimIssuedAt, jwtx.ClaimClientID}, claims.Keys())
}
