package service

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/uaa/internal/uaa/domain"
	"github.com/aussiebroadwan/uaa/pkg/cryptox"
	"github.com/aussiebroadwan/uaa/pkg/idx"
	"github.com/aussiebroadwan/uaa/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func TestHousekeeping_Cleanup(t *testing.T) {
	ctx := context.Background()
	f := newTokenFixture(t)
	now := time.Now().UTC()

	for _, exp := range []time.Time{now.Add(-time.Minute), now.Add(time.Hour)} {
		require.NoError(t, f.store.RefreshTokens().CreateRefreshToken(ctx, domain.RefreshToken{
			ID:        idx.New().String(),
			UserID:    f.user.ID,
			ClientID:  "web_app",
			TokenHash: cryptox.FingerprintToken(idx.New().String()),
			ExpiresAt: exp,
		}))
	}
	require.NoError(t, f.store.Users().SetResetKey(ctx, f.user.ID, "stale", now.Add(-ResetKeyTTL-time.Hour)))

	hk := NewHousekeepingService(f.store, slogx.Discard(), time.Hour)
	hk.Clock = func() time.Time { return now }
	hk.Cleanup(ctx)

	n, err := f.store.RefreshTokens().DeleteExpiredRefreshTokens(ctx, now)
	require.NoError(t, err)
	require.Zero(t, n, "expired token already removed")

	u, err := f.store.Users().GetUserByID(ctx, f.user.ID)
	require.NoError(t, err)
	require.Empty(t, u.ResetKeyHash)
}

func TestHousekeeping_StartStop(t *testing.T) {
	f := newTokenFixture(t)
	hk := NewHousekeepingService(f.store, slogx.Discard(), 0)
	require.Equal(t, time.Hour, hk.Interval)

	hk.Start()
	hk.Stop()
}
