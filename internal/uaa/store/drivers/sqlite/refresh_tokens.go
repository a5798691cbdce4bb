package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/uaa/internal/uaa/domain"
	"github.com/aussiebroadwan/uaa/internal/uaa/store/drivers/sqlite/gen"
)

type refreshTokensRepo struct {
	q *gen.Queries
}

func (r *refreshTokensRepo) CreateRefreshToken(ctx context.Context, t domain.RefreshToken) error {
	created := t.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	err := r.q.CreateRefreshToken(ctx, gen.CreateRefreshTokenParams{
		ID:        t.ID,
		UserID:    t.UserID,
		ClientID:  t.ClientID,
		TokenHash: t.TokenHash,
		Scope:     domain.JoinList(t.Scope),
		ExpiresAt: t.ExpiresAt.UTC(),
		CreatedAt: created.UTC(),
	})
	return mapConstraint(err)
}

func (r *refreshTokensRepo) GetRefreshTokenByHash(ctx context.Context, hash string) (domain.RefreshToken, error) {
	row, err := r.q.GetRefreshTokenByHash(ctx, hash)
	if err != nil {
		return domain.RefreshToken{}, mapNotFound(err)
	}
	return domain.RefreshToken{
		ID:        row.ID,
		UserID:    row.UserID,
		ClientID:  row.ClientID,
		TokenHash: row.TokenHash,
		Scope:     domain.SplitList(row.Scope),
		ExpiresAt: row.ExpiresAt,
		Revoked:   row.Revoked,
		CreatedAt: row.CreatedAt,
	}, nil
}

func (r *refreshTokensRepo) ConsumeRefreshToken(ctx context.Context, hash string) (bool, error) {
	n, err := r.q.ConsumeRefreshToken(ctx, hash)
	return n == 1, err
}

func (r *refreshTokensRepo) RevokeRefreshToken(ctx context.Context, hash string) error {
	return r.q.RevokeRefreshToken(ctx, hash)
}

func (r *refreshTokensRepo) RevokeUserRefreshTokens(ctx context.Context, userID string) error {
	return r.q.RevokeUserRefreshTokens(ctx, userID)
}

// DeleteExpiredRefreshTokens also drops revoked rows; they can never be
// redeemed again.
func (r *refreshTokensRepo) DeleteExpiredRefreshTokens(ctx context.Context, now time.Time) (int64, error) {
	return r.q.DeleteExpiredRefreshTokens(ctx, now.UTC())
}
