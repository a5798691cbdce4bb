package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/aussiebroadwan/uaa/internal/uaa/domain"
	"github.com/aussiebroadwan/uaa/internal/uaa/store"
	"github.com/aussiebroadwan/uaa/internal/uaa/store/drivers/sqlite/gen"
)

type usersRepo struct {
	q *gen.Queries
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row, err := r.q.GetUserByID(ctx, id)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return mapUser(row), nil
}

func (r *usersRepo) GetUserByLogin(ctx context.Context, login string) (domain.User, error) {
	row, err := r.q.GetUserByLogin(ctx, login)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return mapUser(row), nil
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	if strings.TrimSpace(email) == "" {
		return domain.User{}, store.ErrNotFound
	}
	row, err := r.q.GetUserByEmail(ctx, nullString(email))
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return mapUser(row), nil
}

func (r *usersRepo) GetUserByResetKeyHash(ctx context.Context, hash string) (domain.User, error) {
	if hash == "" {
		return domain.User{}, store.ErrNotFound
	}
	row, err := r.q.GetUserByResetKeyHash(ctx, nullString(hash))
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return mapUser(row), nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	now := time.Now().UTC()
	err := r.q.CreateUser(ctx, gen.CreateUserParams{
		ID:           u.ID,
		Login:        u.Login,
		Email:        nullString(u.Email),
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		LangKey:      u.LangKey,
		PasswordHash: u.PasswordHash,
		Authorities:  domain.JoinList(u.Authorities),
		Activated:    u.Activated,
		ResetKeyHash: nullString(u.ResetKeyHash),
		ResetDate:    nullTime(u.ResetDate),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	return mapConstraint(err)
}

func (r *usersRepo) SetResetKey(ctx context.Context, userID, keyHash string, issuedAt time.Time) error {
	issued := issuedAt.UTC()
	n, err := r.q.SetUserResetKey(ctx, gen.SetUserResetKeyParams{
		ResetKeyHash: nullString(keyHash),
		ResetDate:    nullTime(&issued),
		UpdatedAt:    time.Now().UTC(),
		ID:           userID,
	})
	return affected(n, err)
}

func (r *usersRepo) CompletePasswordReset(ctx context.Context, userID, passwordHash string) error {
	n, err := r.q.CompleteUserPasswordReset(ctx, gen.CompleteUserPasswordResetParams{
		PasswordHash: passwordHash,
		UpdatedAt:    time.Now().UTC(),
		ID:           userID,
	})
	return affected(n, err)
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, userID, passwordHash string) error {
	n, err := r.q.UpdateUserPasswordHash(ctx, gen.UpdateUserPasswordHashParams{
		PasswordHash: passwordHash,
		UpdatedAt:    time.Now().UTC(),
		ID:           userID,
	})
	return affected(n, err)
}

func (r *usersRepo) ClearResetKeysIssuedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	c := cutoff.UTC()
	return r.q.ClearResetKeysIssuedBefore(ctx, nullTime(&c))
}

func (r *usersRepo) IsEmpty(ctx context.Context) (bool, error) {
	n, err := r.q.CountUsers(ctx)
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

func affected(n int64, err error) error {
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func mapUser(row gen.User) domain.User {
	u := domain.User{
		ID:           row.ID,
		Login:        row.Login,
		Email:        row.Email.String,
		FirstName:    row.FirstName,
		LastName:     row.LastName,
		LangKey:      row.LangKey,
		PasswordHash: row.PasswordHash,
		Authorities:  domain.SplitList(row.Authorities),
		Activated:    row.Activated,
		ResetKeyHash: row.ResetKeyHash.String,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
	if row.ResetDate.Valid {
		t := row.ResetDate.Time
		u.ResetDate = &t
	}
	return u
}
