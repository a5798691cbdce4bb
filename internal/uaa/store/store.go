package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/uaa/internal/uaa/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface implemented by the drivers. The
// repositories hang off it as methods so transactional code receives a Tx
// and cannot start a nested transaction by accident.
type Store interface {
	Repos

	ApplyMigrations() error

	// WithTx runs fn in a read/write transaction. fn returning an error rolls
	// everything back, returning nil commits.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error
	Ping(ctx context.Context) error
}

// Repos is the set of repositories shared by Store and Tx.
type Repos interface {
	Clients() Clients
	Users() Users
	RefreshTokens() RefreshTokens
}

// Tx is a transaction scoped view of the repositories.
type Tx interface {
	Repos
}

type Clients interface {
	GetClient(ctx context.Context, clientID string) (domain.Client, error)

	// CreateClient is a strict insert: an existing client_id yields
	// ErrAlreadyExists.
	CreateClient(ctx context.Context, c domain.Client) error

	// UpdateClient rewrites every mutable column. ErrNotFound when the row
	// does not exist.
	UpdateClient(ctx context.Context, c domain.Client) error

	// DeleteClient removes the client and its refresh tokens. Deleting a
	// missing client is not an error.
	DeleteClient(ctx context.Context, clientID string) error

	// ListClientsExcluding pages through clients in insertion order,
	// skipping the ids in exclude.
	ListClientsExcluding(ctx context.Context, exclude []string, limit, offset int) ([]domain.Client, error)
	CountClientsExcluding(ctx context.Context, exclude []string) (int64, error)
}

type Users interface {
	GetUserByID(ctx context.Context, id string) (domain.User, error)
	GetUserByLogin(ctx context.Context, login string) (domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)
	GetUserByResetKeyHash(ctx context.Context, hash string) (domain.User, error)

	// CreateUser returns ErrAlreadyExists when login or email is taken.
	CreateUser(ctx context.Context, u domain.User) error

	// SetResetKey stores a reset key fingerprint and its issue time.
	SetResetKey(ctx context.Context, userID, keyHash string, issuedAt time.Time) error

	// CompletePasswordReset sets the hash, activates the account and clears
	// the reset key.
	CompletePasswordReset(ctx context.Context, userID, passwordHash string) error

	UpdatePasswordHash(ctx context.Context, userID, passwordHash string) error

	// ClearResetKeysIssuedBefore drops reset keys older than cutoff.
	ClearResetKeysIssuedBefore(ctx context.Context, cutoff time.Time) (int64, error)

	IsEmpty(ctx context.Context) (bool, error)
}

type RefreshTokens interface {
	CreateRefreshToken(ctx context.Context, t domain.RefreshToken) error
	GetRefreshTokenByHash(ctx context.Context, hash string) (domain.RefreshToken, error)

	// ConsumeRefreshToken revokes a live token and reports whether this
	// call was the one that revoked it.
	ConsumeRefreshToken(ctx context.Context, hash string) (bool, error)
	RevokeRefreshToken(ctx context.Context, hash string) error
	RevokeUserRefreshTokens(ctx context.Context, userID string) error
	DeleteExpiredRefreshTokens(ctx context.Context, now time.Time) (int64, error)
}
