package sqlite

import (
	"github.com/aussiebroadwan/uaa/internal/uaa/store"
	"github.com/aussiebroadwan/uaa/internal/uaa/store/drivers/sqlite/gen"
)

// txStore hands out repositories bound to a single *sql.Tx.
type txStore struct {
	q *gen.Queries
}

func (t *txStore) Clients() store.Clients             { return &clientsRepo{q: t.q} }
func (t *txStore) Users() store.Users                 { return &usersRepo{q: t.q} }
func (t *txStore) RefreshTokens() store.RefreshTokens { return &refreshTokensRepo{q: t.q} }
