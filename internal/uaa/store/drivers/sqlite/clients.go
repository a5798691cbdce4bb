package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aussiebroadwan/uaa/internal/uaa/domain"
	"github.com/aussiebroadwan/uaa/internal/uaa/store"
	"github.com/aussiebroadwan/uaa/internal/uaa/store/drivers/sqlite/gen"
)

type clientsRepo struct {
	q *gen.Queries
}

func (r *clientsRepo) GetClient(ctx context.Context, clientID string) (domain.Client, error) {
	row, err := r.q.GetClient(ctx, clientID)
	if err != nil {
		return domain.Client{}, mapNotFound(err)
	}
	return mapClient(row), nil
}

func (r *clientsRepo) CreateClient(ctx context.Context, c domain.Client) error {
	now := time.Now().UTC()
	err := r.q.CreateClient(ctx, gen.CreateClientParams{
		ClientID:              c.ClientID,
		ClientSecret:          c.SecretHash,
		Scope:                 domain.JoinList(c.Scope),
		ResourceIds:           domain.JoinList(c.ResourceIDs),
		AuthorizedGrantTypes:  domain.JoinList(c.AuthorizedGrantTypes),
		Autoapprove:           domain.FormatBool(c.AutoApprove),
		Authorities:           nullString(domain.JoinList(c.Authorities)),
		AccessTokenValidity:   int64(c.AccessTokenValidity),
		RefreshTokenValidity:  int64(c.RefreshTokenValidity),
		AdditionalInformation: nullString(c.AdditionalInfo),
		WebServerRedirectUri:  nullString(c.RedirectURI),
		CreatedAt:             now,
		UpdatedAt:             now,
	})
	return mapConstraint(err)
}

func (r *clientsRepo) UpdateClient(ctx context.Context, c domain.Client) error {
	n, err := r.q.UpdateClient(ctx, gen.UpdateClientParams{
		ClientSecret:          c.SecretHash,
		Scope:                 domain.JoinList(c.Scope),
		ResourceIds:           domain.JoinList(c.ResourceIDs),
		AuthorizedGrantTypes:  domain.JoinList(c.AuthorizedGrantTypes),
		Autoapprove:           domain.FormatBool(c.AutoApprove),
		Authorities:           nullString(domain.JoinList(c.Authorities)),
		AccessTokenValidity:   int64(c.AccessTokenValidity),
		RefreshTokenValidity:  int64(c.RefreshTokenValidity),
		AdditionalInformation: nullString(c.AdditionalInfo),
		WebServerRedirectUri:  nullString(c.RedirectURI),
		UpdatedAt:             time.Now().UTC(),
		ClientID:              c.ClientID,
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *clientsRepo) DeleteClient(ctx context.Context, clientID string) error {
	return r.q.DeleteClient(ctx, clientID)
}

func (r *clientsRepo) ListClientsExcluding(ctx context.Context, exclude []string, limit, offset int) ([]domain.Client, error) {
	excluded, err := excludedJSON(exclude)
	if err != nil {
		return nil, err
	}

	rows, err := r.q.ListClientsExcluding(ctx, gen.ListClientsExcludingParams{
		Excluded: excluded,
		Limit:    int64(limit),
		Offset:   int64(offset),
	})
	if err != nil {
		return nil, err
	}

	out := make([]domain.Client, len(rows))
	for i, row := range rows {
		out[i] = mapClient(row)
	}
	return out, nil
}

func (r *clientsRepo) CountClientsExcluding(ctx context.Context, exclude []string) (int64, error) {
	excluded, err := excludedJSON(exclude)
	if err != nil {
		return 0, err
	}
	return r.q.CountClientsExcluding(ctx, excluded)
}

// excludedJSON encodes the id list for json_each. A nil slice must still
// encode as [] so NOT IN matches every row.
func excludedJSON(ids []string) (string, error) {
	if ids == nil {
		ids = []string{}
	}
	b, err := json.Marshal(ids)
	if err != nil {
		return "", fmt.Errorf("sqlite: encode excluded ids: %w", err)
	}
	return string(b), nil
}

func mapClient(row gen.OauthClientDetail) domain.Client {
	return domain.Client{
		ClientID:             row.ClientID,
		SecretHash:           row.ClientSecret,
		Scope:                domain.SplitList(row.Scope),
		ResourceIDs:          domain.SplitList(row.ResourceIds),
		AuthorizedGrantTypes: domain.SplitList(row.AuthorizedGrantTypes),
		AutoApprove:          domain.ParseBool(row.Autoapprove),
		Authorities:          domain.SplitList(row.Authorities.String),
		AccessTokenValidity:  int(row.AccessTokenValidity),
		RefreshTokenValidity: int(row.RefreshTokenValidity),
		AdditionalInfo:       row.AdditionalInformation.String,
		RedirectURI:          row.WebServerRedirectUri.String,
		CreatedAt:            row.CreatedAt,
		UpdatedAt:            row.UpdatedAt,
	}
}
