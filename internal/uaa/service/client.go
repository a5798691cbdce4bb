package service

import (
	"context"
	"errors"
	"math"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/aussiebroadwan/uaa/internal/uaa/domain"
	"github.com/aussiebroadwan/uaa/internal/uaa/store"
	"github.com/aussiebroadwan/uaa/pkg/slogx"
)

// MinAccessTokenValiditySeconds is the floor applied to every stored
// token validity.
const MinAccessTokenValiditySeconds = 60

// MaxAccessTokenValiditySeconds is the ceiling applied to every stored
// token validity. Larger values overflow time.Duration.
const MaxAccessTokenValiditySeconds = math.MaxInt32

// MaxClientIDLength matches the oauth_client_details.client_id column.
const MaxClientIDLength = 50

// ExternalClientScope is the only scope granted to external clients.
const ExternalClientScope = "external"

// Hasher hashes and verifies client secrets and user passwords.
// *cryptox.PasswordHasher satisfies it.
type Hasher interface {
	Hash(plain string) (string, error)
	Verify(plain, encoded string) error
}

// ClientService manages external OAuth2 clients. The initial clients named
// by InitialClientIDs are owned by BootstrapService and are invisible to
// the update, list and delete operations here.
type ClientService struct {
	Store            store.Store
	Hasher           Hasher
	InitialClientIDs []string
}

// CreateExternalClient registers a client_credentials client. Creation is a
// strict insert: an existing or protected id is ErrClientIDInUse.
func (s *ClientService) CreateExternalClient(ctx context.Context, in domain.ClientInput) (domain.ClientSummary, error) {
	l := slogx.FromContext(ctx)

	if err := validateClientID(in.ClientID); err != nil {
		return domain.ClientSummary{}, err
	}
	if strings.TrimSpace(in.ClientSecret) == "" {
		return domain.ClientSummary{}, ErrBlankSecret
	}
	if s.isProtected(in.ClientID) {
		l.Warn("attempted to create client with protected id", "client_id", in.ClientID)
		return domain.ClientSummary{}, ErrClientIDInUse
	}

	hash, err := s.Hasher.Hash(in.ClientSecret)
	if err != nil {
		l.Error("failed to hash client secret", "error", err)
		return domain.ClientSummary{}, err
	}

	validity := floorValidity(in.TokenValiditySeconds)
	client := domain.Client{
		ClientID:             in.ClientID,
		SecretHash:           hash,
		Scope:                []string{ExternalClientScope},
		AuthorizedGrantTypes: []string{domain.GrantClientCredentials},
		AutoApprove:          true,
		Authorities:          []string{domain.AuthorityExternal},
		AccessTokenValidity:  validity,
		RefreshTokenValidity: validity,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		return tx.Clients().CreateClient(ctx, client)
	})
	if errors.Is(err, store.ErrAlreadyExists) {
		return domain.ClientSummary{}, ErrClientIDInUse
	}
	if err != nil {
		l.Error("failed to create client", "error", err, "client_id", in.ClientID)
		return domain.ClientSummary{}, err
	}

	l.Info("external client created", "client_id", client.ClientID, "token_validity", validity)
	return client.Summary(), nil
}

// UpdateExternalClient replaces the validity and, when a non-blank secret is
// given, the secret of an external client. Unknown and protected ids both
// yield ErrClientNotFound.
func (s *ClientService) UpdateExternalClient(ctx context.Context, in domain.ClientInput) (domain.ClientSummary, error) {
	l := slogx.FromContext(ctx)

	if s.isProtected(in.ClientID) {
		l.Warn("attempted to update protected client", "client_id", in.ClientID)
		return domain.ClientSummary{}, ErrClientNotFound
	}

	var hash string
	if strings.TrimSpace(in.ClientSecret) != "" {
		h, err := s.Hasher.Hash(in.ClientSecret)
		if err != nil {
			l.Error("failed to hash client secret", "error", err)
			return domain.ClientSummary{}, err
		}
		hash = h
	}

	var out domain.ClientSummary
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		client, err := tx.Clients().GetClient(ctx, in.ClientID)
		if err != nil {
			return err
		}

		validity := floorValidity(in.TokenValiditySeconds)
		client.AccessTokenValidity = validity
		client.RefreshTokenValidity = validity
		if hash != "" {
			client.SecretHash = hash
		}

		if err := tx.Clients().UpdateClient(ctx, client); err != nil {
			return err
		}
		out = client.Summary()
		return nil
	})
	if errors.Is(err, store.ErrNotFound) {
		return domain.ClientSummary{}, ErrClientNotFound
	}
	if err != nil {
		l.Error("failed to update client", "error", err, "client_id", in.ClientID)
		return domain.ClientSummary{}, err
	}

	l.Info("external client updated", "client_id", out.ClientID, "secret_changed", hash != "")
	return out, nil
}

// FindByID returns the summary of an external client. Protected ids are
// reported as ErrClientNotFound, the same as unknown ones.
func (s *ClientService) FindByID(ctx context.Context, clientID string) (domain.ClientSummary, error) {
	if s.isProtected(clientID) {
		return domain.ClientSummary{}, ErrClientNotFound
	}

	client, err := s.Store.Clients().GetClient(ctx, clientID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.ClientSummary{}, ErrClientNotFound
	}
	if err != nil {
		return domain.ClientSummary{}, err
	}
	return client.Summary(), nil
}

// ListExternal pages through the external clients in insertion order.
func (s *ClientService) ListExternal(ctx context.Context, req domain.PageRequest) (domain.Page[domain.ClientSummary], error) {
	req = req.Normalize()

	total, err := s.Store.Clients().CountClientsExcluding(ctx, s.InitialClientIDs)
	if err != nil {
		return domain.Page[domain.ClientSummary]{}, err
	}

	clients, err := s.Store.Clients().ListClientsExcluding(ctx, s.InitialClientIDs, req.Size, req.Offset())
	if err != nil {
		return domain.Page[domain.ClientSummary]{}, err
	}

	items := make([]domain.ClientSummary, len(clients))
	for i := range clients {
		items[i] = clients[i].Summary()
	}

	return domain.Page[domain.ClientSummary]{
		Items:  items,
		Total:  total,
		Number: req.Number,
		Size:   req.Size,
	}, nil
}

// DeleteExternalClient removes an external client and its refresh tokens.
// Protected ids are silently ignored and unknown ids are not an error.
func (s *ClientService) DeleteExternalClient(ctx context.Context, clientID string) error {
	l := slogx.FromContext(ctx)

	if s.isProtected(clientID) {
		l.Warn("ignored delete of protected client", "client_id", clientID)
		return nil
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		return tx.Clients().DeleteClient(ctx, clientID)
	})
	if err != nil {
		l.Error("failed to delete client", "error", err, "client_id", clientID)
		return err
	}

	l.Info("external client deleted", "client_id", clientID)
	return nil
}

func (s *ClientService) isProtected(clientID string) bool {
	return slices.Contains(s.InitialClientIDs, clientID)
}

func validateClientID(id string) error {
	if strings.TrimSpace(id) == "" || utf8.RuneCountInString(id) > MaxClientIDLength {
		return ErrInvalidClientID
	}
	return nil
}

func floorValidity(seconds int) int {
	return min(max(seconds, MinAccessTokenValiditySeconds), MaxAccessTokenValiditySeconds)
}
