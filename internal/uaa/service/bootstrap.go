package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aussiebroadwan/uaa/internal/uaa/domain"
	"github.com/aussiebroadwan/uaa/internal/uaa/store"
	"github.com/aussiebroadwan/uaa/pkg/idx"
	"github.com/aussiebroadwan/uaa/pkg/slogx"
)

// Shapes of the two initial clients.
const (
	WebClientScope     = "openid"
	ServiceClientScope = "web-app"
)

var webClientGrants = []string{
	domain.GrantImplicit,
	domain.GrantRefreshToken,
	domain.GrantPassword,
	domain.GrantAuthorizationCode,
}

// InitialClient is the configured identity of one of the built in clients.
type InitialClient struct {
	ClientID             string `yaml:"client_id"`
	Secret               string `yaml:"secret"`
	AccessTokenValidity  int    `yaml:"access_token_validity"`
	RefreshTokenValidity int    `yaml:"refresh_token_validity"`
}

// AdminUser is the account created on an empty users table.
type AdminUser struct {
	Login    string `yaml:"login"`
	Password string `yaml:"password"`
	Email    string `yaml:"email"`
}

// BootstrapService reconciles the initial clients and the first admin
// account with configuration on every start.
type BootstrapService struct {
	Store         store.Store
	Hasher        Hasher
	WebClient     InitialClient
	ServiceClient InitialClient
	Admin         AdminUser
}

// InitialClientIDs lists the protected client ids.
func (s *BootstrapService) InitialClientIDs() []string {
	var ids []string
	for _, c := range []InitialClient{s.WebClient, s.ServiceClient} {
		if c.ClientID != "" {
			ids = append(ids, c.ClientID)
		}
	}
	return ids
}

// EnsureInitialClients creates the web and service clients, or rewrites
// them in place from configuration if they already exist. The secret is
// rehashed on every call. Both clients are written in one transaction.
func (s *BootstrapService) EnsureInitialClients(ctx context.Context) error {
	l := slogx.FromContext(ctx)

	web, err := s.initialRecord(s.WebClient)
	if err != nil {
		return fmt.Errorf("web client: %w", err)
	}
	web.Scope = []string{WebClientScope}
	web.AuthorizedGrantTypes = webClientGrants
	web.AutoApprove = true

	svc, err := s.initialRecord(s.ServiceClient)
	if err != nil {
		return fmt.Errorf("service client: %w", err)
	}
	svc.Scope = []string{ServiceClientScope}
	svc.AuthorizedGrantTypes = []string{domain.GrantClientCredentials}
	svc.Authorities = []string{domain.AuthorityAdmin}
	svc.AutoApprove = true

	if web.ClientID == svc.ClientID {
		return fmt.Errorf("initial clients share id %q", web.ClientID)
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		for _, c := range []domain.Client{web, svc} {
			if err := upsertClient(ctx, tx, c); err != nil {
				return fmt.Errorf("ensure client %s: %w", c.ClientID, err)
			}
		}
		return nil
	})
	if err != nil {
		l.Error("failed to ensure initial clients", "error", err)
		return err
	}

	l.Info("initial clients ensured",
		"web_client_id", web.ClientID,
		"service_client_id", svc.ClientID,
	)
	return nil
}

func (s *BootstrapService) initialRecord(c InitialClient) (domain.Client, error) {
	if err := validateClientID(c.ClientID); err != nil {
		return domain.Client{}, err
	}
	if strings.TrimSpace(c.Secret) == "" {
		return domain.Client{}, ErrBlankSecret
	}

	hash, err := s.Hasher.Hash(c.Secret)
	if err != nil {
		return domain.Client{}, fmt.Errorf("hash secret: %w", err)
	}

	access := floorValidity(c.AccessTokenValidity)
	return domain.Client{
		ClientID:             c.ClientID,
		SecretHash:           hash,
		AccessTokenValidity:  access,
		RefreshTokenValidity: max(c.RefreshTokenValidity, access),
	}, nil
}

func upsertClient(ctx context.Context, tx store.Tx, c domain.Client) error {
	_, err := tx.Clients().GetClient(ctx, c.ClientID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return tx.Clients().CreateClient(ctx, c)
	case err != nil:
		return err
	default:
		return tx.Clients().UpdateClient(ctx, c)
	}
}

// EnsureAdminUser creates an activated administrator when no user exists
// and admin credentials are configured. It reports whether a user was
// created.
func (s *BootstrapService) EnsureAdminUser(ctx context.Context) (bool, error) {
	l := slogx.FromContext(ctx)

	if s.Admin.Login == "" || s.Admin.Password == "" {
		l.Debug("admin user not configured, skipping")
		return false, nil
	}
	if len(s.Admin.Password) < MinPasswordLength {
		return false, ErrWeakPassword
	}

	hash, err := s.Hasher.Hash(s.Admin.Password)
	if err != nil {
		return false, fmt.Errorf("hash admin password: %w", err)
	}

	created := false
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		empty, err := tx.Users().IsEmpty(ctx)
		if err != nil || !empty {
			return err
		}
		created = true
		return tx.Users().CreateUser(ctx, domain.User{
			ID:           idx.New().String(),
			Login:        s.Admin.Login,
			Email:        s.Admin.Email,
			LangKey:      DefaultLangKey,
			PasswordHash: hash,
			Authorities:  []string{domain.AuthorityAdmin, domain.AuthorityUser},
			Activated:    true,
		})
	})
	if err != nil {
		l.Error("failed to create admin user", "error", err)
		return false, err
	}
	if created {
		l.Info("admin user created", "login", s.Admin.Login)
	}
	return created, nil
}
