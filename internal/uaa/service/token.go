package service

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/aussiebroadwan/uaa/internal/uaa/domain"
	"github.com/aussiebroadwan/uaa/internal/uaa/store"
	"github.com/aussiebroadwan/uaa/pkg/cryptox"
	"github.com/aussiebroadwan/uaa/pkg/idx"
	"github.com/aussiebroadwan/uaa/pkg/jwtx"
	"github.com/aussiebroadwan/uaa/pkg/slogx"
)

// TokenRequest carries the parameters of a token endpoint call. Which fields
// are read depends on GrantType.
type TokenRequest struct {
	GrantType    string
	ClientID     string
	ClientSecret string
	Username     string
	Password     string
	RefreshToken string
	Scope        []string
}

// TokenService issues access tokens for the client_credentials, password
// and refresh_token grants.
type TokenService struct {
	Store      store.Store
	Hasher     Hasher
	KeyManager *jwtx.KeyManager
	Enhancer   *TokenEnhancer
	Issuer     string

	// Audience is written to aud. When empty the client's resource ids are
	// used, falling back to the client id.
	Audience []string

	// Clock defaults to time.Now.
	Clock func() time.Time
}

// Exchange dispatches on the grant type.
func (s *TokenService) Exchange(ctx context.Context, req TokenRequest) (domain.TokenResponse, error) {
	switch req.GrantType {
	case domain.GrantClientCredentials:
		return s.ExchangeClientCredentials(ctx, req.ClientID, req.ClientSecret, req.Scope)
	case domain.GrantPassword:
		return s.ExchangePassword(ctx, req.ClientID, req.ClientSecret, req.Username, req.Password, req.Scope)
	case domain.GrantRefreshToken:
		return s.ExchangeRefreshToken(ctx, req.ClientID, req.ClientSecret, req.RefreshToken)
	default:
		return domain.TokenResponse{}, ErrUnsupportedGrantType
	}
}

// ExchangeClientCredentials implements the client_credentials grant. The
// client is the subject and no refresh token is issued.
func (s *TokenService) ExchangeClientCredentials(
	ctx context.Context,
	clientID, clientSecret string,
	requestedScopes []string,
) (domain.TokenResponse, error) {
	l := slogx.FromContext(ctx)

	c, err := s.authenticateClient(ctx, clientID, clientSecret, domain.GrantClientCredentials)
	if err != nil {
		return domain.TokenResponse{}, err
	}

	scopes, err := effectiveScopes(requestedScopes, c.Scope)
	if err != nil {
		return domain.TokenResponse{}, err
	}

	resp, err := s.issue(c, domain.ClientPrincipal{ClientID: c.ClientID}, scopes, c.Authorities)
	if err != nil {
		l.Error("failed to sign access token", "error", err)
		return domain.TokenResponse{}, err
	}

	l.Info("client_credentials token issued", "client_id", c.ClientID)
	return resp, nil
}

// ExchangePassword implements the resource owner password grant. A refresh
// token is issued only when the client is also allowed refresh_token.
func (s *TokenService) ExchangePassword(
	ctx context.Context,
	clientID, clientSecret, login, password string,
	requestedScopes []string,
) (domain.TokenResponse, error) {
	l := slogx.FromContext(ctx)

	c, err := s.authenticateClient(ctx, clientID, clientSecret, domain.GrantPassword)
	if err != nil {
		return domain.TokenResponse{}, err
	}

	u, err := s.Store.Users().GetUserByLogin(ctx, login)
	if errors.Is(err, store.ErrNotFound) {
		l.Info("password grant for unknown login", "client_id", clientID)
		return domain.TokenResponse{}, ErrInvalidGrant
	}
	if err != nil {
		return domain.TokenResponse{}, err
	}

	if err := s.Hasher.Verify(password, u.PasswordHash); err != nil {
		l.Info("password verification failed", "user_id", u.ID)
		return domain.TokenResponse{}, ErrInvalidGrant
	}
	if !u.Activated {
		l.Info("password grant for inactive user", "user_id", u.ID)
		return domain.TokenResponse{}, ErrInvalidGrant
	}
	s.maybeRehash(ctx, &u, password)

	scopes, err := effectiveScopes(requestedScopes, c.Scope)
	if err != nil {
		return domain.TokenResponse{}, err
	}

	resp, err := s.issue(c, &u, scopes, u.Authorities)
	if err != nil {
		l.Error("failed to sign access token", "error", err)
		return domain.TokenResponse{}, err
	}

	if c.AllowsGrant(domain.GrantRefreshToken) {
		opaque, rt, err := s.newRefreshToken(c, u.ID, scopes)
		if err != nil {
			return domain.TokenResponse{}, err
		}
		if err := s.Store.RefreshTokens().CreateRefreshToken(ctx, rt); err != nil {
			l.Error("failed to store refresh token", "error", err)
			return domain.TokenResponse{}, err
		}
		resp.RefreshToken = opaque
	}

	l.Info("password token issued", "client_id", c.ClientID, "user_id", u.ID)
	return resp, nil
}

// ExchangeRefreshToken implements the refresh_token grant with rotation:
// the presented token is revoked and a new one issued in the same
// transaction.
func (s *TokenService) ExchangeRefreshToken(
	ctx context.Context,
	clientID, clientSecret, refreshOpaque string,
) (domain.TokenResponse, error) {
	l := slogx.FromContext(ctx)
	now := s.now()

	c, err := s.authenticateClient(ctx, clientID, clientSecret, domain.GrantRefreshToken)
	if err != nil {
		return domain.TokenResponse{}, err
	}

	fp := cryptox.FingerprintToken(refreshOpaque)
	rt, err := s.Store.RefreshTokens().GetRefreshTokenByHash(ctx, fp)
	if errors.Is(err, store.ErrNotFound) {
		return domain.TokenResponse{}, ErrInvalidGrant
	}
	if err != nil {
		return domain.TokenResponse{}, err
	}

	if rt.Revoked || !now.Before(rt.ExpiresAt) {
		return domain.TokenResponse{}, ErrInvalidGrant
	}
	if rt.ClientID != c.ClientID {
		l.Warn("refresh token presented by another client", "client_id", clientID)
		return domain.TokenResponse{}, ErrInvalidGrant
	}

	u, err := s.Store.Users().GetUserByID(ctx, rt.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.TokenResponse{}, ErrInvalidGrant
	}
	if err != nil {
		return domain.TokenResponse{}, err
	}
	if !u.Activated {
		return domain.TokenResponse{}, ErrInvalidGrant
	}

	// Scopes the client lost since the token was issued are dropped.
	scopes := intersectScopes(rt.Scope, c.Scope)
	if len(scopes) == 0 {
		return domain.TokenResponse{}, ErrInvalidScope
	}

	resp, err := s.issue(c, &u, scopes, u.Authorities)
	if err != nil {
		l.Error("failed to sign access token", "error", err)
		return domain.TokenResponse{}, err
	}

	opaque, next, err := s.newRefreshToken(c, u.ID, scopes)
	if err != nil {
		return domain.TokenResponse{}, err
	}
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		consumed, err := tx.RefreshTokens().ConsumeRefreshToken(ctx, fp)
		if err != nil {
			return err
		}
		if !consumed {
			return ErrInvalidGrant
		}
		return tx.RefreshTokens().CreateRefreshToken(ctx, next)
	})
	if errors.Is(err, ErrInvalidGrant) {
		l.Warn("refresh token already rotated", "client_id", c.ClientID, "user_id", u.ID)
		return domain.TokenResponse{}, err
	}
	if err != nil {
		l.Error("failed to rotate refresh token", "error", err)
		return domain.TokenResponse{}, err
	}
	resp.RefreshToken = opaque

	l.Info("refresh token rotated", "client_id", c.ClientID, "user_id", u.ID)
	return resp, nil
}

// RevokeRefreshToken revokes a single refresh token by its opaque value.
func (s *TokenService) RevokeRefreshToken(ctx context.Context, refreshOpaque string) error {
	return s.Store.RefreshTokens().RevokeRefreshToken(ctx, cryptox.FingerprintToken(refreshOpaque))
}

func (s *TokenService) authenticateClient(ctx context.Context, clientID, secret, grant string) (domain.Client, error) {
	l := slogx.FromContext(ctx)

	if clientID == "" || secret == "" {
		return domain.Client{}, ErrInvalidClient
	}

	c, err := s.Store.Clients().GetClient(ctx, clientID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Client{}, ErrInvalidClient
	}
	if err != nil {
		return domain.Client{}, err
	}

	if err := s.Hasher.Verify(secret, c.SecretHash); err != nil {
		l.Info("client secret verification failed", "client_id", clientID)
		return domain.Client{}, ErrInvalidClient
	}
	if !c.AllowsGrant(grant) {
		l.Info("grant not allowed for client", "client_id", clientID, "grant_type", grant)
		return domain.Client{}, ErrUnauthorizedClient
	}
	return c, nil
}

// issue builds the claims in their canonical order, lets the enhancer add
// the final claims and signs the result.
func (s *TokenService) issue(
	c domain.Client,
	principal domain.Principal,
	scopes, authorities []string,
) (domain.TokenResponse, error) {
	now := s.now()
	ttl := c.AccessTokenTTL()
	jti := jwtx.NewJTI()

	claims := jwtx.NewClaimSet()
	claims.Set(jwtx.ClaimIssuer, s.Issuer)
	claims.Set(jwtx.ClaimSubject, principal.PrincipalName())
	claims.Set(jwtx.ClaimAudience, s.audience(c))
	claims.Set(jwtx.ClaimExpiresAt, now.Add(ttl).Unix())
	claims.Set(jwtx.ClaimNotBefore, now.Unix())
	claims.Set(jwtx.ClaimID, jti)
	claims.Set(jwtx.ClaimClientID, c.ClientID)
	claims.Set(jwtx.ClaimScope, scopes)
	if len(authorities) > 0 {
		claims.Set(jwtx.ClaimAuthorities, authorities)
	}
	if _, ok := principal.(domain.IdentifiedPrincipal); ok {
		claims.Set(jwtx.ClaimUserName, principal.PrincipalName())
	}
	s.Enhancer.Enhance(claims, principal)

	token, err := s.KeyManager.Signer().Sign(claims)
	if err != nil {
		return domain.TokenResponse{}, err
	}

	return domain.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int(ttl / time.Second),
		Scope:       strings.Join(scopes, " "),
		JTI:         jti,
	}, nil
}

func (s *TokenService) newRefreshToken(c domain.Client, userID string, scopes []string) (string, domain.RefreshToken, error) {
	opaque, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return "", domain.RefreshToken{}, err
	}
	now := s.now()
	return opaque, domain.RefreshToken{
		ID:        idx.NewAt(now).String(),
		UserID:    userID,
		ClientID:  c.ClientID,
		TokenHash: cryptox.FingerprintToken(opaque),
		Scope:     scopes,
		ExpiresAt: now.Add(c.RefreshTokenTTL()),
		CreatedAt: now,
	}, nil
}

// maybeRehash upgrades legacy or outdated password hashes after a
// successful login. Failures are logged and otherwise ignored.
func (s *TokenService) maybeRehash(ctx context.Context, u *domain.User, password string) {
	r, ok := s.Hasher.(interface{ NeedsRehash(string) bool })
	if !ok || !r.NeedsRehash(u.PasswordHash) {
		return
	}
	l := slogx.FromContext(ctx)

	hash, err := s.Hasher.Hash(password)
	if err != nil {
		l.Warn("failed to rehash password", "user_id", u.ID, "error", err)
		return
	}
	if err := s.Store.Users().UpdatePasswordHash(ctx, u.ID, hash); err != nil {
		l.Warn("failed to store rehashed password", "user_id", u.ID, "error", err)
		return
	}
	u.PasswordHash = hash
	l.Info("password hash upgraded", "user_id", u.ID)
}

func (s *TokenService) audience(c domain.Client) []string {
	switch {
	case len(s.Audience) > 0:
		return s.Audience
	case len(c.ResourceIDs) > 0:
		return c.ResourceIDs
	default:
		return []string{c.ClientID}
	}
}

func (s *TokenService) now() time.Time {
	if s.Clock == nil {
		return time.Now()
	}
	return s.Clock()
}

// effectiveScopes narrows the client's scopes to the requested ones. No
// request means every client scope.
func effectiveScopes(requested, allowed []string) ([]string, error) {
	if len(requested) == 0 {
		return slices.Clone(allowed), nil
	}
	out := intersectScopes(requested, allowed)
	if len(out) == 0 {
		return nil, ErrInvalidScope
	}
	return out, nil
}

func intersectScopes(a, b []string) []string {
	var out []string
	for _, s := range a {
		if slices.Contains(b, s) && !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	return out
}
