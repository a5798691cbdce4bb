package service

import (
	"context"
	"errors"
	netmail "net/mail"
	"strings"
	"time"

	"github.com/aussiebroadwan/uaa/internal/uaa/domain"
	"github.com/aussiebroadwan/uaa/internal/uaa/mail"
	"github.com/aussiebroadwan/uaa/internal/uaa/store"
	"github.com/aussiebroadwan/uaa/pkg/cryptox"
	"github.com/aussiebroadwan/uaa/pkg/idx"
	"github.com/aussiebroadwan/uaa/pkg/slogx"
)

const (
	// MinPasswordLength applies to every password a user chooses.
	MinPasswordLength = 8

	// ResetKeyTTL bounds both reset and activation keys.
	ResetKeyTTL = 24 * time.Hour

	DefaultLangKey = "en"
)

// Mailer is the subset of *mail.Dispatcher the account flows use. Sends
// never fail from the caller's point of view.
type Mailer interface {
	SendCreationEmail(ctx context.Context, u mail.User, baseURL string)
	SendPasswordResetMail(ctx context.Context, u mail.User, baseURL string)
	SendActivationEmail(ctx context.Context, u mail.User, baseURL string)
}

// UserService owns the account lifecycle: creation, registration,
// activation and password reset.
type UserService struct {
	Store  store.Store
	Hasher Hasher
	Mailer Mailer

	// Clock defaults to time.Now.
	Clock func() time.Time
}

// RegisterInput is a self service sign up.
type RegisterInput struct {
	domain.NewUser
	Password string
}

// GetUserByID fetches a user by id.
func (s *UserService) GetUserByID(ctx context.Context, userID string) (domain.User, error) {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrUserNotFound
	}
	return u, err
}

// CreateUser creates an activated account with an unusable random password
// and mails the user a link to choose one.
func (s *UserService) CreateUser(ctx context.Context, in domain.NewUser, baseURL string) (domain.User, error) {
	l := slogx.FromContext(ctx)

	in, err := normalizeNewUser(in)
	if err != nil {
		return domain.User{}, err
	}
	if len(in.Authorities) == 0 {
		in.Authorities = []string{domain.AuthorityUser}
	}

	random, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return domain.User{}, err
	}
	hash, err := s.Hasher.Hash(random)
	if err != nil {
		l.Error("failed to hash password", "error", err)
		return domain.User{}, err
	}

	key, u, err := s.insertUser(ctx, in, hash, true)
	if err != nil {
		return domain.User{}, err
	}

	s.Mailer.SendCreationEmail(ctx, mailUser(u, key), baseURL)
	l.Info("user created", "user_id", u.ID, "login", u.Login)
	return u, nil
}

// Register creates an inactive ROLE_USER account with the chosen password
// and mails an activation key.
func (s *UserService) Register(ctx context.Context, in RegisterInput, baseURL string) (domain.User, error) {
	l := slogx.FromContext(ctx)

	nu, err := normalizeNewUser(in.NewUser)
	if err != nil {
		return domain.User{}, err
	}
	nu.Authorities = []string{domain.AuthorityUser}
	if len(in.Password) < MinPasswordLength {
		return domain.User{}, ErrWeakPassword
	}

	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		l.Error("failed to hash password", "error", err)
		return domain.User{}, err
	}

	key, u, err := s.insertUser(ctx, nu, hash, false)
	if err != nil {
		return domain.User{}, err
	}

	s.Mailer.SendActivationEmail(ctx, mailUser(u, key), baseURL)
	l.Info("user registered", "user_id", u.ID, "login", u.Login)
	return u, nil
}

// Activate consumes an activation key issued by Register.
func (s *UserService) Activate(ctx context.Context, key string) (domain.User, error) {
	l := slogx.FromContext(ctx)

	var out domain.User
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		u, err := s.lookupKey(ctx, tx, key)
		if err != nil {
			return err
		}
		if err := tx.Users().CompletePasswordReset(ctx, u.ID, u.PasswordHash); err != nil {
			return err
		}
		u.Activated = true
		u.ResetKeyHash, u.ResetDate = "", nil
		out = u
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrInvalidResetKey) {
			l.Error("failed to activate user", "error", err)
		}
		return domain.User{}, err
	}

	l.Info("user activated", "user_id", out.ID)
	return out, nil
}

// RequestPasswordReset issues a reset key to the activated user owning
// email. Unknown emails and inactive users are silently ignored.
func (s *UserService) RequestPasswordReset(ctx context.Context, email, baseURL string) error {
	l := slogx.FromContext(ctx)

	u, err := s.Store.Users().GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, store.ErrNotFound) {
		l.Debug("password reset requested for unknown email")
		return nil
	}
	if err != nil {
		return err
	}
	if !u.Activated {
		l.Debug("password reset requested for inactive user", "user_id", u.ID)
		return nil
	}

	key, err := cryptox.GenerateToken(cryptox.TokenSize128)
	if err != nil {
		return err
	}
	if err := s.Store.Users().SetResetKey(ctx, u.ID, cryptox.FingerprintToken(key), s.now()); err != nil {
		l.Error("failed to store reset key", "error", err, "user_id", u.ID)
		return err
	}

	s.Mailer.SendPasswordResetMail(ctx, mailUser(u, key), baseURL)
	l.Info("password reset requested", "user_id", u.ID)
	return nil
}

// FinishPasswordReset sets a new password using a reset key. All refresh
// tokens of the user are revoked.
func (s *UserService) FinishPasswordReset(ctx context.Context, key, newPassword string) error {
	l := slogx.FromContext(ctx)

	if len(newPassword) < MinPasswordLength {
		return ErrWeakPassword
	}
	hash, err := s.Hasher.Hash(newPassword)
	if err != nil {
		l.Error("failed to hash password", "error", err)
		return err
	}

	var userID string
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		u, err := s.lookupKey(ctx, tx, key)
		if err != nil {
			return err
		}
		if err := tx.Users().CompletePasswordReset(ctx, u.ID, hash); err != nil {
			return err
		}
		userID = u.ID
		return tx.RefreshTokens().RevokeUserRefreshTokens(ctx, u.ID)
	})
	if err != nil {
		if !errors.Is(err, ErrInvalidResetKey) {
			l.Error("failed to finish password reset", "error", err)
		}
		return err
	}

	l.Info("password reset completed", "user_id", userID)
	return nil
}

func (s *UserService) insertUser(ctx context.Context, in domain.NewUser, hash string, activated bool) (string, domain.User, error) {
	key, err := cryptox.GenerateToken(cryptox.TokenSize128)
	if err != nil {
		return "", domain.User{}, err
	}
	now := s.now()

	u := domain.User{
		ID:           idx.NewAt(now).String(),
		Login:        in.Login,
		Email:        in.Email,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		LangKey:      in.LangKey,
		PasswordHash: hash,
		Authorities:  in.Authorities,
		Activated:    activated,
		ResetKeyHash: cryptox.FingerprintToken(key),
		ResetDate:    &now,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, err := tx.Users().GetUserByLogin(ctx, u.Login); err == nil {
			return ErrLoginInUse
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}
		if u.Email != "" {
			if _, err := tx.Users().GetUserByEmail(ctx, u.Email); err == nil {
				return ErrEmailInUse
			} else if !errors.Is(err, store.ErrNotFound) {
				return err
			}
		}
		return tx.Users().CreateUser(ctx, u)
	})
	if errors.Is(err, store.ErrAlreadyExists) {
		err = ErrLoginInUse
	}
	if err != nil {
		return "", domain.User{}, err
	}
	return key, u, nil
}

// lookupKey resolves a live reset or activation key.
func (s *UserService) lookupKey(ctx context.Context, tx store.Tx, key string) (domain.User, error) {
	if key == "" {
		return domain.User{}, ErrInvalidResetKey
	}
	u, err := tx.Users().GetUserByResetKeyHash(ctx, cryptox.FingerprintToken(key))
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrInvalidResetKey
	}
	if err != nil {
		return domain.User{}, err
	}
	if u.ResetDate == nil || s.now().Sub(*u.ResetDate) > ResetKeyTTL {
		return domain.User{}, ErrInvalidResetKey
	}
	return u, nil
}

func (s *UserService) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock().UTC()
}

func normalizeNewUser(in domain.NewUser) (domain.NewUser, error) {
	in.Login = strings.ToLower(strings.TrimSpace(in.Login))
	if in.Login == "" {
		return in, ErrInvalidLogin
	}

	in.Email = strings.TrimSpace(in.Email)
	if in.Email != "" {
		addr, err := netmail.ParseAddress(in.Email)
		if err != nil || addr.Name != "" {
			return in, ErrInvalidEmail
		}
		in.Email = strings.ToLower(addr.Address)
	}

	if in.LangKey = strings.TrimSpace(in.LangKey); in.LangKey == "" {
		in.LangKey = DefaultLangKey
	}
	return in, nil
}

func mailUser(u domain.User, key string) mail.User {
	return mail.User{
		Login:     u.Login,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		LangKey:   u.LangKey,
		Key:       key,
	}
}
