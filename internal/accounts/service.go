// Package accounts implements account registration, authentication with a
// failed-attempt lockout policy, and session management on top of a
// pluggable Repository.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/accountkeeper/internal/auth"
	"github.com/dmitrijs2005/accountkeeper/internal/common"
	"github.com/dmitrijs2005/accountkeeper/internal/config"
	"github.com/dmitrijs2005/accountkeeper/internal/cryptox"
	"github.com/dmitrijs2005/accountkeeper/internal/sessions"
)

// Service provides account-related operations:
// - Register: validate and create accounts
// - Authenticate: verify credentials, enforce lockout, issue a session
// - lookups, deactivation, and session resolution
type Service struct {
	accounts                Repository
	sessions                sessions.Repository
	jwtSecret               []byte
	sessionValidityDuration time.Duration
	maxLoginAttempts        int
}

// NewService constructs a Service using repositories and runtime config.
func NewService(accountRepo Repository, sessionRepo sessions.Repository, cfg *config.Config) *Service {
	return &Service{
		accounts:                accountRepo,
		sessions:                sessionRepo,
		jwtSecret:               []byte(cfg.SecretKey),
		sessionValidityDuration: cfg.SessionValidityDuration,
		maxLoginAttempts:        cfg.MaxLoginAttempts,
	}
}

// Register validates the username, email, and password (in that order),
// hashes the password, and creates the account. A taken username yields
// common.ErrDuplicate.
func (s *Service) Register(ctx context.Context, username, email, password string) (*Account, error) {
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}

	salt := cryptox.NewSalt()
	account := &Account{
		Username:     username,
		Email:        email,
		Salt:         salt,
		PasswordHash: cryptox.HashPassword([]byte(password), salt),
		Active:       true,
	}

	created, err := s.accounts.Create(ctx, account)
	if err != nil {
		if errors.Is(err, common.ErrDuplicate) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating account: %w", err)
	}
	return created, nil
}

// Authenticate verifies the password for username and issues a session.
//
// Outcomes:
//   - unknown username or wrong password: common.ErrUnauthorized; a wrong
//     password also advances the failed-attempt counter, and reaching the
//     configured maximum locks the account;
//   - inactive account: common.ErrAccountInactive;
//   - locked account: common.ErrAccountLocked before the password is even
//     checked, so a correct password makes no difference;
//   - success: the counter resets, the login time is stamped, and the
//     account's session is replaced with a fresh one.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*sessions.Session, error) {
	account, err := s.accounts.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized
		}
		return nil, common.ErrInternal
	}

	if !account.Active {
		return nil, common.ErrAccountInactive
	}
	if account.Locked {
		return nil, common.ErrAccountLocked
	}

	if !cryptox.VerifyPassword([]byte(password), account.Salt, account.PasswordHash) {
		if _, err := s.accounts.RecordLoginFailure(ctx, account.ID, s.maxLoginAttempts); err != nil {
			return nil, common.ErrInternal
		}
		return nil, common.ErrUnauthorized
	}

	if err := s.accounts.RecordLoginSuccess(ctx, account.ID, time.Now()); err != nil {
		return nil, common.ErrInternal
	}

	token, err := auth.GenerateToken(account.ID, s.jwtSecret, s.sessionValidityDuration)
	if err != nil {
		return nil, common.ErrInternal
	}
	session, err := s.sessions.Create(ctx, account.ID, token, s.sessionValidityDuration)
	if err != nil {
		return nil, common.ErrInternal
	}
	return session, nil
}

// FindByUsername returns the account registered under username, with no side
// effects. Absent accounts yield common.ErrNotFound.
func (s *Service) FindByUsername(ctx context.Context, username string) (*Account, error) {
	return s.accounts.GetByUsername(ctx, username)
}

// FindByID returns the account with the given ID.
func (s *Service) FindByID(ctx context.Context, id string) (*Account, error) {
	return s.accounts.GetByID(ctx, id)
}

// ListActive returns all active accounts ordered by username.
func (s *Service) ListActive(ctx context.Context) ([]*Account, error) {
	return s.accounts.ListActive(ctx)
}

// Deactivate marks the account inactive and revokes its session. It is
// idempotent on already-inactive accounts and returns common.ErrNotFound for
// unknown IDs.
func (s *Service) Deactivate(ctx context.Context, id string) error {
	if err := s.accounts.SetActive(ctx, id, false); err != nil {
		return err
	}
	return s.sessions.DeleteByAccount(ctx, id)
}

// SessionAccount resolves a session token to its account. The token must
// carry a valid signature, the session must still be stored, and neither may
// be expired.
func (s *Service) SessionAccount(ctx context.Context, token string) (*Account, error) {
	accountID, err := auth.GetAccountIDFromToken(token, s.jwtSecret)
	if err != nil {
		return nil, err
	}

	session, err := s.sessions.Find(ctx, token)
	if err != nil {
		return nil, err
	}
	if session.ExpiresAt.Before(time.Now()) {
		return nil, common.ErrSessionExpired
	}

	return s.accounts.GetByID(ctx, accountID)
}

// Logout revokes the session with the given token. Unknown tokens are not an
// error.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

// PurgeExpiredSessions removes sessions whose expiry has passed and reports
// how many were removed.
func (s *Service) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	return s.sessions.DeleteExpired(ctx)
}
