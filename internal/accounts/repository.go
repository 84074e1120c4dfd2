package accounts

import (
	"context"
	"time"
)

// Repository defines the storage contract for accounts. Implementations
// return common.ErrNotFound for absent accounts and common.ErrDuplicate when
// a username is already taken.
type Repository interface {
	// Create stores a new account and returns it with the store-assigned ID
	// and CreatedAt populated.
	Create(ctx context.Context, account *Account) (*Account, error)

	// GetByUsername returns the account registered under username.
	GetByUsername(ctx context.Context, username string) (*Account, error)

	// GetByID returns the account with the given ID.
	GetByID(ctx context.Context, id string) (*Account, error)

	// ListActive returns all active accounts ordered by username.
	ListActive(ctx context.Context) ([]*Account, error)

	// RecordLoginFailure increments the account's failed-attempt counter and
	// locks the account once the counter reaches maxAttempts. It returns the
	// updated counter state. The increment and the lock decision are atomic.
	RecordLoginFailure(ctx context.Context, id string, maxAttempts int) (*Account, error)

	// RecordLoginSuccess resets the failed-attempt counter and stamps the
	// last-login time.
	RecordLoginSuccess(ctx context.Context, id string, at time.Time) error

	// SetActive flips the account's active flag. Setting the current value
	// again is not an error.
	SetActive(ctx context.Context, id string, active bool) error
}
