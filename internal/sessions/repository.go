// Package sessions declares the repository contract for managing login
// sessions in persistent storage.
package sessions

import (
	"context"
	"time"
)

// Repository defines operations for issuing, retrieving, and revoking
// sessions.
type Repository interface {
	// Create stores a session for accountID with an expiry of now+validity,
	// replacing any session the account already has.
	Create(ctx context.Context, accountID string, token string, validity time.Duration) (*Session, error)

	// Find looks up a session by its token string.
	// Implementations return common.ErrNotFound when the token is absent.
	Find(ctx context.Context, token string) (*Session, error)

	// Delete removes a session by its token string. Deleting a non-existent
	// session is not an error.
	Delete(ctx context.Context, token string) error

	// DeleteByAccount removes the account's session if one exists.
	DeleteByAccount(ctx context.Context, accountID string) error

	// DeleteExpired removes sessions whose expiry has passed and reports how
	// many were removed.
	DeleteExpired(ctx context.Context) (int64, error)
}
