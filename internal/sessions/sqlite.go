package sessions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/accountkeeper/internal/common"
	"github.com/dmitrijs2005/accountkeeper/internal/dbx"
)

// SQLiteRepository implements Repository over a SQLite database file.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository constructs a repository bound to the given database.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Create replaces the account's session: the delete of the previous session
// and the insert of the new one commit together.
func (r *SQLiteRepository) Create(ctx context.Context, accountID string, token string, validity time.Duration) (*Session, error) {
	now := time.Now()
	s := &Session{Token: token, AccountID: accountID, ExpiresAt: now.Add(validity), CreatedAt: now}

	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE account_id = ?`, accountID); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		query := `
			INSERT INTO sessions (token, account_id, expires_at, created_at)
			VALUES (?, ?, ?, ?)
		`
		if _, err := tx.ExecContext(ctx, query, s.Token, s.AccountID, s.ExpiresAt, s.CreatedAt); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *SQLiteRepository) Find(ctx context.Context, token string) (*Session, error) {
	query := `
		SELECT token, account_id, expires_at, created_at
		FROM sessions
		WHERE token = ?
	`
	s := &Session{}
	if err := r.db.QueryRowContext(ctx, query, token).Scan(&s.Token, &s.AccountID, &s.ExpiresAt, &s.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, token string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = ?`, token); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteByAccount(ctx context.Context, accountID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE account_id = ?`, accountID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < ?`, time.Now())
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
