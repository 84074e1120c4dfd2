package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/accountkeeper/internal/common"
	"github.com/dmitrijs2005/accountkeeper/internal/dbx"
	"github.com/google/uuid"
	"modernc.org/sqlite"
)

// sqliteConstraintUnique is the SQLite extended error code for
// SQLITE_CONSTRAINT_UNIQUE.
const sqliteConstraintUnique = 2067

// SQLiteRepository implements Repository over a SQLite database file.
// It holds *sql.DB rather than dbx.DBTX because the failure counter update
// runs inside its own transaction.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository constructs a repository bound to the given database.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, account *Account) (*Account, error) {
	query := `
		INSERT INTO accounts (id, username, email, salt, password_hash, active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	a := *account
	a.ID = uuid.NewString()
	a.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		a.ID, a.Username, a.Email, a.Salt, a.PasswordHash, a.Active, a.CreatedAt)
	if err != nil {
		var se *sqlite.Error
		if errors.As(err, &se) && se.Code() == sqliteConstraintUnique {
			return nil, common.ErrDuplicate
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &a, nil
}

func (r *SQLiteRepository) GetByUsername(ctx context.Context, username string) (*Account, error) {
	query := `
		SELECT id, username, email, salt, password_hash, active, locked, failed_attempts, created_at, last_login
		FROM accounts
		WHERE username = ?
	`
	a, err := scanAccount(r.db.QueryRowContext(ctx, query, username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*Account, error) {
	return getSQLiteAccountByID(ctx, r.db, id)
}

func getSQLiteAccountByID(ctx context.Context, db dbx.DBTX, id string) (*Account, error) {
	query := `
		SELECT id, username, email, salt, password_hash, active, locked, failed_attempts, created_at, last_login
		FROM accounts
		WHERE id = ?
	`
	a, err := scanAccount(db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

func (r *SQLiteRepository) ListActive(ctx context.Context) ([]*Account, error) {
	query := `
		SELECT id, username, email, salt, password_hash, active, locked, failed_attempts, created_at, last_login
		FROM accounts
		WHERE active = 1
		ORDER BY username
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []*Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

// RecordLoginFailure updates the counter and rereads the row in one
// transaction so the returned state matches what this failure produced.
func (r *SQLiteRepository) RecordLoginFailure(ctx context.Context, id string, maxAttempts int) (*Account, error) {
	var account *Account
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		query := `
			UPDATE accounts
			SET failed_attempts = failed_attempts + 1,
			    locked = CASE WHEN failed_attempts + 1 >= ? THEN 1 ELSE locked END
			WHERE id = ?
		`
		res, err := tx.ExecContext(ctx, query, maxAttempts, id)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		if n == 0 {
			return common.ErrNotFound
		}
		account, err = getSQLiteAccountByID(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

func (r *SQLiteRepository) RecordLoginSuccess(ctx context.Context, id string, at time.Time) error {
	query := `
		UPDATE accounts
		SET failed_attempts = 0, last_login = ?
		WHERE id = ?
	`
	res, err := r.db.ExecContext(ctx, query, at, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) SetActive(ctx context.Context, id string, active bool) error {
	query := `
		UPDATE accounts
		SET active = ?
		WHERE id = ?
	`
	res, err := r.db.ExecContext(ctx, query, active, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}
