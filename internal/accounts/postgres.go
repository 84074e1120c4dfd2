package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/accountkeeper/internal/common"
	"github.com/dmitrijs2005/accountkeeper/internal/dbx"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgUniqueViolation is the PostgreSQL error code for unique_violation.
const pgUniqueViolation = "23505"

// PostgresRepository implements Repository over dbx.DBTX (satisfied by
// *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanAccount reads one row in the canonical column order:
// id, username, email, salt, password_hash, active, locked, failed_attempts,
// created_at, last_login.
func scanAccount(rs rowScanner) (*Account, error) {
	a := &Account{}
	var lastLogin sql.NullTime
	if err := rs.Scan(&a.ID, &a.Username, &a.Email, &a.Salt, &a.PasswordHash,
		&a.Active, &a.Locked, &a.FailedAttempts, &a.CreatedAt, &lastLogin); err != nil {
		return nil, err
	}
	if lastLogin.Valid {
		a.LastLogin = lastLogin.Time
	}
	return a, nil
}

func (r *PostgresRepository) Create(ctx context.Context, account *Account) (*Account, error) {
	query := `
		INSERT INTO accounts (username, email, salt, password_hash, active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	a := *account
	err := r.db.QueryRowContext(ctx, query,
		account.Username, account.Email, account.Salt, account.PasswordHash, account.Active).
		Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, common.ErrDuplicate
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &a, nil
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*Account, error) {
	query := `
		SELECT id, username, email, salt, password_hash, active, locked, failed_attempts, created_at, last_login
		FROM accounts
		WHERE username = $1
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

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Account, error) {
	query := `
		SELECT id, username, email, salt, password_hash, active, locked, failed_attempts, created_at, last_login
		FROM accounts
		WHERE id = $1
	`
	a, err := scanAccount(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

func (r *PostgresRepository) ListActive(ctx context.Context) ([]*Account, error) {
	query := `
		SELECT id, username, email, salt, password_hash, active, locked, failed_attempts, created_at, last_login
		FROM accounts
		WHERE active
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

func (r *PostgresRepository) RecordLoginFailure(ctx context.Context, id string, maxAttempts int) (*Account, error) {
	query := `
		UPDATE accounts
		SET failed_attempts = failed_attempts + 1,
		    locked = locked OR (failed_attempts + 1 >= $2)
		WHERE id = $1
		RETURNING id, username, email, salt, password_hash, active, locked, failed_attempts, created_at, last_login
	`
	a, err := scanAccount(r.db.QueryRowContext(ctx, query, id, maxAttempts))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

func (r *PostgresRepository) RecordLoginSuccess(ctx context.Context, id string, at time.Time) error {
	query := `
		UPDATE accounts
		SET failed_attempts = 0, last_login = $2
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, id, at)
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

func (r *PostgresRepository) SetActive(ctx context.Context, id string, active bool) error {
	query := `
		UPDATE accounts
		SET active = $2
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, id, active)
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
