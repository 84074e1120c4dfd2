package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/accountkeeper/internal/accounts"
	"github.com/dmitrijs2005/accountkeeper/internal/sessions"
	"github.com/dmitrijs2005/accountkeeper/internal/storage/pgmigrations"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresManager serves repositories backed by a PostgreSQL database.
type PostgresManager struct {
	db       *sql.DB
	accounts accounts.Repository
	sessions sessions.Repository
}

// NewPostgresManager opens the database and binds the repositories to it.
func NewPostgresManager(dsn string) (*PostgresManager, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	return &PostgresManager{
		db:       db,
		accounts: accounts.NewPostgresRepository(db),
		sessions: sessions.NewPostgresRepository(db),
	}, nil
}

func (m *PostgresManager) Conn() *sql.DB { return m.db }

func (m *PostgresManager) Accounts() accounts.Repository { return m.accounts }

func (m *PostgresManager) Sessions() sessions.Repository { return m.sessions }

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the managed connection.
func (m *PostgresManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(pgmigrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, m.db, ".")
}

func (m *PostgresManager) Close() error { return m.db.Close() }
