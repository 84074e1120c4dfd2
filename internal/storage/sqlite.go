package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/accountkeeper/internal/accounts"
	"github.com/dmitrijs2005/accountkeeper/internal/filex"
	"github.com/dmitrijs2005/accountkeeper/internal/sessions"
	"github.com/dmitrijs2005/accountkeeper/internal/storage/sqlitemigrations"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// SQLiteManager serves repositories backed by a SQLite database file.
type SQLiteManager struct {
	db       *sql.DB
	accounts accounts.Repository
	sessions sessions.Repository
}

// NewSQLiteManager opens the database file and binds the repositories to it.
func NewSQLiteManager(path string) (*SQLiteManager, error) {
	if path != ":memory:" {
		if err := filex.EnsureParentDir(path); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	// SQLite allows one writer at a time, so a single pooled connection
	// sidesteps SQLITE_BUSY between concurrent transactions.
	db.SetMaxOpenConns(1)
	return &SQLiteManager{
		db:       db,
		accounts: accounts.NewSQLiteRepository(db),
		sessions: sessions.NewSQLiteRepository(db),
	}, nil
}

func (m *SQLiteManager) Conn() *sql.DB { return m.db }

func (m *SQLiteManager) Accounts() accounts.Repository { return m.accounts }

func (m *SQLiteManager) Sessions() sessions.Repository { return m.sessions }

// RunMigrations sets up goose with the embedded migrations and runs them
// against the managed connection.
func (m *SQLiteManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(sqlitemigrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.UpContext(ctx, m.db, ".")
}

func (m *SQLiteManager) Close() error { return m.db.Close() }
