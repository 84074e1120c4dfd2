// Package storage selects a backend from the configuration and vends the
// repositories bound to it.
package storage

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/accountkeeper/internal/accounts"
	"github.com/dmitrijs2005/accountkeeper/internal/config"
	"github.com/dmitrijs2005/accountkeeper/internal/sessions"
)

// Manager vends the repositories backed by one storage backend and exposes
// a schema migration hook.
type Manager interface {
	RunMigrations(ctx context.Context) error
	Conn() *sql.DB
	Accounts() accounts.Repository
	Sessions() sessions.Repository
	Close() error
}

// NewManager picks the backend: PostgreSQL when a DSN is configured, SQLite
// when a database file path is configured, in-memory otherwise.
func NewManager(cfg *config.Config) (Manager, error) {
	switch {
	case cfg.DatabaseDSN != "":
		return NewPostgresManager(cfg.DatabaseDSN)
	case cfg.SQLitePath != "":
		return NewSQLiteManager(cfg.SQLitePath)
	default:
		return NewInMemoryManager(), nil
	}
}
