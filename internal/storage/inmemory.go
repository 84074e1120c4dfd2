package storage

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/accountkeeper/internal/accounts"
	"github.com/dmitrijs2005/accountkeeper/internal/sessions"
)

// InMemoryManager serves repositories that live in process memory. It is the
// default backend when no database is configured.
type InMemoryManager struct {
	accounts accounts.Repository
	sessions sessions.Repository
}

// NewInMemoryManager constructs the in-memory backend.
func NewInMemoryManager() *InMemoryManager {
	return &InMemoryManager{
		accounts: accounts.NewInMemoryRepository(),
		sessions: sessions.NewInMemoryRepository(),
	}
}

func (m *InMemoryManager) Conn() *sql.DB { return nil }

func (m *InMemoryManager) RunMigrations(ctx context.Context) error { return nil }

func (m *InMemoryManager) Accounts() accounts.Repository { return m.accounts }

func (m *InMemoryManager) Sessions() sessions.Repository { return m.sessions }

func (m *InMemoryManager) Close() error { return nil }
