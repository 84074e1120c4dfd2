package accounts

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/accountkeeper/internal/common"
	"github.com/google/uuid"
)

// InMemoryRepository keeps accounts in a map keyed by username, guarded by a
// read-write mutex. State is lost when the process exits.
type InMemoryRepository struct {
	mu       sync.RWMutex
	accounts map[string]*Account
}

// NewInMemoryRepository constructs an empty in-memory account store.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{accounts: make(map[string]*Account)}
}

func (r *InMemoryRepository) Create(ctx context.Context, account *Account) (*Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[account.Username]; ok {
		return nil, common.ErrDuplicate
	}

	stored := *account
	stored.ID = uuid.NewString()
	stored.CreatedAt = time.Now()
	r.accounts[stored.Username] = &stored

	out := stored
	return &out, nil
}

func (r *InMemoryRepository) GetByUsername(ctx context.Context, username string) (*Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.accounts[username]
	if !ok {
		return nil, common.ErrNotFound
	}
	out := *a
	return &out, nil
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a := r.findByID(id)
	if a == nil {
		return nil, common.ErrNotFound
	}
	out := *a
	return &out, nil
}

func (r *InMemoryRepository) ListActive(ctx context.Context) ([]*Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Account, 0, len(r.accounts))
	for _, a := range r.accounts {
		if a.Active {
			c := *a
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (r *InMemoryRepository) RecordLoginFailure(ctx context.Context, id string, maxAttempts int) (*Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a := r.findByID(id)
	if a == nil {
		return nil, common.ErrNotFound
	}
	a.FailedAttempts++
	if a.FailedAttempts >= maxAttempts {
		a.Locked = true
	}
	out := *a
	return &out, nil
}

func (r *InMemoryRepository) RecordLoginSuccess(ctx context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a := r.findByID(id)
	if a == nil {
		return common.ErrNotFound
	}
	a.FailedAttempts = 0
	a.LastLogin = at
	return nil
}

func (r *InMemoryRepository) SetActive(ctx context.Context, id string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a := r.findByID(id)
	if a == nil {
		return common.ErrNotFound
	}
	a.Active = active
	return nil
}

// findByID scans the store; callers must hold the lock.
func (r *InMemoryRepository) findByID(id string) *Account {
	for _, a := range r.accounts {
		if a.ID == id {
			return a
		}
	}
	return nil
}
