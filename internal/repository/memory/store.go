package memory

import (
	"context"
	"sync"
	"time"

	"github.com/cmlabs-hris/commission-backend-go/internal/domain/sale"
	"github.com/cmlabs-hris/commission-backend-go/internal/domain/seller"
	"github.com/cmlabs-hris/commission-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/commission-backend-go/internal/pkg/database"
)

// Store keeps every record in process. It backs local development and
// tests when no database is configured.
type Store struct {
	mu sync.RWMutex

	sellers map[int64]seller.Seller
	sales   map[int64]sale.Sale
	users   map[int64]user.User

	nextSellerID int64
	nextSaleID   int64
	nextUserID   int64

	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		sellers: make(map[int64]seller.Seller),
		sales:   make(map[int64]sale.Sale),
		users:   make(map[int64]user.User),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

type txKey struct{}

type txState struct {
	mu          sync.Mutex
	afterCommit []func()
}

type transactor struct{}

// NewTransactor groups repository calls so that their after-commit hooks
// run only when fn succeeds. Writes are applied immediately and are not
// rolled back.
func NewTransactor() database.Transactor {
	return transactor{}
}

func (transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*txState); ok {
		return fn(ctx)
	}

	state := &txState{}
	if err := fn(context.WithValue(ctx, txKey{}, state)); err != nil {
		return err
	}

	state.mu.Lock()
	hooks := state.afterCommit
	state.mu.Unlock()
	for _, hook := range hooks {
		hook()
	}
	return nil
}

func afterCommit(ctx context.Context, fn func()) {
	state, ok := ctx.Value(txKey{}).(*txState)
	if !ok {
		fn()
		return
	}
	state.mu.Lock()
	state.afterCommit = append(state.afterCommit, fn)
	state.mu.Unlock()
}

func page[T any](items []T, page, perPage int) []T {
	start := (page - 1) * perPage
	if start >= len(items) || start < 0 {
		return []T{}
	}
	end := start + perPage
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// within reports whether t is in [from, to)
func within(t, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}

// SetClock replaces the source of CreatedAt and UpdatedAt timestamps
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}
