// Package memory is an in-process storage backend. It keeps the locking and
// commit semantics of the postgres backend: an account lock taken through a
// transaction is held until that transaction ends, and staged writes become
// visible all at once on commit.
package memory

import (
	"context"
	"sync"

	"github.com/iho/fintech/internal/domain"
)

// Store holds every account and transaction row.
type Store struct {
	mu           sync.RWMutex
	accounts     map[string]*domain.Account
	transactions map[string]*domain.Transaction

	locksMu sync.Mutex
	locks   map[string]chan struct{}
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		accounts:     make(map[string]*domain.Account),
		transactions: make(map[string]*domain.Transaction),
		locks:        make(map[string]chan struct{}),
	}
}

func (s *Store) lockFor(accountID string) chan struct{} {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()

	ch, ok := s.locks[accountID]
	if !ok {
		ch = make(chan struct{}, 1)
		s.locks[accountID] = ch
	}
	return ch
}

// acquire blocks until the account lock is free or ctx is done.
func (s *Store) acquire(ctx context.Context, accountID string) error {
	select {
	case s.lockFor(accountID) <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Store) release(accountID string) {
	<-s.lockFor(accountID)
}

func copyAccount(a *domain.Account) *domain.Account {
	c := *a
	return &c
}

func copyTransaction(t *domain.Transaction) *domain.Transaction {
	c := *t
	return &c
}
