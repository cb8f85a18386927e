package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/iho/fintech/internal/domain"
	"github.com/iho/fintech/internal/usecase"
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	store *Store
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(store *Store) *AccountRepository {
	return &AccountRepository{store: store}
}

// Create inserts a new account.
func (r *AccountRepository) Create(_ context.Context, account *domain.Account) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.accounts[account.ID]; ok {
		return fmt.Errorf("%w: account %s", errDuplicateKey, account.ID)
	}
	r.store.accounts[account.ID] = copyAccount(account)
	return nil
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(_ context.Context, id string) (*domain.Account, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	a, ok := r.store.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return copyAccount(a), nil
}

// GetByIDForUpdate locks the account until tx ends and returns it.
func (r *AccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Tx, id string) (*domain.Account, error) {
	t, err := asTx(tx)
	if err != nil {
		return nil, err
	}

	if err := t.lock(ctx, id); err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	a, ok := t.account(id)
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return copyAccount(a), nil
}

// UpdateBalance stages a new cached balance.
func (r *AccountRepository) UpdateBalance(ctx context.Context, tx usecase.Tx, id string, balance domain.Money, updatedAt time.Time) error {
	t, err := asTx(tx)
	if err != nil {
		return err
	}

	if err := t.lock(ctx, id); err != nil {
		return err
	}

	r.store.mu.RLock()
	a, ok := t.account(id)
	r.store.mu.RUnlock()
	if !ok {
		return domain.ErrAccountNotFound
	}

	next := copyAccount(a)
	next.Balance = balance
	next.UpdatedAt = updatedAt
	t.accounts[id] = next
	return nil
}

// UpdateName renames an account, waiting for any transaction holding its lock.
func (r *AccountRepository) UpdateName(ctx context.Context, id, name string, updatedAt time.Time) (*domain.Account, error) {
	if err := r.store.acquire(ctx, id); err != nil {
		return nil, err
	}
	defer r.store.release(id)

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	a, ok := r.store.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}

	next := copyAccount(a)
	next.Name = name
	next.UpdatedAt = updatedAt
	r.store.accounts[id] = next
	return copyAccount(next), nil
}

// Delete stages removal of the account.
func (r *AccountRepository) Delete(ctx context.Context, tx usecase.Tx, id string) error {
	t, err := asTx(tx)
	if err != nil {
		return err
	}

	if err := t.lock(ctx, id); err != nil {
		return err
	}

	r.store.mu.RLock()
	_, ok := t.account(id)
	r.store.mu.RUnlock()
	if !ok {
		return domain.ErrAccountNotFound
	}

	delete(t.accounts, id)
	t.deletedAccounts[id] = struct{}{}
	return nil
}

// List returns accounts newest first. An empty owner matches every account.
func (r *AccountRepository) List(_ context.Context, owner string, limit, offset int) ([]*domain.Account, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	accounts := make([]*domain.Account, 0, len(r.store.accounts))
	for _, a := range r.store.accounts {
		if owner != "" && a.Owner != owner {
			continue
		}
		accounts = append(accounts, copyAccount(a))
	}

	sort.Slice(accounts, func(i, j int) bool {
		if !accounts[i].CreatedAt.Equal(accounts[j].CreatedAt) {
			return accounts[i].CreatedAt.After(accounts[j].CreatedAt)
		}
		return accounts[i].ID > accounts[j].ID
	})

	return paginate(accounts, limit, offset), nil
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset < 0 || offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit < end-offset {
		end = offset + limit
	}
	return items[offset:end]
}
