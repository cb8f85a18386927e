package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/iho/fintech/internal/domain"
	"github.com/iho/fintech/internal/usecase"
)

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	store *Store
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(store *Store) *TransactionRepository {
	return &TransactionRepository{store: store}
}

// Create stages a new transaction row.
func (r *TransactionRepository) Create(_ context.Context, tx usecase.Tx, txn *domain.Transaction) error {
	t, err := asTx(tx)
	if err != nil {
		return err
	}

	r.store.mu.RLock()
	_, exists := t.transaction(txn.ID)
	r.store.mu.RUnlock()
	if exists {
		return fmt.Errorf("%w: transaction %s", errDuplicateKey, txn.ID)
	}

	delete(t.deletedTxns, txn.ID)
	t.transactions[txn.ID] = copyTransaction(txn)
	return nil
}

// GetByID retrieves a committed transaction by ID.
func (r *TransactionRepository) GetByID(_ context.Context, id string) (*domain.Transaction, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	txn, ok := r.store.transactions[id]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	return copyTransaction(txn), nil
}

// GetByIDForUpdate returns the transaction as seen by tx, holding its account lock.
func (r *TransactionRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Tx, id string) (*domain.Transaction, error) {
	t, err := asTx(tx)
	if err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	txn, ok := t.transaction(id)
	r.store.mu.RUnlock()
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}

	if err := t.lock(ctx, txn.AccountID); err != nil {
		return nil, err
	}

	// Re-read now that the lock is held.
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	txn, ok = t.transaction(id)
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	return copyTransaction(txn), nil
}

// Update stages the new state of a transaction row.
func (r *TransactionRepository) Update(_ context.Context, tx usecase.Tx, txn *domain.Transaction) error {
	t, err := asTx(tx)
	if err != nil {
		return err
	}

	r.store.mu.RLock()
	_, ok := t.transaction(txn.ID)
	r.store.mu.RUnlock()
	if !ok {
		return domain.ErrTransactionNotFound
	}

	t.transactions[txn.ID] = copyTransaction(txn)
	return nil
}

// Delete stages removal of a transaction row.
func (r *TransactionRepository) Delete(_ context.Context, tx usecase.Tx, id string) error {
	t, err := asTx(tx)
	if err != nil {
		return err
	}

	r.store.mu.RLock()
	_, ok := t.transaction(id)
	r.store.mu.RUnlock()
	if !ok {
		return domain.ErrTransactionNotFound
	}

	delete(t.transactions, id)
	t.deletedTxns[id] = struct{}{}
	return nil
}

// SumActiveTx sums the active amounts of the account as seen by tx.
func (r *TransactionRepository) SumActiveTx(_ context.Context, tx usecase.Tx, accountID string) (domain.Money, error) {
	t, err := asTx(tx)
	if err != nil {
		return domain.Zero, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return sumActive(t.transactionsOf(accountID), nil), nil
}

// SumActive sums the committed active amounts of the account.
func (r *TransactionRepository) SumActive(_ context.Context, accountID string) (domain.Money, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return sumActive(r.committedOf(accountID), nil), nil
}

// SumActiveAsOf sums committed active amounts dated on or before asOf.
func (r *TransactionRepository) SumActiveAsOf(_ context.Context, accountID string, asOf domain.Date) (domain.Money, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return sumActive(r.committedOf(accountID), &asOf), nil
}

// ListByAccount returns one page of the account's transactions, newest first.
func (r *TransactionRepository) ListByAccount(
	_ context.Context,
	accountID string,
	includeInactive bool,
	limit, offset int,
) ([]*domain.Transaction, error) {
	r.store.mu.RLock()
	rows := filterVisible(r.committedOf(accountID), includeInactive)
	r.store.mu.RUnlock()

	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		if !a.TransactionDate.Equal(b.TransactionDate) {
			return a.TransactionDate.After(b.TransactionDate)
		}
		return a.ID > b.ID
	})

	return paginate(rows, limit, offset), nil
}

// CountByAccount counts the rows ListByAccount pages over.
func (r *TransactionRepository) CountByAccount(_ context.Context, accountID string, includeInactive bool) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return int64(len(filterVisible(r.committedOf(accountID), includeInactive))), nil
}

// CountReferences counts every row referencing the account as seen by tx.
func (r *TransactionRepository) CountReferences(_ context.Context, tx usecase.Tx, accountID string) (int64, error) {
	t, err := asTx(tx)
	if err != nil {
		return 0, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return int64(len(t.transactionsOf(accountID))), nil
}

// committedOf returns the committed rows of the account. The caller holds store.mu.
func (r *TransactionRepository) committedOf(accountID string) []*domain.Transaction {
	var rows []*domain.Transaction
	for _, txn := range r.store.transactions {
		if txn.AccountID == accountID {
			rows = append(rows, txn)
		}
	}
	return rows
}

func filterVisible(rows []*domain.Transaction, includeInactive bool) []*domain.Transaction {
	out := make([]*domain.Transaction, 0, len(rows))
	for _, txn := range rows {
		if !includeInactive && !txn.Active {
			continue
		}
		out = append(out, copyTransaction(txn))
	}
	return out
}

func sumActive(rows []*domain.Transaction, asOf *domain.Date) domain.Money {
	sum := domain.Zero
	for _, txn := range rows {
		if !txn.Active {
			continue
		}
		if asOf != nil && txn.TransactionDate.After(*asOf) {
			continue
		}
		sum = sum.Add(txn.Amount)
	}
	return sum
}
