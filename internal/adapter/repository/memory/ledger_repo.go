package memory

import (
	"context"
	"sort"

	"github.com/iho/fintech/internal/domain"
	"github.com/iho/fintech/internal/usecase"
)

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	store *Store
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(store *Store) *LedgerRepository {
	return &LedgerRepository{store: store}
}

// ListBalanceSnapshots pairs each account's cached balance with its active sum, ordered by account ID.
func (r *LedgerRepository) ListBalanceSnapshots(_ context.Context, limit, offset int) ([]usecase.BalanceSnapshot, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	ids := make([]string, 0, len(r.store.accounts))
	for id := range r.store.accounts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	ids = paginate(ids, limit, offset)

	byAccount := make(map[string][]*domain.Transaction, len(ids))
	for _, txn := range r.store.transactions {
		byAccount[txn.AccountID] = append(byAccount[txn.AccountID], txn)
	}

	snapshots := make([]usecase.BalanceSnapshot, 0, len(ids))
	for _, id := range ids {
		snapshots = append(snapshots, usecase.BalanceSnapshot{
			AccountID:  id,
			Recorded:   r.store.accounts[id].Balance,
			Calculated: sumActive(byAccount[id], nil),
		})
	}

	return snapshots, nil
}
