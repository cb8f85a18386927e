package memory

import (
	"context"
	"errors"
	"fmt"

	"github.com/iho/fintech/internal/domain"
	"github.com/iho/fintech/internal/usecase"
)

var (
	errTxDone       = errors.New("transaction has already been committed or rolled back")
	errForeignTx    = errors.New("transaction was not started by the memory backend")
	errDuplicateKey = errors.New("duplicate key")
)

// TxManager begins memory transactions.
type TxManager struct {
	store *Store
}

// NewTxManager creates a new TxManager.
func NewTxManager(store *Store) *TxManager {
	return &TxManager{store: store}
}

// Begin starts a new transaction.
func (m *TxManager) Begin(ctx context.Context) (usecase.Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &Tx{
		store:           m.store,
		held:            make(map[string]struct{}),
		accounts:        make(map[string]*domain.Account),
		deletedAccounts: make(map[string]struct{}),
		transactions:    make(map[string]*domain.Transaction),
		deletedTxns:     make(map[string]struct{}),
	}, nil
}

// Tx stages writes until Commit. It is not safe for concurrent use.
type Tx struct {
	store *Store
	held  map[string]struct{}

	accounts        map[string]*domain.Account
	deletedAccounts map[string]struct{}
	transactions    map[string]*domain.Transaction
	deletedTxns     map[string]struct{}

	done bool
}

func asTx(tx usecase.Tx) (*Tx, error) {
	t, ok := tx.(*Tx)
	if !ok {
		return nil, errForeignTx
	}
	if t.done {
		return nil, errTxDone
	}
	return t, nil
}

// lock takes the account lock for the life of the transaction.
func (t *Tx) lock(ctx context.Context, accountID string) error {
	if _, ok := t.held[accountID]; ok {
		return nil
	}
	if err := t.store.acquire(ctx, accountID); err != nil {
		return err
	}
	t.held[accountID] = struct{}{}
	return nil
}

func (t *Tx) unlockAll() {
	for id := range t.held {
		t.store.release(id)
	}
	t.held = nil
}

// account returns the account as seen by t. The caller holds store.mu.
func (t *Tx) account(id string) (*domain.Account, bool) {
	if _, ok := t.deletedAccounts[id]; ok {
		return nil, false
	}
	if a, ok := t.accounts[id]; ok {
		return a, true
	}
	a, ok := t.store.accounts[id]
	return a, ok
}

// transaction returns the transaction row as seen by t. The caller holds store.mu.
func (t *Tx) transaction(id string) (*domain.Transaction, bool) {
	if _, ok := t.deletedTxns[id]; ok {
		return nil, false
	}
	if txn, ok := t.transactions[id]; ok {
		return txn, true
	}
	txn, ok := t.store.transactions[id]
	return txn, ok
}

// transactionsOf returns every row of the account as seen by t. The caller holds store.mu.
func (t *Tx) transactionsOf(accountID string) []*domain.Transaction {
	var rows []*domain.Transaction
	for id, txn := range t.store.transactions {
		if txn.AccountID != accountID {
			continue
		}
		if _, ok := t.deletedTxns[id]; ok {
			continue
		}
		if _, ok := t.transactions[id]; ok {
			continue
		}
		rows = append(rows, txn)
	}
	for _, txn := range t.transactions {
		if txn.AccountID == accountID {
			rows = append(rows, txn)
		}
	}
	return rows
}

// Commit applies every staged write atomically and releases the account locks.
func (t *Tx) Commit(ctx context.Context) error {
	if t.done {
		return errTxDone
	}
	defer t.finish()

	if err := ctx.Err(); err != nil {
		return err
	}

	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := t.check(); err != nil {
		return err
	}

	for id := range t.deletedTxns {
		delete(s.transactions, id)
	}
	for id, txn := range t.transactions {
		s.transactions[id] = txn
	}
	for id := range t.deletedAccounts {
		delete(s.accounts, id)
	}
	for id, a := range t.accounts {
		s.accounts[id] = a
	}

	return nil
}

// check enforces the constraints the postgres schema declares. The caller holds store.mu.
func (t *Tx) check() error {
	for _, a := range t.accounts {
		if a.Balance.IsNegative() {
			return fmt.Errorf("%w: account %s balance %s violates non-negative constraint",
				domain.ErrInsufficientBalance, a.ID, a.Balance)
		}
	}

	for _, txn := range t.transactions {
		if _, ok := t.account(txn.AccountID); !ok {
			return fmt.Errorf("%w: account %s does not exist", domain.ErrReferentialIntegrity, txn.AccountID)
		}
	}

	for id := range t.deletedAccounts {
		if len(t.transactionsOf(id)) > 0 {
			return fmt.Errorf("%w: account %s", domain.ErrReferentialIntegrity, id)
		}
	}

	return nil
}

// Rollback discards staged writes and releases the account locks.
func (t *Tx) Rollback(context.Context) error {
	if t.done {
		return errTxDone
	}
	t.finish()
	return nil
}

func (t *Tx) finish() {
	t.done = true
	t.unlockAll()
	t.accounts = nil
	t.deletedAccounts = nil
	t.transactions = nil
	t.deletedTxns = nil
}
