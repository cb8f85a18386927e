package usecase

import (
	"context"
	"time"

	"github.com/iho/fintech/internal/domain"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mock_interfaces.go -package=mocks

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	// GetByIDForUpdate locks the account row until tx ends. Every balance
	// mutation of the account must hold this lock.
	GetByIDForUpdate(ctx context.Context, tx Tx, id string) (*domain.Account, error)
	UpdateBalance(ctx context.Context, tx Tx, id string, balance domain.Money, updatedAt time.Time) error
	UpdateName(ctx context.Context, id, name string, updatedAt time.Time) (*domain.Account, error)
	Delete(ctx context.Context, tx Tx, id string) error
	List(ctx context.Context, owner string, limit, offset int) ([]*domain.Account, error)
}

// TransactionRepository defines data access for ledger transactions.
type TransactionRepository interface {
	Create(ctx context.Context, tx Tx, txn *domain.Transaction) error
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	GetByIDForUpdate(ctx context.Context, tx Tx, id string) (*domain.Transaction, error)
	Update(ctx context.Context, tx Tx, txn *domain.Transaction) error
	Delete(ctx context.Context, tx Tx, id string) error
	// SumActiveTx sums active amounts of the account as seen by tx.
	SumActiveTx(ctx context.Context, tx Tx, accountID string) (domain.Money, error)
	SumActive(ctx context.Context, accountID string) (domain.Money, error)
	SumActiveAsOf(ctx context.Context, accountID string, asOf domain.Date) (domain.Money, error)
	ListByAccount(ctx context.Context, accountID string, includeInactive bool, limit, offset int) ([]*domain.Transaction, error)
	CountByAccount(ctx context.Context, accountID string, includeInactive bool) (int64, error)
	// CountReferences counts every row, active or not, referencing the account.
	CountReferences(ctx context.Context, tx Tx, accountID string) (int64, error)
}

// BalanceSnapshot pairs the cached balance of an account with its recomputed active sum.
type BalanceSnapshot struct {
	AccountID  string
	Recorded   domain.Money
	Calculated domain.Money
}

// LedgerRepository defines data access for ledger-wide operations.
type LedgerRepository interface {
	ListBalanceSnapshots(ctx context.Context, limit, offset int) ([]BalanceSnapshot, error)
}

// Tx represents a storage transaction.
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles storage transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Tx, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Clock supplies timestamps for created_at and updated_at.
type Clock interface {
	Now() time.Time
}

// Retrier re-runs an operation that failed with domain.ErrConcurrencyConflict.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IdempotencyInFlight is the value stored under a key while its request runs.
const IdempotencyInFlight = "processing"

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a key so a failed request can be retried with it.
	Release(ctx context.Context, key string) error
}
