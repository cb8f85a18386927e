package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/fintech/internal/domain"
	"github.com/iho/fintech/internal/infrastructure/postgres/generated"
	"github.com/iho/fintech/internal/usecase"
)

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	queries *generated.Queries
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return newTransactionRepository(pool)
}

func newTransactionRepository(db generated.DBTX) *TransactionRepository {
	return &TransactionRepository{queries: generated.New(db)}
}

// Create inserts a transaction row.
func (r *TransactionRepository) Create(ctx context.Context, tx usecase.Tx, txn *domain.Transaction) error {
	queries, err := queriesFor(tx)
	if err != nil {
		return err
	}

	err = queries.CreateTransaction(ctx, generated.CreateTransactionParams{
		ID:              txn.ID,
		AccountID:       txn.AccountID,
		TransactionDate: dateToPgDate(txn.TransactionDate),
		Amount:          moneyToNumeric(txn.Amount),
		Description:     txn.Description,
		Active:          txn.Active,
		CreatedAt:       timeToPgTimestamptz(txn.CreatedAt),
		UpdatedAt:       timeToPgTimestamptz(txn.UpdatedAt),
	})

	return translateError(err, nil)
}

// GetByID retrieves a transaction by ID.
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	row, err := r.queries.GetTransactionByID(ctx, id)
	if err != nil {
		return nil, translateError(err, domain.ErrTransactionNotFound)
	}

	return rowToTransaction(row), nil
}

// GetByIDForUpdate retrieves a transaction by ID with a FOR UPDATE lock.
func (r *TransactionRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Tx, id string) (*domain.Transaction, error) {
	queries, err := queriesFor(tx)
	if err != nil {
		return nil, err
	}

	row, err := queries.GetTransactionByIDForUpdate(ctx, id)
	if err != nil {
		return nil, translateError(err, domain.ErrTransactionNotFound)
	}

	return rowToTransaction(row), nil
}

// Update writes the mutable fields of a transaction row.
func (r *TransactionRepository) Update(ctx context.Context, tx usecase.Tx, txn *domain.Transaction) error {
	queries, err := queriesFor(tx)
	if err != nil {
		return err
	}

	err = queries.UpdateTransaction(ctx, generated.UpdateTransactionParams{
		ID:              txn.ID,
		TransactionDate: dateToPgDate(txn.TransactionDate),
		Amount:          moneyToNumeric(txn.Amount),
		Description:     txn.Description,
		Active:          txn.Active,
		UpdatedAt:       timeToPgTimestamptz(txn.UpdatedAt),
	})

	return translateError(err, nil)
}

// Delete removes a transaction row.
func (r *TransactionRepository) Delete(ctx context.Context, tx usecase.Tx, id string) error {
	queries, err := queriesFor(tx)
	if err != nil {
		return err
	}

	n, err := queries.DeleteTransaction(ctx, id)
	if err != nil {
		return translateError(err, nil)
	}
	if n == 0 {
		return domain.ErrTransactionNotFound
	}

	return nil
}

// SumActiveTx sums active amounts of the account inside tx.
func (r *TransactionRepository) SumActiveTx(ctx context.Context, tx usecase.Tx, accountID string) (domain.Money, error) {
	queries, err := queriesFor(tx)
	if err != nil {
		return domain.Zero, err
	}

	total, err := queries.SumActiveTransactions(ctx, accountID)
	if err != nil {
		return domain.Zero, translateError(err, nil)
	}

	return numericToMoney(total), nil
}

// SumActive sums committed active amounts of the account.
func (r *TransactionRepository) SumActive(ctx context.Context, accountID string) (domain.Money, error) {
	total, err := r.queries.SumActiveTransactions(ctx, accountID)
	if err != nil {
		return domain.Zero, translateError(err, nil)
	}

	return numericToMoney(total), nil
}

// SumActiveAsOf sums active amounts dated on or before asOf.
func (r *TransactionRepository) SumActiveAsOf(ctx context.Context, accountID string, asOf domain.Date) (domain.Money, error) {
	total, err := r.queries.SumActiveTransactionsAsOf(ctx, generated.SumActiveTransactionsAsOfParams{
		AccountID:       accountID,
		TransactionDate: dateToPgDate(asOf),
	})
	if err != nil {
		return domain.Zero, translateError(err, nil)
	}

	return numericToMoney(total), nil
}

// ListByAccount lists transactions newest first.
func (r *TransactionRepository) ListByAccount(
	ctx context.Context,
	accountID string,
	includeInactive bool,
	limit, offset int,
) ([]*domain.Transaction, error) {
	rows, err := r.queries.ListTransactionsByAccount(ctx, generated.ListTransactionsByAccountParams{
		AccountID:       accountID,
		IncludeInactive: includeInactive,
		PageLimit:       int32(limit),
		PageOffset:      int32(offset),
	})
	if err != nil {
		return nil, translateError(err, nil)
	}

	txns := make([]*domain.Transaction, 0, len(rows))
	for _, row := range rows {
		txns = append(txns, rowToTransaction(row))
	}

	return txns, nil
}

// CountByAccount counts the rows ListByAccount pages over.
func (r *TransactionRepository) CountByAccount(ctx context.Context, accountID string, includeInactive bool) (int64, error) {
	n, err := r.queries.CountTransactionsByAccount(ctx, generated.CountTransactionsByAccountParams{
		AccountID:       accountID,
		IncludeInactive: includeInactive,
	})
	return n, translateError(err, nil)
}

// CountReferences counts every row referencing the account inside tx.
func (r *TransactionRepository) CountReferences(ctx context.Context, tx usecase.Tx, accountID string) (int64, error) {
	queries, err := queriesFor(tx)
	if err != nil {
		return 0, err
	}

	n, err := queries.CountTransactionReferences(ctx, accountID)
	return n, translateError(err, nil)
}
