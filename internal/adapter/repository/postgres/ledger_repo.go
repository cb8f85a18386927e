package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/fintech/internal/infrastructure/postgres/generated"
	"github.com/iho/fintech/internal/usecase"
)

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	queries *generated.Queries
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return newLedgerRepository(pool)
}

func newLedgerRepository(db generated.DBTX) *LedgerRepository {
	return &LedgerRepository{queries: generated.New(db)}
}

// ListBalanceSnapshots returns cached balances next to their recomputed active sums, ordered by account ID.
func (r *LedgerRepository) ListBalanceSnapshots(ctx context.Context, limit, offset int) ([]usecase.BalanceSnapshot, error) {
	rows, err := r.queries.ListAccountBalanceChecks(ctx, generated.ListAccountBalanceChecksParams{
		Limit:  int32(limit),
		Offset: int32(offset),
	})
	if err != nil {
		return nil, translateError(err, nil)
	}

	snapshots := make([]usecase.BalanceSnapshot, 0, len(rows))
	for _, row := range rows {
		snapshots = append(snapshots, usecase.BalanceSnapshot{
			AccountID:  row.ID,
			Recorded:   numericToMoney(row.Balance),
			Calculated: numericToMoney(row.Calculated),
		})
	}

	return snapshots, nil
}
