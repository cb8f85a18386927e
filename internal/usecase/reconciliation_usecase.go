package usecase

import (
	"context"
	"time"

	"github.com/iho/fintech/internal/domain"
	"github.com/iho/fintech/internal/infrastructure/metrics"
)

// ReconciliationUseCase compares cached balances with their active transactions.
type ReconciliationUseCase struct {
	accountRepo     AccountRepository
	transactionRepo TransactionRepository
	ledgerRepo      LedgerRepository
	clock           Clock
	metrics         *metrics.Metrics
}

// NewReconciliationUseCase creates a new reconciliation use case
func NewReconciliationUseCase(
	accountRepo AccountRepository,
	transactionRepo TransactionRepository,
	ledgerRepo LedgerRepository,
	clock Clock,
) *ReconciliationUseCase {
	if clock == nil {
		clock = NewMonotonicClock()
	}
	return &ReconciliationUseCase{
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		ledgerRepo:      ledgerRepo,
		clock:           clock,
	}
}

// WithMetrics attaches metrics to the use case.
func (uc *ReconciliationUseCase) WithMetrics(m *metrics.Metrics) *ReconciliationUseCase {
	uc.metrics = m
	return uc
}

// ReconciliationResult represents the result of a reconciliation check
type ReconciliationResult struct {
	AccountID         string
	RecordedBalance   domain.Money
	CalculatedBalance domain.Money
	Difference        domain.Money
	IsReconciled      bool
	Negative          bool
	LastChecked       time.Time
}

func newReconciliationResult(accountID string, recorded, calculated domain.Money, at time.Time) *ReconciliationResult {
	return &ReconciliationResult{
		AccountID:         accountID,
		RecordedBalance:   recorded,
		CalculatedBalance: calculated,
		Difference:        recorded.Sub(calculated),
		IsReconciled:      recorded.Equal(calculated) && !calculated.IsNegative(),
		Negative:          calculated.IsNegative(),
		LastChecked:       at,
	}
}

// ReconcileAccount recomputes one account's balance from its active transactions.
func (uc *ReconciliationUseCase) ReconcileAccount(ctx context.Context, accountID string) (*ReconciliationResult, error) {
	if err := domain.ValidateID(accountID); err != nil {
		return nil, err
	}

	account, err := uc.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	sum, err := uc.transactionRepo.SumActive(ctx, accountID)
	if err != nil {
		return nil, err
	}

	return newReconciliationResult(accountID, account.Balance, sum, uc.clock.Now()), nil
}

// ReconciliationReport represents a full reconciliation report
type ReconciliationReport struct {
	TotalAccounts      int
	ReconciledAccounts int
	Discrepancies      []*ReconciliationResult
	LedgerConsistent   bool
	CheckedAt          time.Time
}

// GenerateReconciliationReport checks every account. The ledger is consistent
// when every cached balance equals its non-negative active sum.
func (uc *ReconciliationUseCase) GenerateReconciliationReport(ctx context.Context) (*ReconciliationReport, error) {
	now := uc.clock.Now()
	report := &ReconciliationReport{
		Discrepancies: make([]*ReconciliationResult, 0),
		CheckedAt:     now,
	}

	for offset := 0; ; offset += reconciliationBatchSize {
		snapshots, err := uc.ledgerRepo.ListBalanceSnapshots(ctx, reconciliationBatchSize, offset)
		if err != nil {
			return nil, err
		}

		for _, s := range snapshots {
			result := newReconciliationResult(s.AccountID, s.Recorded, s.Calculated, now)
			report.TotalAccounts++
			if result.IsReconciled {
				report.ReconciledAccounts++
			} else {
				report.Discrepancies = append(report.Discrepancies, result)
			}
		}

		if len(snapshots) < reconciliationBatchSize {
			break
		}
	}

	report.LedgerConsistent = len(report.Discrepancies) == 0

	if uc.metrics != nil {
		uc.metrics.ReconciliationDiscrepancies.Set(float64(len(report.Discrepancies)))
	}

	return report, nil
}
