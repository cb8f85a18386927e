package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/iho/fintech/internal/adapter/repository/memory"
	"github.com/iho/fintech/internal/domain"
	"github.com/iho/fintech/internal/infrastructure/metrics"
	"github.com/iho/fintech/internal/usecase"
)

type sequentialIDs struct {
	prefix string
	n      atomic.Int64
}

func (g *sequentialIDs) Generate() string {
	return fmt.Sprintf("%s-%06d", g.prefix, g.n.Add(1))
}

// retryConflicts re-runs the operation while it reports a concurrency conflict.
type retryConflicts struct {
	attempts int
}

func (r retryConflicts) Retry(_ context.Context, operation func() error) error {
	var err error
	for i := 0; i < r.attempts; i++ {
		err = operation()
		if !errors.Is(err, domain.ErrConcurrencyConflict) {
			return err
		}
	}
	return err
}

type env struct {
	metrics        *metrics.Metrics
	accounts       *usecase.AccountUseCase
	ledger         *usecase.LedgerUseCase
	balances       *usecase.BalanceUseCase
	statements     *usecase.StatementUseCase
	reconciliation *usecase.ReconciliationUseCase
	accountRepo    *memory.AccountRepository
}

func newEnv(t *testing.T) *env {
	t.Helper()

	store := memory.NewStore()
	txManager := memory.NewTxManager(store)
	accountRepo := memory.NewAccountRepository(store)
	transactionRepo := memory.NewTransactionRepository(store)
	ledgerRepo := memory.NewLedgerRepository(store)
	clock := usecase.NewMonotonicClock()
	m := metrics.New(prometheus.NewRegistry())

	return &env{
		metrics: m,
		accounts: usecase.NewAccountUseCase(txManager, accountRepo, transactionRepo,
			&sequentialIDs{prefix: "acc"}, clock).WithMetrics(m),
		ledger: usecase.NewLedgerUseCase(usecase.LedgerConfig{
			TxManager:       txManager,
			AccountRepo:     accountRepo,
			TransactionRepo: transactionRepo,
			IDGen:           &sequentialIDs{prefix: "txn"},
			Clock:           clock,
			Retrier:         retryConflicts{attempts: 3},
			Metrics:         m,
		}),
		balances:       usecase.NewBalanceUseCase(accountRepo, transactionRepo),
		statements:     usecase.NewStatementUseCase(accountRepo, transactionRepo),
		reconciliation: usecase.NewReconciliationUseCase(accountRepo, transactionRepo, ledgerRepo, clock).WithMetrics(m),
		accountRepo:    accountRepo,
	}
}

func (e *env) openAccount(t *testing.T) *domain.Account {
	t.Helper()
	acc, err := e.accounts.CreateAccount(context.Background(), usecase.CreateAccountInput{
		Name:  "Checking",
		Owner: "user-1",
	})
	require.NoError(t, err)
	return acc
}

func (e *env) post(t *testing.T, accountID, amount, date string) *domain.Transaction {
	t.Helper()
	txn, err := e.ledger.CreateTransaction(context.Background(), usecase.CreateTransactionInput{
		AccountID:       accountID,
		TransactionDate: date,
		Amount:          amount,
	})
	require.NoError(t, err)
	return txn
}

// requireConsistent asserts the cached balance equals the active sum and is non-negative.
func (e *env) requireConsistent(t *testing.T, accountID string) domain.Money {
	t.Helper()
	result, err := e.reconciliation.ReconcileAccount(context.Background(), accountID)
	require.NoError(t, err)
	require.True(t, result.IsReconciled, "recorded %s calculated %s", result.RecordedBalance, result.CalculatedBalance)
	return result.RecordedBalance
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }
