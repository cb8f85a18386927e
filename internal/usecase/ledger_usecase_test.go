package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/fintech/internal/domain"
	"github.com/iho/fintech/internal/usecase"
)

func TestLedgerUseCase_CreateRejectsOverdraft(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	acc := e.openAccount(t)

	e.post(t, acc.ID, "10.32", "2024-01-01")
	assert.Equal(t, "10.32", e.requireConsistent(t, acc.ID).String())

	e.post(t, acc.ID, "-10.32", "2024-01-01")
	assert.Equal(t, "0.00", e.requireConsistent(t, acc.ID).String())

	_, err := e.ledger.CreateTransaction(ctx, usecase.CreateTransactionInput{
		AccountID:       acc.ID,
		TransactionDate: "2024-01-01",
		Amount:          "-10.32",
	})
	require.ErrorIs(t, err, domain.ErrInsufficientBalance)

	var balanceErr *domain.InsufficientBalanceError
	require.True(t, errors.As(err, &balanceErr))
	assert.Equal(t, domain.OperationCreate, balanceErr.Operation)
	assert.Equal(t, "-10.32", balanceErr.Candidate.String())

	assert.Equal(t, "0.00", e.requireConsistent(t, acc.ID).String())

	page, err := e.statements.ListTransactions(ctx, usecase.ListTransactionsInput{
		AccountID: acc.ID, Page: 1, PageSize: 10, IncludeInactive: true,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)

	assert.Equal(t, 1.0, testutil.ToFloat64(e.metrics.BalanceRejections.WithLabelValues(domain.OperationCreate)))
	assert.Equal(t, 2.0, testutil.ToFloat64(e.metrics.TransactionsCreated))
}

func TestLedgerUseCase_CreateRejectsBalanceOverflow(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	acc := e.openAccount(t)

	e.post(t, acc.ID, domain.MaxAmountLiteral, "2024-01-01")

	_, err := e.ledger.CreateTransaction(ctx, usecase.CreateTransactionInput{
		AccountID:       acc.ID,
		TransactionDate: "2024-01-02",
		Amount:          domain.MaxAmountLiteral,
	})
	require.ErrorIs(t, err, domain.ErrAmountTooLarge)
	assert.Equal(t, usecase.KindValidation, usecase.ErrorKind(err))
	assert.Equal(t, domain.MaxAmountLiteral, e.requireConsistent(t, acc.ID).String())

	_, err = e.ledger.CreateTransaction(ctx, usecase.CreateTransactionInput{
		AccountID:       acc.ID,
		TransactionDate: "2024-01-02",
		Amount:          "0.01",
	})
	require.ErrorIs(t, err, domain.ErrAmountTooLarge)
}

func TestLedgerUseCase_DeleteGuardedByRemainingBalance(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	acc := e.openAccount(t)

	credit := e.post(t, acc.ID, "10.00", "2024-01-01")
	debit := e.post(t, acc.ID, "-5.00", "2024-01-02")
	assert.Equal(t, "5.00", e.requireConsistent(t, acc.ID).String())

	err := e.ledger.DeleteTransaction(ctx, credit.ID)
	require.ErrorIs(t, err, domain.ErrInsufficientBalance)
	assert.Equal(t, "5.00", e.requireConsistent(t, acc.ID).String())

	_, err = e.ledger.EditTransaction(ctx, usecase.EditTransactionInput{
		TransactionID: debit.ID,
		Active:        boolPtr(false),
	})
	require.NoError(t, err)
	assert.Equal(t, "10.00", e.requireConsistent(t, acc.ID).String())

	require.NoError(t, e.ledger.DeleteTransaction(ctx, credit.ID))
	assert.Equal(t, "0.00", e.requireConsistent(t, acc.ID).String())

	_, err = e.ledger.GetTransaction(ctx, credit.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLedgerUseCase_EditRetractsOldContribution(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	acc := e.openAccount(t)

	e.post(t, acc.ID, "20.00", "2024-01-01")
	debit := e.post(t, acc.ID, "-5.00", "2024-01-02")

	tests := []struct {
		name    string
		input   usecase.EditTransactionInput
		want    string
		wantErr error
	}{
		{
			name:  "deepen debit within balance",
			input: usecase.EditTransactionInput{TransactionID: debit.ID, Amount: strPtr("-20.00")},
			want:  "0.00",
		},
		{
			name:    "debit beyond other transactions",
			input:   usecase.EditTransactionInput{TransactionID: debit.ID, Amount: strPtr("-20.01")},
			want:    "0.00",
			wantErr: domain.ErrInsufficientBalance,
		},
		{
			name:  "deactivate debit",
			input: usecase.EditTransactionInput{TransactionID: debit.ID, Active: boolPtr(false)},
			want:  "20.00",
		},
		{
			name:  "change amount while inactive",
			input: usecase.EditTransactionInput{TransactionID: debit.ID, Amount: strPtr("-50.00")},
			want:  "20.00",
		},
		{
			name:    "reactivate overdrawing debit",
			input:   usecase.EditTransactionInput{TransactionID: debit.ID, Active: boolPtr(true)},
			want:    "20.00",
			wantErr: domain.ErrInsufficientBalance,
		},
		{
			name: "reactivate with smaller amount",
			input: usecase.EditTransactionInput{
				TransactionID:   debit.ID,
				Active:          boolPtr(true),
				Amount:          strPtr("-7.25"),
				TransactionDate: strPtr("2024-02-01"),
				Description:     strPtr("groceries"),
			},
			want: "12.75",
		},
		{
			name:    "empty patch",
			input:   usecase.EditTransactionInput{TransactionID: debit.ID},
			want:    "12.75",
			wantErr: domain.ErrValidation,
		},
		{
			name:    "malformed amount",
			input:   usecase.EditTransactionInput{TransactionID: debit.ID, Amount: strPtr("1.001")},
			want:    "12.75",
			wantErr: domain.ErrValidation,
		},
		{
			name:    "unknown transaction",
			input:   usecase.EditTransactionInput{TransactionID: "missing", Active: boolPtr(false)},
			want:    "12.75",
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.ledger.EditTransaction(ctx, tt.input)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, e.requireConsistent(t, acc.ID).String())
		})
	}

	got, err := e.ledger.GetTransaction(ctx, debit.ID)
	require.NoError(t, err)
	assert.Equal(t, "groceries", got.Description)
	assert.Equal(t, "2024-02-01", got.TransactionDate.String())
	assert.True(t, got.Active)
	assert.Equal(t, debit.CreatedAt, got.CreatedAt)
	assert.False(t, got.UpdatedAt.Before(debit.UpdatedAt))
}

func TestLedgerUseCase_CreateValidatesBeforeStorage(t *testing.T) {
	e := newEnv(t)
	acc := e.openAccount(t)

	tests := []struct {
		name    string
		input   usecase.CreateTransactionInput
		wantErr error
	}{
		{"too many decimals", usecase.CreateTransactionInput{AccountID: acc.ID, TransactionDate: "2024-01-01", Amount: "1.234"}, domain.ErrInvalidAmount},
		{"not a number", usecase.CreateTransactionInput{AccountID: acc.ID, TransactionDate: "2024-01-01", Amount: "ten"}, domain.ErrInvalidAmount},
		{"too large", usecase.CreateTransactionInput{AccountID: acc.ID, TransactionDate: "2024-01-01", Amount: "10000000000000.00"}, domain.ErrAmountTooLarge},
		{"bad date", usecase.CreateTransactionInput{AccountID: acc.ID, TransactionDate: "2024-02-30", Amount: "1.00"}, domain.ErrInvalidDate},
		{"long description", usecase.CreateTransactionInput{AccountID: acc.ID, TransactionDate: "2024-01-01", Amount: "1.00", Description: "this description is too long"}, domain.ErrInvalidDescription},
		{"missing account id", usecase.CreateTransactionInput{TransactionDate: "2024-01-01", Amount: "1.00"}, domain.ErrInvalidIDFormat},
		{"unknown account", usecase.CreateTransactionInput{AccountID: "nope", TransactionDate: "2024-01-01", Amount: "1.00"}, domain.ErrAccountNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.ledger.CreateTransaction(context.Background(), tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	assert.Equal(t, "0.00", e.requireConsistent(t, acc.ID).String())
}

func TestLedgerUseCase_ConcurrentDebitsNeverOverdraw(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	acc := e.openAccount(t)
	e.post(t, acc.ID, "50.00", "2024-01-01")

	const workers = 20
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.ledger.CreateTransaction(ctx, usecase.CreateTransactionInput{
				AccountID:       acc.ID,
				TransactionDate: "2024-01-02",
				Amount:          "-10.00",
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, domain.ErrInsufficientBalance):
				rejected++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, succeeded)
	assert.Equal(t, workers-5, rejected)
	assert.Equal(t, "0.00", e.requireConsistent(t, acc.ID).String())
}

func TestLedgerUseCase_DifferentAccountsDoNotBlock(t *testing.T) {
	e := newEnv(t)
	a := e.openAccount(t)
	b := e.openAccount(t)

	var wg sync.WaitGroup
	for _, id := range []string{a.ID, b.ID} {
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func(accountID string) {
				defer wg.Done()
				_, err := e.ledger.CreateTransaction(context.Background(), usecase.CreateTransactionInput{
					AccountID:       accountID,
					TransactionDate: "2024-01-01",
					Amount:          "1.50",
				})
				assert.NoError(t, err)
			}(id)
		}
	}
	wg.Wait()

	assert.Equal(t, "15.00", e.requireConsistent(t, a.ID).String())
	assert.Equal(t, "15.00", e.requireConsistent(t, b.ID).String())
}

func TestLedgerUseCase_CancelledContextLeavesNoState(t *testing.T) {
	e := newEnv(t)
	acc := e.openAccount(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.ledger.CreateTransaction(ctx, usecase.CreateTransactionInput{
		AccountID:       acc.ID,
		TransactionDate: "2024-01-01",
		Amount:          "1.00",
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, usecase.KindCanceled, usecase.ErrorKind(err))
	assert.Equal(t, "0.00", e.requireConsistent(t, acc.ID).String())
}
