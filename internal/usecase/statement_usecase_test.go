package usecase_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/fintech/internal/domain"
	"github.com/iho/fintech/internal/usecase"
)

func editActive(id string, active bool) usecase.EditTransactionInput {
	return usecase.EditTransactionInput{TransactionID: id, Active: boolPtr(active)}
}

func ids(items []*domain.Transaction) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.ID)
	}
	return out
}

func TestStatementUseCase_ListTransactions(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	acc := e.openAccount(t)

	first := e.post(t, acc.ID, "1.00", "2024-01-05")
	second := e.post(t, acc.ID, "2.00", "2024-01-01")
	third := e.post(t, acc.ID, "3.00", "2024-01-03")
	_, err := e.ledger.EditTransaction(ctx, editActive(second.ID, false))
	require.NoError(t, err)

	t.Run("active only, newest first", func(t *testing.T) {
		page, err := e.statements.ListTransactions(ctx, usecase.ListTransactionsInput{
			AccountID: acc.ID, Page: 1, PageSize: 10,
		})
		require.NoError(t, err)
		assert.Equal(t, []string{third.ID, first.ID}, ids(page.Items))
		assert.Equal(t, int64(2), page.Total)
	})

	t.Run("including inactive", func(t *testing.T) {
		page, err := e.statements.ListTransactions(ctx, usecase.ListTransactionsInput{
			AccountID: acc.ID, Page: 1, PageSize: 10, IncludeInactive: true,
		})
		require.NoError(t, err)
		assert.Equal(t, []string{third.ID, second.ID, first.ID}, ids(page.Items))
		assert.Equal(t, int64(3), page.Total)
	})

	t.Run("repeated calls are identical", func(t *testing.T) {
		in := usecase.ListTransactionsInput{AccountID: acc.ID, Page: 1, PageSize: 10, IncludeInactive: true}
		a, err := e.statements.ListTransactions(ctx, in)
		require.NoError(t, err)
		b, err := e.statements.ListTransactions(ctx, in)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})

	t.Run("second page", func(t *testing.T) {
		page, err := e.statements.ListTransactions(ctx, usecase.ListTransactionsInput{
			AccountID: acc.ID, Page: 2, PageSize: 2, IncludeInactive: true,
		})
		require.NoError(t, err)
		assert.Equal(t, []string{first.ID}, ids(page.Items))
	})

	t.Run("page past the end is empty", func(t *testing.T) {
		page, err := e.statements.ListTransactions(ctx, usecase.ListTransactionsInput{
			AccountID: acc.ID, Page: 99, PageSize: 10,
		})
		require.NoError(t, err)
		assert.NotNil(t, page.Items)
		assert.Empty(t, page.Items)
	})

	t.Run("huge page numbers are empty", func(t *testing.T) {
		for _, pageNo := range []int{domain.MaxPageOffset/100 + 2, math.MaxInt64 / 50, math.MaxInt} {
			page, err := e.statements.ListTransactions(ctx, usecase.ListTransactionsInput{
				AccountID: acc.ID, Page: pageNo, PageSize: 100, IncludeInactive: true,
			})
			require.NoError(t, err, "page %d", pageNo)
			assert.Empty(t, page.Items, "page %d", pageNo)
			assert.Equal(t, int64(3), page.Total)
		}
	})

	t.Run("oversized page is clamped", func(t *testing.T) {
		page, err := e.statements.ListTransactions(ctx, usecase.ListTransactionsInput{
			AccountID: acc.ID, Page: 1, PageSize: 1000,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.MaxPageSize, page.PageSize)
	})
}

func TestStatementUseCase_ListTransactionsRejectsBadInput(t *testing.T) {
	e := newEnv(t)
	acc := e.openAccount(t)

	tests := []struct {
		name    string
		input   usecase.ListTransactionsInput
		wantErr error
	}{
		{"zero page size", usecase.ListTransactionsInput{AccountID: acc.ID, Page: 1, PageSize: 0}, domain.ErrInvalidPagination},
		{"negative page size", usecase.ListTransactionsInput{AccountID: acc.ID, Page: 1, PageSize: -3}, domain.ErrInvalidPagination},
		{"zero page", usecase.ListTransactionsInput{AccountID: acc.ID, Page: 0, PageSize: 10}, domain.ErrInvalidPagination},
		{"unknown account", usecase.ListTransactionsInput{AccountID: "missing", Page: 1, PageSize: 10}, domain.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.statements.ListTransactions(context.Background(), tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
