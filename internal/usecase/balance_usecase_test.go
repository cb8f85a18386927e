package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/fintech/internal/domain"
)

func TestBalanceUseCase_BalanceAsOf(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	acc := e.openAccount(t)

	today := domain.Today()
	for i := 0; i < 5; i++ {
		e.post(t, acc.ID, "1.00", today.AddDays(-i).String())
	}

	cases := []struct {
		name string
		asOf *domain.Date
		want string
	}{
		{"current cached balance", nil, "5.00"},
		{"today", &today, "5.00"},
		{"three days ago", ptrDate(today.AddDays(-3)), "2.00"},
		{"before first transaction", ptrDate(today.AddDays(-10)), "0.00"},
		{"future", ptrDate(today.AddDays(30)), "5.00"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := e.balances.BalanceAsOf(ctx, acc.ID, tc.asOf)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.String())
		})
	}
}

func TestBalanceUseCase_IgnoresInactive(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	acc := e.openAccount(t)

	e.post(t, acc.ID, "4.00", "2024-01-01")
	credit := e.post(t, acc.ID, "6.00", "2024-01-02")
	_, err := e.ledger.EditTransaction(ctx, editActive(credit.ID, false))
	require.NoError(t, err)

	asOf := domain.NewDate(2024, 12, 31)
	got, err := e.balances.BalanceAsOf(ctx, acc.ID, &asOf)
	require.NoError(t, err)
	assert.Equal(t, "4.00", got.String())

	cached, err := e.balances.BalanceAsOf(ctx, acc.ID, nil)
	require.NoError(t, err)
	assert.True(t, cached.Equal(got))
}

func TestBalanceUseCase_UnknownAccount(t *testing.T) {
	e := newEnv(t)

	_, err := e.balances.BalanceAsOf(context.Background(), "missing", nil)
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)

	_, err = e.balances.BalanceAsOf(context.Background(), "", nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func ptrDate(d domain.Date) *domain.Date { return &d }
