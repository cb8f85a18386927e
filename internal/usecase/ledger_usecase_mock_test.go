package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/iho/fintech/internal/domain"
	"github.com/iho/fintech/internal/usecase"
	"github.com/iho/fintech/internal/usecase/mocks"
)

type ledgerMocks struct {
	txManager    *mocks.MockTransactionManager
	tx           *mocks.MockTx
	accounts     *mocks.MockAccountRepository
	transactions *mocks.MockTransactionRepository
	ids          *mocks.MockIDGenerator
	clock        *mocks.MockClock
}

func newLedgerMocks(t *testing.T) (*ledgerMocks, *usecase.LedgerUseCase) {
	ctrl := gomock.NewController(t)
	m := &ledgerMocks{
		txManager:    mocks.NewMockTransactionManager(ctrl),
		tx:           mocks.NewMockTx(ctrl),
		accounts:     mocks.NewMockAccountRepository(ctrl),
		transactions: mocks.NewMockTransactionRepository(ctrl),
		ids:          mocks.NewMockIDGenerator(ctrl),
		clock:        mocks.NewMockClock(ctrl),
	}
	uc := usecase.NewLedgerUseCase(usecase.LedgerConfig{
		TxManager:       m.txManager,
		AccountRepo:     m.accounts,
		TransactionRepo: m.transactions,
		IDGen:           m.ids,
		Clock:           m.clock,
		Retrier:         retryConflicts{attempts: 3},
	})
	return m, uc
}

var fixedNow = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func TestLedgerUseCase_CreateRetriesConflictingCommit(t *testing.T) {
	m, uc := newLedgerMocks(t)
	ctx := context.Background()
	account := &domain.Account{ID: "acc-1", Balance: domain.MustParseAmount("3.00")}

	m.txManager.EXPECT().Begin(gomock.Any()).Return(m.tx, nil).Times(2)
	m.accounts.EXPECT().GetByIDForUpdate(gomock.Any(), m.tx, "acc-1").Return(account, nil).Times(2)
	m.transactions.EXPECT().SumActiveTx(gomock.Any(), m.tx, "acc-1").Return(domain.MustParseAmount("3.00"), nil).Times(2)
	m.clock.EXPECT().Now().Return(fixedNow).Times(2)
	m.ids.EXPECT().Generate().Return("txn-1").Times(2)
	m.transactions.EXPECT().Create(gomock.Any(), m.tx, gomock.Any()).Return(nil).Times(2)
	m.accounts.EXPECT().UpdateBalance(gomock.Any(), m.tx, "acc-1", domain.MustParseAmount("5.00"), fixedNow).Return(nil).Times(2)
	gomock.InOrder(
		m.tx.EXPECT().Commit(gomock.Any()).Return(domain.ErrConcurrencyConflict),
		m.tx.EXPECT().Commit(gomock.Any()).Return(nil),
	)
	m.tx.EXPECT().Rollback(gomock.Any()).Return(nil).Times(2)

	txn, err := uc.CreateTransaction(ctx, usecase.CreateTransactionInput{
		AccountID: "acc-1", TransactionDate: "2024-05-01", Amount: "2.00",
	})
	require.NoError(t, err)
	assert.Equal(t, "txn-1", txn.ID)
	assert.True(t, txn.Active)
	assert.Equal(t, fixedNow, txn.CreatedAt)
}

func TestLedgerUseCase_ConflictSurfacesAfterRetries(t *testing.T) {
	m, uc := newLedgerMocks(t)

	m.txManager.EXPECT().Begin(gomock.Any()).Return(m.tx, nil).Times(3)
	m.accounts.EXPECT().GetByIDForUpdate(gomock.Any(), m.tx, "acc-1").Return(nil, domain.ErrConcurrencyConflict).Times(3)
	m.tx.EXPECT().Rollback(gomock.Any()).Return(nil).Times(3)

	_, err := uc.CreateTransaction(context.Background(), usecase.CreateTransactionInput{
		AccountID: "acc-1", TransactionDate: "2024-05-01", Amount: "2.00",
	})
	require.ErrorIs(t, err, domain.ErrConcurrencyConflict)
	assert.NotErrorIs(t, err, domain.ErrInsufficientBalance)
}

func TestLedgerUseCase_RejectionWritesNothing(t *testing.T) {
	m, uc := newLedgerMocks(t)
	account := &domain.Account{ID: "acc-1", Balance: domain.MustParseAmount("1.00")}

	m.txManager.EXPECT().Begin(gomock.Any()).Return(m.tx, nil)
	m.accounts.EXPECT().GetByIDForUpdate(gomock.Any(), m.tx, "acc-1").Return(account, nil)
	m.transactions.EXPECT().SumActiveTx(gomock.Any(), m.tx, "acc-1").Return(domain.MustParseAmount("1.00"), nil)
	m.tx.EXPECT().Rollback(gomock.Any()).Return(nil)

	_, err := uc.CreateTransaction(context.Background(), usecase.CreateTransactionInput{
		AccountID: "acc-1", TransactionDate: "2024-05-01", Amount: "-1.01",
	})
	require.ErrorIs(t, err, domain.ErrInsufficientBalance)
}

func TestLedgerUseCase_ActiveSumIsAuthoritative(t *testing.T) {
	m, uc := newLedgerMocks(t)
	// Cached balance says 100.00 but the rows only add up to 1.00.
	account := &domain.Account{ID: "acc-1", Balance: domain.MustParseAmount("100.00")}

	m.txManager.EXPECT().Begin(gomock.Any()).Return(m.tx, nil)
	m.accounts.EXPECT().GetByIDForUpdate(gomock.Any(), m.tx, "acc-1").Return(account, nil)
	m.transactions.EXPECT().SumActiveTx(gomock.Any(), m.tx, "acc-1").Return(domain.MustParseAmount("1.00"), nil)
	m.tx.EXPECT().Rollback(gomock.Any()).Return(nil)

	_, err := uc.CreateTransaction(context.Background(), usecase.CreateTransactionInput{
		AccountID: "acc-1", TransactionDate: "2024-05-01", Amount: "-50.00",
	})
	require.ErrorIs(t, err, domain.ErrInsufficientBalance)
}

func TestLedgerUseCase_DeleteRepositoryErrorRollsBack(t *testing.T) {
	m, uc := newLedgerMocks(t)
	dbErr := errors.New("connection reset")
	txn := &domain.Transaction{ID: "txn-1", AccountID: "acc-1", Amount: domain.MustParseAmount("1.00"), Active: true}

	m.transactions.EXPECT().GetByID(gomock.Any(), "txn-1").Return(txn, nil)
	m.txManager.EXPECT().Begin(gomock.Any()).Return(m.tx, nil)
	m.accounts.EXPECT().GetByIDForUpdate(gomock.Any(), m.tx, "acc-1").Return(&domain.Account{ID: "acc-1", Balance: domain.MustParseAmount("1.00")}, nil)
	m.transactions.EXPECT().GetByIDForUpdate(gomock.Any(), m.tx, "txn-1").Return(txn, nil)
	m.transactions.EXPECT().SumActiveTx(gomock.Any(), m.tx, "acc-1").Return(domain.MustParseAmount("1.00"), nil)
	m.transactions.EXPECT().Delete(gomock.Any(), m.tx, "txn-1").Return(dbErr)
	m.tx.EXPECT().Rollback(gomock.Any()).Return(nil)

	err := uc.DeleteTransaction(context.Background(), "txn-1")
	require.ErrorIs(t, err, dbErr)
	assert.Equal(t, usecase.KindInternal, usecase.ErrorKind(err))
}

func TestLedgerUseCase_EditLocksAccountBeforeTransaction(t *testing.T) {
	m, uc := newLedgerMocks(t)
	txn := &domain.Transaction{ID: "txn-1", AccountID: "acc-1", Amount: domain.MustParseAmount("-2.00"), Active: true}
	account := &domain.Account{ID: "acc-1", Balance: domain.MustParseAmount("8.00")}

	gomock.InOrder(
		m.transactions.EXPECT().GetByID(gomock.Any(), "txn-1").Return(txn, nil),
		m.txManager.EXPECT().Begin(gomock.Any()).Return(m.tx, nil),
		m.accounts.EXPECT().GetByIDForUpdate(gomock.Any(), m.tx, "acc-1").Return(account, nil),
		m.transactions.EXPECT().GetByIDForUpdate(gomock.Any(), m.tx, "txn-1").Return(txn, nil),
		m.transactions.EXPECT().SumActiveTx(gomock.Any(), m.tx, "acc-1").Return(domain.MustParseAmount("8.00"), nil),
		m.clock.EXPECT().Now().Return(fixedNow),
		m.transactions.EXPECT().Update(gomock.Any(), m.tx, gomock.Any()).Return(nil),
		m.accounts.EXPECT().UpdateBalance(gomock.Any(), m.tx, "acc-1", domain.MustParseAmount("10.00"), fixedNow).Return(nil),
		m.tx.EXPECT().Commit(gomock.Any()).Return(nil),
	)
	m.tx.EXPECT().Rollback(gomock.Any()).Return(nil)

	updated, err := uc.EditTransaction(context.Background(), usecase.EditTransactionInput{
		TransactionID: "txn-1",
		Active:        boolPtr(false),
	})
	require.NoError(t, err)
	assert.False(t, updated.Active)
	assert.True(t, txn.Active, "original must not be mutated")
}
