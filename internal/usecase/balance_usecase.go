package usecase

import (
	"context"

	"github.com/iho/fintech/internal/domain"
)

// BalanceUseCase answers balance queries for a point in time.
type BalanceUseCase struct {
	accountRepo     AccountRepository
	transactionRepo TransactionRepository
}

// NewBalanceUseCase creates a new BalanceUseCase.
func NewBalanceUseCase(accountRepo AccountRepository, transactionRepo TransactionRepository) *BalanceUseCase {
	return &BalanceUseCase{
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
	}
}

// BalanceAsOf returns the sum of active transactions dated on or before asOf.
// A nil asOf returns the cached current balance.
func (uc *BalanceUseCase) BalanceAsOf(ctx context.Context, accountID string, asOf *domain.Date) (domain.Money, error) {
	if err := domain.ValidateID(accountID); err != nil {
		return domain.Zero, err
	}

	account, err := uc.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return domain.Zero, err
	}

	if asOf == nil {
		return account.Balance, nil
	}

	return uc.transactionRepo.SumActiveAsOf(ctx, accountID, *asOf)
}
