package usecase

import (
	"context"

	"github.com/iho/fintech/internal/domain"
)

// StatementUseCase lists the transactions of an account.
type StatementUseCase struct {
	accountRepo     AccountRepository
	transactionRepo TransactionRepository
}

// NewStatementUseCase creates a new StatementUseCase.
func NewStatementUseCase(accountRepo AccountRepository, transactionRepo TransactionRepository) *StatementUseCase {
	return &StatementUseCase{
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
	}
}

// ListTransactionsInput selects one page of an account's transactions.
// Inactive rows are returned only when IncludeInactive is set.
type ListTransactionsInput struct {
	AccountID       string
	Page            int
	PageSize        int
	IncludeInactive bool
}

// TransactionPage is one page of a listing. Total counts every matching row.
type TransactionPage struct {
	Items    []*domain.Transaction
	Page     int
	PageSize int
	Total    int64
}

// ListTransactions returns transactions newest first by created_at, then
// transaction_date, then id. A page past the end is empty.
func (uc *StatementUseCase) ListTransactions(ctx context.Context, input ListTransactionsInput) (*TransactionPage, error) {
	if err := domain.ValidateID(input.AccountID); err != nil {
		return nil, err
	}

	limit, offset, err := domain.ValidatePagination(input.Page, input.PageSize)
	if err != nil {
		return nil, err
	}

	if _, err := uc.accountRepo.GetByID(ctx, input.AccountID); err != nil {
		return nil, err
	}

	items, err := uc.transactionRepo.ListByAccount(ctx, input.AccountID, input.IncludeInactive, limit, offset)
	if err != nil {
		return nil, err
	}

	total, err := uc.transactionRepo.CountByAccount(ctx, input.AccountID, input.IncludeInactive)
	if err != nil {
		return nil, err
	}

	if items == nil {
		items = []*domain.Transaction{}
	}

	return &TransactionPage{
		Items:    items,
		Page:     input.Page,
		PageSize: limit,
		Total:    total,
	}, nil
}
