package usecase

import (
	"context"
	"fmt"

	"github.com/iho/fintech/internal/domain"
	"github.com/iho/fintech/internal/infrastructure/metrics"
)

// AccountUseCase handles account business logic.
type AccountUseCase struct {
	txManager       TransactionManager
	accountRepo     AccountRepository
	transactionRepo TransactionRepository
	idGen           IDGenerator
	clock           Clock
	metrics         *metrics.Metrics
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	transactionRepo TransactionRepository,
	idGen IDGenerator,
	clock Clock,
) *AccountUseCase {
	if clock == nil {
		clock = NewMonotonicClock()
	}
	return &AccountUseCase{
		txManager:       txManager,
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		idGen:           idGen,
		clock:           clock,
	}
}

// WithMetrics attaches metrics to the use case.
func (uc *AccountUseCase) WithMetrics(m *metrics.Metrics) *AccountUseCase {
	uc.metrics = m
	return uc
}

// CreateAccountInput represents input for creating an account.
type CreateAccountInput struct {
	Name  string
	Owner string
}

// CreateAccount opens an account with a zero balance.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	name, err := domain.ValidateAccountName(input.Name)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateOwner(input.Owner); err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	account := &domain.Account{
		ID:        uc.idGen.Generate(),
		Name:      name,
		Owner:     input.Owner,
		Balance:   domain.Zero,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.AccountsCreated.Inc()
	}

	return account, nil
}

// GetAccount retrieves an account by ID.
func (uc *AccountUseCase) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	if err := domain.ValidateID(id); err != nil {
		return nil, err
	}
	return uc.accountRepo.GetByID(ctx, id)
}

// ListAccountsInput represents input for listing accounts. An empty Owner lists every account.
type ListAccountsInput struct {
	Owner    string
	Page     int
	PageSize int
}

// ListAccounts lists accounts newest first.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, input ListAccountsInput) ([]*domain.Account, error) {
	limit, offset, err := domain.ValidatePagination(input.Page, input.PageSize)
	if err != nil {
		return nil, err
	}
	return uc.accountRepo.List(ctx, input.Owner, limit, offset)
}

// RenameAccount changes the display name of an account. The balance is untouched.
func (uc *AccountUseCase) RenameAccount(ctx context.Context, id, name string) (*domain.Account, error) {
	if err := domain.ValidateID(id); err != nil {
		return nil, err
	}

	name, err := domain.ValidateAccountName(name)
	if err != nil {
		return nil, err
	}

	return uc.accountRepo.UpdateName(ctx, id, name, uc.clock.Now())
}

// DeleteAccount removes an account that no transaction row references.
func (uc *AccountUseCase) DeleteAccount(ctx context.Context, id string) error {
	if err := domain.ValidateID(id); err != nil {
		return err
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// The account lock keeps new transactions from being posted while we count.
	if _, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, id); err != nil {
		return err
	}

	refs, err := uc.transactionRepo.CountReferences(ctx, tx, id)
	if err != nil {
		return err
	}
	if refs > 0 {
		return fmt.Errorf("%w: %d transactions reference account %s", domain.ErrReferentialIntegrity, refs, id)
	}

	if err := uc.accountRepo.Delete(ctx, tx, id); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	if uc.metrics != nil {
		uc.metrics.AccountsDeleted.Inc()
	}

	return nil
}
