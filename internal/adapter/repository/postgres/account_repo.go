package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/fintech/internal/domain"
	"github.com/iho/fintech/internal/infrastructure/postgres/generated"
	"github.com/iho/fintech/internal/usecase"
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	queries *generated.Queries
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return newAccountRepository(pool)
}

func newAccountRepository(db generated.DBTX) *AccountRepository {
	return &AccountRepository{queries: generated.New(db)}
}

// Create creates a new account.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	err := r.queries.CreateAccount(ctx, generated.CreateAccountParams{
		ID:        account.ID,
		Name:      account.Name,
		OwnerRef:  account.Owner,
		Balance:   moneyToNumeric(account.Balance),
		CreatedAt: timeToPgTimestamptz(account.CreatedAt),
		UpdatedAt: timeToPgTimestamptz(account.UpdatedAt),
	})

	return translateError(err, nil)
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	row, err := r.queries.GetAccountByID(ctx, id)
	if err != nil {
		return nil, translateError(err, domain.ErrAccountNotFound)
	}

	return rowToAccount(row), nil
}

// GetByIDForUpdate retrieves an account by ID with a FOR UPDATE lock.
func (r *AccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Tx, id string) (*domain.Account, error) {
	queries, err := queriesFor(tx)
	if err != nil {
		return nil, err
	}

	row, err := queries.GetAccountByIDForUpdate(ctx, id)
	if err != nil {
		return nil, translateError(err, domain.ErrAccountNotFound)
	}

	return rowToAccount(row), nil
}

// UpdateBalance updates the balance of an account.
func (r *AccountRepository) UpdateBalance(ctx context.Context, tx usecase.Tx, id string, balance domain.Money, updatedAt time.Time) error {
	queries, err := queriesFor(tx)
	if err != nil {
		return err
	}

	err = queries.UpdateAccountBalance(ctx, generated.UpdateAccountBalanceParams{
		ID:        id,
		Balance:   moneyToNumeric(balance),
		UpdatedAt: timeToPgTimestamptz(updatedAt),
	})

	return translateError(err, nil)
}

// UpdateName renames an account.
func (r *AccountRepository) UpdateName(ctx context.Context, id, name string, updatedAt time.Time) (*domain.Account, error) {
	row, err := r.queries.UpdateAccountName(ctx, generated.UpdateAccountNameParams{
		ID:        id,
		Name:      name,
		UpdatedAt: timeToPgTimestamptz(updatedAt),
	})
	if err != nil {
		return nil, translateError(err, domain.ErrAccountNotFound)
	}

	return rowToAccount(row), nil
}

// Delete removes an account. The foreign key rejects it while transactions reference it.
func (r *AccountRepository) Delete(ctx context.Context, tx usecase.Tx, id string) error {
	queries, err := queriesFor(tx)
	if err != nil {
		return err
	}

	n, err := queries.DeleteAccount(ctx, id)
	if err != nil {
		return translateError(err, nil)
	}
	if n == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

// List lists accounts newest first. An empty owner lists every account.
func (r *AccountRepository) List(ctx context.Context, owner string, limit, offset int) ([]*domain.Account, error) {
	var (
		rows []generated.Account
		err  error
	)

	if owner == "" {
		rows, err = r.queries.ListAccounts(ctx, generated.ListAccountsParams{
			Limit:  int32(limit),
			Offset: int32(offset),
		})
	} else {
		rows, err = r.queries.ListAccountsByOwner(ctx, generated.ListAccountsByOwnerParams{
			OwnerRef: owner,
			Limit:    int32(limit),
			Offset:   int32(offset),
		})
	}
	if err != nil {
		return nil, translateError(err, nil)
	}

	accounts := make([]*domain.Account, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, rowToAccount(row))
	}

	return accounts, nil
}
