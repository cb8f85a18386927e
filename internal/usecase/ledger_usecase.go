package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/fintech/internal/domain"
	"github.com/iho/fintech/internal/infrastructure/metrics"
)

// LedgerUseCase is the only writer of transaction rows. Every create, edit
// and delete recomputes the account balance from its active transactions and
// commits it together with the transaction write.
type LedgerUseCase struct {
	txManager       TransactionManager
	accountRepo     AccountRepository
	transactionRepo TransactionRepository
	idGen           IDGenerator
	clock           Clock
	retrier         Retrier
	metrics         *metrics.Metrics
	logger          zerolog.Logger
	txTimeout       time.Duration
}

// LedgerConfig holds the dependencies of LedgerUseCase. Clock defaults to a
// MonotonicClock, Retrier to a single attempt and TxTimeout to
// DefaultTransactionTimeout. Metrics and Logger are optional.
type LedgerConfig struct {
	TxManager       TransactionManager
	AccountRepo     AccountRepository
	TransactionRepo TransactionRepository
	IDGen           IDGenerator
	Clock           Clock
	Retrier         Retrier
	Metrics         *metrics.Metrics
	Logger          *zerolog.Logger
	TxTimeout       time.Duration
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(cfg LedgerConfig) *LedgerUseCase {
	if cfg.Clock == nil {
		cfg.Clock = NewMonotonicClock()
	}
	if cfg.Retrier == nil {
		cfg.Retrier = noRetry{}
	}
	if cfg.TxTimeout == 0 {
		cfg.TxTimeout = DefaultTransactionTimeout
	}
	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	return &LedgerUseCase{
		txManager:       cfg.TxManager,
		accountRepo:     cfg.AccountRepo,
		transactionRepo: cfg.TransactionRepo,
		idGen:           cfg.IDGen,
		clock:           cfg.Clock,
		retrier:         cfg.Retrier,
		metrics:         cfg.Metrics,
		logger:          logger,
		txTimeout:       cfg.TxTimeout,
	}
}

// CreateTransactionInput represents input for creating a transaction.
type CreateTransactionInput struct {
	AccountID       string
	TransactionDate string
	Amount          string
	Description     string
}

// EditTransactionInput represents a partial update. Nil fields are left unchanged.
type EditTransactionInput struct {
	TransactionID   string
	Amount          *string
	TransactionDate *string
	Description     *string
	Active          *bool
}

// CreateTransaction posts a new active transaction against an account.
func (uc *LedgerUseCase) CreateTransaction(ctx context.Context, input CreateTransactionInput) (*domain.Transaction, error) {
	start := time.Now()

	if err := domain.ValidateID(input.AccountID); err != nil {
		return nil, err
	}

	amount, err := domain.ParseAmount(input.Amount)
	if err != nil {
		return nil, err
	}

	date, err := domain.ParseDate(input.TransactionDate)
	if err != nil {
		return nil, err
	}

	description, err := domain.ValidateDescription(input.Description)
	if err != nil {
		return nil, err
	}

	var created *domain.Transaction
	err = uc.retry(ctx, domain.OperationCreate, func() error {
		var err error
		created, err = uc.createOnce(ctx, input.AccountID, date, amount, description)
		return err
	})
	uc.observe(domain.OperationCreate, start, err)
	if err != nil {
		return nil, err
	}

	return created, nil
}

func (uc *LedgerUseCase) createOnce(
	ctx context.Context,
	accountID string,
	date domain.Date,
	amount domain.Money,
	description string,
) (*domain.Transaction, error) {
	txCtx, cancel := context.WithTimeout(ctx, uc.txTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	account, err := uc.accountRepo.GetByIDForUpdate(txCtx, tx, accountID)
	if err != nil {
		return nil, err
	}

	current, err := uc.activeSum(txCtx, tx, account)
	if err != nil {
		return nil, err
	}

	candidate := current.Add(amount)
	if err := account.ValidateBalance(domain.OperationCreate, current, candidate); err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	txn := &domain.Transaction{
		ID:              uc.idGen.Generate(),
		AccountID:       account.ID,
		TransactionDate: date,
		Amount:          amount,
		Description:     description,
		Active:          true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := uc.transactionRepo.Create(txCtx, tx, txn); err != nil {
		return nil, err
	}

	if err := uc.accountRepo.UpdateBalance(txCtx, tx, account.ID, candidate, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	return txn, nil
}

// EditTransaction applies a patch to a transaction. The pre-edit contribution is
// retracted and the post-edit contribution applied against the other transactions' sum.
func (uc *LedgerUseCase) EditTransaction(ctx context.Context, input EditTransactionInput) (*domain.Transaction, error) {
	start := time.Now()

	if err := domain.ValidateID(input.TransactionID); err != nil {
		return nil, err
	}

	patch, err := buildPatch(input)
	if err != nil {
		return nil, err
	}

	var updated *domain.Transaction
	err = uc.retry(ctx, domain.OperationEdit, func() error {
		var err error
		updated, err = uc.editOnce(ctx, input.TransactionID, patch)
		return err
	})
	uc.observe(domain.OperationEdit, start, err)
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func buildPatch(input EditTransactionInput) (domain.TransactionPatch, error) {
	var patch domain.TransactionPatch

	if input.Amount != nil {
		amount, err := domain.ParseAmount(*input.Amount)
		if err != nil {
			return patch, err
		}
		patch.Amount = &amount
	}

	if input.TransactionDate != nil {
		date, err := domain.ParseDate(*input.TransactionDate)
		if err != nil {
			return patch, err
		}
		patch.TransactionDate = &date
	}

	if input.Description != nil {
		description, err := domain.ValidateDescription(*input.Description)
		if err != nil {
			return patch, err
		}
		patch.Description = &description
	}

	patch.Active = input.Active

	if patch.IsEmpty() {
		return patch, domain.ErrEmptyPatch
	}

	return patch, nil
}

func (uc *LedgerUseCase) editOnce(ctx context.Context, id string, patch domain.TransactionPatch) (*domain.Transaction, error) {
	txCtx, cancel := context.WithTimeout(ctx, uc.txTimeout)
	defer cancel()

	tx, account, existing, err := uc.lockTransaction(txCtx, id)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	current, err := uc.activeSum(txCtx, tx, account)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	next := patch.Apply(existing, now)

	candidate := current.Sub(existing.Contribution()).Add(next.Contribution())
	if err := account.ValidateBalance(domain.OperationEdit, current, candidate); err != nil {
		return nil, err
	}

	if err := uc.transactionRepo.Update(txCtx, tx, next); err != nil {
		return nil, err
	}

	if err := uc.accountRepo.UpdateBalance(txCtx, tx, account.ID, candidate, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	return next, nil
}

// DeleteTransaction hard-deletes a transaction if the remaining balance stays non-negative.
func (uc *LedgerUseCase) DeleteTransaction(ctx context.Context, id string) error {
	start := time.Now()

	if err := domain.ValidateID(id); err != nil {
		return err
	}

	err := uc.retry(ctx, domain.OperationDelete, func() error {
		return uc.deleteOnce(ctx, id)
	})
	uc.observe(domain.OperationDelete, start, err)

	return err
}

func (uc *LedgerUseCase) deleteOnce(ctx context.Context, id string) error {
	txCtx, cancel := context.WithTimeout(ctx, uc.txTimeout)
	defer cancel()

	tx, account, existing, err := uc.lockTransaction(txCtx, id)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	current, err := uc.activeSum(txCtx, tx, account)
	if err != nil {
		return err
	}

	candidate := current.Sub(existing.Contribution())
	if err := account.ValidateBalance(domain.OperationDelete, current, candidate); err != nil {
		return err
	}

	if err := uc.transactionRepo.Delete(txCtx, tx, existing.ID); err != nil {
		return err
	}

	if err := uc.accountRepo.UpdateBalance(txCtx, tx, account.ID, candidate, uc.clock.Now()); err != nil {
		return err
	}

	return tx.Commit(txCtx)
}

// GetTransaction retrieves a transaction by ID, active or not.
func (uc *LedgerUseCase) GetTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	if err := domain.ValidateID(id); err != nil {
		return nil, err
	}
	return uc.transactionRepo.GetByID(ctx, id)
}

// lockTransaction opens a storage transaction holding the lock of the account
// owning transaction id, then re-reads the transaction under that lock. The
// account lock is always taken first so every mutation path locks in the same order.
// On success the caller owns tx and must end it.
func (uc *LedgerUseCase) lockTransaction(ctx context.Context, id string) (Tx, *domain.Account, *domain.Transaction, error) {
	// account_id is immutable, so an unlocked read is enough to find the lock to take.
	probe, err := uc.transactionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, nil, err
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, nil, nil, err
	}

	account, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, probe.AccountID)
	if err != nil {
		_ = tx.Rollback(ctx)
		return nil, nil, nil, err
	}

	existing, err := uc.transactionRepo.GetByIDForUpdate(ctx, tx, id)
	if err != nil {
		_ = tx.Rollback(ctx)
		return nil, nil, nil, err
	}

	return tx, account, existing, nil
}

// activeSum reads the authoritative balance from transaction rows. A cached
// balance that disagrees is logged; the caller's balance write repairs it.
func (uc *LedgerUseCase) activeSum(ctx context.Context, tx Tx, account *domain.Account) (domain.Money, error) {
	sum, err := uc.transactionRepo.SumActiveTx(ctx, tx, account.ID)
	if err != nil {
		return domain.Zero, err
	}

	if account.HasDrift(sum) {
		uc.logger.Warn().
			Str("account_id", account.ID).
			Str("cached_balance", account.Balance.String()).
			Str("active_sum", sum.String()).
			Msg("cached balance drift detected")
		if uc.metrics != nil {
			uc.metrics.BalanceDrift.Inc()
		}
	}

	return sum, nil
}

func (uc *LedgerUseCase) retry(ctx context.Context, operation string, fn func() error) error {
	return uc.retrier.Retry(ctx, func() error {
		err := fn()
		if errors.Is(err, domain.ErrConcurrencyConflict) {
			uc.logger.Debug().Err(err).Str("operation", operation).Msg("unit of work conflicted")
			if uc.metrics != nil {
				uc.metrics.ConflictRetries.WithLabelValues(operation).Inc()
			}
		}
		return err
	})
}

func (uc *LedgerUseCase) observe(operation string, start time.Time, err error) {
	if err != nil {
		kind := ErrorKind(err)
		uc.logger.Debug().Err(err).Str("operation", operation).Str("kind", kind).Msg("ledger operation failed")
		if uc.metrics != nil {
			uc.metrics.OperationErrors.WithLabelValues(operation, kind).Inc()
			if kind == KindInsufficientBalance {
				uc.metrics.BalanceRejections.WithLabelValues(operation).Inc()
			}
		}
		return
	}

	if uc.metrics == nil {
		return
	}

	uc.metrics.OperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	switch operation {
	case domain.OperationCreate:
		uc.metrics.TransactionsCreated.Inc()
	case domain.OperationEdit:
		uc.metrics.TransactionsEdited.Inc()
	case domain.OperationDelete:
		uc.metrics.TransactionsDeleted.Inc()
	}
}
