package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/iho/fintech/internal/domain"
)

// PostgreSQL error codes translated to domain errors.
const (
	pgErrSerializationFailure = "40001"
	pgErrDeadlock             = "40P01"
	pgErrLockNotAvailable     = "55P03"
	pgErrForeignKeyViolation  = "23503"
	pgErrCheckViolation       = "23514"
	pgErrQueryCanceled        = "57014"
	pgErrNumericOutOfRange    = "22003"
	pgErrInvalidEncoding      = "22021"
)

const balanceConstraint = "accounts_balance_non_negative"

var errForeignTx = errors.New("transaction was not started by the postgres backend")

// translateError maps driver errors to domain errors. notFound is returned
// for pgx.ErrNoRows and may be nil when no row is not an error.
func translateError(err error, notFound error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) && notFound != nil {
		return notFound
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgErrSerializationFailure, pgErrDeadlock, pgErrLockNotAvailable:
		return fmt.Errorf("%w: %s", domain.ErrConcurrencyConflict, pgErr.Message)
	case pgErrForeignKeyViolation:
		return fmt.Errorf("%w: %s", domain.ErrReferentialIntegrity, pgErr.Message)
	case pgErrCheckViolation:
		if pgErr.ConstraintName == balanceConstraint {
			return fmt.Errorf("%w: %s", domain.ErrInsufficientBalance, pgErr.Message)
		}
	case pgErrNumericOutOfRange:
		return fmt.Errorf("%w: %s", domain.ErrAmountTooLarge, pgErr.Message)
	case pgErrInvalidEncoding:
		return fmt.Errorf("%w: %s", domain.ErrValidation, pgErr.Message)
	case pgErrQueryCanceled:
		return fmt.Errorf("%w: %s", context.DeadlineExceeded, pgErr.Message)
	}

	return err
}
