package usecase

import (
	"context"
	"errors"

	"github.com/iho/fintech/internal/domain"
)

// Error kinds reported to callers and used as metric labels.
const (
	KindInsufficientBalance  = "insufficient_balance"
	KindValidation           = "validation"
	KindNotFound             = "not_found"
	KindConcurrencyConflict  = "concurrency_conflict"
	KindReferentialIntegrity = "referential_integrity"
	KindTimeout              = "timeout"
	KindCanceled             = "canceled"
	KindInternal             = "internal"
)

// ErrorKind classifies err into one of the error kinds.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientBalance):
		return KindInsufficientBalance
	case errors.Is(err, domain.ErrValidation):
		return KindValidation
	case errors.Is(err, domain.ErrNotFound):
		return KindNotFound
	case errors.Is(err, domain.ErrConcurrencyConflict):
		return KindConcurrencyConflict
	case errors.Is(err, domain.ErrReferentialIntegrity):
		return KindReferentialIntegrity
	case errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	case errors.Is(err, context.Canceled):
		return KindCanceled
	default:
		return KindInternal
	}
}
