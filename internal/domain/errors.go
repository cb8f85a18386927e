package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientBalance is returned when a mutation would drive a balance below zero.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrValidation marks malformed input rejected before storage is touched.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks a missing account or transaction.
	ErrNotFound = errors.New("not found")
	// ErrConcurrencyConflict marks a unit of work aborted by a conflicting concurrent write.
	ErrConcurrencyConflict = errors.New("concurrent modification conflict")
	// ErrReferentialIntegrity is returned when deleting an account that transactions still reference.
	ErrReferentialIntegrity = errors.New("account is still referenced by transactions")
)

// Account errors
var (
	ErrAccountNotFound = fmt.Errorf("account %w", ErrNotFound)
)

// Transaction errors
var (
	ErrTransactionNotFound = fmt.Errorf("transaction %w", ErrNotFound)
	ErrEmptyPatch          = fmt.Errorf("%w: patch changes no field", ErrValidation)
)

// InsufficientBalanceError describes a rejected mutation.
type InsufficientBalanceError struct {
	AccountID string
	Operation string
	Current   Money
	Candidate Money
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("%s on account %s would bring balance from %s to %s",
		e.Operation, e.AccountID, e.Current, e.Candidate)
}

// Unwrap lets errors.Is match ErrInsufficientBalance.
func (e *InsufficientBalanceError) Unwrap() error {
	return ErrInsufficientBalance
}
