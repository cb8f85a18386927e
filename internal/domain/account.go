package domain

import (
	"fmt"
	"time"
)

// Account is a ledger account holding a cached balance.
type Account struct {
	ID        string
	Name      string
	Owner     string
	Balance   Money
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidateBalance checks that a recomputed balance can be committed: it must
// be non-negative and fit the storage precision.
func (a *Account) ValidateBalance(operation string, current, candidate Money) error {
	if err := candidate.CheckBounds(); err != nil {
		return fmt.Errorf("%s on account %s: balance %w", operation, a.ID, err)
	}
	if candidate.IsNegative() {
		return &InsufficientBalanceError{
			AccountID: a.ID,
			Operation: operation,
			Current:   current,
			Candidate: candidate,
		}
	}
	return nil
}

// HasDrift reports whether the cached balance disagrees with the recomputed active sum.
func (a *Account) HasDrift(activeSum Money) bool {
	return !a.Balance.Equal(activeSum)
}
