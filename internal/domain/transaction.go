package domain

import (
	"time"
)

// Operations guarded by the balance invariant.
const (
	OperationCreate = "create"
	OperationEdit   = "edit"
	OperationDelete = "delete"
)

// Transaction is a signed ledger movement against one account.
type Transaction struct {
	ID              string
	AccountID       string
	TransactionDate Date
	Amount          Money
	Description     string
	Active          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Contribution returns what the transaction adds to its account balance.
func (t *Transaction) Contribution() Money {
	if !t.Active {
		return Zero
	}
	return t.Amount
}

// TransactionPatch lists the mutable fields of a transaction. Nil fields are left unchanged.
type TransactionPatch struct {
	Amount          *Money
	TransactionDate *Date
	Description     *string
	Active          *bool
}

// IsEmpty reports whether the patch changes nothing.
func (p TransactionPatch) IsEmpty() bool {
	return p.Amount == nil && p.TransactionDate == nil && p.Description == nil && p.Active == nil
}

// Apply returns a copy of t with the patch applied. t itself is not modified.
func (p TransactionPatch) Apply(t *Transaction, updatedAt time.Time) *Transaction {
	next := *t
	if p.Amount != nil {
		next.Amount = *p.Amount
	}
	if p.TransactionDate != nil {
		next.TransactionDate = *p.TransactionDate
	}
	if p.Description != nil {
		next.Description = *p.Description
	}
	if p.Active != nil {
		next.Active = *p.Active
	}
	next.UpdatedAt = updatedAt
	return &next
}
