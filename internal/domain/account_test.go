package domain

import (
	"errors"
	"testing"
)

func TestAccount_ValidateBalance(t *testing.T) {
	tests := []struct {
		name        string
		current     Money
		candidate   Money
		expectError bool
	}{
		{
			name:        "positive candidate",
			current:     MustParseAmount("10.00"),
			candidate:   MustParseAmount("5.00"),
			expectError: false,
		},
		{
			name:        "candidate exactly zero",
			current:     MustParseAmount("10.32"),
			candidate:   Zero,
			expectError: false,
		},
		{
			name:        "negative candidate",
			current:     Zero,
			candidate:   MustParseAmount("-10.32"),
			expectError: true,
		},
		{
			name:        "one cent short",
			current:     MustParseAmount("1.00"),
			candidate:   MustParseAmount("-0.01"),
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := &Account{ID: "acc-1", Balance: tt.current}

			err := acc.ValidateBalance(OperationCreate, tt.current, tt.candidate)

			if tt.expectError {
				if !errors.Is(err, ErrInsufficientBalance) {
					t.Fatalf("expected ErrInsufficientBalance, got %v", err)
				}
				var balanceErr *InsufficientBalanceError
				if !errors.As(err, &balanceErr) || balanceErr.AccountID != "acc-1" {
					t.Fatalf("expected InsufficientBalanceError for acc-1, got %v", err)
				}
			}

			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestAccount_HasDrift(t *testing.T) {
	acc := &Account{Balance: MustParseAmount("10.00")}

	if acc.HasDrift(MustParseAmount("10")) {
		t.Error("expected no drift for equal amounts")
	}

	if !acc.HasDrift(MustParseAmount("9.99")) {
		t.Error("expected drift for different amounts")
	}
}

func TestErrorTaxonomy(t *testing.T) {
	if !errors.Is(ErrAccountNotFound, ErrNotFound) {
		t.Error("ErrAccountNotFound should be a NotFound error")
	}
	if !errors.Is(ErrTransactionNotFound, ErrNotFound) {
		t.Error("ErrTransactionNotFound should be a NotFound error")
	}
	if errors.Is(ErrConcurrencyConflict, ErrInsufficientBalance) {
		t.Error("conflicts must never look like insufficient balance")
	}
}

func TestAccount_ValidateBalanceRejectsOverflow(t *testing.T) {
	acc := &Account{ID: "acc-1"}
	current := MustParseAmount(MaxAmountLiteral)

	err := acc.ValidateBalance(OperationCreate, current, current.Add(NewMoneyFromCents(1)))
	if !errors.Is(err, ErrAmountTooLarge) || !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrAmountTooLarge, got %v", err)
	}
	if errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("overflow must not be reported as insufficient balance: %v", err)
	}

	if err := acc.ValidateBalance(OperationCreate, Zero, current); err != nil {
		t.Fatalf("balance at the bound should be accepted, got %v", err)
	}
}
