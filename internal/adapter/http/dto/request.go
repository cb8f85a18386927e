package dto

import (
	"github.com/iho/fintech/internal/usecase"
)

// CreateAccountRequest represents a request to open an account.
type CreateAccountRequest struct {
	Name  string `json:"name"`
	Owner string `json:"owner"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput() usecase.CreateAccountInput {
	return usecase.CreateAccountInput{
		Name:  r.Name,
		Owner: r.Owner,
	}
}

// RenameAccountRequest represents a request to rename an account.
type RenameAccountRequest struct {
	Name string `json:"name"`
}

// CreateTransactionRequest represents a request to post a transaction.
// Amount is a signed decimal string with at most two fractional digits.
type CreateTransactionRequest struct {
	TransactionDate string `json:"transaction_date"`
	Amount          string `json:"amount"`
	Description     string `json:"description"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateTransactionRequest) ToUseCaseInput(accountID string) usecase.CreateTransactionInput {
	return usecase.CreateTransactionInput{
		AccountID:       accountID,
		TransactionDate: r.TransactionDate,
		Amount:          r.Amount,
		Description:     r.Description,
	}
}

// EditTransactionRequest carries the fields to change. Omitted fields stay as they are.
type EditTransactionRequest struct {
	TransactionDate *string `json:"transaction_date,omitempty"`
	Amount          *string `json:"amount,omitempty"`
	Description     *string `json:"description,omitempty"`
	Active          *bool   `json:"active,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *EditTransactionRequest) ToUseCaseInput(transactionID string) usecase.EditTransactionInput {
	return usecase.EditTransactionInput{
		TransactionID:   transactionID,
		Amount:          r.Amount,
		TransactionDate: r.TransactionDate,
		Description:     r.Description,
		Active:          r.Active,
	}
}
