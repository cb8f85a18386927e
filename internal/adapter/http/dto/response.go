package dto

import (
	"time"

	"github.com/iho/fintech/internal/domain"
	"github.com/iho/fintech/internal/usecase"
)

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Owner     string    `json:"owner"`
	Balance   string    `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:        a.ID,
		Name:      a.Name,
		Owner:     a.Owner,
		Balance:   a.Balance.String(),
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// ListAccountsResponse represents a page of accounts.
type ListAccountsResponse struct {
	Accounts []*AccountResponse `json:"accounts"`
	Page     int                `json:"page"`
	PageSize int                `json:"page_size"`
}

// TransactionResponse represents a transaction in API responses.
type TransactionResponse struct {
	ID              string    `json:"id"`
	AccountID       string    `json:"account_id"`
	TransactionDate string    `json:"transaction_date"`
	Amount          string    `json:"amount"`
	Description     string    `json:"description"`
	Active          bool      `json:"active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TransactionFromDomain converts domain transaction to response.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:              t.ID,
		AccountID:       t.AccountID,
		TransactionDate: t.TransactionDate.String(),
		Amount:          t.Amount.String(),
		Description:     t.Description,
		Active:          t.Active,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

// TransactionsFromDomain converts domain transactions to responses.
func TransactionsFromDomain(txns []*domain.Transaction) []*TransactionResponse {
	result := make([]*TransactionResponse, len(txns))
	for i, t := range txns {
		result[i] = TransactionFromDomain(t)
	}
	return result
}

// TransactionPageResponse represents one page of an account statement.
type TransactionPageResponse struct {
	Transactions []*TransactionResponse `json:"transactions"`
	Page         int                    `json:"page"`
	PageSize     int                    `json:"page_size"`
	Total        int64                  `json:"total"`
}

// TransactionPageFromUseCase converts a use case page to response.
func TransactionPageFromUseCase(p *usecase.TransactionPage) *TransactionPageResponse {
	return &TransactionPageResponse{
		Transactions: TransactionsFromDomain(p.Items),
		Page:         p.Page,
		PageSize:     p.PageSize,
		Total:        p.Total,
	}
}

// BalanceResponse represents an account balance, optionally as of a date.
type BalanceResponse struct {
	AccountID string  `json:"account_id"`
	Balance   string  `json:"balance"`
	AsOf      *string `json:"as_of,omitempty"`
}

// ReconciliationResponse describes one account check.
type ReconciliationResponse struct {
	AccountID         string    `json:"account_id"`
	RecordedBalance   string    `json:"recorded_balance"`
	CalculatedBalance string    `json:"calculated_balance"`
	Difference        string    `json:"difference"`
	IsReconciled      bool      `json:"is_reconciled"`
	Negative          bool      `json:"negative"`
	LastChecked       time.Time `json:"last_checked"`
}

// ReconciliationFromUseCase converts a use case result to response.
func ReconciliationFromUseCase(r *usecase.ReconciliationResult) *ReconciliationResponse {
	return &ReconciliationResponse{
		AccountID:         r.AccountID,
		RecordedBalance:   r.RecordedBalance.String(),
		CalculatedBalance: r.CalculatedBalance.String(),
		Difference:        r.Difference.String(),
		IsReconciled:      r.IsReconciled,
		Negative:          r.Negative,
		LastChecked:       r.LastChecked,
	}
}

// ConsistencyResponse summarizes a ledger-wide reconciliation.
type ConsistencyResponse struct {
	Consistent         bool                      `json:"consistent"`
	TotalAccounts      int                       `json:"total_accounts"`
	ReconciledAccounts int                       `json:"reconciled_accounts"`
	Discrepancies      []*ReconciliationResponse `json:"discrepancies"`
	CheckedAt          time.Time                 `json:"checked_at"`
}

// ConsistencyFromUseCase converts a use case report to response.
func ConsistencyFromUseCase(r *usecase.ReconciliationReport) *ConsistencyResponse {
	discrepancies := make([]*ReconciliationResponse, len(r.Discrepancies))
	for i, d := range r.Discrepancies {
		discrepancies[i] = ReconciliationFromUseCase(d)
	}
	return &ConsistencyResponse{
		Consistent:         r.LedgerConsistent,
		TotalAccounts:      r.TotalAccounts,
		ReconciledAccounts: r.ReconciledAccounts,
		Discrepancies:      discrepancies,
		CheckedAt:          r.CheckedAt,
	}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message,omitempty"`
}
