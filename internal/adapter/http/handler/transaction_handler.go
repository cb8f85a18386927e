package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/fintech/internal/adapter/http/dto"
	"github.com/iho/fintech/internal/domain"
	"github.com/iho/fintech/internal/usecase"
)

// LedgerService defines the balance-guarded mutations needed by TransactionHandler.
type LedgerService interface {
	CreateTransaction(ctx context.Context, input usecase.CreateTransactionInput) (*domain.Transaction, error)
	EditTransaction(ctx context.Context, input usecase.EditTransactionInput) (*domain.Transaction, error)
	DeleteTransaction(ctx context.Context, id string) error
	GetTransaction(ctx context.Context, id string) (*domain.Transaction, error)
}

// StatementService defines the listing needed by TransactionHandler.
type StatementService interface {
	ListTransactions(ctx context.Context, input usecase.ListTransactionsInput) (*usecase.TransactionPage, error)
}

// TransactionHandler handles transaction-related HTTP requests.
type TransactionHandler struct {
	ledgerUC    LedgerService
	statementUC StatementService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(ledgerUC LedgerService, statementUC StatementService) *TransactionHandler {
	return &TransactionHandler{
		ledgerUC:    ledgerUC,
		statementUC: statementUC,
	}
}

// Create posts a transaction against the account in the path.
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	txn, err := h.ledgerUC.CreateTransaction(r.Context(), req.ToUseCaseInput(chi.URLParam(r, "id")))
	if err != nil {
		writeDomainError(w, "failed to create transaction", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(txn))
}

// Get retrieves a transaction by ID.
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	txn, err := h.ledgerUC.GetTransaction(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to get transaction", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(txn))
}

// Edit applies a partial update to a transaction.
func (h *TransactionHandler) Edit(w http.ResponseWriter, r *http.Request) {
	var req dto.EditTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	txn, err := h.ledgerUC.EditTransaction(r.Context(), req.ToUseCaseInput(chi.URLParam(r, "id")))
	if err != nil {
		writeDomainError(w, "failed to edit transaction", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(txn))
}

// Delete removes a transaction.
func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.ledgerUC.DeleteTransaction(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, "failed to delete transaction", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListByAccount returns one page of the account statement.
func (h *TransactionHandler) ListByAccount(w http.ResponseWriter, r *http.Request) {
	page, pageSize, err := parsePage(r)
	if err != nil {
		writeDomainError(w, "invalid pagination", err)
		return
	}

	includeInactive, err := parseBoolQuery(r, "include_inactive")
	if err != nil {
		writeDomainError(w, "invalid query", err)
		return
	}

	result, err := h.statementUC.ListTransactions(r.Context(), usecase.ListTransactionsInput{
		AccountID:       chi.URLParam(r, "id"),
		Page:            page,
		PageSize:        pageSize,
		IncludeInactive: includeInactive,
	})
	if err != nil {
		writeDomainError(w, "failed to list transactions", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionPageFromUseCase(result))
}
