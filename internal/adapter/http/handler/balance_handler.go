package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/fintech/internal/adapter/http/dto"
	"github.com/iho/fintech/internal/domain"
)

// BalanceService defines the behavior needed by BalanceHandler.
type BalanceService interface {
	BalanceAsOf(ctx context.Context, accountID string, asOf *domain.Date) (domain.Money, error)
}

// BalanceHandler serves current and historical balances.
type BalanceHandler struct {
	balanceUC BalanceService
}

// NewBalanceHandler creates a new BalanceHandler.
func NewBalanceHandler(balanceUC BalanceService) *BalanceHandler {
	return &BalanceHandler{balanceUC: balanceUC}
}

// Get returns the balance, as of the end of the as_of date when given.
func (h *BalanceHandler) Get(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")

	var asOf *domain.Date
	if raw := r.URL.Query().Get("as_of"); raw != "" {
		d, err := domain.ParseDate(raw)
		if err != nil {
			writeDomainError(w, "invalid as_of", err)
			return
		}
		asOf = &d
	}

	balance, err := h.balanceUC.BalanceAsOf(r.Context(), accountID, asOf)
	if err != nil {
		writeDomainError(w, "failed to get balance", err)
		return
	}

	resp := dto.BalanceResponse{
		AccountID: accountID,
		Balance:   balance.String(),
	}
	if asOf != nil {
		s := asOf.String()
		resp.AsOf = &s
	}

	writeJSON(w, http.StatusOK, resp)
}
