// internal/api/handler/balance.go
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

	"spendtrack/internal/auth"
	"spendtrack/internal/service"
	"spendtrack/internal/util"
)

// BalanceHandler handles HTTP requests for the authenticated user's balance.
type BalanceHandler struct {
	service service.ExpenseService
	logger  *slog.Logger
}

// NewBalanceHandler creates a new BalanceHandler.
func NewBalanceHandler(svc service.ExpenseService, logger *slog.Logger) *BalanceHandler {
	return &BalanceHandler{
		service: svc,
		logger:  logger,
	}
}

// GetBalance handles the get balance request.
// GET /balance
func (h *BalanceHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	balance, err := h.service.GetBalance(r.Context(), userID)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"user_id": userID,
		"balance": balance.Amount,
	})
}

// DepositRequest represents the request body for adding to the balance.
type DepositRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// Deposit handles the add-to-balance request and returns a receipt with the
// previous, added and updated amounts.
// POST /balance
func (h *BalanceHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	var req DepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, h.logger, util.ErrInvalidInput)
		return
	}
	// Validator cannot introspect decimal.Decimal; the sign check is explicit.
	if req.Amount.IsNegative() {
		respondWithError(w, h.logger, util.ErrInvalidInput)
		return
	}

	receipt, err := h.service.Deposit(r.Context(), userID, req.Amount)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, receipt)
}
