// internal/api/handler/expense.go
package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"spendtrack/internal/auth"
	"spendtrack/internal/repository"
	"spendtrack/internal/service"
	"spendtrack/internal/util"

	"spendtrack/internal/api/types"
	"spendtrack/internal/domain"
)

const (
	dateLayout   = "2006-01-02"
	defaultLimit = 100
	maxLimit     = 1000
)

// ExpenseHandler handles HTTP requests for the authenticated user's expenses.
type ExpenseHandler struct {
	service service.ExpenseService
	logger  *slog.Logger
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(svc service.ExpenseService, logger *slog.Logger) *ExpenseHandler {
	return &ExpenseHandler{
		service: svc,
		logger:  logger,
	}
}

// ExpenseRequest represents the request body for creating or updating an expense.
type ExpenseRequest struct {
	Title    string          `json:"title" validate:"required,max=200"`
	Amount   decimal.Decimal `json:"amount"`
	Category string          `json:"category" validate:"required,max=100"`
	Date     *time.Time      `json:"date"`
}

func (h *ExpenseHandler) decodeExpenseRequest(w http.ResponseWriter, r *http.Request) (*ExpenseRequest, bool) {
	var req ExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, h.logger, util.ErrInvalidInput)
		return nil, false
	}
	if err := validate.Struct(req); err != nil {
		respondWithValidationError(w, h.logger, err)
		return nil, false
	}
	// Zero is a valid expense amount; only negatives are rejected.
	if req.Amount.IsNegative() {
		respondWithError(w, h.logger, util.ErrInvalidInput)
		return nil, false
	}
	return &req, true
}

func (h *ExpenseHandler) expenseIDFromURL(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "expenseID"), 10, 64)
	if err != nil {
		respondWithError(w, h.logger, util.ErrInvalidInput)
		return 0, false
	}
	return id, true
}

// CreateExpense handles the create expense request.
// POST /expenses
func (h *ExpenseHandler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	req, ok := h.decodeExpenseRequest(w, r)
	if !ok {
		return
	}

	expense, err := h.service.CreateExpense(r.Context(), userID, domain.ExpenseDraft{
		Title:    req.Title,
		Amount:   req.Amount,
		Category: req.Category,
		SpentAt:  req.Date,
	})
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusCreated, expense)
}

// GetExpense handles the read-single-expense request.
// GET /expenses/{expenseID}
func (h *ExpenseHandler) GetExpense(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	expenseID, ok := h.expenseIDFromURL(w, r)
	if !ok {
		return
	}

	expense, err := h.service.GetExpense(r.Context(), userID, expenseID)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, expense)
}

// UpdateExpense handles the update expense request.
// PUT /expenses/{expenseID}
func (h *ExpenseHandler) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	expenseID, ok := h.expenseIDFromURL(w, r)
	if !ok {
		return
	}

	req, ok := h.decodeExpenseRequest(w, r)
	if !ok {
		return
	}

	expense, err := h.service.UpdateExpense(r.Context(), userID, expenseID, domain.ExpenseDraft{
		Title:    req.Title,
		Amount:   req.Amount,
		Category: req.Category,
		SpentAt:  req.Date,
	})
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, expense)
}

// DeleteExpense handles the delete expense request.
// DELETE /expenses/{expenseID}
func (h *ExpenseHandler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	expenseID, ok := h.expenseIDFromURL(w, r)
	if !ok {
		return
	}

	receipt, err := h.service.DeleteExpense(r.Context(), userID, expenseID)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"message": fmt.Sprintf("expense with expense id (%d) having expense amount = %s deleted successfully",
			receipt.ExpenseID, receipt.RefundedAmount.String()),
		"expense_id":      receipt.ExpenseID,
		"refunded_amount": receipt.RefundedAmount,
	})
}

// parseListQuery validates the filter and pagination query parameters before
// they reach the service: dates must not be in the future, the range must be
// ordered, and the limit is clamped to its documented bounds.
func (h *ExpenseHandler) parseListQuery(r *http.Request) (repository.ExpenseFilter, int, int, error) {
	var filter repository.ExpenseFilter
	query := r.URL.Query()

	filter.Category = query.Get("category")

	today := time.Now().UTC().Truncate(24 * time.Hour)
	if raw := query.Get("start_date"); raw != "" {
		startDate, err := time.ParseInLocation(dateLayout, raw, time.UTC)
		if err != nil {
			return filter, 0, 0, fmt.Errorf("%w: malformed start_date", util.ErrInvalidInput)
		}
		if startDate.After(today) {
			return filter, 0, 0, fmt.Errorf("%w: start_date cannot be in the future", util.ErrInvalidInput)
		}
		filter.StartDate = &startDate
	}
	if raw := query.Get("end_date"); raw != "" {
		endDate, err := time.ParseInLocation(dateLayout, raw, time.UTC)
		if err != nil {
			return filter, 0, 0, fmt.Errorf("%w: malformed end_date", util.ErrInvalidInput)
		}
		if endDate.After(today) {
			return filter, 0, 0, fmt.Errorf("%w: end_date cannot be in the future", util.ErrInvalidInput)
		}
		filter.EndDate = &endDate
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.StartDate.After(*filter.EndDate) {
		return filter, 0, 0, fmt.Errorf("%w: start_date cannot be after end_date", util.ErrInvalidInput)
	}

	skip := 0
	if raw := query.Get("skip"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return filter, 0, 0, fmt.Errorf("%w: skip must be a non-negative integer", util.ErrInvalidInput)
		}
		skip = parsed
	}

	limit := defaultLimit
	if raw := query.Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxLimit {
			return filter, 0, 0, fmt.Errorf("%w: limit must be between 1 and %d", util.ErrInvalidInput, maxLimit)
		}
		limit = parsed
	}

	return filter, skip, limit, nil
}

// ListExpenses handles the filtered, paginated listing request.
// GET /expenses
func (h *ExpenseHandler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	filter, skip, limit, err := h.parseListQuery(r)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	expenses, totalCount, err := h.service.ListExpenses(r.Context(), userID, filter, limit, skip)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, types.ExpenseListResponse{
		Data: expenses,
		Pagination: types.Pagination{
			Total:   totalCount,
			Skip:    skip,
			Limit:   limit,
			HasMore: int64(skip+limit) < totalCount,
		},
		Filters: types.ExpenseFilters{
			Category:  filter.Category,
			StartDate: filter.StartDate,
			EndDate:   filter.EndDate,
		},
	})
}
