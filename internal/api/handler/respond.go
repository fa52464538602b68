// internal/api/handler/respond.go
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"spendtrack/internal/util"
)

// DefaultTimeout is applied to every request by the router middleware.
const DefaultTimeout = 60 * time.Second

// validate is the shared request-payload validator.
var validate = validator.New()

// respondWithJSON marshals the payload and writes it with the given status code.
func respondWithJSON(w http.ResponseWriter, logger *slog.Logger, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// respondWithError maps a service error to an HTTP status and JSON body.
func respondWithError(w http.ResponseWriter, logger *slog.Logger, err error) {
	statusCode := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case util.IsError(err, util.ErrInvalidInput):
		statusCode = http.StatusBadRequest
		message = err.Error()
	case util.IsError(err, util.ErrInsufficientBalance):
		statusCode = http.StatusBadRequest
		message = "Insufficient balance"
	case util.IsError(err, util.ErrExpenseNotFound):
		statusCode = http.StatusNotFound
		message = "Expense not found"
	case util.IsError(err, util.ErrNotFound), util.IsError(err, util.ErrUserNotFound):
		statusCode = http.StatusNotFound
		message = "Resource not found"
	case util.IsError(err, util.ErrDuplicateEntry):
		statusCode = http.StatusConflict
		message = "Username or email already registered"
	case util.IsError(err, util.ErrUnauthenticated):
		statusCode = http.StatusUnauthorized
		message = "Incorrect username or password"
	case util.IsError(err, util.ErrBalanceIntegrity):
		// A registered user without a balance row is corrupted state, not a 404.
		logger.Error("Balance integrity fault", "error", err)
	default:
		logger.Error("Unhandled service error", "error", err)
	}

	respondWithJSON(w, logger, statusCode, map[string]string{"error": message})
}

// respondWithValidationError reports the first failed field of a request payload.
func respondWithValidationError(w http.ResponseWriter, logger *slog.Logger, err error) {
	message := util.ErrInvalidInput.Error()
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		message = "invalid field: " + fieldErrs[0].Field()
	}
	respondWithJSON(w, logger, http.StatusBadRequest, map[string]string{"error": message})
}
