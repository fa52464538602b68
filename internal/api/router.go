// internal/api/router.go
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"spendtrack/internal/api/handler"
	"spendtrack/internal/auth"
)

// NewRouter sets up and returns a new HTTP router.
func NewRouter(
	authHandler *handler.AuthHandler,
	balanceHandler *handler.BalanceHandler,
	expenseHandler *handler.ExpenseHandler,
	tokens *auth.TokenManager,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middlewares
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(handler.DefaultTimeout))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"Welcome to Expense Tracker API"}`))
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
	})

	// Everything below requires an authenticated identity; the middleware
	// resolves the bearer token and scopes each operation to that user.
	r.Group(func(r chi.Router) {
		r.Use(tokens.Middleware)

		r.Get("/balance", balanceHandler.GetBalance)
		r.Post("/balance", balanceHandler.Deposit)

		r.Route("/expenses", func(r chi.Router) {
			r.Post("/", expenseHandler.CreateExpense)
			r.Get("/", expenseHandler.ListExpenses)
			r.Get("/{expenseID}", expenseHandler.GetExpense)
			r.Put("/{expenseID}", expenseHandler.UpdateExpense)
			r.Delete("/{expenseID}", expenseHandler.DeleteExpense)
		})
	})

	return r
}
