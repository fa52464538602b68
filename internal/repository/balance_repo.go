// internal/repository/balance_repo.go
package repository

import (
	"context"

	"spendtrack/internal/domain"

	"github.com/shopspring/decimal"
)

// BalanceRepository defines the interface for balance data operations.
type BalanceRepository interface {
	// CreateBalance adds a new balance row for a user using the provided DBExecutor.
	CreateBalance(ctx context.Context, q DBExecutor, balance *domain.Balance) error
	// GetBalanceByUserID retrieves a user's balance using the provided DBExecutor.
	GetBalanceByUserID(ctx context.Context, q DBExecutor, userID int64) (*domain.Balance, error)
	// GetBalanceByUserIDForUpdate retrieves a user's balance and locks the row
	// for the duration of the surrounding transaction (SELECT ... FOR UPDATE).
	// Callers must pass a transaction-backed DBExecutor; on a plain connection
	// the lock is released immediately and provides no serialization.
	GetBalanceByUserIDForUpdate(ctx context.Context, q DBExecutor, userID int64) (*domain.Balance, error)
	// AdjustBalance applies a relative delta to a user's balance
	// (positive credits, negative debits).
	AdjustBalance(ctx context.Context, q DBExecutor, userID int64, delta decimal.Decimal) error
}
