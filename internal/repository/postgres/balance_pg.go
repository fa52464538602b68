// internal/repository/postgres/balance_pg.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"spendtrack/internal/domain"
	"spendtrack/internal/repository"
	"spendtrack/internal/util"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// BalanceRepository implements repository.BalanceRepository for PostgreSQL.
type BalanceRepository struct {
	// Stateless; methods receive a DBExecutor directly.
}

// NewBalanceRepository creates a new BalanceRepository.
func NewBalanceRepository(db *sqlx.DB) repository.BalanceRepository {
	return &BalanceRepository{}
}

// CreateBalance inserts a new balance row using the provided DBExecutor.
// The UNIQUE constraint on user_id enforces the 1:1 user-balance relationship.
func (r *BalanceRepository) CreateBalance(ctx context.Context, q repository.DBExecutor, balance *domain.Balance) error {
	query := `INSERT INTO balances (user_id, amount, created_at, updated_at)
              VALUES ($1, $2, $3, $4) RETURNING id`
	err := q.QueryRowContext(ctx, query, balance.UserID, balance.Amount, balance.CreatedAt, balance.UpdatedAt).Scan(&balance.ID)
	if err != nil {
		return fmt.Errorf("failed to create balance for user %d: %w", balance.UserID, err)
	}
	return nil
}

// GetBalanceByUserID retrieves a user's balance using the provided DBExecutor.
func (r *BalanceRepository) GetBalanceByUserID(ctx context.Context, q repository.DBExecutor, userID int64) (*domain.Balance, error) {
	var balance domain.Balance
	query := `SELECT id, user_id, amount, created_at, updated_at FROM balances WHERE user_id = $1`
	err := q.GetContext(ctx, &balance, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get balance for user %d: %w", userID, err)
	}
	return &balance, nil
}

// GetBalanceByUserIDForUpdate retrieves a user's balance with a row-level lock.
// Concurrent mutations for the same user serialize on this lock until the
// surrounding transaction commits or rolls back, closing the lost-update race
// between two debits reading the same pre-update balance.
func (r *BalanceRepository) GetBalanceByUserIDForUpdate(ctx context.Context, q repository.DBExecutor, userID int64) (*domain.Balance, error) {
	var balance domain.Balance
	query := `SELECT id, user_id, amount, created_at, updated_at FROM balances WHERE user_id = $1 FOR UPDATE`
	err := q.GetContext(ctx, &balance, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock balance for user %d: %w", userID, err)
	}
	return &balance, nil
}

// AdjustBalance applies a relative delta to a user's balance using the provided DBExecutor.
func (r *BalanceRepository) AdjustBalance(ctx context.Context, q repository.DBExecutor, userID int64, delta decimal.Decimal) error {
	query := `UPDATE balances SET amount = amount + $1, updated_at = $2 WHERE user_id = $3`
	result, err := q.ExecContext(ctx, query, delta, time.Now().UTC(), userID)
	if err != nil {
		return fmt.Errorf("failed to adjust balance for user %d: %w", userID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after adjusting balance for user %d: %w", userID, err)
	}
	if rowsAffected == 0 {
		return util.ErrNotFound
	}
	return nil
}
