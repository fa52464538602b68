// internal/repository/postgres/expense_pg.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"spendtrack/internal/domain"
	"spendtrack/internal/repository"
	"spendtrack/internal/util"

	"github.com/jmoiron/sqlx"
)

// ExpenseRepository implements repository.ExpenseRepository for PostgreSQL.
type ExpenseRepository struct {
	// Stateless; methods receive a DBExecutor directly.
}

// NewExpenseRepository creates a new ExpenseRepository.
func NewExpenseRepository(db *sqlx.DB) repository.ExpenseRepository {
	return &ExpenseRepository{}
}

// CreateExpense inserts a new expense record using the provided DBExecutor.
func (r *ExpenseRepository) CreateExpense(ctx context.Context, q repository.DBExecutor, expense *domain.Expense) error {
	query := `INSERT INTO expenses (user_id, title, amount, category, spent_at, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	err := q.QueryRowContext(ctx, query,
		expense.UserID,
		expense.Title,
		expense.Amount,
		expense.Category,
		expense.SpentAt,
		expense.CreatedAt,
		expense.UpdatedAt,
	).Scan(&expense.ID)
	if err != nil {
		return fmt.Errorf("failed to create expense: %w", err)
	}
	return nil
}

// GetExpenseByID retrieves an expense owned by userID using the provided DBExecutor.
func (r *ExpenseRepository) GetExpenseByID(ctx context.Context, q repository.DBExecutor, id, userID int64) (*domain.Expense, error) {
	var expense domain.Expense
	query := `SELECT id, user_id, title, amount, category, spent_at, created_at, updated_at
              FROM expenses WHERE id = $1 AND user_id = $2`
	err := q.GetContext(ctx, &expense, query, id, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get expense %d for user %d: %w", id, userID, err)
	}
	return &expense, nil
}

// UpdateExpense overwrites the mutable fields of an existing expense using the provided DBExecutor.
func (r *ExpenseRepository) UpdateExpense(ctx context.Context, q repository.DBExecutor, expense *domain.Expense) error {
	query := `UPDATE expenses SET title = $1, amount = $2, category = $3, spent_at = $4, updated_at = $5
              WHERE id = $6 AND user_id = $7`
	result, err := q.ExecContext(ctx, query,
		expense.Title,
		expense.Amount,
		expense.Category,
		expense.SpentAt,
		time.Now().UTC(),
		expense.ID,
		expense.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense %d: %w", expense.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after updating expense %d: %w", expense.ID, err)
	}
	if rowsAffected == 0 {
		return util.ErrNotFound
	}
	return nil
}

// DeleteExpense removes an expense owned by userID using the provided DBExecutor.
func (r *ExpenseRepository) DeleteExpense(ctx context.Context, q repository.DBExecutor, id, userID int64) error {
	query := `DELETE FROM expenses WHERE id = $1 AND user_id = $2`
	result, err := q.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete expense %d: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after deleting expense %d: %w", id, err)
	}
	if rowsAffected == 0 {
		return util.ErrNotFound
	}
	return nil
}

// buildFilterClause appends the conjunctive filter conditions shared by the
// list and count queries, returning the extended clause and argument list.
func buildFilterClause(clause string, args []interface{}, filter repository.ExpenseFilter) (string, []interface{}) {
	if filter.Category != "" {
		args = append(args, "%"+filter.Category+"%")
		clause += ` AND category ILIKE $` + strconv.Itoa(len(args))
	}
	if filter.StartDate != nil {
		args = append(args, filter.StartDate.UTC())
		clause += ` AND spent_at >= $` + strconv.Itoa(len(args))
	}
	if filter.EndDate != nil {
		// Push the bound to the next midnight so every expense on the end
		// date itself matches, whatever its time of day.
		args = append(args, filter.EndDate.UTC().Add(24*time.Hour))
		clause += ` AND spent_at < $` + strconv.Itoa(len(args))
	}
	return clause, args
}

// ListExpenses retrieves a paginated list of a user's expenses ordered by
// spend time descending. It performs two queries with identical filters: one
// for the page of data and one for the total count.
func (r *ExpenseRepository) ListExpenses(ctx context.Context, q repository.DBExecutor, userID int64, filter repository.ExpenseFilter, limit, offset int) ([]domain.Expense, int64, error) {
	clause, args := buildFilterClause(`WHERE user_id = $1`, []interface{}{userID}, filter)

	expenses := []domain.Expense{}
	query := `SELECT id, user_id, title, amount, category, spent_at, created_at, updated_at
              FROM expenses ` + clause +
		` ORDER BY spent_at DESC LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	err := q.SelectContext(ctx, &expenses, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch expenses for user %d: %w", userID, err)
	}

	var totalCount int64
	countQuery := `SELECT COUNT(*) FROM expenses ` + clause
	err = q.GetContext(ctx, &totalCount, countQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get total expense count for user %d: %w", userID, err)
	}

	return expenses, totalCount, nil
}
