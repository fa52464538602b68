// internal/repository/expense_repo.go
package repository

import (
	"context"
	"time"

	"spendtrack/internal/domain"
)

// ExpenseFilter narrows an expense listing. All set fields apply conjunctively.
type ExpenseFilter struct {
	// Category is matched as a case-insensitive substring when non-empty.
	Category string
	// StartDate is inclusive (spent_at >= StartDate).
	StartDate *time.Time
	// EndDate is inclusive through the entire calendar day
	// (spent_at < EndDate + 24h), so same-day expenses at any time match.
	EndDate *time.Time
}

// ExpenseRepository defines the interface for expense data operations.
// Every method is scoped by the owning user's id; an expense owned by another
// user is indistinguishable from a missing one.
type ExpenseRepository interface {
	// CreateExpense adds a new expense record using the provided DBExecutor.
	CreateExpense(ctx context.Context, q DBExecutor, expense *domain.Expense) error
	// GetExpenseByID retrieves an expense owned by userID using the provided DBExecutor.
	GetExpenseByID(ctx context.Context, q DBExecutor, id, userID int64) (*domain.Expense, error)
	// UpdateExpense overwrites the mutable fields of an existing expense.
	UpdateExpense(ctx context.Context, q DBExecutor, expense *domain.Expense) error
	// DeleteExpense removes an expense owned by userID.
	DeleteExpense(ctx context.Context, q DBExecutor, id, userID int64) error
	// ListExpenses retrieves a filtered, paginated list of a user's expenses
	// ordered by spend time descending, plus the total count matching the same
	// filters before pagination.
	ListExpenses(ctx context.Context, q DBExecutor, userID int64, filter ExpenseFilter, limit, offset int) ([]domain.Expense, int64, error)
}
