// internal/domain/expense.go
package domain

import (
	"time"

	"github.com/shopspring/decimal" // For precise monetary calculations
)

// Expense represents a single spending event owned by one user.
type Expense struct {
	ID        int64           `db:"id" json:"id"`
	UserID    int64           `db:"user_id" json:"user_id"`
	Title     string          `db:"title" json:"title"`
	Amount    decimal.Decimal `db:"amount" json:"amount"` // NUMERIC(20, 4) in DB, amount >= 0
	Category  string          `db:"category" json:"category"`
	SpentAt   time.Time       `db:"spent_at" json:"date"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}

// ExpenseDraft carries the caller-supplied fields of an expense before it is
// persisted. SpentAt is optional and defaults to the moment of creation.
type ExpenseDraft struct {
	Title    string
	Amount   decimal.Decimal
	Category string
	SpentAt  *time.Time
}

// NewExpense creates a new Expense from a draft. The spend timestamp defaults
// to the current time, computed per call rather than once at startup.
func NewExpense(userID int64, draft ExpenseDraft) *Expense {
	now := time.Now().UTC()
	spentAt := now
	if draft.SpentAt != nil {
		spentAt = draft.SpentAt.UTC()
	}
	return &Expense{
		UserID:    userID,
		Title:     draft.Title,
		Amount:    draft.Amount,
		Category:  draft.Category,
		SpentAt:   spentAt,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
