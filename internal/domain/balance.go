// internal/domain/balance.go
package domain

import (
	"time"

	"github.com/shopspring/decimal" // For precise monetary calculations
)

// Balance holds a user's current spendable amount. Each user owns exactly one
// row (UNIQUE on user_id); the amount is debited by expenses and credited by
// deposits and refunds, and never drops below zero.
type Balance struct {
	ID        int64           `db:"id" json:"id"`
	UserID    int64           `db:"user_id" json:"user_id"`
	Amount    decimal.Decimal `db:"amount" json:"amount"` // NUMERIC(20, 4) in DB, amount >= 0
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}

// NewBalance creates a zero balance for a freshly registered user.
func NewBalance(userID int64) *Balance {
	now := time.Now().UTC()
	return &Balance{
		UserID:    userID,
		Amount:    decimal.Zero,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
