// internal/api/types/response.go
package types

import (
	"time"

	"spendtrack/internal/domain"
)

// Pagination describes the slice of results returned by a listing endpoint.
type Pagination struct {
	Total   int64 `json:"total"`
	Skip    int   `json:"skip"`
	Limit   int   `json:"limit"`
	HasMore bool  `json:"has_more"`
}

// ExpenseFilters echoes the filters a listing was computed with.
type ExpenseFilters struct {
	Category  string     `json:"category,omitempty"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
}

// ExpenseListResponse is the body of GET /expenses.
type ExpenseListResponse struct {
	Data       []domain.Expense `json:"data"`
	Pagination Pagination       `json:"pagination"`
	Filters    ExpenseFilters   `json:"filters"`
}
