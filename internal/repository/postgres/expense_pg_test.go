// internal/repository/postgres/expense_pg_test.go
package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"spendtrack/internal/repository"
)

func TestBuildFilterClause(t *testing.T) {
	base := `WHERE user_id = $1`
	baseArgs := []interface{}{int64(1)}

	t.Run("NoFilters", func(t *testing.T) {
		clause, args := buildFilterClause(base, baseArgs, repository.ExpenseFilter{})
		assert.Equal(t, base, clause)
		assert.Len(t, args, 1)
	})

	t.Run("CategorySubstring", func(t *testing.T) {
		clause, args := buildFilterClause(base, baseArgs, repository.ExpenseFilter{Category: "Food"})
		assert.Equal(t, base+` AND category ILIKE $2`, clause)
		assert.Equal(t, "%Food%", args[1])
	})

	t.Run("EndDateCoversTheWholeDay", func(t *testing.T) {
		end := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
		clause, args := buildFilterClause(base, baseArgs, repository.ExpenseFilter{EndDate: &end})

		assert.Equal(t, base+` AND spent_at < $2`, clause)
		// The bound must be the next midnight so an expense at 23:59 on the
		// end date still matches.
		assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), args[1])
	})

	t.Run("AllFiltersConjunctive", func(t *testing.T) {
		start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
		clause, args := buildFilterClause(base, baseArgs, repository.ExpenseFilter{
			Category:  "food",
			StartDate: &start,
			EndDate:   &end,
		})

		assert.Equal(t, base+` AND category ILIKE $2 AND spent_at >= $3 AND spent_at < $4`, clause)
		assert.Len(t, args, 4)
		assert.Equal(t, start, args[2])
		assert.Equal(t, end.Add(24*time.Hour), args[3])
	})
}
