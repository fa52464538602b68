// internal/util/errors.go
package util

import "errors"

// Common application-specific errors.
var (
	ErrNotFound            = errors.New("resource not found")
	ErrInvalidInput        = errors.New("invalid input provided")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrDuplicateEntry      = errors.New("duplicate entry") // Duplicate username or email at registration
	ErrUnauthenticated     = errors.New("authentication required")
	ErrExpenseNotFound     = errors.New("expense not found")
	ErrUserNotFound        = errors.New("user not found")
	// ErrBalanceIntegrity signals a registered user with no balance row.
	// That state should be impossible; it surfaces as a server fault, not a 404.
	ErrBalanceIntegrity = errors.New("balance record missing for user")
)

// IsError reports whether err matches the given sentinel error.
func IsError(err, target error) bool {
	return errors.Is(err, target)
}
