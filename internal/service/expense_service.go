// internal/service/expense_service.go
package service

import (
	"context"
	"fmt"

	"spendtrack/internal/domain"
	"spendtrack/internal/repository"
	"spendtrack/internal/util"
	"spendtrack/pkg/db"

	"github.com/shopspring/decimal"
)

// DepositReceipt carries the before/after values of a deposit for display.
type DepositReceipt struct {
	BalanceID       int64           `json:"id"`
	UserID          int64           `json:"user_id"`
	AmountAdded     decimal.Decimal `json:"amount_added"`
	PreviousBalance decimal.Decimal `json:"previous_balance"`
	UpdatedBalance  decimal.Decimal `json:"updated_balance"`
}

// DeleteReceipt describes a deleted expense and the refund applied.
type DeleteReceipt struct {
	ExpenseID      int64           `json:"expense_id"`
	RefundedAmount decimal.Decimal `json:"refunded_amount"`
	NewBalance     decimal.Decimal `json:"new_balance"`
}

// ExpenseService pairs every expense mutation with an equal-and-opposite
// balance adjustment, keeping the stored balance equal to the initial balance
// minus the sum of all currently-existing expenses, and never negative.
type ExpenseService interface {
	CreateExpense(ctx context.Context, userID int64, draft domain.ExpenseDraft) (*domain.Expense, error)
	GetExpense(ctx context.Context, userID, expenseID int64) (*domain.Expense, error)
	UpdateExpense(ctx context.Context, userID, expenseID int64, draft domain.ExpenseDraft) (*domain.Expense, error)
	DeleteExpense(ctx context.Context, userID, expenseID int64) (*DeleteReceipt, error)
	ListExpenses(ctx context.Context, userID int64, filter repository.ExpenseFilter, limit, offset int) ([]domain.Expense, int64, error)
	GetBalance(ctx context.Context, userID int64) (*domain.Balance, error)
	Deposit(ctx context.Context, userID int64, amount decimal.Decimal) (*DepositReceipt, error)
}

// expenseService implements the ExpenseService interface.
//
// Every mutation runs inside a single database transaction and takes a row
// lock on the user's balance before any check or write. The expense write and
// the balance write are therefore never individually visible, and two
// concurrent mutations for the same user serialize on the balance row instead
// of racing read-modify-write.
type expenseService struct {
	dbBeginner  db.DBTxBeginner       // For starting transactions (e.g., *sqlx.DB)
	dbExecutor  repository.DBExecutor // For non-transactional reads (e.g., *sqlx.DB)
	balanceRepo repository.BalanceRepository
	expenseRepo repository.ExpenseRepository
	beginTx     db.BeginTxFunc
	commitTx    db.CommitTxFunc
	rollbackTx  db.RollbackTxFunc
}

// NewExpenseService creates a new instance of ExpenseService.
func NewExpenseService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	balanceRepo repository.BalanceRepository,
	expenseRepo repository.ExpenseRepository,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
) ExpenseService {
	return &expenseService{
		dbBeginner:  dbBeginner,
		dbExecutor:  dbExecutor,
		balanceRepo: balanceRepo,
		expenseRepo: expenseRepo,
		beginTx:     beginTx,
		commitTx:    commitTx,
		rollbackTx:  rollbackTx,
	}
}

// CreateExpense records a new expense and debits its amount from the user's
// balance. An expense larger than the current balance is rejected with
// util.ErrInsufficientBalance and leaves both stores untouched. A zero amount
// is a valid boundary, not an error.
func (s *expenseService) CreateExpense(ctx context.Context, userID int64, draft domain.ExpenseDraft) (*domain.Expense, error) {
	if draft.Amount.IsNegative() {
		return nil, util.ErrInvalidInput
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("create expense: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("create expense: transaction controller does not implement DBExecutor")
	}

	balance, err := s.balanceRepo.GetBalanceByUserIDForUpdate(ctx, txExecutor, userID)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, util.ErrBalanceIntegrity
		}
		return nil, fmt.Errorf("create expense: failed to lock balance for user %d: %w", userID, err)
	}

	if balance.Amount.LessThan(draft.Amount) {
		return nil, util.ErrInsufficientBalance
	}

	expense := domain.NewExpense(userID, draft)
	if err := s.expenseRepo.CreateExpense(ctx, txExecutor, expense); err != nil {
		return nil, fmt.Errorf("create expense: failed to persist expense: %w", err)
	}

	if err := s.balanceRepo.AdjustBalance(ctx, txExecutor, userID, draft.Amount.Neg()); err != nil {
		return nil, fmt.Errorf("create expense: failed to debit balance: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("create expense: failed to commit transaction: %w", err)
	}

	return expense, nil
}

// GetExpense retrieves a single expense owned by the user.
func (s *expenseService) GetExpense(ctx context.Context, userID, expenseID int64) (*domain.Expense, error) {
	expense, err := s.expenseRepo.GetExpenseByID(ctx, s.dbExecutor, expenseID, userID)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, util.ErrExpenseNotFound
		}
		return nil, fmt.Errorf("get expense: failed to get expense %d: %w", expenseID, err)
	}
	return expense, nil
}

// UpdateExpense overwrites an expense's fields and adjusts the balance by the
// amount difference: raising the amount debits the difference (subject to the
// sufficiency check), lowering it credits the difference back.
func (s *expenseService) UpdateExpense(ctx context.Context, userID, expenseID int64, draft domain.ExpenseDraft) (*domain.Expense, error) {
	if draft.Amount.IsNegative() {
		return nil, util.ErrInvalidInput
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("update expense: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("update expense: transaction controller does not implement DBExecutor")
	}

	// Lock the balance first so concurrent mutations for this user serialize
	// before either of them reads the expense row.
	balance, err := s.balanceRepo.GetBalanceByUserIDForUpdate(ctx, txExecutor, userID)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, util.ErrBalanceIntegrity
		}
		return nil, fmt.Errorf("update expense: failed to lock balance for user %d: %w", userID, err)
	}

	existing, err := s.expenseRepo.GetExpenseByID(ctx, txExecutor, expenseID, userID)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, util.ErrExpenseNotFound
		}
		return nil, fmt.Errorf("update expense: failed to get expense %d: %w", expenseID, err)
	}

	// Only a positive delta can drive the balance negative; a zero or
	// negative delta always passes since the balance is non-negative.
	delta := draft.Amount.Sub(existing.Amount)
	if balance.Amount.LessThan(delta) {
		return nil, util.ErrInsufficientBalance
	}

	updated := domain.NewExpense(userID, draft)
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	if err := s.expenseRepo.UpdateExpense(ctx, txExecutor, updated); err != nil {
		return nil, fmt.Errorf("update expense: failed to update expense %d: %w", expenseID, err)
	}

	if !delta.IsZero() {
		if err := s.balanceRepo.AdjustBalance(ctx, txExecutor, userID, delta.Neg()); err != nil {
			return nil, fmt.Errorf("update expense: failed to adjust balance: %w", err)
		}
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("update expense: failed to commit transaction: %w", err)
	}

	return updated, nil
}

// DeleteExpense removes an expense and refunds its amount to the balance.
// The refund can only move the balance away from zero, so deletion never
// fails on balance grounds.
func (s *expenseService) DeleteExpense(ctx context.Context, userID, expenseID int64) (*DeleteReceipt, error) {
	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("delete expense: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("delete expense: transaction controller does not implement DBExecutor")
	}

	balance, err := s.balanceRepo.GetBalanceByUserIDForUpdate(ctx, txExecutor, userID)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, util.ErrBalanceIntegrity
		}
		return nil, fmt.Errorf("delete expense: failed to lock balance for user %d: %w", userID, err)
	}

	existing, err := s.expenseRepo.GetExpenseByID(ctx, txExecutor, expenseID, userID)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, util.ErrExpenseNotFound
		}
		return nil, fmt.Errorf("delete expense: failed to get expense %d: %w", expenseID, err)
	}

	if err := s.balanceRepo.AdjustBalance(ctx, txExecutor, userID, existing.Amount); err != nil {
		return nil, fmt.Errorf("delete expense: failed to refund balance: %w", err)
	}

	if err := s.expenseRepo.DeleteExpense(ctx, txExecutor, expenseID, userID); err != nil {
		return nil, fmt.Errorf("delete expense: failed to delete expense %d: %w", expenseID, err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("delete expense: failed to commit transaction: %w", err)
	}

	return &DeleteReceipt{
		ExpenseID:      expenseID,
		RefundedAmount: existing.Amount,
		NewBalance:     balance.Amount.Add(existing.Amount),
	}, nil
}

// ListExpenses retrieves a filtered, paginated list of the user's expenses
// plus the total count matching the same filters. Storage failures propagate
// to the caller instead of degrading to an empty result.
func (s *expenseService) ListExpenses(ctx context.Context, userID int64, filter repository.ExpenseFilter, limit, offset int) ([]domain.Expense, int64, error) {
	expenses, totalCount, err := s.expenseRepo.ListExpenses(ctx, s.dbExecutor, userID, filter, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list expenses: failed to list expenses for user %d: %w", userID, err)
	}
	return expenses, totalCount, nil
}

// GetBalance is a point read of the user's current balance. A missing row for
// an authenticated user is an integrity fault, not a 404.
func (s *expenseService) GetBalance(ctx context.Context, userID int64) (*domain.Balance, error) {
	balance, err := s.balanceRepo.GetBalanceByUserID(ctx, s.dbExecutor, userID)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, util.ErrBalanceIntegrity
		}
		return nil, fmt.Errorf("get balance: failed to get balance for user %d: %w", userID, err)
	}
	return balance, nil
}

// Deposit unconditionally credits a non-negative amount to the user's balance
// and returns the before/after values for receipt display.
func (s *expenseService) Deposit(ctx context.Context, userID int64, amount decimal.Decimal) (*DepositReceipt, error) {
	if amount.IsNegative() {
		return nil, util.ErrInvalidInput
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("deposit: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("deposit: transaction controller does not implement DBExecutor")
	}

	balance, err := s.balanceRepo.GetBalanceByUserIDForUpdate(ctx, txExecutor, userID)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, util.ErrBalanceIntegrity
		}
		return nil, fmt.Errorf("deposit: failed to lock balance for user %d: %w", userID, err)
	}

	if err := s.balanceRepo.AdjustBalance(ctx, txExecutor, userID, amount); err != nil {
		return nil, fmt.Errorf("deposit: failed to credit balance: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("deposit: failed to commit transaction: %w", err)
	}

	return &DepositReceipt{
		BalanceID:       balance.ID,
		UserID:          userID,
		AmountAdded:     amount,
		PreviousBalance: balance.Amount,
		UpdatedBalance:  balance.Amount.Add(amount),
	}, nil
}
