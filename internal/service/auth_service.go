// internal/service/auth_service.go
package service

import (
	"context"
	"fmt"

	"spendtrack/internal/auth"
	"spendtrack/internal/domain"
	"spendtrack/internal/repository"
	"spendtrack/internal/util"
	"spendtrack/pkg/db"
)

// AuthService handles registration and login. Registration creates the user
// and its zero balance in one transaction so a user row never exists without
// a paired balance row.
type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (string, error)
}

// authService implements the AuthService interface.
type authService struct {
	dbBeginner  db.DBTxBeginner
	dbExecutor  repository.DBExecutor
	userRepo    repository.UserRepository
	balanceRepo repository.BalanceRepository
	tokens      *auth.TokenManager
	beginTx     db.BeginTxFunc
	commitTx    db.CommitTxFunc
	rollbackTx  db.RollbackTxFunc
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	userRepo repository.UserRepository,
	balanceRepo repository.BalanceRepository,
	tokens *auth.TokenManager,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
) AuthService {
	return &authService{
		dbBeginner:  dbBeginner,
		dbExecutor:  dbExecutor,
		userRepo:    userRepo,
		balanceRepo: balanceRepo,
		tokens:      tokens,
		beginTx:     beginTx,
		commitTx:    commitTx,
		rollbackTx:  rollbackTx,
	}
}

// Register creates a new user with a hashed password and a zero balance.
// A taken username or email fails with util.ErrDuplicateEntry; if the balance
// insert fails the whole registration rolls back, leaving no orphaned user.
func (s *authService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("register: failed to hash password: %w", err)
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("register: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("register: transaction controller does not implement DBExecutor")
	}

	if _, err := s.userRepo.GetUserByUsername(ctx, txExecutor, username); err == nil {
		return nil, util.ErrDuplicateEntry
	} else if !util.IsError(err, util.ErrNotFound) {
		return nil, fmt.Errorf("register: failed to check existing username: %w", err)
	}

	if _, err := s.userRepo.GetUserByEmail(ctx, txExecutor, email); err == nil {
		return nil, util.ErrDuplicateEntry
	} else if !util.IsError(err, util.ErrNotFound) {
		return nil, fmt.Errorf("register: failed to check existing email: %w", err)
	}

	user := domain.NewUser(username, email, hashedPassword)
	if err := s.userRepo.CreateUser(ctx, txExecutor, user); err != nil {
		if util.IsError(err, util.ErrDuplicateEntry) {
			return nil, util.ErrDuplicateEntry
		}
		return nil, fmt.Errorf("register: failed to create user: %w", err)
	}

	if err := s.balanceRepo.CreateBalance(ctx, txExecutor, domain.NewBalance(user.ID)); err != nil {
		return nil, fmt.Errorf("register: failed to create balance: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("register: failed to commit transaction: %w", err)
	}

	return user, nil
}

// Login verifies the credentials and issues an access token. Unknown usernames
// and wrong passwords fail identically so login cannot probe for accounts.
func (s *authService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, s.dbExecutor, username)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return "", util.ErrUnauthenticated
		}
		return "", fmt.Errorf("login: failed to get user '%s': %w", username, err)
	}

	if !auth.CheckPassword(password, user.HashedPassword) {
		return "", util.ErrUnauthenticated
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", fmt.Errorf("login: failed to issue token: %w", err)
	}
	return token, nil
}
