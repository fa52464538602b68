// internal/app.go
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"

	router "spendtrack/internal/api"
	"spendtrack/internal/api/handler"
	"spendtrack/internal/auth"
	"spendtrack/internal/config"
	"spendtrack/internal/repository"
	"spendtrack/internal/repository/postgres"
	"spendtrack/internal/service"
	"spendtrack/internal/util"
	"spendtrack/pkg/db"
)

// Application holds all the initialized components of the application.
type Application struct {
	Config *config.AppConfig
	Logger *slog.Logger
	DB     *sqlx.DB

	// Repositories
	UserRepository    repository.UserRepository
	BalanceRepository repository.BalanceRepository
	ExpenseRepository repository.ExpenseRepository

	// Services
	AuthService    service.AuthService
	ExpenseService service.ExpenseService

	// HTTP API
	HTTPHandler http.Handler
}

// NewApplication creates a new Application instance.
func NewApplication() *Application {
	return &Application{}
}

// Initialize initializes all application components.
func (app *Application) Initialize(ctx context.Context) error {
	// 1. Initialize Logger (first, so config failures are still reported)
	util.InitLogger()
	app.Logger = util.GetLogger()

	// 2. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	app.Config = cfg
	app.Logger.Info("Application configuration loaded successfully.")

	// 3. Connect to Database and apply migrations
	database, err := db.NewPostgresDB(app.Config.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = database
	app.Logger.Info("Database connection established.")

	if err := db.RunMigrations(app.DB); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	app.Logger.Info("Database schema up to date.")

	// 4. Initialize Repositories
	app.UserRepository = postgres.NewUserRepository(app.DB)
	app.BalanceRepository = postgres.NewBalanceRepository(app.DB)
	app.ExpenseRepository = postgres.NewExpenseRepository(app.DB)
	app.Logger.Info("Repositories initialized.")

	// 5. Initialize Services
	tokens := auth.NewTokenManager(app.Config.JWTSecret, app.Config.TokenTTL)
	app.AuthService = service.NewAuthService(
		app.DB, // This is the DBTxBeginner
		app.DB, // This is the DBExecutor
		app.UserRepository,
		app.BalanceRepository,
		tokens,
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
	)
	app.ExpenseService = service.NewExpenseService(
		app.DB,
		app.DB,
		app.BalanceRepository,
		app.ExpenseRepository,
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
	)
	app.Logger.Info("Services initialized.")

	// 6. Initialize HTTP Handlers and Router
	authHandler := handler.NewAuthHandler(app.AuthService, app.Logger)
	balanceHandler := handler.NewBalanceHandler(app.ExpenseService, app.Logger)
	expenseHandler := handler.NewExpenseHandler(app.ExpenseService, app.Logger)
	app.HTTPHandler = router.NewRouter(authHandler, balanceHandler, expenseHandler, tokens, app.Logger)
	app.Logger.Info("HTTP router and handlers initialized.")

	return nil
}

// Shutdown gracefully shuts down application resources.
func (app *Application) Shutdown(ctx context.Context) error {
	app.Logger.Info("Shutting down application...")
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			app.Logger.Error("Failed to close database connection", "error", err)
			return fmt.Errorf("failed to close database connection: %w", err)
		}
		app.Logger.Info("Database connection closed.")
	}
	app.Logger.Info("Application shut down gracefully.")
	return nil
}
