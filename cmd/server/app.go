package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/debitcard-api/internal/config"
	"github.com/phrazzld/debitcard-api/internal/generation"
	"github.com/phrazzld/debitcard-api/internal/platform/postgres"
	"github.com/phrazzld/debitcard-api/internal/service"
	"github.com/phrazzld/debitcard-api/internal/service/auth"
)

// application holds the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	userService      service.UserService
	cardService      service.DebitCardService
}

// newApplication wires stores, services and auth around an open database.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		slog.Int("token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes))

	app.passwordVerifier = auth.NewBcryptVerifier()

	userStore := postgres.NewPostgresUserStore(db, cfg.Auth.BCryptCost)
	cardStore := postgres.NewPostgresDebitCardStore(db, logger)
	txnStore := postgres.NewPostgresDebitCardTransactionStore(db, logger)

	app.userService = service.NewUserService(userStore, db, logger)

	issuer, err := generation.NewLuhnIssuer(cfg.Cards.ValidityYears)
	if err != nil {
		return nil, fmt.Errorf("failed to create card issuer: %w", err)
	}

	app.cardService, err = service.NewDebitCardService(
		service.NewDebitCardRepositoryAdapter(cardStore, db),
		service.NewTransactionRepositoryAdapter(txnStore),
		issuer,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create debit card service: %w", err)
	}

	logger.Info("application initialized successfully")
	return app, nil
}

// Run serves HTTP until ctx is canceled or a shutdown signal arrives.
func (app *application) Run(ctx context.Context) error {
	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup releases application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", slog.String("error", err.Error()))
		}
	}
	app.logger.Info("application shutdown completed")
}
