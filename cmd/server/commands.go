package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/debitcard-api/internal/config"
	"github.com/phrazzld/debitcard-api/internal/platform/logger"
	"github.com/phrazzld/debitcard-api/internal/platform/postgres"
	"github.com/phrazzld/debitcard-api/internal/service/auth"
	"github.com/urfave/cli/v2"
)

const flagUserID = "user-id"

// loadAppConfig loads configuration and initializes the default logger.
func loadAppConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.Setup(cfg.Server.LogLevel)
	log.Info("configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel))
	return cfg, log, nil
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the HTTP API server",
		Action: func(c *cli.Context) error {
			cfg, log, err := loadAppConfig()
			if err != nil {
				return err
			}

			db, err := openDatabase(c.Context, cfg.Database, log)
			if err != nil {
				return err
			}

			app, err := newApplication(cfg, log, db)
			if err != nil {
				_ = db.Close()
				return err
			}

			return app.Run(c.Context)
		},
	}
}

func migrateCommand() *cli.Command {
	subcommand := func(name, usage string) *cli.Command {
		return &cli.Command{
			Name:  name,
			Usage: usage,
			Action: func(c *cli.Context) error {
				cfg, log, err := loadAppConfig()
				if err != nil {
					return err
				}

				db, err := openDatabase(c.Context, cfg.Database, log)
				if err != nil {
					return err
				}
				defer func() {
					if err := db.Close(); err != nil {
						log.Error("failed to close database", slog.String("error", err.Error()))
					}
				}()

				return postgres.Migrate(c.Context, db, name, log)
			},
		}
	}

	return &cli.Command{
		Name:  "migrate",
		Usage: "manage the database schema",
		Subcommands: []*cli.Command{
			subcommand(postgres.MigrateUp, "apply all pending migrations"),
			subcommand(postgres.MigrateDown, "roll back the most recent migration"),
			subcommand(postgres.MigrateStatus, "show the status of every migration"),
			subcommand(postgres.MigrateVersion, "print the current schema version"),
		},
	}
}

func tokenCommand() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "mint a bearer token for an existing user",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     flagUserID,
				Usage:    "ID of the user the token is issued to",
				Required: true,
			},
		},
		Action: func(c *cli.Context) error {
			userID, err := uuid.Parse(c.String(flagUserID))
			if err != nil {
				return fmt.Errorf("invalid --%s: %w", flagUserID, err)
			}

			cfg, log, err := loadAppConfig()
			if err != nil {
				return err
			}

			db, err := openDatabase(c.Context, cfg.Database, log)
			if err != nil {
				return err
			}
			defer func() {
				_ = db.Close()
			}()

			if _, err := postgres.NewPostgresUserStore(db, cfg.Auth.BCryptCost).GetByID(c.Context, userID); err != nil {
				return fmt.Errorf("failed to look up user %s: %w", userID, err)
			}

			jwtService, err := auth.NewJWTService(cfg.Auth)
			if err != nil {
				return err
			}

			token, expiresAt, err := jwtService.GenerateToken(c.Context, userID)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(c.App.Writer, "%s\nexpires at %s\n", token, expiresAt.UTC().Format(time.RFC3339))
			return err
		},
	}
}
