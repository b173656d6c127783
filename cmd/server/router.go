package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/debitcard-api/internal/api"
	apiMiddleware "github.com/phrazzld/debitcard-api/internal/api/middleware"
	"github.com/phrazzld/debitcard-api/internal/platform/metrics"
	"github.com/rs/cors"
	sloghttp "github.com/samber/slog-http"
)

// setupRouter creates the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))
	r.Use(sloghttp.NewWithConfig(app.logger.With(slog.String("component", "http")), sloghttp.Config{
		DefaultLevel:     slog.LevelInfo,
		ClientErrorLevel: slog.LevelWarn,
		ServerErrorLevel: slog.LevelError,
	}))
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.Metrics)
	// rs/cors treats an empty origin list as "*"
	if origins := app.config.Server.CORSAllowedOrigins; len(origins) > 0 {
		r.Use(cors.New(cors.Options{
			AllowedOrigins: origins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
			AllowedHeaders: []string{"Authorization", "Content-Type"},
			ExposedHeaders: []string{apiMiddleware.TraceIDHeader},
			MaxAge:         300,
		}).Handler)
	}

	authHandler := api.NewAuthHandler(app.userService, app.jwtService, app.passwordVerifier, app.logger)
	cardHandler := api.NewDebitCardHandler(app.cardService, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)
	authLimiter := apiMiddleware.NewRateLimiter(
		app.config.RateLimit.AuthRequestsPerMinute,
		app.config.RateLimit.AuthBurst,
	)

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authLimiter.Limit)
			r.Post("/auth/register", authHandler.Register)
			r.Post("/auth/login", authHandler.Login)
		})

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Get("/debit-cards", cardHandler.ListDebitCards)
			r.Post("/debit-cards", cardHandler.CreateDebitCard)
			r.Get("/debit-cards/{id}", cardHandler.GetDebitCard)
			r.Put("/debit-cards/{id}", cardHandler.UpdateDebitCard)
			r.Delete("/debit-cards/{id}", cardHandler.DeleteDebitCard)
			r.Get("/debit-cards/{id}/transactions", cardHandler.ListDebitCardTransactions)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", slog.String("error", err.Error()))
		}
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	return r
}
