package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iho/bankcore/internal/adapter/http/handler"
	"github.com/iho/bankcore/internal/adapter/http/middleware"
	"github.com/iho/bankcore/internal/infrastructure/auth"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AccountHandler      *handler.AccountHandler
	TransferHandler     *handler.TransferHandler
	CardHandler         *handler.CardHandler
	ChallengeHandler    *handler.ChallengeHandler
	VerificationHandler *handler.VerificationHandler
	LedgerHandler       *handler.LedgerHandler
	HealthHandler       *handler.HealthHandler

	JWTManager *auth.JWTManager
	RateLimit  *middleware.RateLimiter
	Logging    *middleware.LoggingMiddleware
	Metrics    *middleware.MetricsMiddleware
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	if cfg.Logging != nil {
		r.Use(cfg.Logging.Wrap)
	}
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Wrap)
	}
	r.Use(middleware.Recovery)
	if cfg.RateLimit != nil {
		r.Use(cfg.RateLimit.Limit)
	}

	// Health and telemetry endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.JWTManager != nil {
			r.Use(middleware.AuthMiddleware(cfg.JWTManager))
		}

		// Accounts
		r.Route("/accounts", func(r chi.Router) {
			r.Get("/", cfg.AccountHandler.List)
			r.Get("/{id}", cfg.AccountHandler.Get)
			r.Post("/{id}/deposit", cfg.AccountHandler.Deposit)
			r.Post("/{id}/withdraw", cfg.AccountHandler.Withdraw)
			r.Get("/{id}/transactions", cfg.AccountHandler.ListTransactions)
		})

		// Transfers
		r.Route("/transfers", func(r chi.Router) {
			r.Post("/", cfg.TransferHandler.Create)
			r.Get("/{id}", cfg.TransferHandler.Get)
		})

		// Cards
		r.Route("/cards", func(r chi.Router) {
			r.Get("/{id}", cfg.CardHandler.Get)
			r.Put("/{id}/limits", cfg.CardHandler.SetLimits)
		})

		// Authorization challenges
		r.Route("/challenges", func(r chi.Router) {
			r.Post("/", cfg.ChallengeHandler.Issue)
			r.Post("/{id}/verify", cfg.ChallengeHandler.Verify)
		})

		// Counterparty verification
		r.Get("/verification/{number}", cfg.VerificationHandler.Verify)

		// Operational ledger checks
		r.Route("/ledger", func(r chi.Router) {
			r.Get("/consistency", cfg.LedgerHandler.Consistency)
			r.Post("/sweep", cfg.LedgerHandler.Sweep)
		})
	})

	return r
}
