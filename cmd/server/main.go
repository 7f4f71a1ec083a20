package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	httpAdapter "github.com/iho/bankcore/internal/adapter/http"
	"github.com/iho/bankcore/internal/adapter/http/handler"
	"github.com/iho/bankcore/internal/adapter/http/middleware"
	postgresRepo "github.com/iho/bankcore/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/bankcore/internal/adapter/repository/redis"
	"github.com/iho/bankcore/internal/infrastructure/auth"
	"github.com/iho/bankcore/internal/infrastructure/config"
	"github.com/iho/bankcore/internal/infrastructure/delivery"
	"github.com/iho/bankcore/internal/infrastructure/eventpublisher"
	"github.com/iho/bankcore/internal/infrastructure/logger"
	"github.com/iho/bankcore/internal/infrastructure/metrics"
	"github.com/iho/bankcore/internal/infrastructure/postgres"
	"github.com/iho/bankcore/internal/infrastructure/redis"
	"github.com/iho/bankcore/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logging
	zlog := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log.Logger = zlog
	zerolog.DefaultContextLogger = &zlog

	ctx := context.Background()

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Apply schema migrations
	if cfg.MigrationsPath != "" {
		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
			log.Fatal().Err(err).Str("path", cfg.MigrationsPath).Msg("failed to run migrations")
		}
	}

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	gateThreshold, err := decimal.NewFromString(cfg.GateThreshold)
	if err != nil {
		log.Fatal().Err(err).Str("value", cfg.GateThreshold).Msg("invalid gate threshold")
	}

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	cardRepo := postgresRepo.NewCardRepository(pool)
	txnRepo := postgresRepo.NewTransactionRepository(pool)
	postingRepo := postgresRepo.NewPostingRepository(pool)
	reservationRepo := postgresRepo.NewReservationRepository(pool)
	challengeRepo := postgresRepo.NewChallengeRepository(pool)
	outboxRepo := postgresRepo.NewOutboxRepository(pool)
	auditRepo := postgresRepo.NewAuditRepository(pool)
	ledgerRepo := postgresRepo.NewLedgerRepository(pool)
	retrier := postgresRepo.NewRetrier()
	idGen := postgresRepo.NewULIDGenerator()

	cache := redisRepo.NewCache(redisClient)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	issueLimiter := redisRepo.NewIssueRateLimiter(redisClient, cfg.ChallengeIssueLimit, cfg.ChallengeIssueWindow)

	m := metrics.New()
	deliverer := delivery.NewLogDeliverer(slog.Default())

	// Initialize use cases
	registryUC := usecase.NewRegistryUseCase(accountRepo)
	limitUC := usecase.NewLimitUseCase(txManager, cardRepo, reservationRepo, idGen, m, usecase.LimitConfig{
		ReservationTTL: cfg.ReservationTTL,
	})
	challengeUC := usecase.NewChallengeUseCase(txManager, challengeRepo, deliverer, issueLimiter, idGen, m, usecase.ChallengeConfig{
		TTL:         cfg.ChallengeTTL,
		MaxAttempts: cfg.ChallengeMaxAttempts,
		CodeLength:  cfg.ChallengeCodeLength,
	})
	transferUC := usecase.NewTransferUseCase(
		txManager, registryUC, accountRepo, txnRepo, postingRepo,
		limitUC, challengeUC, outboxRepo, auditRepo, idempotencyStore,
		retrier, idGen, m, usecase.TransferConfig{
			IdempotencyTTL: cfg.IdempotencyTTL,
			GateThreshold:  gateThreshold,
		},
	)
	cardUC := usecase.NewCardUseCase(cardRepo, auditRepo, idGen)
	verificationUC := usecase.NewVerificationUseCase(registryUC, cache, usecase.VerificationConfig{
		CacheTTL: cfg.VerificationCacheTTL,
	})
	sweepUC := usecase.NewSweepUseCase(txnRepo, reservationRepo, challengeRepo, outboxRepo, ledgerRepo, slog.Default(), usecase.SweepConfig{
		PendingTimeout: cfg.PendingTimeout,
	})

	// Initialize handlers
	accountHandler := handler.NewAccountHandler(registryUC, transferUC)
	transferHandler := handler.NewTransferHandler(transferUC)
	cardHandler := handler.NewCardHandler(cardUC)
	challengeHandler := handler.NewChallengeHandler(challengeUC)
	verificationHandler := handler.NewVerificationHandler(verificationUC)
	ledgerHandler := handler.NewLedgerHandler(sweepUC)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	var jwtManager *auth.JWTManager
	if cfg.AuthEnabled && cfg.JWTSecret != "" {
		jwtManager = auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
	}

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AccountHandler:      accountHandler,
		TransferHandler:     transferHandler,
		CardHandler:         cardHandler,
		ChallengeHandler:    challengeHandler,
		VerificationHandler: verificationHandler,
		LedgerHandler:       ledgerHandler,
		HealthHandler:       healthHandler,
		JWTManager:          jwtManager,
		RateLimit:           middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, m),
		Logging:             middleware.NewLoggingMiddleware(zlog),
		Metrics:             middleware.NewMetricsMiddleware(m),
	})

	// Background workers
	workerCtx, stopWorkers := context.WithCancel(ctx)
	defer stopWorkers()

	publisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: outboxRepo,
		Publisher:  eventpublisher.NewLogPublisher(slog.Default()),
		BatchSize:  cfg.PublishBatchSize,
		Interval:   cfg.PublishInterval,
	})
	go func() {
		if err := publisher.Start(workerCtx); err != nil && workerCtx.Err() == nil {
			log.Error().Err(err).Msg("event publisher stopped")
		}
	}()

	go func() {
		if err := sweepUC.Run(workerCtx, cfg.SweepInterval); err != nil && workerCtx.Err() == nil {
			log.Error().Err(err).Msg("sweep worker stopped")
		}
	}()

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")
	stopWorkers()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
