package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
)

// SweepConfig carries retention tunables for the expiry sweep.
type SweepConfig struct {
	// PendingTimeout is how long a transaction record may remain pending.
	PendingTimeout time.Duration
	// ChallengeRetention is how long finished challenges are kept.
	ChallengeRetention time.Duration
	// OutboxRetention is how long published outbox events are kept.
	OutboxRetention time.Duration
}

// SweepResult reports what a sweep pass cleaned up.
type SweepResult struct {
	FailedTransactions   int64
	ReleasedReservations int64
	PurgedChallenges     int64
}

// SweepUseCase reconciles abandoned state: pending transactions past their
// timeout become failed, expired reservations release their headroom, and
// finished challenges are garbage-collected.
type SweepUseCase struct {
	txnRepo         TransactionRepository
	reservationRepo ReservationRepository
	challengeRepo   ChallengeRepository
	outboxRepo      OutboxRepository
	ledgerRepo      LedgerRepository
	logger          *slog.Logger
	cfg             SweepConfig
}

// NewSweepUseCase creates a new SweepUseCase.
func NewSweepUseCase(
	txnRepo TransactionRepository,
	reservationRepo ReservationRepository,
	challengeRepo ChallengeRepository,
	outboxRepo OutboxRepository,
	ledgerRepo LedgerRepository,
	logger *slog.Logger,
	cfg SweepConfig,
) *SweepUseCase {
	if cfg.PendingTimeout <= 0 {
		cfg.PendingTimeout = DefaultPendingTimeout
	}
	if cfg.ChallengeRetention <= 0 {
		cfg.ChallengeRetention = 24 * time.Hour
	}
	if cfg.OutboxRetention <= 0 {
		cfg.OutboxRetention = 7 * 24 * time.Hour
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &SweepUseCase{
		txnRepo:         txnRepo,
		reservationRepo: reservationRepo,
		challengeRepo:   challengeRepo,
		outboxRepo:      outboxRepo,
		ledgerRepo:      ledgerRepo,
		logger:          logger,
		cfg:             cfg,
	}
}

// Sweep runs one reconciliation pass.
func (uc *SweepUseCase) Sweep(ctx context.Context, now time.Time) (*SweepResult, error) {
	result := &SweepResult{}

	failed, err := uc.txnRepo.FailStalePending(ctx, now.Add(-uc.cfg.PendingTimeout))
	if err != nil {
		return nil, err
	}
	result.FailedTransactions = failed

	released, err := uc.reservationRepo.ReleaseExpired(ctx, now)
	if err != nil {
		return nil, err
	}
	result.ReleasedReservations = released

	purged, err := uc.challengeRepo.DeleteFinished(ctx, now.Add(-uc.cfg.ChallengeRetention))
	if err != nil {
		return nil, err
	}
	result.PurgedChallenges = purged

	if uc.outboxRepo != nil {
		if err := uc.outboxRepo.DeletePublished(ctx, now.Add(-uc.cfg.OutboxRetention)); err != nil {
			uc.logger.Warn("outbox cleanup failed", slog.String("error", err.Error()))
		}
	}

	if result.FailedTransactions > 0 || result.ReleasedReservations > 0 || result.PurgedChallenges > 0 {
		uc.logger.Info("sweep pass finished",
			slog.Int64("failed_transactions", result.FailedTransactions),
			slog.Int64("released_reservations", result.ReleasedReservations),
			slog.Int64("purged_challenges", result.PurgedChallenges))
	}

	return result, nil
}

// Run executes sweeps on a fixed interval until the context is cancelled.
func (uc *SweepUseCase) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := uc.Sweep(ctx, time.Now().UTC()); err != nil {
				uc.logger.Error("sweep pass failed", slog.String("error", err.Error()))
			}
		}
	}
}

// ConsistencyResult reports the ledger conservation check.
type ConsistencyResult struct {
	PostingSum decimal.Decimal
	Consistent bool
}

// CheckConsistency verifies double-entry conservation: the sum of all
// transfer posting amounts must be zero.
func (uc *SweepUseCase) CheckConsistency(ctx context.Context) (*ConsistencyResult, error) {
	sum, err := uc.ledgerRepo.PostingSum(ctx)
	if err != nil {
		return nil, err
	}

	return &ConsistencyResult{
		PostingSum: sum,
		Consistent: sum.IsZero(),
	}, nil
}
