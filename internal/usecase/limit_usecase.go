package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bankcore/internal/domain"
	"github.com/iho/bankcore/internal/infrastructure/metrics"
)

// LimitConfig carries tunables for the limit tracker.
type LimitConfig struct {
	// ReservationTTL bounds how long an uncommitted reservation keeps
	// consuming limit headroom.
	ReservationTTL time.Duration
}

// LimitUseCase tracks rolling daily and monthly spend per card. Headroom is
// reserved before money moves and committed or released afterwards, so two
// concurrent spends cannot both pass the check against a stale usage figure.
type LimitUseCase struct {
	txManager       TransactionManager
	cardRepo        CardRepository
	reservationRepo ReservationRepository
	idGen           IDGenerator
	metrics         *metrics.Metrics
	cfg             LimitConfig
}

// NewLimitUseCase creates a new LimitUseCase.
func NewLimitUseCase(
	txManager TransactionManager,
	cardRepo CardRepository,
	reservationRepo ReservationRepository,
	idGen IDGenerator,
	m *metrics.Metrics,
	cfg LimitConfig,
) *LimitUseCase {
	if cfg.ReservationTTL <= 0 {
		cfg.ReservationTTL = DefaultReservationTTL
	}

	return &LimitUseCase{
		txManager:       txManager,
		cardRepo:        cardRepo,
		reservationRepo: reservationRepo,
		idGen:           idGen,
		metrics:         m,
		cfg:             cfg,
	}
}

// CheckAndReserve verifies that amount fits inside both rolling windows and
// reserves the headroom. The card row is locked for the duration of the
// check so concurrent reservations against one card serialize.
func (uc *LimitUseCase) CheckAndReserve(ctx context.Context, cardID string, amount decimal.Decimal, now time.Time) (*domain.Reservation, error) {
	if err := domain.ValidateAmount(amount); err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	card, err := uc.cardRepo.GetByIDForUpdate(txCtx, tx, cardID)
	if err != nil {
		return nil, err
	}

	if err := card.ValidateActive(); err != nil {
		return nil, err
	}

	daySpend, err := uc.reservationRepo.WindowSpend(txCtx, tx, cardID, now.Add(-DailyWindow), now)
	if err != nil {
		return nil, err
	}

	if daySpend.Add(amount).GreaterThan(card.DailyLimit) {
		uc.countRejection("daily")
		return nil, domain.ErrDailyLimitExceeded
	}

	monthSpend, err := uc.reservationRepo.WindowSpend(txCtx, tx, cardID, now.Add(-MonthlyWindow), now)
	if err != nil {
		return nil, err
	}

	if monthSpend.Add(amount).GreaterThan(card.SpendingLimit) {
		uc.countRejection("monthly")
		return nil, domain.ErrMonthlyLimitExceeded
	}

	reservation := &domain.Reservation{
		ID:        uc.idGen.Generate(),
		CardID:    cardID,
		Amount:    amount,
		Status:    domain.ReservationStatusActive,
		ExpiresAt: now.Add(uc.cfg.ReservationTTL),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.reservationRepo.Create(txCtx, tx, reservation); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.ReservationsCreated.Inc()
	}

	return reservation, nil
}

// CommitTx finalizes a reservation inside the caller's storage transaction,
// binding it to the transaction record it paid for.
func (uc *LimitUseCase) CommitTx(ctx context.Context, tx Transaction, reservationID, transactionID string, now time.Time) error {
	reservation, err := uc.reservationRepo.GetByIDForUpdate(ctx, tx, reservationID)
	if err != nil {
		return err
	}

	if reservation.Status != domain.ReservationStatusActive || reservation.Expired(now) {
		return domain.ErrReservationNotActive
	}

	return uc.reservationRepo.UpdateStatus(ctx, tx, reservationID, domain.ReservationStatusCommitted, &transactionID, now)
}

// Release returns reserved headroom after a failed or abandoned spend.
// Releasing a reservation that is no longer active is a no-op.
func (uc *LimitUseCase) Release(ctx context.Context, reservationID string) error {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	reservation, err := uc.reservationRepo.GetByIDForUpdate(txCtx, tx, reservationID)
	if err != nil {
		return err
	}

	if reservation.Status != domain.ReservationStatusActive {
		return nil
	}

	now := time.Now().UTC()
	if err := uc.reservationRepo.UpdateStatus(txCtx, tx, reservationID, domain.ReservationStatusReleased, nil, now); err != nil {
		return err
	}

	if err := tx.Commit(txCtx); err != nil {
		return err
	}

	if uc.metrics != nil {
		uc.metrics.ReservationsReleased.Inc()
	}

	return nil
}

func (uc *LimitUseCase) countRejection(window string) {
	if uc.metrics != nil {
		uc.metrics.LimitRejections.WithLabelValues(window).Inc()
	}
}
