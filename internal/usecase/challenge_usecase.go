package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/iho/bankcore/internal/domain"
	"github.com/iho/bankcore/internal/infrastructure/metrics"
	"github.com/iho/bankcore/internal/infrastructure/otp"
)

// ChallengeConfig carries tunables for the authorization gate.
type ChallengeConfig struct {
	TTL         time.Duration
	MaxAttempts int
	CodeLength  int
}

// ChallengeUseCase is the authorization gate: a challenge/response state
// machine bound to a single operation reference. It proves authorization for
// one specific operation, not who the caller is.
type ChallengeUseCase struct {
	txManager     TransactionManager
	challengeRepo ChallengeRepository
	deliverer     CodeDeliverer
	limiter       IssueRateLimiter
	idGen         IDGenerator
	metrics       *metrics.Metrics
	cfg           ChallengeConfig
}

// NewChallengeUseCase creates a new ChallengeUseCase.
func NewChallengeUseCase(
	txManager TransactionManager,
	challengeRepo ChallengeRepository,
	deliverer CodeDeliverer,
	limiter IssueRateLimiter,
	idGen IDGenerator,
	m *metrics.Metrics,
	cfg ChallengeConfig,
) *ChallengeUseCase {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultChallengeTTL
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultChallengeMaxAttempts
	}
	if cfg.CodeLength <= 0 {
		cfg.CodeLength = otp.DefaultCodeLength
	}

	return &ChallengeUseCase{
		txManager:     txManager,
		challengeRepo: challengeRepo,
		deliverer:     deliverer,
		limiter:       limiter,
		idGen:         idGen,
		metrics:       m,
		cfg:           cfg,
	}
}

// IssueInput represents input for issuing a challenge.
type IssueInput struct {
	OperationRef string
	Destination  string
}

// Issue generates a single-use code bound to one operation reference and
// hands it to the delivery channel. The plaintext code never leaves this
// method.
func (uc *ChallengeUseCase) Issue(ctx context.Context, input IssueInput) (*domain.Challenge, error) {
	if err := domain.ValidateOperationRef(input.OperationRef); err != nil {
		return nil, err
	}

	if uc.limiter != nil {
		allowed, err := uc.limiter.Allow(ctx, input.OperationRef)
		if err != nil {
			return nil, err
		}
		if !allowed {
			if uc.metrics != nil {
				uc.metrics.ChallengesRateLimited.Inc()
			}
			return nil, domain.ErrRateLimited
		}
	}

	code, err := otp.GenerateCode(uc.cfg.CodeLength)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	challenge := &domain.Challenge{
		ID:           uc.idGen.Generate(),
		OperationRef: input.OperationRef,
		CodeHash:     otp.HashCode(code),
		Status:       domain.ChallengeStatusIssued,
		Attempts:     0,
		MaxAttempts:  uc.cfg.MaxAttempts,
		ExpiresAt:    now.Add(uc.cfg.TTL),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := uc.challengeRepo.Create(ctx, challenge); err != nil {
		return nil, err
	}

	if err := uc.deliverer.Deliver(ctx, code, input.Destination); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.ChallengesIssued.Inc()
	}

	return challenge, nil
}

// Verify checks a supplied code. An unknown challenge and a wrong code
// produce the same error so the endpoint cannot be used to enumerate
// challenges. A bounded number of mismatches invalidates the challenge.
func (uc *ChallengeUseCase) Verify(ctx context.Context, challengeID, suppliedCode string) error {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	challenge, err := uc.challengeRepo.GetByIDForUpdate(txCtx, tx, challengeID)
	if err != nil {
		if errors.Is(err, domain.ErrChallengeNotFound) {
			return domain.ErrInvalidCode
		}
		return err
	}

	now := time.Now().UTC()

	if err := challenge.ValidateVerify(now); err != nil {
		// Record the expiry transition so the record stops being verifiable
		// even if clocks drift.
		if errors.Is(err, domain.ErrChallengeExpired) && challenge.Status == domain.ChallengeStatusIssued {
			_ = uc.challengeRepo.Update(txCtx, tx, challenge.ID, domain.ChallengeStatusExpired, challenge.Attempts, now)
			_ = tx.Commit(txCtx)
		}
		return err
	}

	if !otp.CompareCode(challenge.CodeHash, suppliedCode) {
		challenge.Attempts++
		status := challenge.Status
		if challenge.Attempts >= challenge.MaxAttempts {
			status = domain.ChallengeStatusFailed
		}

		if err := uc.challengeRepo.Update(txCtx, tx, challenge.ID, status, challenge.Attempts, now); err != nil {
			return err
		}
		if err := tx.Commit(txCtx); err != nil {
			return err
		}

		if uc.metrics != nil {
			uc.metrics.ChallengeFailures.Inc()
		}

		return domain.ErrInvalidCode
	}

	if err := uc.challengeRepo.Update(txCtx, tx, challenge.ID, domain.ChallengeStatusVerified, challenge.Attempts, now); err != nil {
		return err
	}

	if err := tx.Commit(txCtx); err != nil {
		return err
	}

	if uc.metrics != nil {
		uc.metrics.ChallengesVerified.Inc()
	}

	return nil
}

// ConsumeTx burns a verified challenge inside the caller's storage
// transaction, immediately before the gated operation commits. The row lock
// plus the verified→consumed transition make double consumption impossible.
func (uc *ChallengeUseCase) ConsumeTx(ctx context.Context, tx Transaction, challengeID, operationRef string, now time.Time) error {
	challenge, err := uc.challengeRepo.GetByIDForUpdate(ctx, tx, challengeID)
	if err != nil {
		if errors.Is(err, domain.ErrChallengeNotFound) {
			return domain.ErrUnauthorized
		}
		return err
	}

	if err := challenge.ValidateConsume(now, operationRef); err != nil {
		return err
	}

	if err := uc.challengeRepo.Update(ctx, tx, challenge.ID, domain.ChallengeStatusConsumed, challenge.Attempts, now); err != nil {
		return err
	}

	if uc.metrics != nil {
		uc.metrics.ChallengesConsumed.Inc()
	}

	return nil
}

// Consume burns a verified challenge in its own unit of work. Exposed for
// gated operations whose commit happens outside this core.
func (uc *ChallengeUseCase) Consume(ctx context.Context, challengeID, operationRef string) error {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := uc.ConsumeTx(txCtx, tx, challengeID, operationRef, time.Now().UTC()); err != nil {
		return err
	}

	return tx.Commit(txCtx)
}
