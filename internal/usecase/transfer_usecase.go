package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bankcore/internal/domain"
	"github.com/iho/bankcore/internal/infrastructure/metrics"
)

// TransferConfig carries tunables for the transfer engine.
type TransferConfig struct {
	IdempotencyTTL time.Duration
	// GateThreshold gates internal transfers at or above this amount behind
	// a verified challenge. Zero gates only external transfers.
	GateThreshold decimal.Decimal
}

// TransferUseCase is the transfer engine: the only component that moves
// money. Every operation is a single all-or-nothing unit of work.
type TransferUseCase struct {
	txManager   TransactionManager
	registry    *RegistryUseCase
	accountRepo AccountRepository
	txnRepo     TransactionRepository
	postingRepo PostingRepository
	limits      *LimitUseCase
	gate        *ChallengeUseCase
	outboxRepo  OutboxRepository
	auditRepo   AuditRepository
	idempotency IdempotencyStore
	retrier     Retrier
	idGen       IDGenerator
	metrics     *metrics.Metrics
	cfg         TransferConfig
}

// NewTransferUseCase creates a new TransferUseCase.
func NewTransferUseCase(
	txManager TransactionManager,
	registry *RegistryUseCase,
	accountRepo AccountRepository,
	txnRepo TransactionRepository,
	postingRepo PostingRepository,
	limits *LimitUseCase,
	gate *ChallengeUseCase,
	outboxRepo OutboxRepository,
	auditRepo AuditRepository,
	idempotency IdempotencyStore,
	retrier Retrier,
	idGen IDGenerator,
	m *metrics.Metrics,
	cfg TransferConfig,
) *TransferUseCase {
	if cfg.IdempotencyTTL <= 0 {
		cfg.IdempotencyTTL = IdempotencyKeyTTL
	}

	return &TransferUseCase{
		txManager:   txManager,
		registry:    registry,
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
		postingRepo: postingRepo,
		limits:      limits,
		gate:        gate,
		outboxRepo:  outboxRepo,
		auditRepo:   auditRepo,
		idempotency: idempotency,
		retrier:     retrier,
		idGen:       idGen,
		metrics:     m,
		cfg:         cfg,
	}
}

// TransferOperationRef derives the operation reference a challenge must be
// bound to for a given transfer request.
func TransferOperationRef(idempotencyKey string) string {
	return "transfer:" + idempotencyKey
}

// MovementResult is the outcome of a deposit or withdrawal.
type MovementResult struct {
	TransactionID string          `json:"transaction_id"`
	NewBalance    decimal.Decimal `json:"new_balance"`
}

// TransferResult is the outcome of a transfer.
type TransferResult struct {
	TransactionID string `json:"transaction_id"`
}

// DepositInput represents input for a deposit.
type DepositInput struct {
	AccountID      string
	Amount         decimal.Decimal
	Description    string
	IdempotencyKey string
}

// WithdrawInput represents input for a withdrawal.
type WithdrawInput struct {
	AccountID      string
	Amount         decimal.Decimal
	Description    string
	IdempotencyKey string
}

// TransferInput represents input for a transfer.
type TransferInput struct {
	FromAccountID  string
	ToAccountID    string
	Amount         decimal.Decimal
	Description    string
	IdempotencyKey string
	// CardID associates the spend with a card's rolling limits.
	CardID string
	// ChallengeID and Code authorize a gated transfer.
	ChallengeID string
	Code        string
	// External marks a counterparty resolved through the verification
	// service; external transfers are always gated.
	External bool
}

// Deposit credits an account and returns the updated balance.
func (uc *TransferUseCase) Deposit(ctx context.Context, input DepositInput) (*MovementResult, error) {
	if err := validateMovement(input.Amount, input.Description, input.IdempotencyKey); err != nil {
		return nil, err
	}

	hash := payloadHash("deposit", input.AccountID, "", input.Amount.String(), input.Description, "")

	cached, claimed, err := uc.claimIdempotency(ctx, input.IdempotencyKey, hash)
	if err != nil {
		return nil, err
	}
	if !claimed {
		var result MovementResult
		if err := json.Unmarshal(cached, &result); err != nil {
			return nil, fmt.Errorf("%w: corrupt idempotency record", domain.ErrFatal)
		}
		return &result, nil
	}

	result, err := uc.applyMovement(ctx, domain.TransactionKindDeposit, input.AccountID, input.Amount, input.Description, input.IdempotencyKey)
	if err != nil {
		uc.abandonIdempotency(ctx, input.IdempotencyKey)
		return nil, err
	}

	uc.finishIdempotency(ctx, input.IdempotencyKey, hash, result)
	uc.audit(ctx, domain.AuditActionDeposit, result.TransactionID, result)

	if uc.metrics != nil {
		uc.metrics.Deposits.Inc()
	}

	return result, nil
}

// Withdraw debits an account and returns the updated balance.
func (uc *TransferUseCase) Withdraw(ctx context.Context, input WithdrawInput) (*MovementResult, error) {
	if err := validateMovement(input.Amount, input.Description, input.IdempotencyKey); err != nil {
		return nil, err
	}

	hash := payloadHash("withdrawal", input.AccountID, "", input.Amount.String(), input.Description, "")

	cached, claimed, err := uc.claimIdempotency(ctx, input.IdempotencyKey, hash)
	if err != nil {
		return nil, err
	}
	if !claimed {
		var result MovementResult
		if err := json.Unmarshal(cached, &result); err != nil {
			return nil, fmt.Errorf("%w: corrupt idempotency record", domain.ErrFatal)
		}
		return &result, nil
	}

	result, err := uc.applyMovement(ctx, domain.TransactionKindWithdrawal, input.AccountID, input.Amount, input.Description, input.IdempotencyKey)
	if err != nil {
		uc.abandonIdempotency(ctx, input.IdempotencyKey)
		return nil, err
	}

	uc.finishIdempotency(ctx, input.IdempotencyKey, hash, result)
	uc.audit(ctx, domain.AuditActionWithdraw, result.TransactionID, result)

	if uc.metrics != nil {
		uc.metrics.Withdrawals.Inc()
	}

	return result, nil
}

// Transfer moves amount between two accounts atomically: either both the
// debit and the credit take effect, or neither does. Locks are acquired in
// sorted account-ID order so mirror-image concurrent transfers cannot
// deadlock.
func (uc *TransferUseCase) Transfer(ctx context.Context, input TransferInput) (*TransferResult, error) {
	if err := validateMovement(input.Amount, input.Description, input.IdempotencyKey); err != nil {
		return nil, err
	}

	if input.FromAccountID == input.ToAccountID {
		return nil, domain.ErrSameAccount
	}

	hash := payloadHash("transfer", input.FromAccountID, input.ToAccountID, input.Amount.String(), input.Description, input.CardID)

	cached, claimed, err := uc.claimIdempotency(ctx, input.IdempotencyKey, hash)
	if err != nil {
		return nil, err
	}
	if !claimed {
		var result TransferResult
		if err := json.Unmarshal(cached, &result); err != nil {
			return nil, fmt.Errorf("%w: corrupt idempotency record", domain.ErrFatal)
		}
		return &result, nil
	}

	opRef := TransferOperationRef(input.IdempotencyKey)
	gated := input.External || (uc.cfg.GateThreshold.IsPositive() && input.Amount.GreaterThanOrEqual(uc.cfg.GateThreshold))

	if gated {
		if uc.gate == nil || input.ChallengeID == "" {
			uc.abandonIdempotency(ctx, input.IdempotencyKey)
			return nil, domain.ErrUnauthorized
		}

		if err := uc.gate.Verify(ctx, input.ChallengeID, input.Code); err != nil {
			uc.abandonIdempotency(ctx, input.IdempotencyKey)
			return nil, err
		}
	}

	now := time.Now().UTC()

	var reservation *domain.Reservation
	if input.CardID != "" {
		reservation, err = uc.limits.CheckAndReserve(ctx, input.CardID, input.Amount, now)
		if err != nil {
			uc.abandonIdempotency(ctx, input.IdempotencyKey)
			return nil, err
		}
	}

	txn := &domain.Transaction{
		ID:                   uc.idGen.Generate(),
		Kind:                 domain.TransactionKindTransfer,
		SourceAccountID:      &input.FromAccountID,
		DestinationAccountID: &input.ToAccountID,
		Amount:               input.Amount,
		Description:          input.Description,
		Status:               domain.TransactionStatusPending,
		IdempotencyKey:       input.IdempotencyKey,
		CreatedAt:            now,
	}

	if err := txn.Validate(); err != nil {
		uc.abandonIdempotency(ctx, input.IdempotencyKey)
		return nil, err
	}

	if err := uc.txnRepo.Create(ctx, txn); err != nil {
		uc.abandonIdempotency(ctx, input.IdempotencyKey)
		return nil, fmt.Errorf("%w: %v", domain.ErrFatal, err)
	}

	err = uc.retrier.Retry(ctx, func() error {
		return uc.commitTransfer(ctx, txn, input, reservation, gated, opRef)
	})
	if err != nil {
		_ = uc.txnRepo.MarkFailed(ctx, txn.ID, time.Now().UTC())
		if reservation != nil {
			_ = uc.limits.Release(ctx, reservation.ID)
		}
		uc.abandonIdempotency(ctx, input.IdempotencyKey)

		if uc.metrics != nil {
			uc.metrics.TransferErrors.WithLabelValues(errorLabel(err)).Inc()
		}

		return nil, classify(err)
	}

	result := &TransferResult{TransactionID: txn.ID}
	uc.finishIdempotency(ctx, input.IdempotencyKey, hash, result)
	uc.audit(ctx, domain.AuditActionTransfer, txn.ID, txn)

	if uc.metrics != nil {
		uc.metrics.TransfersCommitted.Inc()
		amountF, _ := input.Amount.Float64()
		uc.metrics.TransferAmount.Observe(amountF)
	}

	return result, nil
}

// commitTransfer runs one attempt of the transfer's unit of work. Any error
// rolls the whole storage transaction back, so a debit can never outlive a
// failed credit.
func (uc *TransferUseCase) commitTransfer(
	ctx context.Context,
	txn *domain.Transaction,
	input TransferInput,
	reservation *domain.Reservation,
	gated bool,
	opRef string,
) error {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	ids := []string{input.FromAccountID, input.ToAccountID}
	sort.Strings(ids)

	accounts, err := uc.accountRepo.GetByIDsForUpdate(txCtx, tx, ids)
	if err != nil {
		return err
	}

	accountMap := make(map[string]*domain.Account, len(accounts))
	for _, a := range accounts {
		if a.Status != domain.AccountStatusClosed {
			accountMap[a.ID] = a
		}
	}

	from := accountMap[input.FromAccountID]
	to := accountMap[input.ToAccountID]
	if from == nil || to == nil {
		return domain.ErrAccountNotFound
	}

	if err := from.ValidateDebit(input.Amount); err != nil {
		return err
	}
	if err := to.ValidateCredit(input.Amount); err != nil {
		return err
	}

	now := time.Now().UTC()

	fromPrev := from.Balance
	fromBalance, err := uc.registry.AdjustBalance(txCtx, tx, from, input.Amount.Neg(), now)
	if err != nil {
		return err
	}

	if err := uc.postingRepo.Create(txCtx, tx, &domain.Posting{
		ID:              uc.idGen.Generate(),
		TransactionID:   txn.ID,
		AccountID:       from.ID,
		Amount:          input.Amount.Neg(),
		PreviousBalance: fromPrev,
		CurrentBalance:  fromBalance,
		AccountVersion:  from.Version,
		CreatedAt:       now,
	}); err != nil {
		return err
	}

	toPrev := to.Balance
	toBalance, err := uc.registry.AdjustBalance(txCtx, tx, to, input.Amount, now)
	if err != nil {
		return err
	}

	if err := uc.postingRepo.Create(txCtx, tx, &domain.Posting{
		ID:              uc.idGen.Generate(),
		TransactionID:   txn.ID,
		AccountID:       to.ID,
		Amount:          input.Amount,
		PreviousBalance: toPrev,
		CurrentBalance:  toBalance,
		AccountVersion:  to.Version,
		CreatedAt:       now,
	}); err != nil {
		return err
	}

	if reservation != nil {
		if err := uc.limits.CommitTx(txCtx, tx, reservation.ID, txn.ID, now); err != nil {
			return err
		}
	}

	if gated {
		if err := uc.gate.ConsumeTx(txCtx, tx, input.ChallengeID, opRef, now); err != nil {
			return err
		}
	}

	if err := uc.txnRepo.UpdateStatus(txCtx, tx, txn.ID, domain.TransactionStatusCommitted, &now); err != nil {
		return err
	}

	if uc.outboxRepo != nil {
		event := &domain.OutboxEvent{
			ID:            uc.idGen.Generate(),
			AggregateID:   txn.ID,
			AggregateType: domain.AggregateTypeTransaction,
			EventType:     domain.EventTypeTransactionCommitted,
			Payload: map[string]any{
				"transaction_id":         txn.ID,
				"kind":                   string(txn.Kind),
				"source_account_id":      input.FromAccountID,
				"destination_account_id": input.ToAccountID,
				"amount":                 input.Amount.String(),
			},
			CreatedAt: now,
			Published: false,
		}
		if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
			return err
		}
	}

	return tx.Commit(txCtx)
}

// applyMovement runs the single-account unit of work shared by deposit and
// withdrawal. The account is read optimistically; the registry's version
// check detects a lost race and the retrier re-runs against fresh state.
func (uc *TransferUseCase) applyMovement(
	ctx context.Context,
	kind domain.TransactionKind,
	accountID string,
	amount decimal.Decimal,
	description, idempotencyKey string,
) (*MovementResult, error) {
	now := time.Now().UTC()

	txn := &domain.Transaction{
		ID:             uc.idGen.Generate(),
		Kind:           kind,
		Amount:         amount,
		Description:    description,
		Status:         domain.TransactionStatusPending,
		IdempotencyKey: idempotencyKey,
		CreatedAt:      now,
	}

	delta := amount
	if kind == domain.TransactionKindWithdrawal {
		txn.SourceAccountID = &accountID
		delta = amount.Neg()
	} else {
		txn.DestinationAccountID = &accountID
	}

	if err := txn.Validate(); err != nil {
		return nil, err
	}

	if err := uc.txnRepo.Create(ctx, txn); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFatal, err)
	}

	var newBalance decimal.Decimal

	err := uc.retrier.Retry(ctx, func() error {
		txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
		defer cancel()

		tx, err := uc.txManager.Begin(txCtx)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback(txCtx) }()

		account, err := uc.registry.GetAccount(txCtx, accountID)
		if err != nil {
			return err
		}

		prev := account.Balance
		balance, err := uc.registry.AdjustBalance(txCtx, tx, account, delta, now)
		if err != nil {
			return err
		}

		if err := uc.postingRepo.Create(txCtx, tx, &domain.Posting{
			ID:              uc.idGen.Generate(),
			TransactionID:   txn.ID,
			AccountID:       account.ID,
			Amount:          delta,
			PreviousBalance: prev,
			CurrentBalance:  balance,
			AccountVersion:  account.Version,
			CreatedAt:       now,
		}); err != nil {
			return err
		}

		committedAt := time.Now().UTC()
		if err := uc.txnRepo.UpdateStatus(txCtx, tx, txn.ID, domain.TransactionStatusCommitted, &committedAt); err != nil {
			return err
		}

		if uc.outboxRepo != nil {
			event := &domain.OutboxEvent{
				ID:            uc.idGen.Generate(),
				AggregateID:   txn.ID,
				AggregateType: domain.AggregateTypeTransaction,
				EventType:     domain.EventTypeTransactionCommitted,
				Payload: map[string]any{
					"transaction_id": txn.ID,
					"kind":           string(kind),
					"account_id":     accountID,
					"amount":         amount.String(),
				},
				CreatedAt: committedAt,
				Published: false,
			}
			if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
				return err
			}
		}

		newBalance = balance

		return tx.Commit(txCtx)
	})
	if err != nil {
		_ = uc.txnRepo.MarkFailed(ctx, txn.ID, time.Now().UTC())
		return nil, classify(err)
	}

	return &MovementResult{TransactionID: txn.ID, NewBalance: newBalance}, nil
}

// GetTransaction retrieves a transaction record by ID.
func (uc *TransferUseCase) GetTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	return uc.txnRepo.GetByID(ctx, id)
}

// ListTransactionsByAccountInput represents input for listing transactions.
type ListTransactionsByAccountInput struct {
	AccountID string
	Limit     int
	Offset    int
}

// ListTransactionsByAccount lists transactions touching an account.
func (uc *TransferUseCase) ListTransactionsByAccount(ctx context.Context, input ListTransactionsByAccountInput) ([]*domain.Transaction, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)
	return uc.txnRepo.ListByAccount(ctx, input.AccountID, limit, offset)
}

func validateMovement(amount decimal.Decimal, description, idempotencyKey string) error {
	if err := domain.ValidateAmount(amount); err != nil {
		return err
	}
	if err := domain.ValidateDescription(description); err != nil {
		return err
	}
	return domain.ValidateIdempotencyKey(idempotencyKey)
}

// claimIdempotency returns the cached response for a replay, or claims the
// key for this caller. claimed=true means the caller owns the key.
func (uc *TransferUseCase) claimIdempotency(ctx context.Context, key, hash string) ([]byte, bool, error) {
	if uc.idempotency == nil {
		return nil, true, nil
	}

	exists, record, err := uc.idempotency.Begin(ctx, key, hash, uc.cfg.IdempotencyTTL)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", domain.ErrFatal, err)
	}

	if !exists {
		return nil, true, nil
	}

	if record == nil || record.PayloadHash != hash {
		return nil, false, domain.ErrIdempotencyMismatch
	}

	if record.InFlight {
		return nil, false, fmt.Errorf("%w: original request still in flight", domain.ErrVersionConflict)
	}

	return record.Response, false, nil
}

func (uc *TransferUseCase) finishIdempotency(ctx context.Context, key, hash string, result any) {
	if uc.idempotency == nil {
		return
	}

	response, err := json.Marshal(result)
	if err != nil {
		return
	}

	_ = uc.idempotency.Finish(ctx, key, &IdempotencyRecord{
		PayloadHash: hash,
		Response:    response,
	}, uc.cfg.IdempotencyTTL)
}

func (uc *TransferUseCase) abandonIdempotency(ctx context.Context, key string) {
	if uc.idempotency == nil {
		return
	}
	_ = uc.idempotency.Abandon(ctx, key)
}

func (uc *TransferUseCase) audit(ctx context.Context, action domain.AuditAction, resourceID string, state any) {
	if uc.auditRepo == nil {
		return
	}

	callerID := "system"
	if caller, ok := domain.CallerFromContext(ctx); ok {
		callerID = caller.ID
	}

	_ = uc.auditRepo.Create(ctx, &domain.AuditLog{
		ID:           uc.idGen.Generate(),
		CallerID:     callerID,
		Action:       string(action),
		ResourceType: "transaction",
		ResourceID:   resourceID,
		AfterState:   domain.MarshalState(state),
		Status:       string(domain.AuditStatusSuccess),
		CreatedAt:    time.Now().UTC(),
	})
}

// payloadHash fingerprints the logical payload of a mutating call so a
// reused idempotency key with a different payload can be rejected.
func payloadHash(kind, source, destination, amount, description, cardID string) string {
	data, _ := json.Marshal([]string{kind, source, destination, amount, description, cardID})
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// classify maps non-business errors to the opaque fatal failure; business
// rejections and conflicts pass through verbatim.
func classify(err error) error {
	for _, sentinel := range []error{
		domain.ErrAccountNotFound,
		domain.ErrAccountNotActive,
		domain.ErrInsufficientFunds,
		domain.ErrVersionConflict,
		domain.ErrDailyLimitExceeded,
		domain.ErrMonthlyLimitExceeded,
		domain.ErrReservationNotActive,
		domain.ErrUnauthorized,
		domain.ErrInvalidCode,
		domain.ErrChallengeExpired,
		domain.ErrChallengeConsumed,
		domain.ErrChallengeNotBound,
		domain.ErrSameAccount,
		domain.ErrInvalidAmount,
	} {
		if errors.Is(err, sentinel) {
			return err
		}
	}

	return fmt.Errorf("%w: %v", domain.ErrFatal, err)
}

func errorLabel(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, domain.ErrDailyLimitExceeded), errors.Is(err, domain.ErrMonthlyLimitExceeded):
		return "limit_exceeded"
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrInvalidCode):
		return "unauthorized"
	case errors.Is(err, domain.ErrAccountNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrVersionConflict):
		return "conflict"
	default:
		return "fatal"
	}
}
