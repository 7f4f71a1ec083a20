package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bankcore/internal/domain"
)

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByNumber(ctx context.Context, number string) (*domain.Account, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Account, error)
	GetByIDsForUpdate(ctx context.Context, tx Transaction, ids []string) ([]*domain.Account, error)
	// UpdateBalance writes the new balance only if the stored version still
	// equals expectedVersion, bumping it by one. Returns
	// domain.ErrVersionConflict when the compare-and-swap loses.
	UpdateBalance(ctx context.Context, tx Transaction, id string, balance decimal.Decimal, expectedVersion int64, updatedAt time.Time) error
	List(ctx context.Context, limit, offset int) ([]*domain.Account, error)
}

// CardRepository defines data access for cards.
type CardRepository interface {
	Create(ctx context.Context, card *domain.Card) error
	GetByID(ctx context.Context, id string) (*domain.Card, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Card, error)
	UpdateLimits(ctx context.Context, id string, daily, monthly decimal.Decimal, updatedAt time.Time) (*domain.Card, error)
}

// TransactionRepository defines data access for transaction records.
type TransactionRepository interface {
	Create(ctx context.Context, txn *domain.Transaction) error
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	UpdateStatus(ctx context.Context, tx Transaction, id string, status domain.TransactionStatus, committedAt *time.Time) error
	// MarkFailed flips a record to failed outside any caller transaction, so
	// the failure survives the rollback that caused it.
	MarkFailed(ctx context.Context, id string, at time.Time) error
	// FailStalePending fails pending records older than the cutoff and
	// returns how many were swept.
	FailStalePending(ctx context.Context, olderThan time.Time) (int64, error)
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Transaction, error)
}

// PostingRepository defines data access for transaction postings.
type PostingRepository interface {
	Create(ctx context.Context, tx Transaction, posting *domain.Posting) error
	ListByTransaction(ctx context.Context, transactionID string) ([]*domain.Posting, error)
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Posting, error)
}

// LedgerRepository defines ledger-wide checks.
type LedgerRepository interface {
	// PostingSum returns the sum of all transfer posting amounts; a
	// conserving ledger sums to zero.
	PostingSum(ctx context.Context) (decimal.Decimal, error)
}

// ReservationRepository defines data access for limit reservations.
type ReservationRepository interface {
	Create(ctx context.Context, tx Transaction, r *domain.Reservation) error
	GetByID(ctx context.Context, id string) (*domain.Reservation, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Reservation, error)
	UpdateStatus(ctx context.Context, tx Transaction, id string, status domain.ReservationStatus, transactionID *string, updatedAt time.Time) error
	// WindowSpend sums, for one card, reservations committed since the window
	// start plus still-active unexpired reservations.
	WindowSpend(ctx context.Context, tx Transaction, cardID string, since, now time.Time) (decimal.Decimal, error)
	ReleaseExpired(ctx context.Context, now time.Time) (int64, error)
}

// ChallengeRepository defines data access for authorization challenges.
type ChallengeRepository interface {
	Create(ctx context.Context, challenge *domain.Challenge) error
	GetByID(ctx context.Context, id string) (*domain.Challenge, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Challenge, error)
	Update(ctx context.Context, tx Transaction, id string, status domain.ChallengeStatus, attempts int, updatedAt time.Time) error
	DeleteFinished(ctx context.Context, before time.Time) (int64, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// AuditRepository defines data access for audit logs.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
	CreateTx(ctx context.Context, tx Transaction, log *domain.AuditLog) error
	List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an operation on retryable storage conflicts with bounded
// backoff.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore records finished mutations keyed by the caller-supplied
// idempotency key.
type IdempotencyStore interface {
	// Begin atomically claims the key, storing an in-flight marker carrying
	// the payload hash. Returns (existing, record, error): existing=false
	// means this caller owns the key and must Finish or Abandon it.
	Begin(ctx context.Context, key, payloadHash string, ttl time.Duration) (bool, *IdempotencyRecord, error)
	// Finish stores the final result for the key.
	Finish(ctx context.Context, key string, record *IdempotencyRecord, ttl time.Duration) error
	// Abandon drops a claimed key after a failed operation so the caller can
	// retry.
	Abandon(ctx context.Context, key string) error
}

// IdempotencyRecord is the stored outcome of a mutating call.
type IdempotencyRecord struct {
	PayloadHash string `json:"payload_hash"`
	Response    []byte `json:"response,omitempty"`
	InFlight    bool   `json:"in_flight,omitempty"`
}

// CodeDeliverer sends a one-time code to its destination. The transport
// (email, SMS) is an excluded collaborator.
type CodeDeliverer interface {
	Deliver(ctx context.Context, code, destination string) error
}

// IssueRateLimiter bounds how often challenges may be issued for a subject.
type IssueRateLimiter interface {
	// Allow returns false when the subject has exhausted its window.
	Allow(ctx context.Context, subject string) (bool, error)
}
