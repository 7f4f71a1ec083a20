package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind enumerates the money movements the engine performs.
type TransactionKind string

const (
	TransactionKindDeposit    TransactionKind = "deposit"
	TransactionKindWithdrawal TransactionKind = "withdrawal"
	TransactionKindTransfer   TransactionKind = "transfer"
)

// TransactionStatus enumerates transaction lifecycle states.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCommitted TransactionStatus = "committed"
	TransactionStatusFailed    TransactionStatus = "failed"
	TransactionStatusReversed  TransactionStatus = "reversed"
)

// Transaction records one logical money movement. Records are created
// pending, flipped to committed or failed exactly once, and are immutable
// afterwards except for an explicit reversal.
type Transaction struct {
	ID                   string
	Kind                 TransactionKind
	SourceAccountID      *string
	DestinationAccountID *string
	Amount               decimal.Decimal
	Description          string
	Status               TransactionStatus
	IdempotencyKey       string
	CreatedAt            time.Time
	CommittedAt          *time.Time
}

// Validate checks structural invariants of a transaction request.
func (t *Transaction) Validate() error {
	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	if t.Kind == TransactionKindTransfer {
		if t.SourceAccountID == nil || t.DestinationAccountID == nil {
			return ErrAccountNotFound
		}
		if *t.SourceAccountID == *t.DestinationAccountID {
			return ErrSameAccount
		}
	}

	return nil
}
