package domain

import "time"

// Event types
const (
	EventTypeTransactionCommitted = "transaction.committed"
	EventTypeTransactionFailed    = "transaction.failed"
)

// Aggregate types
const (
	AggregateTypeTransaction = "transaction"
)

// OutboxEvent is appended inside the same storage transaction as the state
// change it describes, then published asynchronously.
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// TransactionCommittedEvent payload
type TransactionCommittedEvent struct {
	TransactionID        string  `json:"transaction_id"`
	Kind                 string  `json:"kind"`
	SourceAccountID      *string `json:"source_account_id,omitempty"`
	DestinationAccountID *string `json:"destination_account_id,omitempty"`
	Amount               string  `json:"amount"`
}
