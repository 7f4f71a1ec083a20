package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Posting is one signed leg of a committed transaction. A transfer writes
// two postings that sum to zero; a deposit or withdrawal writes one posting
// against the customer account. Postings carry the balance snapshot and the
// account version they produced, so balance history can be replayed and the
// ledger checked for conservation.
type Posting struct {
	ID              string
	TransactionID   string
	AccountID       string
	Amount          decimal.Decimal
	PreviousBalance decimal.Decimal
	CurrentBalance  decimal.Decimal
	AccountVersion  int64
	CreatedAt       time.Time
}
