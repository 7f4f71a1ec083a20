package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CardType enumerates issued card kinds.
type CardType string

const (
	CardTypeDebit  CardType = "debit"
	CardTypeCredit CardType = "credit"
)

// CardStatus enumerates card lifecycle states.
type CardStatus string

const (
	CardStatusActive CardStatus = "active"
	CardStatusFrozen CardStatus = "frozen"
)

// Card is a spend instrument bound to an account. SpendingLimit caps the
// rolling-month spend, DailyLimit the rolling-day spend; both windows slide
// from "now", not from a calendar boundary.
type Card struct {
	ID             string
	AccountID      string
	Type           CardType
	CardholderName string
	SpendingLimit  decimal.Decimal
	DailyLimit     decimal.Decimal
	Status         CardStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ValidateActive checks that the card can authorize spend.
func (c *Card) ValidateActive() error {
	if c.Status != CardStatusActive {
		return ErrCardNotActive
	}
	return nil
}

// ValidateLimits checks a proposed limit update.
func (c *Card) ValidateLimits(daily, monthly decimal.Decimal) error {
	if daily.LessThanOrEqual(decimal.Zero) || monthly.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	return nil
}
