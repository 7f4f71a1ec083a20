package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReservationStatus enumerates limit reservation states.
type ReservationStatus string

const (
	ReservationStatusActive    ReservationStatus = "active"
	ReservationStatusCommitted ReservationStatus = "committed"
	ReservationStatusReleased  ReservationStatus = "released"
)

// Reservation holds card-limit headroom for an in-flight spend. An active
// reservation counts against the card's rolling windows until it is
// committed, released, or expires.
type Reservation struct {
	ID            string
	CardID        string
	Amount        decimal.Decimal
	Status        ReservationStatus
	TransactionID *string
	ExpiresAt     time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Expired reports whether the reservation's hold on headroom has lapsed.
func (r *Reservation) Expired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}
