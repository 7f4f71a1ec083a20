package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType enumerates supported account kinds.
type AccountType string

const (
	AccountTypeSavings AccountType = "savings"
	AccountTypeCurrent AccountType = "current"
)

// AccountStatus enumerates account lifecycle states.
type AccountStatus string

const (
	AccountStatusActive AccountStatus = "active"
	AccountStatusFrozen AccountStatus = "frozen"
	AccountStatusClosed AccountStatus = "closed"
)

// Account is a ledger account. Balance writes are guarded by Version: every
// successful write increments it, and a write against a stale version loses.
type Account struct {
	ID             string
	OwnerID        string
	Number         string
	Type           AccountType
	Balance        decimal.Decimal
	Version        int64
	AllowOverdraft bool
	Status         AccountStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ValidateActive checks that the account can take part in an operation.
func (a *Account) ValidateActive() error {
	if a.Status != AccountStatusActive {
		return ErrAccountNotActive
	}
	return nil
}

// ValidateDebit checks whether amount can be debited from the account.
func (a *Account) ValidateDebit(amount decimal.Decimal) error {
	if err := a.ValidateActive(); err != nil {
		return err
	}
	if !a.AllowOverdraft && a.Balance.LessThan(amount) {
		return ErrInsufficientFunds
	}
	return nil
}

// ValidateCredit checks whether amount can be credited to the account.
func (a *Account) ValidateCredit(amount decimal.Decimal) error {
	return a.ValidateActive()
}

// ApplyDebit returns the balance after debiting amount.
func (a *Account) ApplyDebit(amount decimal.Decimal) decimal.Decimal {
	return a.Balance.Sub(amount)
}

// ApplyCredit returns the balance after crediting amount.
func (a *Account) ApplyCredit(amount decimal.Decimal) decimal.Decimal {
	return a.Balance.Add(amount)
}
