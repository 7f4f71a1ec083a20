package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestAccount_ValidateDebit(t *testing.T) {
	tests := []struct {
		name        string
		balance     decimal.Decimal
		debitAmount decimal.Decimal
		overdraft   bool
		status      AccountStatus
		wantErr     error
	}{
		{
			name:        "overdraft allowed - debit more than balance",
			balance:     decimal.NewFromInt(100),
			overdraft:   true,
			status:      AccountStatusActive,
			debitAmount: decimal.NewFromInt(150),
		},
		{
			name:        "no overdraft - debit more than balance",
			balance:     decimal.NewFromInt(100),
			status:      AccountStatusActive,
			debitAmount: decimal.NewFromInt(150),
			wantErr:     ErrInsufficientFunds,
		},
		{
			name:        "no overdraft - debit exact balance",
			balance:     decimal.NewFromInt(100),
			status:      AccountStatusActive,
			debitAmount: decimal.NewFromInt(100),
		},
		{
			name:        "no overdraft - debit less than balance",
			balance:     decimal.NewFromInt(100),
			status:      AccountStatusActive,
			debitAmount: decimal.NewFromInt(50),
		},
		{
			name:        "frozen account rejects debit",
			balance:     decimal.NewFromInt(100),
			status:      AccountStatusFrozen,
			debitAmount: decimal.NewFromInt(10),
			wantErr:     ErrAccountNotActive,
		},
		{
			name:        "closed account rejects debit",
			balance:     decimal.NewFromInt(100),
			status:      AccountStatusClosed,
			debitAmount: decimal.NewFromInt(10),
			wantErr:     ErrAccountNotActive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := &Account{
				Balance:        tt.balance,
				AllowOverdraft: tt.overdraft,
				Status:         tt.status,
			}

			err := acc.ValidateDebit(tt.debitAmount)

			if tt.wantErr == nil && err != nil {
				t.Errorf("unexpected error: %v", err)
			}

			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestAccount_ValidateCredit(t *testing.T) {
	acc := &Account{Status: AccountStatusFrozen}
	if err := acc.ValidateCredit(decimal.NewFromInt(10)); !errors.Is(err, ErrAccountNotActive) {
		t.Errorf("expected ErrAccountNotActive, got %v", err)
	}

	acc.Status = AccountStatusActive
	if err := acc.ValidateCredit(decimal.NewFromInt(10)); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAccount_ApplyDebitCredit(t *testing.T) {
	acc := &Account{Balance: decimal.NewFromInt(100)}

	if got := acc.ApplyDebit(decimal.NewFromInt(40)); !got.Equal(decimal.NewFromInt(60)) {
		t.Errorf("ApplyDebit = %s, want 60", got)
	}

	if got := acc.ApplyCredit(decimal.NewFromInt(40)); !got.Equal(decimal.NewFromInt(140)) {
		t.Errorf("ApplyCredit = %s, want 140", got)
	}
}
