package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/bankcore/internal/domain"
	"github.com/iho/bankcore/internal/usecase"
	"github.com/iho/bankcore/internal/usecase/mocks"
)

func TestCardUseCase_SetCardLimits(t *testing.T) {
	cards := mocks.NewMockCardRepository()
	cards.Seed(&domain.Card{
		ID:            "card-1",
		AccountID:     "acc-1",
		DailyLimit:    decimal.NewFromInt(1000),
		SpendingLimit: decimal.NewFromInt(20000),
		Status:        domain.CardStatusActive,
	})
	audit := mocks.NewMockAuditRepository()
	uc := usecase.NewCardUseCase(cards, audit, mocks.NewMockIDGenerator())

	updated, err := uc.SetCardLimits(context.Background(), usecase.SetCardLimitsInput{
		CardID:        "card-1",
		DailyLimit:    decimal.NewFromInt(2500),
		SpendingLimit: decimal.NewFromInt(50000),
	})
	if err != nil {
		t.Fatalf("SetCardLimits: %v", err)
	}

	if !updated.DailyLimit.Equal(decimal.NewFromInt(2500)) {
		t.Errorf("daily limit = %s, want 2500", updated.DailyLimit)
	}
	if !updated.SpendingLimit.Equal(decimal.NewFromInt(50000)) {
		t.Errorf("spending limit = %s, want 50000", updated.SpendingLimit)
	}

	logs, err := audit.List(context.Background(), domain.AuditFilter{})
	if err != nil || len(logs) != 1 {
		t.Fatalf("audit logs = %d, want 1 (err %v)", len(logs), err)
	}
	if logs[0].Action != string(domain.AuditActionCardLimits) {
		t.Errorf("audit action = %s, want %s", logs[0].Action, domain.AuditActionCardLimits)
	}
}

func TestCardUseCase_SetCardLimits_Rejections(t *testing.T) {
	cards := mocks.NewMockCardRepository()
	cards.Seed(&domain.Card{ID: "card-1", Status: domain.CardStatusActive})
	uc := usecase.NewCardUseCase(cards, nil, mocks.NewMockIDGenerator())

	tests := []struct {
		name    string
		input   usecase.SetCardLimitsInput
		wantErr error
	}{
		{
			name: "zero daily limit",
			input: usecase.SetCardLimitsInput{
				CardID:        "card-1",
				DailyLimit:    decimal.Zero,
				SpendingLimit: decimal.NewFromInt(100),
			},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name: "negative monthly limit",
			input: usecase.SetCardLimitsInput{
				CardID:        "card-1",
				DailyLimit:    decimal.NewFromInt(100),
				SpendingLimit: decimal.NewFromInt(-1),
			},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name: "unknown card",
			input: usecase.SetCardLimitsInput{
				CardID:        "card-missing",
				DailyLimit:    decimal.NewFromInt(100),
				SpendingLimit: decimal.NewFromInt(100),
			},
			wantErr: domain.ErrCardNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.SetCardLimits(context.Background(), tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("SetCardLimits() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
