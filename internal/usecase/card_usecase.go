package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bankcore/internal/domain"
)

// CardUseCase handles card maintenance: today only the limit ceilings.
type CardUseCase struct {
	cardRepo  CardRepository
	auditRepo AuditRepository
	idGen     IDGenerator
}

// NewCardUseCase creates a new CardUseCase.
func NewCardUseCase(cardRepo CardRepository, auditRepo AuditRepository, idGen IDGenerator) *CardUseCase {
	return &CardUseCase{
		cardRepo:  cardRepo,
		auditRepo: auditRepo,
		idGen:     idGen,
	}
}

// GetCard retrieves a card by ID.
func (uc *CardUseCase) GetCard(ctx context.Context, id string) (*domain.Card, error) {
	return uc.cardRepo.GetByID(ctx, id)
}

// SetCardLimitsInput represents input for updating card limits.
type SetCardLimitsInput struct {
	CardID        string
	DailyLimit    decimal.Decimal
	SpendingLimit decimal.Decimal
}

// SetCardLimits updates a card's daily and monthly ceilings. New ceilings
// apply to the next reservation check; in-flight reservations are unaffected.
func (uc *CardUseCase) SetCardLimits(ctx context.Context, input SetCardLimitsInput) (*domain.Card, error) {
	card, err := uc.cardRepo.GetByID(ctx, input.CardID)
	if err != nil {
		return nil, err
	}

	if err := card.ValidateLimits(input.DailyLimit, input.SpendingLimit); err != nil {
		return nil, err
	}

	before := domain.MarshalState(card)

	updated, err := uc.cardRepo.UpdateLimits(ctx, input.CardID, input.DailyLimit, input.SpendingLimit, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if uc.auditRepo != nil {
		callerID := "system"
		if caller, ok := domain.CallerFromContext(ctx); ok {
			callerID = caller.ID
		}

		_ = uc.auditRepo.Create(ctx, &domain.AuditLog{
			ID:           uc.idGen.Generate(),
			CallerID:     callerID,
			Action:       string(domain.AuditActionCardLimits),
			ResourceType: "card",
			ResourceID:   card.ID,
			BeforeState:  before,
			AfterState:   domain.MarshalState(updated),
			Status:       string(domain.AuditStatusSuccess),
			CreatedAt:    time.Now().UTC(),
		})
	}

	return updated, nil
}
