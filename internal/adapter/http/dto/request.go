package dto

import (
	"github.com/iho/bankcore/internal/usecase"
	"github.com/shopspring/decimal"
)

// DepositRequest represents a request to credit an account.
type DepositRequest struct {
	Amount         decimal.Decimal `json:"amount"`
	Description    string          `json:"description,omitempty"`
	IdempotencyKey string          `json:"idempotency_key"`
}

// ToUseCaseInput converts to use case input.
func (r *DepositRequest) ToUseCaseInput(accountID string) usecase.DepositInput {
	return usecase.DepositInput{
		AccountID:      accountID,
		Amount:         r.Amount,
		Description:    r.Description,
		IdempotencyKey: r.IdempotencyKey,
	}
}

// WithdrawRequest represents a request to debit an account.
type WithdrawRequest struct {
	Amount         decimal.Decimal `json:"amount"`
	Description    string          `json:"description,omitempty"`
	IdempotencyKey string          `json:"idempotency_key"`
}

// ToUseCaseInput converts to use case input.
func (r *WithdrawRequest) ToUseCaseInput(accountID string) usecase.WithdrawInput {
	return usecase.WithdrawInput{
		AccountID:      accountID,
		Amount:         r.Amount,
		Description:    r.Description,
		IdempotencyKey: r.IdempotencyKey,
	}
}

// CreateTransferRequest represents a request to move funds between accounts.
type CreateTransferRequest struct {
	FromAccountID  string          `json:"from_account_id"`
	ToAccountID    string          `json:"to_account_id"`
	Amount         decimal.Decimal `json:"amount"`
	Description    string          `json:"description,omitempty"`
	IdempotencyKey string          `json:"idempotency_key"`
	CardID         string          `json:"card_id,omitempty"`
	ChallengeID    string          `json:"challenge_id,omitempty"`
	Code           string          `json:"code,omitempty"`
	External       bool            `json:"external,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateTransferRequest) ToUseCaseInput() usecase.TransferInput {
	return usecase.TransferInput{
		FromAccountID:  r.FromAccountID,
		ToAccountID:    r.ToAccountID,
		Amount:         r.Amount,
		Description:    r.Description,
		IdempotencyKey: r.IdempotencyKey,
		CardID:         r.CardID,
		ChallengeID:    r.ChallengeID,
		Code:           r.Code,
		External:       r.External,
	}
}

// SetCardLimitsRequest represents a request to update card ceilings.
type SetCardLimitsRequest struct {
	DailyLimit    decimal.Decimal `json:"daily_limit"`
	SpendingLimit decimal.Decimal `json:"spending_limit"`
}

// ToUseCaseInput converts to use case input.
func (r *SetCardLimitsRequest) ToUseCaseInput(cardID string) usecase.SetCardLimitsInput {
	return usecase.SetCardLimitsInput{
		CardID:        cardID,
		DailyLimit:    r.DailyLimit,
		SpendingLimit: r.SpendingLimit,
	}
}

// IssueChallengeRequest represents a request to issue an authorization code.
type IssueChallengeRequest struct {
	OperationRef string `json:"operation_ref"`
	Destination  string `json:"destination"`
}

// ToUseCaseInput converts to use case input.
func (r *IssueChallengeRequest) ToUseCaseInput() usecase.IssueInput {
	return usecase.IssueInput{
		OperationRef: r.OperationRef,
		Destination:  r.Destination,
	}
}

// VerifyChallengeRequest carries the code supplied for a challenge.
type VerifyChallengeRequest struct {
	Code string `json:"code"`
}
