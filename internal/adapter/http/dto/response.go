package dto

import (
	"time"

	"github.com/iho/bankcore/internal/domain"
	"github.com/iho/bankcore/internal/usecase"
	"github.com/shopspring/decimal"
)

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID             string          `json:"id"`
	OwnerID        string          `json:"owner_id"`
	Number         string          `json:"number"`
	Type           string          `json:"type"`
	Balance        decimal.Decimal `json:"balance"`
	Version        int64           `json:"version"`
	AllowOverdraft bool            `json:"allow_overdraft"`
	Status         string          `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// AccountFromDomain converts a domain account to a response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:             a.ID,
		OwnerID:        a.OwnerID,
		Number:         a.Number,
		Type:           string(a.Type),
		Balance:        a.Balance,
		Version:        a.Version,
		AllowOverdraft: a.AllowOverdraft,
		Status:         string(a.Status),
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// ListAccountsResponse wraps a page of accounts.
type ListAccountsResponse struct {
	Accounts []*AccountResponse `json:"accounts"`
	Total    int64              `json:"total"`
}

// MovementResponse represents the outcome of a deposit or withdrawal.
type MovementResponse struct {
	TransactionID string          `json:"transaction_id"`
	Balance       decimal.Decimal `json:"balance"`
}

// MovementFromResult converts a movement result to a response.
func MovementFromResult(r *usecase.MovementResult) *MovementResponse {
	return &MovementResponse{
		TransactionID: r.TransactionID,
		Balance:       r.NewBalance,
	}
}

// TransferResponse represents a committed transfer.
type TransferResponse struct {
	TransactionID string `json:"transaction_id"`
}

// TransactionResponse represents a transaction record.
type TransactionResponse struct {
	ID                   string          `json:"id"`
	Kind                 string          `json:"kind"`
	SourceAccountID      *string         `json:"source_account_id,omitempty"`
	DestinationAccountID *string         `json:"destination_account_id,omitempty"`
	Amount               decimal.Decimal `json:"amount"`
	Description          string          `json:"description,omitempty"`
	Status               string          `json:"status"`
	CreatedAt            time.Time       `json:"created_at"`
	CommittedAt          *time.Time      `json:"committed_at,omitempty"`
}

// TransactionFromDomain converts a domain transaction to a response.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:                   t.ID,
		Kind:                 string(t.Kind),
		SourceAccountID:      t.SourceAccountID,
		DestinationAccountID: t.DestinationAccountID,
		Amount:               t.Amount,
		Description:          t.Description,
		Status:               string(t.Status),
		CreatedAt:            t.CreatedAt,
		CommittedAt:          t.CommittedAt,
	}
}

// TransactionsFromDomain converts domain transactions to responses.
func TransactionsFromDomain(txns []*domain.Transaction) []*TransactionResponse {
	result := make([]*TransactionResponse, len(txns))
	for i, t := range txns {
		result[i] = TransactionFromDomain(t)
	}
	return result
}

// CardResponse represents a card in API responses.
type CardResponse struct {
	ID             string          `json:"id"`
	AccountID      string          `json:"account_id"`
	Type           string          `json:"type"`
	CardholderName string          `json:"cardholder_name"`
	SpendingLimit  decimal.Decimal `json:"spending_limit"`
	DailyLimit     decimal.Decimal `json:"daily_limit"`
	Status         string          `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// CardFromDomain converts a domain card to a response.
func CardFromDomain(c *domain.Card) *CardResponse {
	return &CardResponse{
		ID:             c.ID,
		AccountID:      c.AccountID,
		Type:           string(c.Type),
		CardholderName: c.CardholderName,
		SpendingLimit:  c.SpendingLimit,
		DailyLimit:     c.DailyLimit,
		Status:         string(c.Status),
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

// ChallengeResponse represents an issued challenge. The code itself is
// delivered out of band and never appears here.
type ChallengeResponse struct {
	ID           string    `json:"id"`
	OperationRef string    `json:"operation_ref"`
	Status       string    `json:"status"`
	MaxAttempts  int       `json:"max_attempts"`
	ExpiresAt    time.Time `json:"expires_at"`
	CreatedAt    time.Time `json:"created_at"`
}

// ChallengeFromDomain converts a domain challenge to a response.
func ChallengeFromDomain(c *domain.Challenge) *ChallengeResponse {
	return &ChallengeResponse{
		ID:           c.ID,
		OperationRef: c.OperationRef,
		Status:       string(c.Status),
		MaxAttempts:  c.MaxAttempts,
		ExpiresAt:    c.ExpiresAt,
		CreatedAt:    c.CreatedAt,
	}
}

// VerificationResponse is the minimal counterparty disclosure.
type VerificationResponse struct {
	AccountID   string `json:"account_id"`
	AccountType string `json:"account_type"`
	Status      string `json:"status"`
}

// VerificationFromResult converts a verification result to a response.
func VerificationFromResult(r *usecase.VerificationResult) *VerificationResponse {
	return &VerificationResponse{
		AccountID:   r.AccountID,
		AccountType: string(r.AccountType),
		Status:      string(r.Status),
	}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
