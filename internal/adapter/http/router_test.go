package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/iho/bankcore/internal/adapter/http/handler"
	"github.com/iho/bankcore/internal/domain"
	"github.com/iho/bankcore/internal/usecase"
)

type registryStub struct{}

func (registryStub) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return &domain.Account{ID: id, Status: domain.AccountStatusActive}, nil
}

func (registryStub) ListAccounts(ctx context.Context, input usecase.ListAccountsInput) ([]*domain.Account, error) {
	return nil, nil
}

type movementStub struct{}

func (movementStub) Deposit(ctx context.Context, input usecase.DepositInput) (*usecase.MovementResult, error) {
	return &usecase.MovementResult{TransactionID: "txn-1"}, nil
}

func (movementStub) Withdraw(ctx context.Context, input usecase.WithdrawInput) (*usecase.MovementResult, error) {
	return &usecase.MovementResult{TransactionID: "txn-1"}, nil
}

func (movementStub) ListTransactionsByAccount(ctx context.Context, input usecase.ListTransactionsByAccountInput) ([]*domain.Transaction, error) {
	return nil, nil
}

type transferStub struct{}

func (transferStub) Transfer(ctx context.Context, input usecase.TransferInput) (*usecase.TransferResult, error) {
	return &usecase.TransferResult{TransactionID: "txn-1"}, nil
}

func (transferStub) GetTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	return &domain.Transaction{ID: id}, nil
}

type cardStub struct{}

func (cardStub) GetCard(ctx context.Context, id string) (*domain.Card, error) {
	return &domain.Card{ID: id}, nil
}

func (cardStub) SetCardLimits(ctx context.Context, input usecase.SetCardLimitsInput) (*domain.Card, error) {
	return &domain.Card{ID: input.CardID}, nil
}

type challengeStub struct{}

func (challengeStub) Issue(ctx context.Context, input usecase.IssueInput) (*domain.Challenge, error) {
	return &domain.Challenge{ID: "ch-1", OperationRef: input.OperationRef}, nil
}

func (challengeStub) Verify(ctx context.Context, challengeID, suppliedCode string) error {
	return nil
}

type verificationStub struct{}

func (verificationStub) Verify(ctx context.Context, accountNumber string) (*usecase.VerificationResult, error) {
	return &usecase.VerificationResult{AccountID: "acc-1"}, nil
}

type sweepStub struct{}

func (sweepStub) Sweep(ctx context.Context, now time.Time) (*usecase.SweepResult, error) {
	return &usecase.SweepResult{}, nil
}

func (sweepStub) CheckConsistency(ctx context.Context) (*usecase.ConsistencyResult, error) {
	return &usecase.ConsistencyResult{Consistent: true}, nil
}

func newTestRouter() http.Handler {
	return NewRouter(RouterConfig{
		AccountHandler:      handler.NewAccountHandler(registryStub{}, movementStub{}),
		TransferHandler:     handler.NewTransferHandler(transferStub{}),
		CardHandler:         handler.NewCardHandler(cardStub{}),
		ChallengeHandler:    handler.NewChallengeHandler(challengeStub{}),
		VerificationHandler: handler.NewVerificationHandler(verificationStub{}),
		LedgerHandler:       handler.NewLedgerHandler(sweepStub{}),
		HealthHandler:       handler.NewHealthHandler(nil, nil),
	})
}

func TestRouter_Routes(t *testing.T) {
	router := newTestRouter()

	tests := []struct {
		method   string
		path     string
		expected int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodGet, "/api/v1/accounts/acc-1", http.StatusOK},
		{http.MethodGet, "/api/v1/accounts/acc-1/transactions", http.StatusOK},
		{http.MethodGet, "/api/v1/transfers/txn-1", http.StatusOK},
		{http.MethodGet, "/api/v1/cards/card-1", http.StatusOK},
		{http.MethodGet, "/api/v1/verification/ACC-0001", http.StatusOK},
		{http.MethodGet, "/api/v1/ledger/consistency", http.StatusOK},
		{http.MethodPost, "/api/v1/ledger/sweep", http.StatusOK},
		{http.MethodGet, "/api/v1/nope", http.StatusNotFound},
		{http.MethodDelete, "/api/v1/accounts/acc-1", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, tt.path, nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		if rec.Code != tt.expected {
			t.Errorf("%s %s: expected %d, got %d", tt.method, tt.path, tt.expected, rec.Code)
		}
	}
}
