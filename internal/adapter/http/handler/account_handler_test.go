package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/bankcore/internal/adapter/http/dto"
	"github.com/iho/bankcore/internal/domain"
	"github.com/iho/bankcore/internal/usecase"
)

type registryServiceStub struct {
	getFn  func(ctx context.Context, id string) (*domain.Account, error)
	listFn func(ctx context.Context, input usecase.ListAccountsInput) ([]*domain.Account, error)
}

func (s *registryServiceStub) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return s.getFn(ctx, id)
}

func (s *registryServiceStub) ListAccounts(ctx context.Context, input usecase.ListAccountsInput) ([]*domain.Account, error) {
	return s.listFn(ctx, input)
}

type movementServiceStub struct {
	depositFn  func(ctx context.Context, input usecase.DepositInput) (*usecase.MovementResult, error)
	withdrawFn func(ctx context.Context, input usecase.WithdrawInput) (*usecase.MovementResult, error)
	listFn     func(ctx context.Context, input usecase.ListTransactionsByAccountInput) ([]*domain.Transaction, error)
}

func (s *movementServiceStub) Deposit(ctx context.Context, input usecase.DepositInput) (*usecase.MovementResult, error) {
	return s.depositFn(ctx, input)
}

func (s *movementServiceStub) Withdraw(ctx context.Context, input usecase.WithdrawInput) (*usecase.MovementResult, error) {
	return s.withdrawFn(ctx, input)
}

func (s *movementServiceStub) ListTransactionsByAccount(ctx context.Context, input usecase.ListTransactionsByAccountInput) ([]*domain.Transaction, error) {
	return s.listFn(ctx, input)
}

func newAccountRouter(h *AccountHandler) http.Handler {
	r := chi.NewRouter()
	r.Get("/accounts/{id}", h.Get)
	r.Post("/accounts/{id}/deposit", h.Deposit)
	r.Post("/accounts/{id}/withdraw", h.Withdraw)
	r.Get("/accounts/{id}/transactions", h.ListTransactions)
	return r
}

func TestAccountHandler_Get_Success(t *testing.T) {
	account := &domain.Account{
		ID:      "acc-1",
		Number:  "ACC-0001",
		Type:    domain.AccountTypeCurrent,
		Balance: decimal.NewFromInt(100),
		Status:  domain.AccountStatusActive,
	}

	handler := NewAccountHandler(&registryServiceStub{
		getFn: func(ctx context.Context, id string) (*domain.Account, error) {
			if id != "acc-1" {
				t.Fatalf("expected acc-1, got %s", id)
			}
			return account, nil
		},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/accounts/acc-1", nil)
	rec := httptest.NewRecorder()

	newAccountRouter(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.AccountResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != "acc-1" || resp.Number != "ACC-0001" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestAccountHandler_Get_NotFound(t *testing.T) {
	handler := NewAccountHandler(&registryServiceStub{
		getFn: func(ctx context.Context, id string) (*domain.Account, error) {
			return nil, domain.ErrAccountNotFound
		},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/accounts/missing", nil)
	rec := httptest.NewRecorder()

	newAccountRouter(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestAccountHandler_Deposit_Success(t *testing.T) {
	var captured usecase.DepositInput
	handler := NewAccountHandler(nil, &movementServiceStub{
		depositFn: func(ctx context.Context, input usecase.DepositInput) (*usecase.MovementResult, error) {
			captured = input
			return &usecase.MovementResult{
				TransactionID: "txn-1",
				NewBalance:    decimal.NewFromInt(150),
			}, nil
		},
	})

	body, _ := json.Marshal(dto.DepositRequest{
		Amount:         decimal.NewFromInt(50),
		Description:    "payroll",
		IdempotencyKey: "dep-1",
	})

	req := httptest.NewRequest(http.MethodPost, "/accounts/acc-1/deposit", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	newAccountRouter(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	if captured.AccountID != "acc-1" || !captured.Amount.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("expected input to match request, got %+v", captured)
	}
	if captured.IdempotencyKey != "dep-1" {
		t.Fatalf("expected idempotency key to pass through, got %q", captured.IdempotencyKey)
	}

	var resp dto.MovementResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.TransactionID != "txn-1" || !resp.Balance.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestAccountHandler_Deposit_InvalidJSON(t *testing.T) {
	handler := NewAccountHandler(nil, &movementServiceStub{
		depositFn: func(ctx context.Context, input usecase.DepositInput) (*usecase.MovementResult, error) {
			t.Fatal("Deposit should not be called for invalid payload")
			return nil, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/accounts/acc-1/deposit", bytes.NewBufferString("{invalid json"))
	rec := httptest.NewRecorder()

	newAccountRouter(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAccountHandler_Withdraw_InsufficientFunds(t *testing.T) {
	handler := NewAccountHandler(nil, &movementServiceStub{
		withdrawFn: func(ctx context.Context, input usecase.WithdrawInput) (*usecase.MovementResult, error) {
			return nil, domain.ErrInsufficientFunds
		},
	})

	body, _ := json.Marshal(dto.WithdrawRequest{
		Amount:         decimal.NewFromInt(500),
		IdempotencyKey: "wd-1",
	})

	req := httptest.NewRequest(http.MethodPost, "/accounts/acc-1/withdraw", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	newAccountRouter(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusPaymentRequired {
		t.Fatalf("expected 402, got %d", rec.Code)
	}
}

func TestAccountHandler_ListTransactions(t *testing.T) {
	src := "acc-1"
	handler := NewAccountHandler(nil, &movementServiceStub{
		listFn: func(ctx context.Context, input usecase.ListTransactionsByAccountInput) ([]*domain.Transaction, error) {
			if input.AccountID != "acc-1" || input.Limit != 5 {
				t.Fatalf("unexpected input: %+v", input)
			}
			return []*domain.Transaction{
				{
					ID:              "txn-1",
					Kind:            domain.TransactionKindWithdrawal,
					SourceAccountID: &src,
					Amount:          decimal.NewFromInt(10),
					Status:          domain.TransactionStatusCommitted,
				},
			}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/accounts/acc-1/transactions?limit=5", nil)
	rec := httptest.NewRecorder()

	newAccountRouter(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp []*dto.TransactionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp) != 1 || resp[0].ID != "txn-1" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}
