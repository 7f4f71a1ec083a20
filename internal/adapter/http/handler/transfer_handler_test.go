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

type transferServiceStub struct {
	transferFn func(ctx context.Context, input usecase.TransferInput) (*usecase.TransferResult, error)
	getFn      func(ctx context.Context, id string) (*domain.Transaction, error)
}

func (s *transferServiceStub) Transfer(ctx context.Context, input usecase.TransferInput) (*usecase.TransferResult, error) {
	return s.transferFn(ctx, input)
}

func (s *transferServiceStub) GetTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	return s.getFn(ctx, id)
}

func newTransferRouter(h *TransferHandler) http.Handler {
	r := chi.NewRouter()
	r.Post("/transfers", h.Create)
	r.Get("/transfers/{id}", h.Get)
	return r
}

func TestTransferHandler_Create_Success(t *testing.T) {
	var captured usecase.TransferInput
	handler := NewTransferHandler(&transferServiceStub{
		transferFn: func(ctx context.Context, input usecase.TransferInput) (*usecase.TransferResult, error) {
			captured = input
			return &usecase.TransferResult{TransactionID: "txn-9"}, nil
		},
	})

	body, _ := json.Marshal(dto.CreateTransferRequest{
		FromAccountID:  "acc-1",
		ToAccountID:    "acc-2",
		Amount:         decimal.NewFromInt(75),
		IdempotencyKey: "tr-1",
		CardID:         "card-1",
		ChallengeID:    "ch-1",
		Code:           "123456",
		External:       true,
	})

	req := httptest.NewRequest(http.MethodPost, "/transfers", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	newTransferRouter(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	if captured.FromAccountID != "acc-1" || captured.ToAccountID != "acc-2" {
		t.Fatalf("expected accounts to pass through, got %+v", captured)
	}
	if captured.CardID != "card-1" || captured.ChallengeID != "ch-1" || captured.Code != "123456" || !captured.External {
		t.Fatalf("expected authorization fields to pass through, got %+v", captured)
	}

	var resp dto.TransferResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.TransactionID != "txn-9" {
		t.Fatalf("expected txn-9, got %s", resp.TransactionID)
	}
}

func TestTransferHandler_Create_DomainErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"same account", domain.ErrSameAccount, http.StatusBadRequest},
		{"insufficient funds", domain.ErrInsufficientFunds, http.StatusPaymentRequired},
		{"ungated external", domain.ErrUnauthorized, http.StatusForbidden},
		{"challenge bound elsewhere", domain.ErrChallengeNotBound, http.StatusForbidden},
		{"daily limit", domain.ErrDailyLimitExceeded, http.StatusForbidden},
		{"idempotency mismatch", domain.ErrIdempotencyMismatch, http.StatusConflict},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			handler := NewTransferHandler(&transferServiceStub{
				transferFn: func(ctx context.Context, input usecase.TransferInput) (*usecase.TransferResult, error) {
					return nil, tt.err
				},
			})

			body, _ := json.Marshal(dto.CreateTransferRequest{
				FromAccountID:  "acc-1",
				ToAccountID:    "acc-2",
				Amount:         decimal.NewFromInt(10),
				IdempotencyKey: "tr-err",
			})

			req := httptest.NewRequest(http.MethodPost, "/transfers", bytes.NewReader(body))
			rec := httptest.NewRecorder()

			newTransferRouter(handler).ServeHTTP(rec, req)

			if rec.Code != tt.expected {
				t.Fatalf("expected %d, got %d", tt.expected, rec.Code)
			}
		})
	}
}

func TestTransferHandler_Get_Success(t *testing.T) {
	src, dst := "acc-1", "acc-2"
	handler := NewTransferHandler(&transferServiceStub{
		getFn: func(ctx context.Context, id string) (*domain.Transaction, error) {
			return &domain.Transaction{
				ID:                   id,
				Kind:                 domain.TransactionKindTransfer,
				SourceAccountID:      &src,
				DestinationAccountID: &dst,
				Amount:               decimal.NewFromInt(75),
				Status:               domain.TransactionStatusCommitted,
			}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/transfers/txn-9", nil)
	rec := httptest.NewRecorder()

	newTransferRouter(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.TransactionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != "txn-9" || resp.Kind != "transfer" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestTransferHandler_Get_NotFound(t *testing.T) {
	handler := NewTransferHandler(&transferServiceStub{
		getFn: func(ctx context.Context, id string) (*domain.Transaction, error) {
			return nil, domain.ErrTransactionNotFound
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/transfers/missing", nil)
	rec := httptest.NewRecorder()

	newTransferRouter(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
