package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/iho/bankcore/internal/adapter/http/dto"
	"github.com/iho/bankcore/internal/domain"
	"github.com/iho/bankcore/internal/usecase"
)

type verificationServiceStub struct {
	verifyFn func(ctx context.Context, accountNumber string) (*usecase.VerificationResult, error)
}

func (s *verificationServiceStub) Verify(ctx context.Context, accountNumber string) (*usecase.VerificationResult, error) {
	return s.verifyFn(ctx, accountNumber)
}

func newVerificationRouter(h *VerificationHandler) http.Handler {
	r := chi.NewRouter()
	r.Get("/verification/{number}", h.Verify)
	return r
}

func TestVerificationHandler_Verify_Success(t *testing.T) {
	handler := NewVerificationHandler(&verificationServiceStub{
		verifyFn: func(ctx context.Context, accountNumber string) (*usecase.VerificationResult, error) {
			if accountNumber != "ACC-0001" {
				t.Fatalf("expected ACC-0001, got %s", accountNumber)
			}
			return &usecase.VerificationResult{
				AccountID:   "acc-1",
				AccountType: domain.AccountTypeCurrent,
				Status:      domain.AccountStatusActive,
			}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/verification/ACC-0001", nil)
	rec := httptest.NewRecorder()

	newVerificationRouter(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.VerificationResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.AccountID != "acc-1" || resp.Status != "active" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestVerificationHandler_Verify_UnknownNumber(t *testing.T) {
	handler := NewVerificationHandler(&verificationServiceStub{
		verifyFn: func(ctx context.Context, accountNumber string) (*usecase.VerificationResult, error) {
			return nil, domain.ErrAccountNotFound
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/verification/ACC-9999", nil)
	rec := httptest.NewRecorder()

	newVerificationRouter(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
