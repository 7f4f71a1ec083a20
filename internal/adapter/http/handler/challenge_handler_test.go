package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iho/bankcore/internal/adapter/http/dto"
	"github.com/iho/bankcore/internal/domain"
	"github.com/iho/bankcore/internal/usecase"
)

type challengeServiceStub struct {
	issueFn  func(ctx context.Context, input usecase.IssueInput) (*domain.Challenge, error)
	verifyFn func(ctx context.Context, challengeID, suppliedCode string) error
}

func (s *challengeServiceStub) Issue(ctx context.Context, input usecase.IssueInput) (*domain.Challenge, error) {
	return s.issueFn(ctx, input)
}

func (s *challengeServiceStub) Verify(ctx context.Context, challengeID, suppliedCode string) error {
	return s.verifyFn(ctx, challengeID, suppliedCode)
}

func newChallengeRouter(h *ChallengeHandler) http.Handler {
	r := chi.NewRouter()
	r.Post("/challenges", h.Issue)
	r.Post("/challenges/{id}/verify", h.Verify)
	return r
}

func TestChallengeHandler_Issue_Success(t *testing.T) {
	handler := NewChallengeHandler(&challengeServiceStub{
		issueFn: func(ctx context.Context, input usecase.IssueInput) (*domain.Challenge, error) {
			if input.OperationRef != "transfer:acc-1:acc-2:75" {
				t.Fatalf("unexpected operation ref: %s", input.OperationRef)
			}
			return &domain.Challenge{
				ID:           "ch-1",
				OperationRef: input.OperationRef,
				CodeHash:     "secret-hash",
				Status:       domain.ChallengeStatusIssued,
				MaxAttempts:  3,
				ExpiresAt:    time.Now().Add(5 * time.Minute),
			}, nil
		},
	})

	body, _ := json.Marshal(dto.IssueChallengeRequest{
		OperationRef: "transfer:acc-1:acc-2:75",
		Destination:  "+15550100",
	})

	req := httptest.NewRequest(http.MethodPost, "/challenges", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	newChallengeRouter(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.ChallengeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != "ch-1" {
		t.Fatalf("expected ch-1, got %s", resp.ID)
	}
	if bytes.Contains(rec.Body.Bytes(), []byte("secret-hash")) {
		t.Fatal("code hash must not leak into the response")
	}
}

func TestChallengeHandler_Issue_RateLimited(t *testing.T) {
	handler := NewChallengeHandler(&challengeServiceStub{
		issueFn: func(ctx context.Context, input usecase.IssueInput) (*domain.Challenge, error) {
			return nil, domain.ErrRateLimited
		},
	})

	body, _ := json.Marshal(dto.IssueChallengeRequest{OperationRef: "transfer:a:b:1"})
	req := httptest.NewRequest(http.MethodPost, "/challenges", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	newChallengeRouter(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
}

func TestChallengeHandler_Verify(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"correct code", nil, http.StatusOK},
		{"wrong code", domain.ErrInvalidCode, http.StatusForbidden},
		{"expired", domain.ErrChallengeExpired, http.StatusForbidden},
		{"unknown challenge", domain.ErrChallengeNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			handler := NewChallengeHandler(&challengeServiceStub{
				verifyFn: func(ctx context.Context, challengeID, suppliedCode string) error {
					if challengeID != "ch-1" || suppliedCode != "123456" {
						t.Fatalf("unexpected args: %s %s", challengeID, suppliedCode)
					}
					return tt.err
				},
			})

			body, _ := json.Marshal(dto.VerifyChallengeRequest{Code: "123456"})
			req := httptest.NewRequest(http.MethodPost, "/challenges/ch-1/verify", bytes.NewReader(body))
			rec := httptest.NewRecorder()

			newChallengeRouter(handler).ServeHTTP(rec, req)

			if rec.Code != tt.expected {
				t.Fatalf("expected %d, got %d", tt.expected, rec.Code)
			}
		})
	}
}
