package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/bankcore/internal/adapter/http/dto"
	"github.com/iho/bankcore/internal/usecase"
)

// VerificationService defines the behavior needed by VerificationHandler.
type VerificationService interface {
	Verify(ctx context.Context, accountNumber string) (*usecase.VerificationResult, error)
}

// VerificationHandler handles counterparty account lookups.
type VerificationHandler struct {
	verification VerificationService
}

// NewVerificationHandler creates a new VerificationHandler.
func NewVerificationHandler(verification VerificationService) *VerificationHandler {
	return &VerificationHandler{verification: verification}
}

// Verify resolves a public account number to its minimal disclosure.
func (h *VerificationHandler) Verify(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")
	if number == "" {
		writeError(w, http.StatusBadRequest, "missing account number", "")
		return
	}

	result, err := h.verification.Verify(r.Context(), number)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "verification failed", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.VerificationFromResult(result))
}
