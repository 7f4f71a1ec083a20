package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/bankcore/internal/adapter/http/dto"
	"github.com/iho/bankcore/internal/domain"
	"github.com/iho/bankcore/internal/usecase"
)

// ChallengeService defines the behavior needed by ChallengeHandler.
type ChallengeService interface {
	Issue(ctx context.Context, input usecase.IssueInput) (*domain.Challenge, error)
	Verify(ctx context.Context, challengeID, suppliedCode string) error
}

// ChallengeHandler handles authorization challenge HTTP requests.
type ChallengeHandler struct {
	challenges ChallengeService
}

// NewChallengeHandler creates a new ChallengeHandler.
func NewChallengeHandler(challenges ChallengeService) *ChallengeHandler {
	return &ChallengeHandler{challenges: challenges}
}

// Issue creates a challenge and triggers code delivery.
func (h *ChallengeHandler) Issue(w http.ResponseWriter, r *http.Request) {
	var req dto.IssueChallengeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	challenge, err := h.challenges.Issue(r.Context(), req.ToUseCaseInput())
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to issue challenge", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.ChallengeFromDomain(challenge))
}

// Verify checks a supplied code against a challenge.
func (h *ChallengeHandler) Verify(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing challenge ID", "")
		return
	}

	var req dto.VerifyChallengeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.challenges.Verify(r.Context(), id, req.Code); err != nil {
		status := mapDomainError(err)
		writeError(w, status, "challenge verification failed", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "verified"})
}
