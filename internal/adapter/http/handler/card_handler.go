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

// CardService defines the behavior needed by CardHandler.
type CardService interface {
	GetCard(ctx context.Context, id string) (*domain.Card, error)
	SetCardLimits(ctx context.Context, input usecase.SetCardLimitsInput) (*domain.Card, error)
}

// CardHandler handles card-related HTTP requests.
type CardHandler struct {
	cards CardService
}

// NewCardHandler creates a new CardHandler.
func NewCardHandler(cards CardService) *CardHandler {
	return &CardHandler{cards: cards}
}

// Get retrieves a card by ID.
func (h *CardHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing card ID", "")
		return
	}

	card, err := h.cards.GetCard(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get card", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.CardFromDomain(card))
}

// SetLimits updates a card's spending ceilings.
func (h *CardHandler) SetLimits(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing card ID", "")
		return
	}

	var req dto.SetCardLimitsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	card, err := h.cards.SetCardLimits(r.Context(), req.ToUseCaseInput(id))
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to update card limits", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.CardFromDomain(card))
}
