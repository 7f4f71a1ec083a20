package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/iho/bankcore/internal/usecase"
)

// SweepService defines the behavior needed by LedgerHandler.
type SweepService interface {
	Sweep(ctx context.Context, now time.Time) (*usecase.SweepResult, error)
	CheckConsistency(ctx context.Context) (*usecase.ConsistencyResult, error)
}

// LedgerHandler exposes operational ledger checks.
type LedgerHandler struct {
	sweep SweepService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(sweep SweepService) *LedgerHandler {
	return &LedgerHandler{sweep: sweep}
}

// Consistency verifies double-entry conservation across all transfers.
func (h *LedgerHandler) Consistency(w http.ResponseWriter, r *http.Request) {
	result, err := h.sweep.CheckConsistency(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "consistency check failed", err.Error())
		return
	}

	status := "ok"
	if !result.Consistent {
		status = "inconsistent"
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"consistent":  result.Consistent,
		"posting_sum": result.PostingSum,
		"status":      status,
	})
}

// Sweep triggers one reconciliation pass.
func (h *LedgerHandler) Sweep(w http.ResponseWriter, r *http.Request) {
	result, err := h.sweep.Sweep(r.Context(), time.Now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "sweep failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"failed_transactions":   result.FailedTransactions,
		"released_reservations": result.ReleasedReservations,
		"purged_challenges":     result.PurgedChallenges,
	})
}
