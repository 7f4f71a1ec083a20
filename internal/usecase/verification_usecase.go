package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/iho/bankcore/internal/domain"
)

// VerificationConfig carries tunables for the verification service.
type VerificationConfig struct {
	CacheTTL time.Duration
}

// VerificationResult is the minimal disclosure for a counterparty lookup:
// enough to confirm existence and eligibility, never balances or owners.
type VerificationResult struct {
	AccountID   string               `json:"account_id"`
	AccountType domain.AccountType   `json:"account_type"`
	Status      domain.AccountStatus `json:"status"`
}

// VerificationUseCase resolves a public account number ahead of an external
// transfer. Read-only by construction; it only sees registry read paths.
type VerificationUseCase struct {
	registry *RegistryUseCase
	cache    Cache
	cfg      VerificationConfig
}

// NewVerificationUseCase creates a new VerificationUseCase.
func NewVerificationUseCase(registry *RegistryUseCase, cache Cache, cfg VerificationConfig) *VerificationUseCase {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Minute
	}

	return &VerificationUseCase{
		registry: registry,
		cache:    cache,
		cfg:      cfg,
	}
}

// Verify resolves an account number. Malformed numbers, unknown numbers and
// closed accounts all fail with the same not-found error.
func (uc *VerificationUseCase) Verify(ctx context.Context, accountNumber string) (*VerificationResult, error) {
	if !domain.ValidAccountNumberFormat(accountNumber) {
		return nil, domain.ErrAccountNotFound
	}

	if uc.cache != nil {
		if raw, err := uc.cache.Get(ctx, cacheKey(accountNumber)); err == nil && raw != "" {
			var result VerificationResult
			if err := json.Unmarshal([]byte(raw), &result); err == nil {
				return &result, nil
			}
		}
	}

	account, err := uc.registry.GetAccountByNumber(ctx, accountNumber)
	if err != nil {
		return nil, err
	}

	result := &VerificationResult{
		AccountID:   account.ID,
		AccountType: account.Type,
		Status:      account.Status,
	}

	if uc.cache != nil {
		if raw, err := json.Marshal(result); err == nil {
			_ = uc.cache.Set(ctx, cacheKey(accountNumber), string(raw), uc.cfg.CacheTTL)
		}
	}

	return result, nil
}

func cacheKey(accountNumber string) string {
	return "verify:" + accountNumber
}
