package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/iho/bankcore/internal/domain"
	"github.com/iho/bankcore/internal/usecase"
	"github.com/iho/bankcore/internal/usecase/mocks"
)

func newVerificationFixture() (*mocks.MockAccountRepository, *usecase.VerificationUseCase) {
	repo := mocks.NewMockAccountRepository()
	registry := usecase.NewRegistryUseCase(repo)
	uc := usecase.NewVerificationUseCase(registry, mocks.NewMockCache(), usecase.VerificationConfig{})
	return repo, uc
}

func TestVerificationUseCase_Verify(t *testing.T) {
	repo, uc := newVerificationFixture()
	repo.Seed(&domain.Account{
		ID:      "acc-1",
		OwnerID: "user-1",
		Number:  "1000000001",
		Type:    domain.AccountTypeSavings,
		Status:  domain.AccountStatusActive,
	})

	result, err := uc.Verify(context.Background(), "1000000001")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}

	if result.AccountID != "acc-1" {
		t.Errorf("account ID = %s, want acc-1", result.AccountID)
	}
	if result.AccountType != domain.AccountTypeSavings {
		t.Errorf("account type = %s, want savings", result.AccountType)
	}
	if result.Status != domain.AccountStatusActive {
		t.Errorf("status = %s, want active", result.Status)
	}
}

func TestVerificationUseCase_UniformNotFound(t *testing.T) {
	repo, uc := newVerificationFixture()
	repo.Seed(&domain.Account{ID: "acc-closed", Number: "1000000002", Status: domain.AccountStatusClosed})

	// Unknown and closed numbers are indistinguishable to the caller.
	for _, number := range []string{"9999999999", "1000000002", "not-a-number"} {
		if _, err := uc.Verify(context.Background(), number); !errors.Is(err, domain.ErrAccountNotFound) {
			t.Errorf("Verify(%q) error = %v, want ErrAccountNotFound", number, err)
		}
	}
}

func TestVerificationUseCase_MalformedNumberSkipsRegistry(t *testing.T) {
	repo, uc := newVerificationFixture()
	repo.GetByNumberFunc = func(ctx context.Context, number string) (*domain.Account, error) {
		t.Errorf("registry hit for malformed number %q", number)
		return nil, domain.ErrAccountNotFound
	}

	for _, number := range []string{"", "abc", "123", "12345678901234567890123"} {
		if _, err := uc.Verify(context.Background(), number); !errors.Is(err, domain.ErrAccountNotFound) {
			t.Errorf("Verify(%q) error = %v, want ErrAccountNotFound", number, err)
		}
	}
}

func TestVerificationUseCase_CachedLookup(t *testing.T) {
	repo, uc := newVerificationFixture()
	repo.Seed(&domain.Account{ID: "acc-1", Number: "1000000001", Status: domain.AccountStatusActive})

	if _, err := uc.Verify(context.Background(), "1000000001"); err != nil {
		t.Fatalf("prime cache: %v", err)
	}

	// Second lookup is served from cache even if the registry read fails.
	repo.GetByNumberFunc = func(ctx context.Context, number string) (*domain.Account, error) {
		t.Error("registry hit on cached lookup")
		return nil, domain.ErrAccountNotFound
	}

	result, err := uc.Verify(context.Background(), "1000000001")
	if err != nil {
		t.Fatalf("cached verify: %v", err)
	}
	if result.AccountID != "acc-1" {
		t.Errorf("account ID = %s, want acc-1", result.AccountID)
	}
}
