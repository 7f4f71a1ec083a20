package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bankcore/internal/domain"
)

// RegistryUseCase is the account registry: the only component allowed to
// read and mutate account balances. It does not interpret why a balance
// changes; that is the transfer engine's job.
type RegistryUseCase struct {
	accountRepo AccountRepository
}

// NewRegistryUseCase creates a new RegistryUseCase.
func NewRegistryUseCase(accountRepo AccountRepository) *RegistryUseCase {
	return &RegistryUseCase{accountRepo: accountRepo}
}

// GetAccount retrieves an account by ID. Closed accounts are reported as
// not found so they disappear from the caller's scope.
func (uc *RegistryUseCase) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	account, err := uc.accountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if account.Status == domain.AccountStatusClosed {
		return nil, domain.ErrAccountNotFound
	}

	return account, nil
}

// GetAccountByNumber resolves a public account number. The same not-found
// error is returned whether the number is malformed or simply absent.
func (uc *RegistryUseCase) GetAccountByNumber(ctx context.Context, number string) (*domain.Account, error) {
	account, err := uc.accountRepo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}

	if account.Status == domain.AccountStatusClosed {
		return nil, domain.ErrAccountNotFound
	}

	return account, nil
}

// AdjustBalance applies delta to the account inside the caller's storage
// transaction, guarded by a compare-and-swap on the account version. The
// in-memory account is advanced on success so subsequent adjustments in the
// same unit of work compose. Two concurrent adjustments on one account can
// never both win the version check.
func (uc *RegistryUseCase) AdjustBalance(ctx context.Context, tx Transaction, account *domain.Account, delta decimal.Decimal, now time.Time) (decimal.Decimal, error) {
	if delta.IsNegative() {
		if err := account.ValidateDebit(delta.Neg()); err != nil {
			return decimal.Zero, err
		}
	} else {
		if err := account.ValidateCredit(delta); err != nil {
			return decimal.Zero, err
		}
	}

	newBalance := account.Balance.Add(delta)
	if err := uc.accountRepo.UpdateBalance(ctx, tx, account.ID, newBalance, account.Version, now); err != nil {
		return decimal.Zero, err
	}

	account.Balance = newBalance
	account.Version++

	return newBalance, nil
}

// ListAccountsInput represents input for listing accounts.
type ListAccountsInput struct {
	Limit  int
	Offset int
}

// ListAccounts lists accounts with pagination.
func (uc *RegistryUseCase) ListAccounts(ctx context.Context, input ListAccountsInput) ([]*domain.Account, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)
	return uc.accountRepo.List(ctx, limit, offset)
}
