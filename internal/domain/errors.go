package domain

import "errors"

var (
	// Account errors
	ErrAccountNotFound   = errors.New("account not found")
	ErrAccountNotActive  = errors.New("account is not active")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrVersionConflict   = errors.New("account version conflict")

	// Transaction errors
	ErrSameAccount         = errors.New("cannot transfer to same account")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrIdempotencyMismatch = errors.New("idempotency key reused with different payload")

	// Card and limit errors
	ErrCardNotFound         = errors.New("card not found")
	ErrCardNotActive        = errors.New("card is not active")
	ErrDailyLimitExceeded   = errors.New("daily spending limit exceeded")
	ErrMonthlyLimitExceeded = errors.New("monthly spending limit exceeded")
	ErrReservationNotFound  = errors.New("limit reservation not found")
	ErrReservationNotActive = errors.New("limit reservation is not active")

	// Authorization gate errors. ErrInvalidCode covers both a wrong code and
	// an unknown challenge so callers cannot probe for challenge existence.
	ErrInvalidCode       = errors.New("invalid authorization code")
	ErrChallengeExpired  = errors.New("authorization challenge expired")
	ErrChallengeConsumed = errors.New("authorization challenge already consumed")
	ErrChallengeNotFound = errors.New("authorization challenge not found")
	ErrChallengeFailed   = errors.New("authorization challenge invalidated")
	ErrChallengeNotBound = errors.New("challenge bound to a different operation")
	ErrUnauthorized      = errors.New("operation not authorized")
	ErrRateLimited       = errors.New("too many challenge requests")

	// Infrastructure errors
	ErrFatal = errors.New("storage failure")
)
