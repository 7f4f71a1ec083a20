package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrAmountTooLarge      = errors.New("amount exceeds maximum allowed")
	ErrAmountTooSmall      = errors.New("amount below minimum allowed")
	ErrDescriptionTooLong  = errors.New("description exceeds length limit")
	ErrInvalidIdempotency  = errors.New("invalid idempotency key")
	ErrInvalidOperationRef = errors.New("invalid operation reference")
)

// Validation constants
const (
	MaxDescriptionLength = 255
	MaxTransferAmount    = "1000000000" // 1 billion
	MinTransferAmount    = "0.01"
	MaxIdempotencyKeyLen = 128
	MaxOperationRefLen   = 255
)

// Account numbers are 10-18 digit public identifiers. The verification
// service deliberately does NOT distinguish "bad format" from "not found",
// so a failed format check surfaces as a plain lookup miss.
var accountNumberRegex = regexp.MustCompile(`^[0-9]{10,18}$`)

// ValidAccountNumberFormat reports whether a number is syntactically
// plausible. Never surface the result to external callers.
func ValidAccountNumberFormat(number string) bool {
	return accountNumberRegex.MatchString(strings.TrimSpace(number))
}

// ValidateAmount validates a transaction amount against global bounds.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	minAmount, _ := decimal.NewFromString(MinTransferAmount)
	if amount.LessThan(minAmount) {
		return fmt.Errorf("%w: minimum amount is %s", ErrAmountTooSmall, MinTransferAmount)
	}

	maxAmount, _ := decimal.NewFromString(MaxTransferAmount)
	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxTransferAmount)
	}

	return nil
}

// ValidateDescription validates a transaction description.
func ValidateDescription(description string) error {
	if len(description) > MaxDescriptionLength {
		return fmt.Errorf("%w: limit is %d characters", ErrDescriptionTooLong, MaxDescriptionLength)
	}
	return nil
}

// ValidateIdempotencyKey validates a caller-supplied idempotency key.
func ValidateIdempotencyKey(key string) error {
	if key == "" || len(key) > MaxIdempotencyKeyLen {
		return ErrInvalidIdempotency
	}
	return nil
}

// ValidateOperationRef validates an authorization operation reference.
func ValidateOperationRef(ref string) error {
	if strings.TrimSpace(ref) == "" || len(ref) > MaxOperationRefLen {
		return ErrInvalidOperationRef
	}
	return nil
}

// ValidatePagination validates and limits pagination parameters.
func ValidatePagination(limit, offset int) (int, int) {
	const MaxPageSize = 1000
	const DefaultPageSize = 50

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
