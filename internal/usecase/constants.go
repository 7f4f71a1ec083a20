package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database
	// transaction. Prevents long-running transactions from blocking rows.
	DefaultTransactionTimeout = 10 * time.Second

	// DefaultChallengeTTL is how long an issued challenge stays verifiable.
	DefaultChallengeTTL = 5 * time.Minute

	// DefaultChallengeMaxAttempts bounds mismatched codes before a challenge
	// is permanently invalidated.
	DefaultChallengeMaxAttempts = 3

	// DefaultReservationTTL is how long limit headroom stays reserved for an
	// in-flight spend before it is released back.
	DefaultReservationTTL = 10 * time.Minute

	// DefaultPendingTimeout is how long a transaction record may stay
	// pending before the sweep treats it as failed.
	DefaultPendingTimeout = 15 * time.Minute

	// DailyWindow and MonthlyWindow are the rolling limit windows, measured
	// backward from "now".
	DailyWindow   = 24 * time.Hour
	MonthlyWindow = 30 * 24 * time.Hour

	// IdempotencyKeyTTL is how long idempotency records are kept.
	IdempotencyKeyTTL = 24 * time.Hour

	// MaxConflictRetries bounds internal retries of lost optimistic writes.
	MaxConflictRetries = 3
)
