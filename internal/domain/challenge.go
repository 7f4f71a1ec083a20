package domain

import "time"

// ChallengeStatus enumerates authorization challenge states.
type ChallengeStatus string

const (
	ChallengeStatusIssued   ChallengeStatus = "issued"
	ChallengeStatusVerified ChallengeStatus = "verified"
	ChallengeStatusConsumed ChallengeStatus = "consumed"
	ChallengeStatusExpired  ChallengeStatus = "expired"
	// ChallengeStatusFailed marks a challenge invalidated by too many
	// mismatched codes; the caller must request a fresh one.
	ChallengeStatusFailed ChallengeStatus = "failed"
)

// Challenge is a single-use authorization gate bound to one operation
// reference, never to a session. Only the hash of the delivered code is
// stored. Legal transitions: issued→verified→consumed, issued→expired,
// issued→failed.
type Challenge struct {
	ID           string
	OperationRef string
	CodeHash     string
	Status       ChallengeStatus
	Attempts     int
	MaxAttempts  int
	ExpiresAt    time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ExpiredAt reports whether the challenge has passed its expiry.
func (c *Challenge) ExpiredAt(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

// ValidateVerify checks that a verification attempt is admissible.
func (c *Challenge) ValidateVerify(now time.Time) error {
	switch c.Status {
	case ChallengeStatusConsumed:
		return ErrChallengeConsumed
	case ChallengeStatusExpired:
		return ErrChallengeExpired
	case ChallengeStatusFailed:
		return ErrChallengeFailed
	case ChallengeStatusVerified:
		// re-verification of a verified challenge is a no-op path
	}

	if c.ExpiredAt(now) {
		return ErrChallengeExpired
	}

	return nil
}

// ValidateConsume checks that the challenge can unlock its operation.
func (c *Challenge) ValidateConsume(now time.Time, operationRef string) error {
	if c.Status == ChallengeStatusConsumed {
		return ErrChallengeConsumed
	}

	if c.Status != ChallengeStatusVerified {
		return ErrUnauthorized
	}

	if c.ExpiredAt(now) {
		return ErrChallengeExpired
	}

	if c.OperationRef != operationRef {
		return ErrChallengeNotBound
	}

	return nil
}
