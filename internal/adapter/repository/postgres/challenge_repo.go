package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/bankcore/internal/domain"
	"github.com/iho/bankcore/internal/usecase"
)

// ChallengeRepository implements usecase.ChallengeRepository.
type ChallengeRepository struct {
	pool *pgxpool.Pool
}

// NewChallengeRepository creates a new ChallengeRepository.
func NewChallengeRepository(pool *pgxpool.Pool) *ChallengeRepository {
	return &ChallengeRepository{pool: pool}
}

const challengeColumns = `id, operation_ref, code_hash, status, attempts, max_attempts, expires_at, created_at, updated_at`

// Create inserts a challenge. Only the code hash is stored.
func (r *ChallengeRepository) Create(ctx context.Context, challenge *domain.Challenge) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO challenges (`+challengeColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		challenge.ID,
		challenge.OperationRef,
		challenge.CodeHash,
		string(challenge.Status),
		challenge.Attempts,
		challenge.MaxAttempts,
		timeToPgTimestamptz(challenge.ExpiresAt),
		timeToPgTimestamptz(challenge.CreatedAt),
		timeToPgTimestamptz(challenge.UpdatedAt),
	)

	return err
}

// GetByID retrieves a challenge by ID.
func (r *ChallengeRepository) GetByID(ctx context.Context, id string) (*domain.Challenge, error) {
	return scanChallenge(r.pool.QueryRow(ctx, `
		SELECT `+challengeColumns+` FROM challenges WHERE id = $1`, id))
}

// GetByIDForUpdate retrieves a challenge with a FOR UPDATE lock. The lock
// serializes verify and consume against double use.
func (r *ChallengeRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Challenge, error) {
	return scanChallenge(txQuerier(tx).QueryRow(ctx, `
		SELECT `+challengeColumns+` FROM challenges WHERE id = $1 FOR UPDATE`, id))
}

// Update writes a challenge's status and attempt count inside the caller's
// transaction.
func (r *ChallengeRepository) Update(ctx context.Context, tx usecase.Transaction, id string, status domain.ChallengeStatus, attempts int, updatedAt time.Time) error {
	tag, err := txQuerier(tx).Exec(ctx, `
		UPDATE challenges
		SET status = $1, attempts = $2, updated_at = $3
		WHERE id = $4`,
		string(status),
		attempts,
		timeToPgTimestamptz(updatedAt),
		id,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrChallengeNotFound
	}

	return nil
}

// DeleteFinished removes consumed, expired and failed challenges last
// touched before the cutoff.
func (r *ChallengeRepository) DeleteFinished(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM challenges
		WHERE status = ANY($1) AND updated_at < $2`,
		[]string{
			string(domain.ChallengeStatusConsumed),
			string(domain.ChallengeStatusExpired),
			string(domain.ChallengeStatusFailed),
		},
		timeToPgTimestamptz(before),
	)
	if err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}

func scanChallenge(row pgx.Row) (*domain.Challenge, error) {
	var (
		challenge        domain.Challenge
		status           string
		expires          pgtype.Timestamptz
		created, updated pgtype.Timestamptz
	)

	if err := row.Scan(
		&challenge.ID,
		&challenge.OperationRef,
		&challenge.CodeHash,
		&status,
		&challenge.Attempts,
		&challenge.MaxAttempts,
		&expires,
		&created,
		&updated,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrChallengeNotFound
		}

		return nil, err
	}

	challenge.Status = domain.ChallengeStatus(status)
	challenge.ExpiresAt = expires.Time
	challenge.CreatedAt = created.Time
	challenge.UpdatedAt = updated.Time

	return &challenge, nil
}
