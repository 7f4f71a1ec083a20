package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/bankcore/internal/domain"
	"github.com/iho/bankcore/internal/usecase"
)

// ReservationRepository implements usecase.ReservationRepository.
type ReservationRepository struct {
	pool *pgxpool.Pool
}

// NewReservationRepository creates a new ReservationRepository.
func NewReservationRepository(pool *pgxpool.Pool) *ReservationRepository {
	return &ReservationRepository{pool: pool}
}

const reservationColumns = `id, card_id, amount, status, transaction_id, expires_at, created_at, updated_at`

// Create inserts a reservation inside the caller's transaction.
func (r *ReservationRepository) Create(ctx context.Context, tx usecase.Transaction, reservation *domain.Reservation) error {
	_, err := txQuerier(tx).Exec(ctx, `
		INSERT INTO limit_reservations (`+reservationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		reservation.ID,
		reservation.CardID,
		decimalToNumeric(reservation.Amount),
		string(reservation.Status),
		reservation.TransactionID,
		timeToPgTimestamptz(reservation.ExpiresAt),
		timeToPgTimestamptz(reservation.CreatedAt),
		timeToPgTimestamptz(reservation.UpdatedAt),
	)

	return err
}

// GetByID retrieves a reservation by ID.
func (r *ReservationRepository) GetByID(ctx context.Context, id string) (*domain.Reservation, error) {
	return scanReservation(r.pool.QueryRow(ctx, `
		SELECT `+reservationColumns+` FROM limit_reservations WHERE id = $1`, id))
}

// GetByIDForUpdate retrieves a reservation with a FOR UPDATE lock.
func (r *ReservationRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Reservation, error) {
	return scanReservation(txQuerier(tx).QueryRow(ctx, `
		SELECT `+reservationColumns+` FROM limit_reservations WHERE id = $1 FOR UPDATE`, id))
}

// UpdateStatus transitions a reservation inside the caller's transaction.
func (r *ReservationRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.ReservationStatus, transactionID *string, updatedAt time.Time) error {
	tag, err := txQuerier(tx).Exec(ctx, `
		UPDATE limit_reservations
		SET status = $1, transaction_id = $2, updated_at = $3
		WHERE id = $4`,
		string(status),
		transactionID,
		timeToPgTimestamptz(updatedAt),
		id,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrReservationNotFound
	}

	return nil
}

// WindowSpend sums a card's spend inside [since, now]: reservations
// committed in the window plus active ones that have not expired. The query
// runs under the card's row lock so concurrent checks see each other.
func (r *ReservationRepository) WindowSpend(ctx context.Context, tx usecase.Transaction, cardID string, since, now time.Time) (decimal.Decimal, error) {
	var sum pgtype.Numeric

	err := txQuerier(tx).QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0)
		FROM limit_reservations
		WHERE card_id = $1
		  AND (
			(status = $2 AND created_at >= $3)
			OR (status = $4 AND expires_at >= $5)
		  )`,
		cardID,
		string(domain.ReservationStatusCommitted),
		timeToPgTimestamptz(since),
		string(domain.ReservationStatusActive),
		timeToPgTimestamptz(now),
	).Scan(&sum)
	if err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(sum), nil
}

// ReleaseExpired releases active reservations past their expiry.
func (r *ReservationRepository) ReleaseExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE limit_reservations
		SET status = $1, updated_at = $2
		WHERE status = $3 AND expires_at < $2`,
		string(domain.ReservationStatusReleased),
		timeToPgTimestamptz(now),
		string(domain.ReservationStatusActive),
	)
	if err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}

func scanReservation(row pgx.Row) (*domain.Reservation, error) {
	var (
		reservation      domain.Reservation
		status           string
		amount           pgtype.Numeric
		expires          pgtype.Timestamptz
		created, updated pgtype.Timestamptz
	)

	if err := row.Scan(
		&reservation.ID,
		&reservation.CardID,
		&amount,
		&status,
		&reservation.TransactionID,
		&expires,
		&created,
		&updated,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrReservationNotFound
		}

		return nil, err
	}

	reservation.Status = domain.ReservationStatus(status)
	reservation.Amount = numericToDecimal(amount)
	reservation.ExpiresAt = expires.Time
	reservation.CreatedAt = created.Time
	reservation.UpdatedAt = updated.Time

	return &reservation, nil
}
