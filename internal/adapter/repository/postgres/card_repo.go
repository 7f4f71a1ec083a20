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

// CardRepository implements usecase.CardRepository.
type CardRepository struct {
	pool *pgxpool.Pool
}

// NewCardRepository creates a new CardRepository.
func NewCardRepository(pool *pgxpool.Pool) *CardRepository {
	return &CardRepository{pool: pool}
}

const cardColumns = `id, account_id, type, cardholder_name, spending_limit, daily_limit, status, created_at, updated_at`

// Create creates a new card.
func (r *CardRepository) Create(ctx context.Context, card *domain.Card) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO cards (`+cardColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		card.ID,
		card.AccountID,
		string(card.Type),
		card.CardholderName,
		decimalToNumeric(card.SpendingLimit),
		decimalToNumeric(card.DailyLimit),
		string(card.Status),
		timeToPgTimestamptz(card.CreatedAt),
		timeToPgTimestamptz(card.UpdatedAt),
	)

	return err
}

// GetByID retrieves a card by ID.
func (r *CardRepository) GetByID(ctx context.Context, id string) (*domain.Card, error) {
	return scanCard(r.pool.QueryRow(ctx, `
		SELECT `+cardColumns+` FROM cards WHERE id = $1`, id))
}

// GetByIDForUpdate retrieves a card by ID with a FOR UPDATE lock. The lock
// serializes concurrent limit checks against the same card.
func (r *CardRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Card, error) {
	return scanCard(txQuerier(tx).QueryRow(ctx, `
		SELECT `+cardColumns+` FROM cards WHERE id = $1 FOR UPDATE`, id))
}

// UpdateLimits writes new limit ceilings and returns the updated card.
func (r *CardRepository) UpdateLimits(ctx context.Context, id string, daily, monthly decimal.Decimal, updatedAt time.Time) (*domain.Card, error) {
	return scanCard(r.pool.QueryRow(ctx, `
		UPDATE cards
		SET daily_limit = $1, spending_limit = $2, updated_at = $3
		WHERE id = $4
		RETURNING `+cardColumns,
		decimalToNumeric(daily),
		decimalToNumeric(monthly),
		timeToPgTimestamptz(updatedAt),
		id,
	))
}

func scanCard(row pgx.Row) (*domain.Card, error) {
	var (
		card             domain.Card
		cardType, status string
		spending, daily  pgtype.Numeric
		created, updated pgtype.Timestamptz
	)

	if err := row.Scan(
		&card.ID,
		&card.AccountID,
		&cardType,
		&card.CardholderName,
		&spending,
		&daily,
		&status,
		&created,
		&updated,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCardNotFound
		}

		return nil, err
	}

	card.Type = domain.CardType(cardType)
	card.Status = domain.CardStatus(status)
	card.SpendingLimit = numericToDecimal(spending)
	card.DailyLimit = numericToDecimal(daily)
	card.CreatedAt = created.Time
	card.UpdatedAt = updated.Time

	return &card, nil
}
