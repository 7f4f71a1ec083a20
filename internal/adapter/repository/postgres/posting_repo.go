package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/bankcore/internal/domain"
	"github.com/iho/bankcore/internal/usecase"
)

// PostingRepository implements usecase.PostingRepository.
type PostingRepository struct {
	pool *pgxpool.Pool
}

// NewPostingRepository creates a new PostingRepository.
func NewPostingRepository(pool *pgxpool.Pool) *PostingRepository {
	return &PostingRepository{pool: pool}
}

const postingColumns = `id, transaction_id, account_id, amount, previous_balance, current_balance, account_version, created_at`

// Create appends a posting inside the caller's transaction. Postings are
// immutable; there is no update path.
func (r *PostingRepository) Create(ctx context.Context, tx usecase.Transaction, posting *domain.Posting) error {
	_, err := txQuerier(tx).Exec(ctx, `
		INSERT INTO postings (`+postingColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		posting.ID,
		posting.TransactionID,
		posting.AccountID,
		decimalToNumeric(posting.Amount),
		decimalToNumeric(posting.PreviousBalance),
		decimalToNumeric(posting.CurrentBalance),
		posting.AccountVersion,
		timeToPgTimestamptz(posting.CreatedAt),
	)

	return err
}

// ListByTransaction lists the postings of one transaction.
func (r *PostingRepository) ListByTransaction(ctx context.Context, transactionID string) ([]*domain.Posting, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+postingColumns+` FROM postings
		WHERE transaction_id = $1
		ORDER BY created_at, id`, transactionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectPostings(rows)
}

// ListByAccount lists an account's postings, newest first.
func (r *PostingRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Posting, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+postingColumns+` FROM postings
		WHERE account_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`, accountID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectPostings(rows)
}

func collectPostings(rows pgx.Rows) ([]*domain.Posting, error) {
	var postings []*domain.Posting

	for rows.Next() {
		var (
			posting            domain.Posting
			amount, prev, curr pgtype.Numeric
			created            pgtype.Timestamptz
		)

		if err := rows.Scan(
			&posting.ID,
			&posting.TransactionID,
			&posting.AccountID,
			&amount,
			&prev,
			&curr,
			&posting.AccountVersion,
			&created,
		); err != nil {
			return nil, err
		}

		posting.Amount = numericToDecimal(amount)
		posting.PreviousBalance = numericToDecimal(prev)
		posting.CurrentBalance = numericToDecimal(curr)
		posting.CreatedAt = created.Time

		postings = append(postings, &posting)
	}

	return postings, rows.Err()
}

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	pool *pgxpool.Pool
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{pool: pool}
}

// PostingSum sums all transfer posting amounts. Deposits and withdrawals
// post a single signed leg, so only transfer legs are expected to cancel.
func (r *LedgerRepository) PostingSum(ctx context.Context) (decimal.Decimal, error) {
	var sum pgtype.Numeric

	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(p.amount), 0)
		FROM postings p
		JOIN transactions t ON t.id = p.transaction_id
		WHERE t.kind = $1`, string(domain.TransactionKindTransfer)).Scan(&sum)
	if err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(sum), nil
}
