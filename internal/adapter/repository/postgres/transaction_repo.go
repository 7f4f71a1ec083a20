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

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

const transactionColumns = `id, kind, source_account_id, destination_account_id, amount, description, status, idempotency_key, created_at, committed_at`

// Create inserts a transaction record. Pending records are written outside
// the unit of work that moves money, so a failed movement still leaves a
// failed record behind.
func (r *TransactionRepository) Create(ctx context.Context, txn *domain.Transaction) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO transactions (`+transactionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		txn.ID,
		string(txn.Kind),
		txn.SourceAccountID,
		txn.DestinationAccountID,
		decimalToNumeric(txn.Amount),
		txn.Description,
		string(txn.Status),
		txn.IdempotencyKey,
		timeToPgTimestamptz(txn.CreatedAt),
		timePtrToPgTimestamptz(txn.CommittedAt),
	)

	return err
}

// GetByID retrieves a transaction by ID.
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	txn, err := scanTransaction(r.pool.QueryRow(ctx, `
		SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}

		return nil, err
	}

	return txn, nil
}

// UpdateStatus flips a record's status inside the caller's transaction.
func (r *TransactionRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.TransactionStatus, committedAt *time.Time) error {
	tag, err := txQuerier(tx).Exec(ctx, `
		UPDATE transactions SET status = $1, committed_at = $2 WHERE id = $3`,
		string(status),
		timePtrToPgTimestamptz(committedAt),
		id,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}

	return nil
}

// MarkFailed flips a still-pending record to failed. Runs outside any caller
// transaction so the failure survives the rollback that produced it.
func (r *TransactionRepository) MarkFailed(ctx context.Context, id string, at time.Time) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE transactions SET status = $1
		WHERE id = $2 AND status = $3`,
		string(domain.TransactionStatusFailed),
		id,
		string(domain.TransactionStatusPending),
	)

	return err
}

// FailStalePending fails pending records older than the cutoff.
func (r *TransactionRepository) FailStalePending(ctx context.Context, olderThan time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE transactions SET status = $1
		WHERE status = $2 AND created_at < $3`,
		string(domain.TransactionStatusFailed),
		string(domain.TransactionStatusPending),
		timeToPgTimestamptz(olderThan),
	)
	if err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}

// ListByAccount lists transactions where the account is either leg.
func (r *TransactionRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Transaction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+transactionColumns+` FROM transactions
		WHERE source_account_id = $1 OR destination_account_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, accountID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txns []*domain.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, txn)
	}

	return txns, rows.Err()
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		txn          domain.Transaction
		kind, status string
		amount       pgtype.Numeric
		created      pgtype.Timestamptz
		committed    pgtype.Timestamptz
	)

	if err := row.Scan(
		&txn.ID,
		&kind,
		&txn.SourceAccountID,
		&txn.DestinationAccountID,
		&amount,
		&txn.Description,
		&status,
		&txn.IdempotencyKey,
		&created,
		&committed,
	); err != nil {
		return nil, err
	}

	txn.Kind = domain.TransactionKind(kind)
	txn.Status = domain.TransactionStatus(status)
	txn.Amount = numericToDecimal(amount)
	txn.CreatedAt = created.Time
	txn.CommittedAt = pgTimestamptzToTimePtr(committed)

	return &txn, nil
}
