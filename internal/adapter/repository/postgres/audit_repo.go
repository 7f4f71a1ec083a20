package postgres

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/bankcore/internal/domain"
	"github.com/iho/bankcore/internal/usecase"
)

// AuditRepository implements usecase.AuditRepository.
type AuditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

const auditColumns = `id, caller_id, action, resource_type, resource_id, request_id, before_state, after_state, status, error_message, created_at`

// Create appends an audit log entry.
func (r *AuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	return r.create(ctx, r.pool, log)
}

// CreateTx appends an audit log entry inside the caller's transaction.
func (r *AuditRepository) CreateTx(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error {
	return r.create(ctx, txQuerier(tx), log)
}

func (r *AuditRepository) create(ctx context.Context, q querier, log *domain.AuditLog) error {
	before, err := marshalJSON(log.BeforeState)
	if err != nil {
		return err
	}
	after, err := marshalJSON(log.AfterState)
	if err != nil {
		return err
	}

	_, err = q.Exec(ctx, `
		INSERT INTO audit_logs (`+auditColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		log.ID,
		log.CallerID,
		log.Action,
		log.ResourceType,
		log.ResourceID,
		log.RequestID,
		before,
		after,
		log.Status,
		log.ErrorMessage,
		timeToPgTimestamptz(log.CreatedAt),
	)

	return err
}

// List queries audit logs with optional filters.
func (r *AuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	var (
		conds []string
		args  []any
	)

	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, strings.Replace(cond, "?", placeholder(len(args)), 1))
	}

	if filter.CallerID != "" {
		add("caller_id = ?", filter.CallerID)
	}
	if filter.Action != "" {
		add("action = ?", filter.Action)
	}
	if filter.ResourceType != "" {
		add("resource_type = ?", filter.ResourceType)
	}
	if filter.ResourceID != "" {
		add("resource_id = ?", filter.ResourceID)
	}
	if filter.StartDate != nil {
		add("created_at >= ?", timeToPgTimestamptz(*filter.StartDate))
	}
	if filter.EndDate != nil {
		add("created_at <= ?", timeToPgTimestamptz(*filter.EndDate))
	}

	query := `SELECT ` + auditColumns + ` FROM audit_logs`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	limit, offset := domain.ValidatePagination(filter.Limit, filter.Offset)
	args = append(args, limit)
	query += " ORDER BY created_at DESC LIMIT " + placeholder(len(args))
	args = append(args, offset)
	query += " OFFSET " + placeholder(len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectAuditLogs(rows)
}

func placeholder(n int) string {
	return "$" + strconv.Itoa(n)
}

func collectAuditLogs(rows pgx.Rows) ([]*domain.AuditLog, error) {
	var logs []*domain.AuditLog

	for rows.Next() {
		var (
			log           domain.AuditLog
			before, after []byte
			created       pgtype.Timestamptz
		)

		if err := rows.Scan(
			&log.ID,
			&log.CallerID,
			&log.Action,
			&log.ResourceType,
			&log.ResourceID,
			&log.RequestID,
			&before,
			&after,
			&log.Status,
			&log.ErrorMessage,
			&created,
		); err != nil {
			return nil, err
		}

		if len(before) > 0 {
			_ = json.Unmarshal(before, &log.BeforeState)
		}
		if len(after) > 0 {
			_ = json.Unmarshal(after, &log.AfterState)
		}
		log.CreatedAt = created.Time

		logs = append(logs, &log)
	}

	return logs, rows.Err()
}

func marshalJSON(state domain.JSON) ([]byte, error) {
	if state == nil {
		return nil, nil
	}
	return json.Marshal(state)
}
