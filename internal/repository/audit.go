package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shakehq/milkshake-api/internal/domain/audit"
)

const (
	insertAuditSQL = `INSERT INTO audit_log (user_id, entity_type, entity_id, action, field_changed, old_value, new_value)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''))`

	recentAuditSQL = `SELECT id, user_id, entity_type, entity_id, action,
			COALESCE(field_changed, ''), COALESCE(old_value, ''), COALESCE(new_value, ''), created_at
		FROM audit_log ORDER BY created_at DESC, id DESC LIMIT $1`
)

var _ audit.Repository = (*AuditRepository)(nil)

// AuditRepository implements audit.Repository backed by PostgreSQL.
type AuditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository returns an AuditRepository that uses the given pool.
func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

// Insert persists one audit record.
func (r *AuditRepository) Insert(ctx context.Context, c audit.Change) error {
	_, err := r.pool.Exec(ctx, insertAuditSQL,
		c.UserID, c.EntityType, c.EntityID, c.Action, c.Field, c.OldValue, c.NewValue,
	)
	if err != nil {
		return fmt.Errorf("inserting audit record: %w", err)
	}
	return nil
}

// Recent returns the newest audit entries, newest first.
func (r *AuditRepository) Recent(ctx context.Context, limit int) ([]audit.Entry, error) {
	rows, err := r.pool.Query(ctx, recentAuditSQL, limit)
	if err != nil {
		return nil, fmt.Errorf("listing audit entries: %w", err)
	}
	return pgx.CollectRows(rows, scanAuditEntry)
}

func scanAuditEntry(row pgx.CollectableRow) (audit.Entry, error) {
	var e audit.Entry
	err := row.Scan(
		&e.ID, &e.UserID, &e.EntityType, &e.EntityID, &e.Action,
		&e.Field, &e.OldValue, &e.NewValue, &e.CreatedAt,
	)
	return e, err
}
