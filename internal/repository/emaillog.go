package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shakehq/milkshake-api/internal/notify"
)

const insertEmailLogSQL = `INSERT INTO email_log (recipient, subject, body, status)
	VALUES ($1, $2, $3, $4)`

var _ notify.EmailLogRepository = (*EmailLogRepository)(nil)

// EmailLogRepository implements notify.EmailLogRepository backed by PostgreSQL.
type EmailLogRepository struct {
	pool *pgxpool.Pool
}

// NewEmailLogRepository returns an EmailLogRepository that uses the given pool.
func NewEmailLogRepository(pool *pgxpool.Pool) *EmailLogRepository {
	return &EmailLogRepository{pool: pool}
}

// Insert records one attempted email.
func (r *EmailLogRepository) Insert(ctx context.Context, recipient, subject, body, status string) error {
	if _, err := r.pool.Exec(ctx, insertEmailLogSQL, recipient, subject, body, status); err != nil {
		return fmt.Errorf("inserting email log: %w", err)
	}
	return nil
}
