package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shakehq/milkshake-api/internal/runtimeconfig"
)

const (
	configColumns = `id, key, value, description, data_type, updated_at`

	listConfigsSQL = `SELECT ` + configColumns + ` FROM configurations ORDER BY key`

	getConfigByKeySQL = `SELECT ` + configColumns + ` FROM configurations WHERE key = $1`

	updateConfigValueSQL = `UPDATE configurations
		SET value = $2, updated_at = now(), updated_by = $3
		WHERE key = $1`
)

var _ runtimeconfig.Repository = (*ConfigRepository)(nil)

// ConfigRepository implements runtimeconfig.Repository backed by PostgreSQL.
type ConfigRepository struct {
	pool *pgxpool.Pool
}

// NewConfigRepository returns a ConfigRepository that uses the given pool.
func NewConfigRepository(pool *pgxpool.Pool) *ConfigRepository {
	return &ConfigRepository{pool: pool}
}

// List returns all configuration entries ordered by key.
func (r *ConfigRepository) List(ctx context.Context) ([]runtimeconfig.Entry, error) {
	rows, err := r.pool.Query(ctx, listConfigsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing configurations: %w", err)
	}
	return pgx.CollectRows(rows, scanConfigEntry)
}

// GetByKey returns one configuration entry.
func (r *ConfigRepository) GetByKey(ctx context.Context, key string) (*runtimeconfig.Entry, error) {
	rows, err := r.pool.Query(ctx, getConfigByKeySQL, key)
	if err != nil {
		return nil, fmt.Errorf("getting configuration %q: %w", key, err)
	}
	e, err := pgx.CollectExactlyOneRow(rows, scanConfigEntry)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, runtimeconfig.ErrNotFound
		}
		return nil, fmt.Errorf("getting configuration %q: %w", key, err)
	}
	return &e, nil
}

// UpdateValue stores a new raw value for the key.
func (r *ConfigRepository) UpdateValue(ctx context.Context, key, value string, updatedBy int64) error {
	tag, err := r.pool.Exec(ctx, updateConfigValueSQL, key, value, updatedBy)
	if err != nil {
		return fmt.Errorf("updating configuration %q: %w", key, err)
	}
	if tag.RowsAffected() == 0 {
		return runtimeconfig.ErrNotFound
	}
	return nil
}

func scanConfigEntry(row pgx.CollectableRow) (runtimeconfig.Entry, error) {
	var e runtimeconfig.Entry
	err := row.Scan(&e.ID, &e.Key, &e.Value, &e.Description, &e.DataType, &e.UpdatedAt)
	return e, err
}
