package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shakehq/milkshake-api/internal/domain/discount"
)

const (
	tierColumns = `id, tier_level, tier_name, minimum_orders, minimum_drinks_per_order,
		discount_pct, max_discount_amount, description, active, updated_at`

	listTiersSQL = `SELECT ` + tierColumns + ` FROM discount_tiers ORDER BY tier_level`

	listActiveTiersSQL = `SELECT ` + tierColumns + ` FROM discount_tiers
		WHERE active ORDER BY tier_level`

	getTierSQL = `SELECT ` + tierColumns + ` FROM discount_tiers WHERE id = $1`

	getTierByLevelSQL = `SELECT ` + tierColumns + ` FROM discount_tiers WHERE tier_level = $1`

	updateTierSQL = `UPDATE discount_tiers
		SET minimum_orders = $2, minimum_drinks_per_order = $3, discount_pct = $4,
		    max_discount_amount = $5, description = $6, updated_at = now()
		WHERE id = $1`
)

var _ discount.Repository = (*DiscountTierRepository)(nil)

// DiscountTierRepository implements discount.Repository backed by PostgreSQL.
type DiscountTierRepository struct {
	pool *pgxpool.Pool
}

// NewDiscountTierRepository returns a DiscountTierRepository that uses the given pool.
func NewDiscountTierRepository(pool *pgxpool.Pool) *DiscountTierRepository {
	return &DiscountTierRepository{pool: pool}
}

// List returns all tiers ordered by level.
func (r *DiscountTierRepository) List(ctx context.Context) ([]discount.Tier, error) {
	rows, err := r.pool.Query(ctx, listTiersSQL)
	if err != nil {
		return nil, fmt.Errorf("listing tiers: %w", err)
	}
	return pgx.CollectRows(rows, scanTier)
}

// ListActive returns active tiers ordered by level.
func (r *DiscountTierRepository) ListActive(ctx context.Context) ([]discount.Tier, error) {
	rows, err := r.pool.Query(ctx, listActiveTiersSQL)
	if err != nil {
		return nil, fmt.Errorf("listing active tiers: %w", err)
	}
	return pgx.CollectRows(rows, scanTier)
}

// GetByID returns one tier by primary key.
func (r *DiscountTierRepository) GetByID(ctx context.Context, id int64) (*discount.Tier, error) {
	return r.getOne(ctx, getTierSQL, id)
}

// GetByLevel returns one tier by its unique level.
func (r *DiscountTierRepository) GetByLevel(ctx context.Context, level int) (*discount.Tier, error) {
	return r.getOne(ctx, getTierByLevelSQL, level)
}

func (r *DiscountTierRepository) getOne(ctx context.Context, sql string, arg any) (*discount.Tier, error) {
	rows, err := r.pool.Query(ctx, sql, arg)
	if err != nil {
		return nil, fmt.Errorf("getting tier: %w", err)
	}
	tier, err := pgx.CollectExactlyOneRow(rows, scanTier)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, discount.ErrTierNotFound
		}
		return nil, fmt.Errorf("getting tier: %w", err)
	}
	return &tier, nil
}

// Update persists tier threshold and discount edits.
func (r *DiscountTierRepository) Update(ctx context.Context, t *discount.Tier) error {
	tag, err := r.pool.Exec(ctx, updateTierSQL,
		t.ID, t.MinimumOrders, t.MinimumDrinksPerOrder,
		t.DiscountPct, t.MaxDiscountAmount, t.Description,
	)
	if err != nil {
		return fmt.Errorf("updating tier %d: %w", t.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return discount.ErrTierNotFound
	}
	return nil
}

func scanTier(row pgx.CollectableRow) (discount.Tier, error) {
	var t discount.Tier
	err := row.Scan(
		&t.ID, &t.Level, &t.Name, &t.MinimumOrders, &t.MinimumDrinksPerOrder,
		&t.DiscountPct, &t.MaxDiscountAmount, &t.Description, &t.Active, &t.UpdatedAt,
	)
	return t, err
}
