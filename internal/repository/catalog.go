package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shakehq/milkshake-api/internal/domain/catalog"
)

const (
	catalogColumns = `id, name, category, price, description, active, created_at, updated_at`

	listLookupsSQL = `SELECT ` + catalogColumns + ` FROM lookups WHERE active ORDER BY category, name`

	listLookupsByCategorySQL = `SELECT ` + catalogColumns + ` FROM lookups
		WHERE active AND category = $1 ORDER BY name`

	getLookupSQL = `SELECT ` + catalogColumns + ` FROM lookups WHERE id = $1`

	getActiveLookupSQL = `SELECT ` + catalogColumns + ` FROM lookups WHERE id = $1 AND active`

	existsActiveLookupNameSQL = `SELECT EXISTS (
		SELECT 1 FROM lookups WHERE category = $1 AND lower(name) = lower($2) AND active)`

	insertLookupSQL = `INSERT INTO lookups (name, category, price, description, active)
		VALUES ($1, $2, $3, $4, TRUE)
		RETURNING id, created_at, updated_at`

	updateLookupSQL = `UPDATE lookups
		SET name = $2, price = $3, description = $4, updated_at = now()
		WHERE id = $1 AND active`

	deactivateLookupSQL = `UPDATE lookups SET active = FALSE, updated_at = now() WHERE id = $1`
)

var _ catalog.Repository = (*CatalogRepository)(nil)

// CatalogRepository implements catalog.Repository backed by PostgreSQL.
type CatalogRepository struct {
	pool *pgxpool.Pool
}

// NewCatalogRepository returns a CatalogRepository that uses the given pool.
func NewCatalogRepository(pool *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

// List returns all active catalog items.
func (r *CatalogRepository) List(ctx context.Context) ([]catalog.Item, error) {
	rows, err := r.pool.Query(ctx, listLookupsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing catalog items: %w", err)
	}
	return pgx.CollectRows(rows, scanCatalogItem)
}

// ListByCategory returns active items of one category.
func (r *CatalogRepository) ListByCategory(ctx context.Context, c catalog.Category) ([]catalog.Item, error) {
	rows, err := r.pool.Query(ctx, listLookupsByCategorySQL, string(c))
	if err != nil {
		return nil, fmt.Errorf("listing %s items: %w", c, err)
	}
	return pgx.CollectRows(rows, scanCatalogItem)
}

// Get returns the item regardless of active state.
func (r *CatalogRepository) Get(ctx context.Context, id int64) (*catalog.Item, error) {
	return r.getOne(ctx, getLookupSQL, id)
}

// GetActive returns the item only when it exists and is active.
func (r *CatalogRepository) GetActive(ctx context.Context, id int64) (*catalog.Item, error) {
	return r.getOne(ctx, getActiveLookupSQL, id)
}

func (r *CatalogRepository) getOne(ctx context.Context, sql string, id int64) (*catalog.Item, error) {
	rows, err := r.pool.Query(ctx, sql, id)
	if err != nil {
		return nil, fmt.Errorf("getting catalog item %d: %w", id, err)
	}
	item, err := pgx.CollectExactlyOneRow(rows, scanCatalogItem)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrNotFound
		}
		return nil, fmt.Errorf("getting catalog item %d: %w", id, err)
	}
	return &item, nil
}

// ExistsActiveName reports whether an active item with the name exists in the
// category (case-insensitive).
func (r *CatalogRepository) ExistsActiveName(ctx context.Context, c catalog.Category, name string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, existsActiveLookupNameSQL, string(c), name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking catalog name %q: %w", name, err)
	}
	return exists, nil
}

// Create persists a new catalog item and fills in generated fields.
func (r *CatalogRepository) Create(ctx context.Context, item *catalog.Item) error {
	err := r.pool.QueryRow(ctx, insertLookupSQL,
		item.Name, string(item.Category), item.Price, item.Description,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating catalog item %q: %w", item.Name, err)
	}
	item.Active = true
	return nil
}

// Update persists name, price and description edits.
func (r *CatalogRepository) Update(ctx context.Context, item *catalog.Item) error {
	tag, err := r.pool.Exec(ctx, updateLookupSQL,
		item.ID, item.Name, item.Price, item.Description,
	)
	if err != nil {
		return fmt.Errorf("updating catalog item %d: %w", item.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

// Deactivate soft-deletes the item.
func (r *CatalogRepository) Deactivate(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, deactivateLookupSQL, id)
	if err != nil {
		return fmt.Errorf("deactivating catalog item %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

func scanCatalogItem(row pgx.CollectableRow) (catalog.Item, error) {
	var (
		item     catalog.Item
		category string
	)
	err := row.Scan(
		&item.ID, &item.Name, &category, &item.Price, &item.Description,
		&item.Active, &item.CreatedAt, &item.UpdatedAt,
	)
	item.Category = catalog.Category(category)
	return item, err
}
