package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shakehq/milkshake-api/internal/domain/restaurant"
)

const (
	restaurantColumns = `id, name, address, phone_number, opening_time, closing_time,
		active, created_at, updated_at`

	listActiveRestaurantsSQL = `SELECT ` + restaurantColumns + ` FROM restaurants
		WHERE active ORDER BY name`

	getRestaurantSQL = `SELECT ` + restaurantColumns + ` FROM restaurants WHERE id = $1`

	insertRestaurantSQL = `INSERT INTO restaurants (name, address, phone_number, opening_time, closing_time, active)
		VALUES ($1, $2, $3, $4, $5, TRUE)
		RETURNING id, created_at, updated_at`

	updateRestaurantSQL = `UPDATE restaurants
		SET name = $2, address = $3, phone_number = $4, opening_time = $5, closing_time = $6, updated_at = now()
		WHERE id = $1`
)

var _ restaurant.Repository = (*RestaurantRepository)(nil)

// RestaurantRepository implements restaurant.Repository backed by PostgreSQL.
type RestaurantRepository struct {
	pool *pgxpool.Pool
}

// NewRestaurantRepository returns a RestaurantRepository that uses the given pool.
func NewRestaurantRepository(pool *pgxpool.Pool) *RestaurantRepository {
	return &RestaurantRepository{pool: pool}
}

// ListActive returns active restaurants ordered by name.
func (r *RestaurantRepository) ListActive(ctx context.Context) ([]restaurant.Restaurant, error) {
	rows, err := r.pool.Query(ctx, listActiveRestaurantsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing restaurants: %w", err)
	}
	return pgx.CollectRows(rows, scanRestaurant)
}

// GetByID returns a restaurant by id regardless of active state.
func (r *RestaurantRepository) GetByID(ctx context.Context, id int64) (*restaurant.Restaurant, error) {
	rows, err := r.pool.Query(ctx, getRestaurantSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting restaurant %d: %w", id, err)
	}
	rest, err := pgx.CollectExactlyOneRow(rows, scanRestaurant)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, restaurant.ErrNotFound
		}
		return nil, fmt.Errorf("getting restaurant %d: %w", id, err)
	}
	return &rest, nil
}

// Create persists a new restaurant and fills in generated fields.
func (r *RestaurantRepository) Create(ctx context.Context, rest *restaurant.Restaurant) error {
	err := r.pool.QueryRow(ctx, insertRestaurantSQL,
		rest.Name, rest.Address, rest.PhoneNumber,
		int16(rest.OpeningTime), int16(rest.ClosingTime),
	).Scan(&rest.ID, &rest.CreatedAt, &rest.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating restaurant %q: %w", rest.Name, err)
	}
	rest.Active = true
	return nil
}

// Update persists restaurant edits.
func (r *RestaurantRepository) Update(ctx context.Context, rest *restaurant.Restaurant) error {
	tag, err := r.pool.Exec(ctx, updateRestaurantSQL,
		rest.ID, rest.Name, rest.Address, rest.PhoneNumber,
		int16(rest.OpeningTime), int16(rest.ClosingTime),
	)
	if err != nil {
		return fmt.Errorf("updating restaurant %d: %w", rest.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return restaurant.ErrNotFound
	}
	return nil
}

func scanRestaurant(row pgx.CollectableRow) (restaurant.Restaurant, error) {
	var (
		rest             restaurant.Restaurant
		opening, closing int16
	)
	err := row.Scan(
		&rest.ID, &rest.Name, &rest.Address, &rest.PhoneNumber,
		&opening, &closing, &rest.Active, &rest.CreatedAt, &rest.UpdatedAt,
	)
	rest.OpeningTime = restaurant.Minutes(opening)
	rest.ClosingTime = restaurant.Minutes(closing)
	return rest, err
}
