package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shakehq/milkshake-api/internal/domain/customer"
)

const (
	customerColumns = `id, full_name, email, mobile_number, password_hash, role,
		total_completed_orders, total_drinks_purchased, current_discount_tier,
		active, created_at, last_login_at`

	getCustomerSQL = `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`

	getCustomerByEmailSQL = `SELECT ` + customerColumns + ` FROM customers
		WHERE lower(email) = lower($1) AND active`

	customerEmailExistsSQL = `SELECT EXISTS (SELECT 1 FROM customers WHERE lower(email) = lower($1))`

	insertCustomerSQL = `INSERT INTO customers (full_name, email, mobile_number, password_hash, role, active)
		VALUES ($1, $2, $3, $4, $5, TRUE)
		RETURNING id, created_at`

	touchLastLoginSQL = `UPDATE customers SET last_login_at = $2 WHERE id = $1`

	incrementCustomerStatsSQL = `UPDATE customers
		SET total_completed_orders = total_completed_orders + 1,
		    total_drinks_purchased = total_drinks_purchased + $2,
		    current_discount_tier = $3
		WHERE id = $1`
)

var _ customer.Repository = (*CustomerRepository)(nil)

// CustomerRepository implements customer.Repository backed by PostgreSQL.
type CustomerRepository struct {
	pool *pgxpool.Pool
}

// NewCustomerRepository returns a CustomerRepository that uses the given pool.
func NewCustomerRepository(pool *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{pool: pool}
}

// GetByID returns a customer by id.
func (r *CustomerRepository) GetByID(ctx context.Context, id int64) (*customer.Customer, error) {
	rows, err := r.pool.Query(ctx, getCustomerSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting customer %d: %w", id, err)
	}
	return collectCustomer(rows, fmt.Sprintf("customer %d", id))
}

// GetByEmail returns an active customer by email (case-insensitive).
func (r *CustomerRepository) GetByEmail(ctx context.Context, email string) (*customer.Customer, error) {
	rows, err := r.pool.Query(ctx, getCustomerByEmailSQL, email)
	if err != nil {
		return nil, fmt.Errorf("getting customer by email: %w", err)
	}
	return collectCustomer(rows, "customer by email")
}

// EmailExists reports whether any account uses the email.
func (r *CustomerRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, customerEmailExistsSQL, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking email: %w", err)
	}
	return exists, nil
}

// Create persists a new customer and fills in generated fields.
func (r *CustomerRepository) Create(ctx context.Context, c *customer.Customer) error {
	err := r.pool.QueryRow(ctx, insertCustomerSQL,
		c.FullName, c.Email, c.MobileNumber, c.PasswordHash, c.Role,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating customer: %w", err)
	}
	c.Active = true
	return nil
}

// TouchLastLogin records a successful login time.
func (r *CustomerRepository) TouchLastLogin(ctx context.Context, id int64, at time.Time) error {
	if _, err := r.pool.Exec(ctx, touchLastLoginSQL, id, at); err != nil {
		return fmt.Errorf("recording login for customer %d: %w", id, err)
	}
	return nil
}

// IncrementStats bumps the completion counters and sets the tier badge.
func (r *CustomerRepository) IncrementStats(ctx context.Context, id int64, drinks, newTier int) error {
	tag, err := r.pool.Exec(ctx, incrementCustomerStatsSQL, id, drinks, newTier)
	if err != nil {
		return fmt.Errorf("incrementing stats for customer %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return customer.ErrNotFound
	}
	return nil
}

func collectCustomer(rows pgx.Rows, what string) (*customer.Customer, error) {
	c, err := pgx.CollectExactlyOneRow(rows, scanCustomer)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, customer.ErrNotFound
		}
		return nil, fmt.Errorf("getting %s: %w", what, err)
	}
	return &c, nil
}

func scanCustomer(row pgx.CollectableRow) (customer.Customer, error) {
	var c customer.Customer
	err := row.Scan(
		&c.ID, &c.FullName, &c.Email, &c.MobileNumber, &c.PasswordHash, &c.Role,
		&c.TotalCompletedOrders, &c.TotalDrinksPurchased, &c.CurrentDiscountTier,
		&c.Active, &c.CreatedAt, &c.LastLoginAt,
	)
	return c, err
}
