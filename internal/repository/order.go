package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shakehq/milkshake-api/internal/domain/order"
	"github.com/shakehq/milkshake-api/internal/domain/restaurant"
)

const (
	orderColumns = `id, customer_id, restaurant_id, order_date, pickup_time, subtotal, vat,
		discount_amount, discount_tier_applied, total_cost, payment_status, order_status,
		completed_at, cancelled_at, updated_at`

	getOrderSQL = `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	listOrdersSQL = `SELECT ` + orderColumns + ` FROM orders ORDER BY order_date DESC`

	listOrdersByCustomerSQL = `SELECT ` + orderColumns + ` FROM orders
		WHERE customer_id = $1 ORDER BY order_date DESC`

	countPickupsSQL = `SELECT COUNT(*) FROM orders
		WHERE restaurant_id = $1 AND pickup_time >= $2 AND pickup_time < $3
		  AND order_status <> 'Cancelled'`

	insertOrderSQL = `INSERT INTO orders (customer_id, restaurant_id, order_date, pickup_time,
			subtotal, vat, discount_amount, discount_tier_applied, total_cost,
			payment_status, order_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, updated_at`

	insertOrderItemSQL = `INSERT INTO order_items (order_id, flavour_id, topping_id, consistency_id,
			flavour_price, topping_price, consistency_price, item_total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`

	itemsByOrderSQL = `SELECT id, order_id, flavour_id, topping_id, consistency_id,
			flavour_price, topping_price, consistency_price, item_total
		FROM order_items WHERE order_id = $1 ORDER BY id`

	updateOrderStatusSQL = `UPDATE orders
		SET order_status = $2, payment_status = $3, completed_at = $4, cancelled_at = $5, updated_at = $6
		WHERE id = $1`

	setPaymentStatusSQL = `UPDATE orders SET payment_status = $2, updated_at = now() WHERE id = $1`

	// Serializes concurrent placements for the same restaurant+slot so the
	// capacity count cannot be read stale. Key 2 is the slot index since
	// epoch; released at commit/rollback.
	lockSlotSQL = `SELECT pg_advisory_xact_lock($1::int4, $2::int4)`
)

var (
	_ order.Repository       = (*OrderRepository)(nil)
	_ restaurant.SlotCounter = (*OrderRepository)(nil)
)

// OrderRepository implements order.Repository backed by PostgreSQL.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// CreateWithItems persists the order and its items in one transaction. The
// pickup slot is locked for the duration of the transaction and the insert
// only proceeds while the slot holds fewer than slotCapacity non-cancelled
// orders, so concurrent placements cannot overbook.
func (r *OrderRepository) CreateWithItems(ctx context.Context, o *order.Order, items []order.Item, slotCapacity int) error {
	slotStart := o.PickupTime.Truncate(restaurant.SlotWidth)
	slotEnd := slotStart.Add(restaurant.SlotWidth)
	slotKey := int32(slotStart.Unix() / int64(restaurant.SlotWidth/time.Second))

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning order transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	if _, err := tx.Exec(ctx, lockSlotSQL, int32(o.RestaurantID), slotKey); err != nil {
		return fmt.Errorf("locking pickup slot: %w", err)
	}

	var booked int
	if err := tx.QueryRow(ctx, countPickupsSQL, o.RestaurantID, slotStart, slotEnd).Scan(&booked); err != nil {
		return fmt.Errorf("counting slot bookings: %w", err)
	}
	if booked >= slotCapacity {
		return order.ErrSlotFull
	}

	err = tx.QueryRow(ctx, insertOrderSQL,
		o.CustomerID, o.RestaurantID, o.OrderDate, o.PickupTime,
		o.Subtotal, o.VAT, o.DiscountAmount, o.DiscountTierApplied, o.TotalCost,
		string(o.PaymentStatus), string(o.OrderStatus),
	).Scan(&o.ID, &o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating order: %w", err)
	}

	for i := range items {
		items[i].OrderID = o.ID
		err := tx.QueryRow(ctx, insertOrderItemSQL,
			o.ID, items[i].FlavourID, items[i].ToppingID, items[i].ConsistencyID,
			items[i].FlavourPrice, items[i].ToppingPrice, items[i].ConsistencyPrice,
			items[i].ItemTotal,
		).Scan(&items[i].ID)
		if err != nil {
			return fmt.Errorf("creating order item %d: %w", i, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing order %d: %w", o.ID, err)
	}
	return nil
}

// GetByID returns one order.
func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*order.Order, error) {
	rows, err := r.pool.Query(ctx, getOrderSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting order %d: %w", id, err)
	}
	o, err := pgx.CollectExactlyOneRow(rows, scanOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, fmt.Errorf("getting order %d: %w", id, err)
	}
	return &o, nil
}

// ItemsByOrder returns the order's items in insertion order.
func (r *OrderRepository) ItemsByOrder(ctx context.Context, orderID int64) ([]order.Item, error) {
	rows, err := r.pool.Query(ctx, itemsByOrderSQL, orderID)
	if err != nil {
		return nil, fmt.Errorf("getting items for order %d: %w", orderID, err)
	}
	return pgx.CollectRows(rows, scanOrderItem)
}

// ListByCustomer returns the customer's orders, newest first.
func (r *OrderRepository) ListByCustomer(ctx context.Context, customerID int64) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, listOrdersByCustomerSQL, customerID)
	if err != nil {
		return nil, fmt.Errorf("listing orders for customer %d: %w", customerID, err)
	}
	return pgx.CollectRows(rows, scanOrder)
}

// List returns all orders, newest first.
func (r *OrderRepository) List(ctx context.Context) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, listOrdersSQL)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	return pgx.CollectRows(rows, scanOrder)
}

// UpdateStatus persists a status transition.
func (r *OrderRepository) UpdateStatus(ctx context.Context, o *order.Order) error {
	tag, err := r.pool.Exec(ctx, updateOrderStatusSQL,
		o.ID, string(o.OrderStatus), string(o.PaymentStatus),
		o.CompletedAt, o.CancelledAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("updating order %d status: %w", o.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}
	return nil
}

// SetPaymentStatus flips only the payment status.
func (r *OrderRepository) SetPaymentStatus(ctx context.Context, id int64, status order.PaymentStatus) error {
	tag, err := r.pool.Exec(ctx, setPaymentStatusSQL, id, string(status))
	if err != nil {
		return fmt.Errorf("updating order %d payment status: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}
	return nil
}

// CountPickupsInRange counts non-cancelled orders picked up in [from, to).
func (r *OrderRepository) CountPickupsInRange(ctx context.Context, restaurantID int64, from, to time.Time) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, countPickupsSQL, restaurantID, from, to).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting pickups: %w", err)
	}
	return count, nil
}

func scanOrder(row pgx.CollectableRow) (order.Order, error) {
	var (
		o                      order.Order
		payStatus, orderStatus string
	)
	err := row.Scan(
		&o.ID, &o.CustomerID, &o.RestaurantID, &o.OrderDate, &o.PickupTime,
		&o.Subtotal, &o.VAT, &o.DiscountAmount, &o.DiscountTierApplied, &o.TotalCost,
		&payStatus, &orderStatus, &o.CompletedAt, &o.CancelledAt, &o.UpdatedAt,
	)
	o.PaymentStatus = order.PaymentStatus(payStatus)
	o.OrderStatus = order.Status(orderStatus)
	return o, err
}

func scanOrderItem(row pgx.CollectableRow) (order.Item, error) {
	var it order.Item
	err := row.Scan(
		&it.ID, &it.OrderID, &it.FlavourID, &it.ToppingID, &it.ConsistencyID,
		&it.FlavourPrice, &it.ToppingPrice, &it.ConsistencyPrice, &it.ItemTotal,
	)
	return it, err
}
