package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Status is the order lifecycle state.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusConfirmed Status = "Confirmed"
	StatusCompleted Status = "Completed"
	StatusCancelled Status = "Cancelled"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether the state machine allows moving from s to
// next. Pending → Confirmed → Completed; Pending and Confirmed may be
// Cancelled. Completed and Cancelled are terminal.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusConfirmed || next == StatusCancelled
	case StatusConfirmed:
		return next == StatusCompleted || next == StatusCancelled
	}
	return false
}

// PaymentStatus is the payment state recorded on the order.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "Pending"
	PaymentPaid    PaymentStatus = "Paid"
)

var (
	// ErrNotFound is returned when a requested order does not exist.
	ErrNotFound = errors.New("order not found")
	// ErrEmptyItems is returned for orders with no drinks.
	ErrEmptyItems = errors.New("order must contain at least one drink")
	// ErrTooManyDrinks is returned when the order exceeds the configured
	// per-order drink limit.
	ErrTooManyDrinks = errors.New("order exceeds maximum drinks per order")
	// ErrPastPickup is returned when the pickup time is not in the future.
	ErrPastPickup = errors.New("pickup time must be in the future")
	// ErrSlotFull is returned when the pickup slot has reached capacity.
	ErrSlotFull = errors.New("pickup slot is fully booked")
	// ErrInvalidTransition is returned for disallowed status changes.
	ErrInvalidTransition = errors.New("invalid order status transition")
)

// Order is a placed order. Monetary fields are computed once at creation and
// never recomputed; totalCost = subtotal + vat - discountAmount.
type Order struct {
	ID                  int64
	CustomerID          int64
	RestaurantID        int64
	OrderDate           time.Time
	PickupTime          time.Time
	Subtotal            decimal.Decimal
	VAT                 decimal.Decimal
	DiscountAmount      decimal.Decimal
	DiscountTierApplied int
	TotalCost           decimal.Decimal
	PaymentStatus       PaymentStatus
	OrderStatus         Status
	CompletedAt         *time.Time
	CancelledAt         *time.Time
	UpdatedAt           time.Time
}

// Item is one drink on an order. Component prices are snapshots taken at
// order time and are immune to later catalog changes.
type Item struct {
	ID               int64
	OrderID          int64
	FlavourID        int64
	ToppingID        int64
	ConsistencyID    int64
	FlavourPrice     decimal.Decimal
	ToppingPrice     decimal.Decimal
	ConsistencyPrice decimal.Decimal
	ItemTotal        decimal.Decimal
}

// Repository defines persistence operations for orders.
type Repository interface {
	// CreateWithItems persists the order and its items in a single
	// transaction. The order insert is conditional on the pickup slot
	// holding fewer than slotCapacity non-cancelled orders; ErrSlotFull is
	// returned and nothing is written when the slot is at capacity.
	CreateWithItems(ctx context.Context, o *Order, items []Item, slotCapacity int) error
	GetByID(ctx context.Context, id int64) (*Order, error)
	ItemsByOrder(ctx context.Context, orderID int64) ([]Item, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]Order, error)
	List(ctx context.Context) ([]Order, error)
	UpdateStatus(ctx context.Context, o *Order) error
	// SetPaymentStatus flips only the payment status.
	SetPaymentStatus(ctx context.Context, id int64, status PaymentStatus) error
}

// Notifier sends customer-facing notifications. Implementations are
// fire-and-forget: failures are logged, never surfaced to the order flow.
type Notifier interface {
	OrderConfirmation(ctx context.Context, email string, orderID int64, total decimal.Decimal)
}
