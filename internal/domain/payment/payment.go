// Package payment records payments against orders. The gateway integration
// is a stub that always succeeds: every processed payment completes
// immediately and settles its order.
package payment

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a payment or its order does not exist.
var ErrNotFound = errors.New("payment not found")

// Payment statuses.
const (
	StatusPending   = "Pending"
	StatusCompleted = "Completed"
)

// Payment is one recorded payment attempt for an order.
type Payment struct {
	ID            int64
	OrderID       int64
	Amount        decimal.Decimal
	PaymentMethod string
	Gateway       string
	TransactionID string
	Status        string
	CreatedAt     time.Time
}

// Repository defines persistence operations for payments.
type Repository interface {
	Create(ctx context.Context, p *Payment) error
	GetByTransactionID(ctx context.Context, txnID string) (*Payment, error)
}
