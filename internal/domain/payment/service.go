package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shakehq/milkshake-api/internal/domain/customer"
	"github.com/shakehq/milkshake-api/internal/domain/order"
)

// Notifier sends the payment receipt. Fire-and-forget, like order
// confirmations.
type Notifier interface {
	PaymentReceipt(ctx context.Context, email string, orderID int64, amount decimal.Decimal, txnID string)
}

// Service records payments and settles orders against the (mock) gateway.
type Service struct {
	payments  Repository
	orders    order.Repository
	customers customer.Repository
	notifier  Notifier
	// gatewayBaseURL is where a real gateway would host its payment page.
	gatewayBaseURL string
	now            func() time.Time
}

// NewService creates a payment Service.
func NewService(
	payments Repository,
	orders order.Repository,
	customers customer.Repository,
	notifier Notifier,
	gatewayBaseURL string,
) *Service {
	if gatewayBaseURL == "" {
		gatewayBaseURL = "https://payment-gateway.example.com/pay"
	}
	return &Service{
		payments:       payments,
		orders:         orders,
		customers:      customers,
		notifier:       notifier,
		gatewayBaseURL: gatewayBaseURL,
		now:            time.Now,
	}
}

// ProcessResult is the outcome of processing a payment.
type ProcessResult struct {
	TransactionID string
	Status        string
	RedirectURL   string
}

// Process charges the order through the gateway stub, which always succeeds:
// the payment is recorded Completed, the order is marked Paid (and Confirmed
// when still Pending), and a receipt is sent to the customer.
func (s *Service) Process(ctx context.Context, orderID int64, amount decimal.Decimal) (*ProcessResult, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	txnID := fmt.Sprintf("TXN-%d-%s", orderID, uuid.NewString())
	p := &Payment{
		OrderID:       orderID,
		Amount:        amount.Round(2),
		PaymentMethod: "Card",
		Gateway:       "mock",
		TransactionID: txnID,
		Status:        StatusCompleted,
	}
	if err := s.payments.Create(ctx, p); err != nil {
		return nil, errors.Wrap(err, "create payment")
	}

	if err := s.settle(ctx, o); err != nil {
		return nil, err
	}

	if cust, err := s.customers.GetByID(ctx, o.CustomerID); err == nil {
		s.notifier.PaymentReceipt(ctx, cust.Email, orderID, p.Amount, txnID)
	}

	return &ProcessResult{
		TransactionID: txnID,
		Status:        StatusCompleted,
		RedirectURL:   fmt.Sprintf("%s?tx=%s&amount=%s", s.gatewayBaseURL, txnID, p.Amount.StringFixed(2)),
	}, nil
}

// settle marks the order Paid and confirms it when the payment arrives before
// an admin touched the order. Orders already Confirmed (or terminal) keep
// their lifecycle status.
func (s *Service) settle(ctx context.Context, o *order.Order) error {
	if err := s.orders.SetPaymentStatus(ctx, o.ID, order.PaymentPaid); err != nil {
		return errors.Wrap(err, "mark order paid")
	}
	if o.OrderStatus != order.StatusPending {
		return nil
	}

	o.PaymentStatus = order.PaymentPaid
	o.OrderStatus = order.StatusConfirmed
	o.UpdatedAt = s.now()
	if err := s.orders.UpdateStatus(ctx, o); err != nil {
		return errors.Wrap(err, "confirm order")
	}
	return nil
}

// Verify reports whether the transaction has completed at the gateway.
func (s *Service) Verify(ctx context.Context, txnID string) (bool, error) {
	p, err := s.payments.GetByTransactionID(ctx, txnID)
	if err != nil {
		return false, err
	}
	return p.Status == StatusCompleted, nil
}
