// Package notify implements fire-and-forget customer notifications. There is
// no real mail transport: messages are logged and recorded in email_log, and
// failures are never surfaced to the calling flow.
package notify

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// EmailLogRepository persists a record of each attempted email.
type EmailLogRepository interface {
	Insert(ctx context.Context, recipient, subject, body, status string) error
}

// EmailNotifier dispatches emails on a small background worker group.
type EmailNotifier struct {
	lg   *zap.Logger
	repo EmailLogRepository
	g    *errgroup.Group
}

// NewEmailNotifier creates an EmailNotifier with a bounded dispatch pool.
func NewEmailNotifier(lg *zap.Logger, repo EmailLogRepository) *EmailNotifier {
	g := &errgroup.Group{}
	g.SetLimit(4)
	return &EmailNotifier{lg: lg, repo: repo, g: g}
}

// OrderConfirmation sends the order confirmation asynchronously. The request
// context's cancellation is detached so an early client disconnect does not
// drop the notification.
func (n *EmailNotifier) OrderConfirmation(ctx context.Context, email string, orderID int64, total decimal.Decimal) {
	subject := fmt.Sprintf("Order #%d confirmed", orderID)
	body := fmt.Sprintf("Your milkshake order #%d has been received. Total: %s", orderID, total.StringFixed(2))
	n.send(context.WithoutCancel(ctx), email, subject, body)
}

// PaymentReceipt sends the payment receipt asynchronously, with the same
// detached-context semantics as OrderConfirmation.
func (n *EmailNotifier) PaymentReceipt(ctx context.Context, email string, orderID int64, amount decimal.Decimal, txnID string) {
	subject := fmt.Sprintf("Payment received for order #%d", orderID)
	body := fmt.Sprintf("We received your payment of %s for order #%d. Transaction reference: %s",
		amount.StringFixed(2), orderID, txnID)
	n.send(context.WithoutCancel(ctx), email, subject, body)
}

func (n *EmailNotifier) send(ctx context.Context, recipient, subject, body string) {
	n.g.Go(func() error {
		status := "Sent"
		if err := n.repo.Insert(ctx, recipient, subject, body, status); err != nil {
			n.lg.Error("email log write failed",
				zap.String("recipient", recipient),
				zap.String("subject", subject),
				zap.Error(err),
			)
			return nil
		}
		n.lg.Info("email dispatched",
			zap.String("recipient", recipient),
			zap.String("subject", subject),
		)
		return nil
	})
}

// Close waits for in-flight dispatches to finish.
func (n *EmailNotifier) Close() {
	_ = n.g.Wait()
}
