package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shakehq/milkshake-api/internal/domain/payment"
)

const (
	insertPaymentSQL = `INSERT INTO payments (order_id, amount, payment_method, gateway, transaction_id, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	getPaymentByTxnSQL = `SELECT id, order_id, amount, payment_method, gateway, transaction_id, status, created_at
		FROM payments WHERE transaction_id = $1`
)

var _ payment.Repository = (*PaymentRepository)(nil)

// PaymentRepository implements payment.Repository backed by PostgreSQL.
type PaymentRepository struct {
	pool *pgxpool.Pool
}

// NewPaymentRepository returns a PaymentRepository that uses the given pool.
func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

// Create persists a payment record and fills in generated fields.
func (r *PaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	err := r.pool.QueryRow(ctx, insertPaymentSQL,
		p.OrderID, p.Amount, p.PaymentMethod, p.Gateway, p.TransactionID, p.Status,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating payment for order %d: %w", p.OrderID, err)
	}
	return nil
}

// GetByTransactionID returns a payment by its gateway transaction id.
func (r *PaymentRepository) GetByTransactionID(ctx context.Context, txnID string) (*payment.Payment, error) {
	rows, err := r.pool.Query(ctx, getPaymentByTxnSQL, txnID)
	if err != nil {
		return nil, fmt.Errorf("getting payment %s: %w", txnID, err)
	}
	p, err := pgx.CollectExactlyOneRow(rows, scanPayment)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, payment.ErrNotFound
		}
		return nil, fmt.Errorf("getting payment %s: %w", txnID, err)
	}
	return &p, nil
}

func scanPayment(row pgx.CollectableRow) (payment.Payment, error) {
	var p payment.Payment
	err := row.Scan(
		&p.ID, &p.OrderID, &p.Amount, &p.PaymentMethod,
		&p.Gateway, &p.TransactionID, &p.Status, &p.CreatedAt,
	)
	return p, err
}
