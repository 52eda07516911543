package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/shakehq/milkshake-api/internal/domain/report"
)

const (
	reportOrdersSelect = `SELECT o.id, o.order_date, c.full_name, r.name,
			(SELECT COUNT(*) FROM order_items oi WHERE oi.order_id = o.id),
			o.total_cost, o.payment_status, o.order_status
		FROM orders o
		JOIN customers c ON c.id = o.customer_id
		JOIN restaurants r ON r.id = o.restaurant_id`

	reportOrdersCount = `SELECT COUNT(*)
		FROM orders o
		JOIN customers c ON c.id = o.customer_id
		JOIN restaurants r ON r.id = o.restaurant_id`

	statsForDaySQL = `SELECT COUNT(*),
			COALESCE(SUM(total_cost) FILTER (WHERE payment_status = 'Paid'), 0)
		FROM orders
		WHERE order_date >= $1 AND order_date < $2 AND order_status <> 'Cancelled'`

	popularFlavourSQL = `SELECT l.name, COUNT(*) AS cnt
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		JOIN lookups l ON l.id = oi.flavour_id
		WHERE o.order_date >= $1 AND o.order_date < $2 AND o.order_status <> 'Cancelled'
		GROUP BY l.name
		ORDER BY cnt DESC, l.name
		LIMIT 1`

	pendingCountSQL = `SELECT COUNT(*) FROM orders WHERE order_status = 'Pending'`
)

var _ report.Repository = (*ReportRepository)(nil)

// ReportRepository runs report aggregations backed by PostgreSQL.
type ReportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository returns a ReportRepository that uses the given pool.
func NewReportRepository(pool *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{pool: pool}
}

// Orders returns one page of filtered report rows plus the unpaged total.
func (r *ReportRepository) Orders(ctx context.Context, f report.Filter) ([]report.Row, int, error) {
	where, args := buildOrdersFilter(f)

	var total int
	if err := r.pool.QueryRow(ctx, reportOrdersCount+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting report orders: %w", err)
	}

	page := fmt.Sprintf(" ORDER BY o.order_date DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, f.PageSize, (f.Page-1)*f.PageSize)

	rows, err := r.pool.Query(ctx, reportOrdersSelect+where+page, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying report orders: %w", err)
	}
	out, err := pgx.CollectRows(rows, scanReportRow)
	if err != nil {
		return nil, 0, fmt.Errorf("collecting report orders: %w", err)
	}
	return out, total, nil
}

func buildOrdersFilter(f report.Filter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.StartDate != nil {
		add("o.order_date >= $%d", *f.StartDate)
	}
	if f.EndDate != nil {
		add("o.order_date < $%d", *f.EndDate)
	}
	if f.PaymentStatus != "" {
		add("o.payment_status = $%d", f.PaymentStatus)
	}
	if f.OrderStatus != "" {
		add("o.order_status = $%d", f.OrderStatus)
	}
	if f.RestaurantID != nil {
		add("o.restaurant_id = $%d", *f.RestaurantID)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// StatsForDay aggregates order count and paid revenue for the calendar day
// containing t, in t's location.
func (r *ReportRepository) StatsForDay(ctx context.Context, t time.Time) (report.DayStats, error) {
	from := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	to := from.AddDate(0, 0, 1)

	var (
		stats   report.DayStats
		revenue decimal.Decimal
	)
	if err := r.pool.QueryRow(ctx, statsForDaySQL, from, to).Scan(&stats.Orders, &revenue); err != nil {
		return report.DayStats{}, fmt.Errorf("aggregating day stats: %w", err)
	}
	stats.Revenue = revenue
	return stats, nil
}

// PopularFlavour returns the most ordered flavour for the day, or ("", 0)
// when there are no orders.
func (r *ReportRepository) PopularFlavour(ctx context.Context, t time.Time) (string, int, error) {
	from := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	to := from.AddDate(0, 0, 1)

	var (
		name  string
		count int
	)
	err := r.pool.QueryRow(ctx, popularFlavourSQL, from, to).Scan(&name, &count)
	if err != nil {
		if err == pgx.ErrNoRows {
			return "", 0, nil
		}
		return "", 0, fmt.Errorf("finding popular flavour: %w", err)
	}
	return name, count, nil
}

// PendingCount counts orders currently awaiting confirmation.
func (r *ReportRepository) PendingCount(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, pendingCountSQL).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting pending orders: %w", err)
	}
	return count, nil
}

func scanReportRow(row pgx.CollectableRow) (report.Row, error) {
	var rr report.Row
	err := row.Scan(
		&rr.OrderID, &rr.OrderDate, &rr.CustomerName, &rr.RestaurantName,
		&rr.NumberOfDrinks, &rr.TotalCost, &rr.PaymentStatus, &rr.OrderStatus,
	)
	return rr, err
}
