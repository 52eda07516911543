// Package report provides read-only aggregation over historical orders for
// operator dashboards.
package report

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Filter narrows the orders report. Zero values mean "no constraint".
type Filter struct {
	StartDate     *time.Time
	EndDate       *time.Time
	PaymentStatus string
	OrderStatus   string
	RestaurantID  *int64
	Page          int
	PageSize      int
}

// Row is one line of the orders report.
type Row struct {
	OrderID        int64
	OrderDate      time.Time
	CustomerName   string
	RestaurantName string
	NumberOfDrinks int
	TotalCost      decimal.Decimal
	PaymentStatus  string
	OrderStatus    string
}

// Paged wraps one page of report rows.
type Paged struct {
	Rows         []Row
	TotalRecords int
	Page         int
	PageSize     int
	TotalPages   int
}

// TrendPoint is one bucket of a trend series. Revenue counts paid orders only.
type TrendPoint struct {
	Label      string
	OrderCount int
	Revenue    decimal.Decimal
}

// DashboardStats summarizes today against yesterday.
type DashboardStats struct {
	TodayOrders         int
	TodayOrdersChange   int
	TodayRevenue        decimal.Decimal
	TodayRevenueChange  decimal.Decimal
	PopularFlavour      string
	PopularFlavourCount int
	PendingOrders       int
}

// DayStats is the per-day aggregate used by trends and the dashboard.
type DayStats struct {
	Orders  int
	Revenue decimal.Decimal
}

// Repository runs the report aggregations in the store.
type Repository interface {
	// Orders returns one page of filtered rows plus the unpaged total.
	Orders(ctx context.Context, f Filter) ([]Row, int, error)
	// StatsForDay aggregates order count and paid revenue for the calendar
	// day containing t.
	StatsForDay(ctx context.Context, t time.Time) (DayStats, error)
	// PopularFlavour returns the most ordered flavour for the day, or
	// ("", 0) when there are no orders.
	PopularFlavour(ctx context.Context, t time.Time) (string, int, error)
	// PendingCount counts orders currently in Pending status.
	PendingCount(ctx context.Context) (int, error)
}
