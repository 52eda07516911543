package report

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Service composes report aggregates.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates a report Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Orders returns one page of the filtered orders report.
func (s *Service) Orders(ctx context.Context, f Filter) (*Paged, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = 10
	}

	rows, total, err := s.repo.Orders(ctx, f)
	if err != nil {
		return nil, errors.Wrap(err, "orders report")
	}

	totalPages := (total + f.PageSize - 1) / f.PageSize
	return &Paged{
		Rows:         rows,
		TotalRecords: total,
		Page:         f.Page,
		PageSize:     f.PageSize,
		TotalPages:   totalPages,
	}, nil
}

// WeeklyTrend returns seven daily buckets ending today, oldest first.
func (s *Service) WeeklyTrend(ctx context.Context) ([]TrendPoint, error) {
	today := s.now()
	points := make([]TrendPoint, 0, 7)
	for i := 6; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		st, err := s.repo.StatsForDay(ctx, day)
		if err != nil {
			return nil, errors.Wrap(err, "day stats")
		}
		points = append(points, TrendPoint{
			Label:      day.Format("Mon"),
			OrderCount: st.Orders,
			Revenue:    st.Revenue,
		})
	}
	return points, nil
}

// Dashboard summarizes today against yesterday plus live pending counts.
func (s *Service) Dashboard(ctx context.Context) (*DashboardStats, error) {
	now := s.now()
	today, err := s.repo.StatsForDay(ctx, now)
	if err != nil {
		return nil, errors.Wrap(err, "today stats")
	}
	yesterday, err := s.repo.StatsForDay(ctx, now.AddDate(0, 0, -1))
	if err != nil {
		return nil, errors.Wrap(err, "yesterday stats")
	}

	stats := &DashboardStats{
		TodayOrders:        today.Orders,
		TodayRevenue:       today.Revenue,
		TodayRevenueChange: decimal.Zero,
	}

	if yesterday.Orders > 0 {
		stats.TodayOrdersChange = (today.Orders - yesterday.Orders) * 100 / yesterday.Orders
	}
	if yesterday.Revenue.IsPositive() {
		stats.TodayRevenueChange = today.Revenue.Sub(yesterday.Revenue).
			Div(yesterday.Revenue).Mul(hundred).Round(2)
	}

	name, count, err := s.repo.PopularFlavour(ctx, now)
	if err != nil {
		return nil, errors.Wrap(err, "popular flavour")
	}
	stats.PopularFlavour = name
	stats.PopularFlavourCount = count

	pending, err := s.repo.PendingCount(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "pending count")
	}
	stats.PendingOrders = pending

	return stats, nil
}
