// Package discount implements the loyalty tier engine: selecting the best
// tier a customer qualifies for and computing the capped discount amount.
package discount

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrTierNotFound is returned when a requested tier does not exist.
var ErrTierNotFound = errors.New("discount tier not found")

// NoTierName labels the absence of a discount tier in responses.
const NoTierName = "None"

// Tier is one rung of the loyalty ladder. Levels are unique and ordered;
// seed data keeps thresholds monotonic by level but the engine does not
// depend on that.
type Tier struct {
	ID                    int64
	Level                 int
	Name                  string
	MinimumOrders         int
	MinimumDrinksPerOrder int
	DiscountPct           decimal.Decimal
	MaxDiscountAmount     decimal.Decimal
	Description           string
	Active                bool
	UpdatedAt             time.Time
}

// Result is the outcome of a point-of-sale discount calculation.
type Result struct {
	TierApplied        int
	TierName           string
	DiscountPct        decimal.Decimal
	CalculatedDiscount decimal.Decimal
	ActualDiscount     decimal.Decimal
	MaxCapApplied      bool
}

// NoDiscount is the zero result: tier "None", 0%, 0 amount.
func NoDiscount() Result {
	return Result{
		TierName:           NoTierName,
		DiscountPct:        decimal.Zero,
		CalculatedDiscount: decimal.Zero,
		ActualDiscount:     decimal.Zero,
	}
}

// Repository defines persistence operations for discount tiers.
type Repository interface {
	ListActive(ctx context.Context) ([]Tier, error)
	List(ctx context.Context) ([]Tier, error)
	GetByID(ctx context.Context, id int64) (*Tier, error)
	GetByLevel(ctx context.Context, level int) (*Tier, error)
	Update(ctx context.Context, t *Tier) error
}
