package discount

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/shakehq/milkshake-api/internal/domain/customer"
)

var hundred = decimal.NewFromInt(100)

// Engine computes discounts from a customer's order history and the active
// tier ladder.
type Engine struct {
	customers customer.Repository
	tiers     Repository
}

// NewEngine creates a discount Engine.
func NewEngine(customers customer.Repository, tiers Repository) *Engine {
	return &Engine{customers: customers, tiers: tiers}
}

// Calculate returns the best discount the customer qualifies for on an order
// with the given subtotal and drink count. An unknown customer yields the
// zero result rather than an error: such orders still price correctly.
func (e *Engine) Calculate(ctx context.Context, customerID int64, subtotal decimal.Decimal, numDrinks int) (Result, error) {
	cust, err := e.customers.GetByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, customer.ErrNotFound) {
			return NoDiscount(), nil
		}
		return Result{}, errors.Wrap(err, "get customer")
	}

	tiers, err := e.tiers.ListActive(ctx)
	if err != nil {
		return Result{}, errors.Wrap(err, "list tiers")
	}

	tier := SelectTier(tiers, cust.TotalCompletedOrders, numDrinks)
	if tier == nil {
		return NoDiscount(), nil
	}
	return Apply(tier, subtotal), nil
}

// HighestBadge returns the level of the highest active tier whose
// MinimumOrders the customer satisfies, or 0 when none apply.
//
// Unlike Calculate, this deliberately ignores MinimumDrinksPerOrder: the
// cached badge tracks order history only, while point-of-sale eligibility
// also depends on the drinks in the order at hand.
func (e *Engine) HighestBadge(ctx context.Context, completedOrders int) (int, error) {
	tiers, err := e.tiers.ListActive(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "list tiers")
	}

	best := 0
	for _, t := range tiers {
		if t.MinimumOrders <= completedOrders && t.Level > best {
			best = t.Level
		}
	}
	return best, nil
}

// SelectTier returns the eligible tier with the highest level, or nil.
// A tier is eligible when the customer's completed-order count meets
// MinimumOrders and the current order's drink count meets
// MinimumDrinksPerOrder. Levels are unique, so no further tie break is needed.
func SelectTier(tiers []Tier, completedOrders, numDrinks int) *Tier {
	var best *Tier
	for i := range tiers {
		t := &tiers[i]
		if !t.Active {
			continue
		}
		if t.MinimumOrders > completedOrders || t.MinimumDrinksPerOrder > numDrinks {
			continue
		}
		if best == nil || t.Level > best.Level {
			best = t
		}
	}
	return best
}

// Apply computes the discount for a selected tier:
// calculated = subtotal * pct / 100, actual = min(calculated, cap).
func Apply(tier *Tier, subtotal decimal.Decimal) Result {
	calculated := subtotal.Mul(tier.DiscountPct).Div(hundred).Round(2)
	actual := decimal.Min(calculated, tier.MaxDiscountAmount)

	return Result{
		TierApplied:        tier.Level,
		TierName:           tier.Name,
		DiscountPct:        tier.DiscountPct,
		CalculatedDiscount: calculated,
		ActualDiscount:     actual,
		MaxCapApplied:      calculated.GreaterThan(tier.MaxDiscountAmount),
	}
}
