package discount

import (
	"context"
	"sort"
	"strconv"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/shakehq/milkshake-api/internal/domain/audit"
	"github.com/shakehq/milkshake-api/internal/domain/customer"
)

// ErrNegativeTierValue is returned when a tier update carries a negative
// threshold, percentage or cap.
var ErrNegativeTierValue = errors.New("tier values must not be negative")

// CustomerInfo summarizes a customer's standing on the tier ladder.
type CustomerInfo struct {
	CurrentTier         int
	CurrentTierName     string
	TotalOrders         int
	TotalDrinks         int
	CurrentDiscountPct  decimal.Decimal
	MaxDiscountAmount   decimal.Decimal
	NextTier            *Tier
	OrdersUntilNextTier int
}

// Service implements tier administration and customer tier reporting.
type Service struct {
	tiers     Repository
	customers customer.Repository
	audit     audit.Logger
}

// NewService creates a discount Service.
func NewService(tiers Repository, customers customer.Repository, audit audit.Logger) *Service {
	return &Service{tiers: tiers, customers: customers, audit: audit}
}

// ListTiers returns all tiers ordered by level.
func (s *Service) ListTiers(ctx context.Context) ([]Tier, error) {
	tiers, err := s.tiers.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(tiers, func(i, j int) bool { return tiers[i].Level < tiers[j].Level })
	return tiers, nil
}

// UpdateTierRequest holds the editable tier fields.
type UpdateTierRequest struct {
	MinimumOrders         int
	MinimumDrinksPerOrder int
	DiscountPct           decimal.Decimal
	MaxDiscountAmount     decimal.Decimal
	Description           string
}

// UpdateTier persists an edit to one tier, auditing each changed numeric
// field. A resulting non-monotonic ladder is logged as a warning but not
// rejected: seed data keeps the ladder consistent by convention only.
func (s *Service) UpdateTier(ctx context.Context, tierID int64, req UpdateTierRequest, updatedBy int64) (*Tier, error) {
	if req.MinimumOrders < 0 || req.MinimumDrinksPerOrder < 0 ||
		req.DiscountPct.IsNegative() || req.MaxDiscountAmount.IsNegative() {
		return nil, ErrNegativeTierValue
	}

	tier, err := s.tiers.GetByID(ctx, tierID)
	if err != nil {
		return nil, err
	}

	s.auditIntChange(ctx, updatedBy, tierID, "MinimumOrders", tier.MinimumOrders, req.MinimumOrders)
	s.auditIntChange(ctx, updatedBy, tierID, "MinimumDrinksPerOrder", tier.MinimumDrinksPerOrder, req.MinimumDrinksPerOrder)
	s.auditDecimalChange(ctx, updatedBy, tierID, "DiscountPct", tier.DiscountPct, req.DiscountPct)
	s.auditDecimalChange(ctx, updatedBy, tierID, "MaxDiscountAmount", tier.MaxDiscountAmount, req.MaxDiscountAmount)

	tier.MinimumOrders = req.MinimumOrders
	tier.MinimumDrinksPerOrder = req.MinimumDrinksPerOrder
	tier.DiscountPct = req.DiscountPct
	tier.MaxDiscountAmount = req.MaxDiscountAmount
	tier.Description = req.Description

	if err := s.tiers.Update(ctx, tier); err != nil {
		return nil, errors.Wrap(err, "update tier")
	}

	s.warnIfNonMonotonic(ctx)
	return tier, nil
}

// CustomerInfo reports the customer's cached badge and progress toward the
// next level.
func (s *Service) CustomerInfo(ctx context.Context, customerID int64) (*CustomerInfo, error) {
	cust, err := s.customers.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	tiers, err := s.tiers.ListActive(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list tiers")
	}
	sort.Slice(tiers, func(i, j int) bool { return tiers[i].Level < tiers[j].Level })

	info := &CustomerInfo{
		CurrentTier:        cust.CurrentDiscountTier,
		CurrentTierName:    NoTierName,
		TotalOrders:        cust.TotalCompletedOrders,
		TotalDrinks:        cust.TotalDrinksPurchased,
		CurrentDiscountPct: decimal.Zero,
		MaxDiscountAmount:  decimal.Zero,
	}

	for i := range tiers {
		t := tiers[i]
		if t.Level == cust.CurrentDiscountTier {
			info.CurrentTierName = t.Name
			info.CurrentDiscountPct = t.DiscountPct
			info.MaxDiscountAmount = t.MaxDiscountAmount
		}
		if t.Level == cust.CurrentDiscountTier+1 {
			next := t
			info.NextTier = &next
			info.OrdersUntilNextTier = max(0, t.MinimumOrders-cust.TotalCompletedOrders)
		}
	}
	return info, nil
}

func (s *Service) auditIntChange(ctx context.Context, by, tierID int64, field string, oldV, newV int) {
	if oldV == newV {
		return
	}
	s.audit.LogChange(ctx, audit.Change{
		UserID: by, EntityType: "DiscountTier", EntityID: tierID,
		Action: "Update", Field: field,
		OldValue: strconv.Itoa(oldV), NewValue: strconv.Itoa(newV),
	})
}

func (s *Service) auditDecimalChange(ctx context.Context, by, tierID int64, field string, oldV, newV decimal.Decimal) {
	if oldV.Equal(newV) {
		return
	}
	s.audit.LogChange(ctx, audit.Change{
		UserID: by, EntityType: "DiscountTier", EntityID: tierID,
		Action: "Update", Field: field,
		OldValue: oldV.StringFixed(2), NewValue: newV.StringFixed(2),
	})
}

// warnIfNonMonotonic flags ladders where a higher level has lower thresholds.
// Intentionally a warning only.
func (s *Service) warnIfNonMonotonic(ctx context.Context) {
	tiers, err := s.tiers.ListActive(ctx)
	if err != nil {
		return
	}
	sort.Slice(tiers, func(i, j int) bool { return tiers[i].Level < tiers[j].Level })
	for i := 1; i < len(tiers); i++ {
		prev, cur := tiers[i-1], tiers[i]
		if cur.MinimumOrders < prev.MinimumOrders || cur.MinimumDrinksPerOrder < prev.MinimumDrinksPerOrder {
			zctx.From(ctx).Warn("discount tier ladder is non-monotonic",
				zap.Int("level", cur.Level),
				zap.Int("prev_level", prev.Level),
			)
		}
	}
}
