package handler

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/shakehq/milkshake-api/internal/domain/customer"
	"github.com/shakehq/milkshake-api/internal/domain/discount"
)

type calculateDiscountRequest struct {
	CustomerID     int64           `json:"customerId"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	NumberOfDrinks int             `json:"numberOfDrinks"`
}

type discountResponse struct {
	TierApplied        int             `json:"tierApplied"`
	TierName           string          `json:"tierName"`
	DiscountPct        decimal.Decimal `json:"discountPct"`
	CalculatedDiscount decimal.Decimal `json:"calculatedDiscount"`
	ActualDiscount     decimal.Decimal `json:"actualDiscount"`
	MaxCapApplied      bool            `json:"maxCapApplied"`
}

// calculateDiscount previews the discount for an order being built. Customers
// may only quote themselves; admins may quote anyone.
func (h *Handler) calculateDiscount(w http.ResponseWriter, r *http.Request) {
	var req calculateDiscountRequest
	if !h.decode(w, r, &req) {
		return
	}

	identity, _ := identityFrom(r.Context())
	if req.CustomerID == 0 {
		req.CustomerID = identity.UserID
	}
	if identity.Role != customer.RoleAdmin && req.CustomerID != identity.UserID {
		h.fail(w, http.StatusForbidden, "cannot calculate discounts for another customer")
		return
	}

	result, err := h.engine.Calculate(r.Context(), req.CustomerID, req.Subtotal, req.NumberOfDrinks)
	if err != nil {
		h.failErr(w, r, err)
		return
	}
	h.ok(w, "discount calculated", discountResponse{
		TierApplied:        result.TierApplied,
		TierName:           result.TierName,
		DiscountPct:        result.DiscountPct,
		CalculatedDiscount: result.CalculatedDiscount,
		ActualDiscount:     result.ActualDiscount,
		MaxCapApplied:      result.MaxCapApplied,
	})
}

type tierResponse struct {
	ID                    int64           `json:"id"`
	Level                 int             `json:"level"`
	Name                  string          `json:"name"`
	MinimumOrders         int             `json:"minimumOrders"`
	MinimumDrinksPerOrder int             `json:"minimumDrinksPerOrder"`
	DiscountPct           decimal.Decimal `json:"discountPct"`
	MaxDiscountAmount     decimal.Decimal `json:"maxDiscountAmount"`
	Description           string          `json:"description"`
	Active                bool            `json:"active"`
}

func toTierResponse(t *discount.Tier) tierResponse {
	return tierResponse{
		ID:                    t.ID,
		Level:                 t.Level,
		Name:                  t.Name,
		MinimumOrders:         t.MinimumOrders,
		MinimumDrinksPerOrder: t.MinimumDrinksPerOrder,
		DiscountPct:           t.DiscountPct,
		MaxDiscountAmount:     t.MaxDiscountAmount,
		Description:           t.Description,
		Active:                t.Active,
	}
}

func (h *Handler) listTiers(w http.ResponseWriter, r *http.Request) {
	tiers, err := h.discounts.ListTiers(r.Context())
	if err != nil {
		h.failErr(w, r, err)
		return
	}

	out := make([]tierResponse, 0, len(tiers))
	for i := range tiers {
		out = append(out, toTierResponse(&tiers[i]))
	}
	h.ok(w, "tiers retrieved", out)
}

type updateTierRequest struct {
	MinimumOrders         int             `json:"minimumOrders"`
	MinimumDrinksPerOrder int             `json:"minimumDrinksPerOrder"`
	DiscountPct           decimal.Decimal `json:"discountPct"`
	MaxDiscountAmount     decimal.Decimal `json:"maxDiscountAmount"`
	Description           string          `json:"description"`
}

func (h *Handler) updateTier(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	var req updateTierRequest
	if !h.decode(w, r, &req) {
		return
	}
	identity, _ := identityFrom(r.Context())

	tier, err := h.discounts.UpdateTier(r.Context(), id, discount.UpdateTierRequest{
		MinimumOrders:         req.MinimumOrders,
		MinimumDrinksPerOrder: req.MinimumDrinksPerOrder,
		DiscountPct:           req.DiscountPct,
		MaxDiscountAmount:     req.MaxDiscountAmount,
		Description:           req.Description,
	}, identity.UserID)
	if err != nil {
		h.failErr(w, r, err)
		return
	}
	h.ok(w, "tier updated", toTierResponse(tier))
}

type customerDiscountResponse struct {
	CurrentTier         int             `json:"currentTier"`
	CurrentTierName     string          `json:"currentTierName"`
	TotalOrders         int             `json:"totalOrders"`
	TotalDrinks         int             `json:"totalDrinks"`
	CurrentDiscountPct  decimal.Decimal `json:"currentDiscountPct"`
	MaxDiscountAmount   decimal.Decimal `json:"maxDiscountAmount"`
	NextTier            *tierResponse   `json:"nextTier,omitempty"`
	OrdersUntilNextTier int             `json:"ordersUntilNextTier"`
}

func (h *Handler) customerDiscountInfo(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	identity, _ := identityFrom(r.Context())
	if identity.Role != customer.RoleAdmin && identity.UserID != id {
		h.fail(w, http.StatusForbidden, "cannot view another customer's discounts")
		return
	}

	info, err := h.discounts.CustomerInfo(r.Context(), id)
	if err != nil {
		h.failErr(w, r, err)
		return
	}

	resp := customerDiscountResponse{
		CurrentTier:         info.CurrentTier,
		CurrentTierName:     info.CurrentTierName,
		TotalOrders:         info.TotalOrders,
		TotalDrinks:         info.TotalDrinks,
		CurrentDiscountPct:  info.CurrentDiscountPct,
		MaxDiscountAmount:   info.MaxDiscountAmount,
		OrdersUntilNextTier: info.OrdersUntilNextTier,
	}
	if info.NextTier != nil {
		next := toTierResponse(info.NextTier)
		resp.NextTier = &next
	}
	h.ok(w, "customer discount info retrieved", resp)
}
