package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/shakehq/milkshake-api/internal/domain/catalog"
	"github.com/shakehq/milkshake-api/internal/domain/customer"
	"github.com/shakehq/milkshake-api/internal/domain/discount"
	"github.com/shakehq/milkshake-api/internal/domain/pricing"
	"github.com/shakehq/milkshake-api/internal/domain/restaurant"
	"github.com/shakehq/milkshake-api/internal/runtimeconfig"
)

// PlaceOrderRequest holds the input for placing an order.
type PlaceOrderRequest struct {
	CustomerID   int64
	RestaurantID int64
	PickupTime   time.Time
	Items        []pricing.DrinkSelection
}

// UpdateStatusRequest holds a status transition request. PaymentStatus is
// optional.
type UpdateStatusRequest struct {
	OrderStatus   Status
	PaymentStatus PaymentStatus
}

// ItemDetail is one drink with resolved component names and snapshot prices.
type ItemDetail struct {
	Item
	FlavourName     string
	ToppingName     string
	ConsistencyName string
}

// Detail is the fully resolved order view returned to clients.
type Detail struct {
	Order
	CustomerName      string
	CustomerEmail     string
	RestaurantName    string
	RestaurantAddress string
	DiscountTierName  string
	VATPercentage     decimal.Decimal
	NumberOfDrinks    int
	Items             []ItemDetail
}

// Service orchestrates order placement and lifecycle transitions.
type Service struct {
	orders      Repository
	customers   customer.Repository
	restaurants restaurant.Repository
	catalog     catalog.Repository
	tiers       discount.Repository
	pricing     *pricing.Service
	discounts   *discount.Engine
	configs     runtimeconfig.Getter
	notifier    Notifier
	now         func() time.Time
}

// NewService creates an order Service with the required domain dependencies.
func NewService(
	orders Repository,
	customers customer.Repository,
	restaurants restaurant.Repository,
	cat catalog.Repository,
	tiers discount.Repository,
	pricingSvc *pricing.Service,
	discounts *discount.Engine,
	configs runtimeconfig.Getter,
	notifier Notifier,
) *Service {
	return &Service{
		orders:      orders,
		customers:   customers,
		restaurants: restaurants,
		catalog:     cat,
		tiers:       tiers,
		pricing:     pricingSvc,
		discounts:   discounts,
		configs:     configs,
		notifier:    notifier,
		now:         time.Now,
	}
}

// Place validates the request, prices and discounts the order, and persists
// order plus items atomically. Slot capacity is enforced inside the same
// transaction, so concurrent placements cannot overbook a slot.
func (s *Service) Place(ctx context.Context, req PlaceOrderRequest) (*Detail, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyItems
	}
	maxDrinks := s.configs.Int(ctx, runtimeconfig.KeyMaxDrinks, 10)
	if len(req.Items) > maxDrinks {
		return nil, ErrTooManyDrinks
	}

	cust, err := s.customers.GetByID(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}

	rest, err := s.restaurants.GetByID(ctx, req.RestaurantID)
	if err != nil {
		return nil, err
	}
	if !rest.Active {
		return nil, restaurant.ErrNotFound
	}

	if !req.PickupTime.After(s.now()) {
		return nil, ErrPastPickup
	}

	subtotal, prices, err := s.pricing.Subtotal(ctx, req.Items)
	if err != nil {
		return nil, err
	}
	vat := s.pricing.VAT(ctx, subtotal)

	disc, err := s.discounts.Calculate(ctx, req.CustomerID, subtotal, len(req.Items))
	if err != nil {
		return nil, errors.Wrap(err, "calculate discount")
	}

	o := &Order{
		CustomerID:          req.CustomerID,
		RestaurantID:        req.RestaurantID,
		OrderDate:           s.now(),
		PickupTime:          req.PickupTime,
		Subtotal:            subtotal.Round(2),
		VAT:                 vat,
		DiscountAmount:      disc.ActualDiscount,
		DiscountTierApplied: disc.TierApplied,
		TotalCost:           subtotal.Add(vat).Sub(disc.ActualDiscount).Round(2),
		PaymentStatus:       PaymentPending,
		OrderStatus:         StatusPending,
	}

	items := make([]Item, len(req.Items))
	for i, sel := range req.Items {
		items[i] = Item{
			FlavourID:        sel.FlavourID,
			ToppingID:        sel.ToppingID,
			ConsistencyID:    sel.ConsistencyID,
			FlavourPrice:     prices[i].FlavourPrice,
			ToppingPrice:     prices[i].ToppingPrice,
			ConsistencyPrice: prices[i].ConsistencyPrice,
			ItemTotal:        prices[i].Total(),
		}
	}

	capacity := s.configs.Int(ctx, runtimeconfig.KeySlotCapacity, restaurant.DefaultSlotCapacity)
	if err := s.orders.CreateWithItems(ctx, o, items, capacity); err != nil {
		return nil, err
	}

	s.notifier.OrderConfirmation(ctx, cust.Email, o.ID, o.TotalCost)

	return s.Get(ctx, o.ID)
}

// Get returns the fully resolved order view. Reads are side-effect free:
// fetching the same order twice yields identical details.
func (s *Service) Get(ctx context.Context, orderID int64) (*Detail, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	items, err := s.orders.ItemsByOrder(ctx, orderID)
	if err != nil {
		return nil, errors.Wrap(err, "get order items")
	}

	d := &Detail{
		Order:            *o,
		DiscountTierName: discount.NoTierName,
		VATPercentage:    s.pricing.VATPercentage(ctx),
		NumberOfDrinks:   len(items),
		Items:            make([]ItemDetail, 0, len(items)),
	}

	if cust, err := s.customers.GetByID(ctx, o.CustomerID); err == nil {
		d.CustomerName = cust.FullName
		d.CustomerEmail = cust.Email
	}
	if rest, err := s.restaurants.GetByID(ctx, o.RestaurantID); err == nil {
		d.RestaurantName = rest.Name
		d.RestaurantAddress = rest.Address
	}
	if o.DiscountTierApplied > 0 {
		if tier, err := s.tiers.GetByLevel(ctx, o.DiscountTierApplied); err == nil {
			d.DiscountTierName = tier.Name
		}
	}

	for _, it := range items {
		detail := ItemDetail{Item: it}
		if f, err := s.catalog.Get(ctx, it.FlavourID); err == nil {
			detail.FlavourName = f.Name
		}
		if t, err := s.catalog.Get(ctx, it.ToppingID); err == nil {
			detail.ToppingName = t.Name
		}
		if c, err := s.catalog.Get(ctx, it.ConsistencyID); err == nil {
			detail.ConsistencyName = c.Name
		}
		d.Items = append(d.Items, detail)
	}
	return d, nil
}

// ListByCustomer returns the customer's orders, newest first.
func (s *Service) ListByCustomer(ctx context.Context, customerID int64) ([]Detail, error) {
	orders, err := s.orders.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return s.resolveAll(ctx, orders)
}

// ListAll returns every order, newest first.
func (s *Service) ListAll(ctx context.Context) ([]Detail, error) {
	orders, err := s.orders.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.resolveAll(ctx, orders)
}

func (s *Service) resolveAll(ctx context.Context, orders []Order) ([]Detail, error) {
	details := make([]Detail, 0, len(orders))
	for _, o := range orders {
		d, err := s.Get(ctx, o.ID)
		if err != nil {
			return nil, err
		}
		details = append(details, *d)
	}
	return details, nil
}

// UpdateStatus applies a lifecycle transition. Completing an order increments
// the customer's counters and recomputes the cached tier badge; cancelling
// records the cancellation time only.
func (s *Service) UpdateStatus(ctx context.Context, orderID int64, req UpdateStatusRequest) error {
	if !req.OrderStatus.Valid() {
		return ErrInvalidTransition
	}

	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if !o.OrderStatus.CanTransitionTo(req.OrderStatus) {
		return errors.Wrapf(ErrInvalidTransition, "%s to %s", o.OrderStatus, req.OrderStatus)
	}

	now := s.now()
	o.OrderStatus = req.OrderStatus
	if req.PaymentStatus != "" {
		o.PaymentStatus = req.PaymentStatus
	}

	switch req.OrderStatus {
	case StatusCompleted:
		o.CompletedAt = &now
	case StatusCancelled:
		o.CancelledAt = &now
	}
	o.UpdatedAt = now

	if err := s.orders.UpdateStatus(ctx, o); err != nil {
		return errors.Wrap(err, "update order status")
	}

	if req.OrderStatus == StatusCompleted {
		if err := s.onCompleted(ctx, o); err != nil {
			return err
		}
	}
	return nil
}

// onCompleted bumps the customer's stats and refreshes the tier badge. The
// badge recompute checks MinimumOrders only; see discount.Engine.HighestBadge.
func (s *Service) onCompleted(ctx context.Context, o *Order) error {
	cust, err := s.customers.GetByID(ctx, o.CustomerID)
	if err != nil {
		return err
	}
	items, err := s.orders.ItemsByOrder(ctx, o.ID)
	if err != nil {
		return errors.Wrap(err, "get order items")
	}

	completed := cust.TotalCompletedOrders + 1
	badge, err := s.discounts.HighestBadge(ctx, completed)
	if err != nil {
		return err
	}
	if badge == 0 {
		// Original behaviour: the badge is only ever promoted; a customer
		// with no eligible tier keeps their previous badge.
		badge = cust.CurrentDiscountTier
	}

	if err := s.customers.IncrementStats(ctx, cust.ID, len(items), badge); err != nil {
		return errors.Wrap(err, "increment customer stats")
	}
	return nil
}
