package order

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shakehq/milkshake-api/internal/domain/catalog"
	"github.com/shakehq/milkshake-api/internal/domain/customer"
	"github.com/shakehq/milkshake-api/internal/domain/discount"
	"github.com/shakehq/milkshake-api/internal/domain/pricing"
	"github.com/shakehq/milkshake-api/internal/domain/restaurant"
	"github.com/shakehq/milkshake-api/internal/runtimeconfig"
)

// --- Mock implementations ---

type mockOrderRepo struct {
	nextID    int64
	byID      map[int64]*Order
	items     map[int64][]Item
	createErr error
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{nextID: 1, byID: map[int64]*Order{}, items: map[int64][]Item{}}
}

func (m *mockOrderRepo) CreateWithItems(_ context.Context, o *Order, items []Item, _ int) error {
	if m.createErr != nil {
		return m.createErr
	}
	o.ID = m.nextID
	m.nextID++
	stored := *o
	m.byID[o.ID] = &stored
	m.items[o.ID] = items
	return nil
}

func (m *mockOrderRepo) GetByID(_ context.Context, id int64) (*Order, error) {
	o, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *mockOrderRepo) ItemsByOrder(_ context.Context, id int64) ([]Item, error) {
	return m.items[id], nil
}

func (m *mockOrderRepo) ListByCustomer(_ context.Context, customerID int64) ([]Order, error) {
	var out []Order
	for _, o := range m.byID {
		if o.CustomerID == customerID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (m *mockOrderRepo) List(_ context.Context) ([]Order, error) {
	var out []Order
	for _, o := range m.byID {
		out = append(out, *o)
	}
	return out, nil
}

func (m *mockOrderRepo) UpdateStatus(_ context.Context, o *Order) error {
	stored, ok := m.byID[o.ID]
	if !ok {
		return ErrNotFound
	}
	*stored = *o
	return nil
}

func (m *mockOrderRepo) SetPaymentStatus(_ context.Context, id int64, status PaymentStatus) error {
	stored, ok := m.byID[id]
	if !ok {
		return ErrNotFound
	}
	stored.PaymentStatus = status
	return nil
}

type mockCustomerRepo struct {
	byID map[int64]*customer.Customer

	statsCustomer int64
	statsDrinks   int
	statsTier     int
}

func (m *mockCustomerRepo) GetByID(_ context.Context, id int64) (*customer.Customer, error) {
	c, ok := m.byID[id]
	if !ok {
		return nil, customer.ErrNotFound
	}
	return c, nil
}

func (m *mockCustomerRepo) GetByEmail(_ context.Context, _ string) (*customer.Customer, error) {
	return nil, customer.ErrNotFound
}

func (m *mockCustomerRepo) EmailExists(_ context.Context, _ string) (bool, error) { return false, nil }
func (m *mockCustomerRepo) Create(_ context.Context, _ *customer.Customer) error  { return nil }
func (m *mockCustomerRepo) TouchLastLogin(_ context.Context, _ int64, _ time.Time) error {
	return nil
}

func (m *mockCustomerRepo) IncrementStats(_ context.Context, id int64, drinks, newTier int) error {
	m.statsCustomer = id
	m.statsDrinks = drinks
	m.statsTier = newTier
	return nil
}

type mockRestaurantRepo struct {
	byID map[int64]*restaurant.Restaurant
}

func (m *mockRestaurantRepo) ListActive(_ context.Context) ([]restaurant.Restaurant, error) {
	return nil, nil
}

func (m *mockRestaurantRepo) GetByID(_ context.Context, id int64) (*restaurant.Restaurant, error) {
	r, ok := m.byID[id]
	if !ok {
		return nil, restaurant.ErrNotFound
	}
	return r, nil
}

func (m *mockRestaurantRepo) Create(_ context.Context, _ *restaurant.Restaurant) error { return nil }
func (m *mockRestaurantRepo) Update(_ context.Context, _ *restaurant.Restaurant) error { return nil }

type mockCatalogRepo struct {
	byID map[int64]*catalog.Item
}

func (m *mockCatalogRepo) List(_ context.Context) ([]catalog.Item, error) { return nil, nil }
func (m *mockCatalogRepo) ListByCategory(_ context.Context, _ catalog.Category) ([]catalog.Item, error) {
	return nil, nil
}

func (m *mockCatalogRepo) GetActive(_ context.Context, id int64) (*catalog.Item, error) {
	item, ok := m.byID[id]
	if !ok || !item.Active {
		return nil, catalog.ErrNotFound
	}
	return item, nil
}

func (m *mockCatalogRepo) Get(_ context.Context, id int64) (*catalog.Item, error) {
	item, ok := m.byID[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return item, nil
}

func (m *mockCatalogRepo) ExistsActiveName(_ context.Context, _ catalog.Category, _ string) (bool, error) {
	return false, nil
}

func (m *mockCatalogRepo) Create(_ context.Context, _ *catalog.Item) error { return nil }
func (m *mockCatalogRepo) Update(_ context.Context, _ *catalog.Item) error { return nil }
func (m *mockCatalogRepo) Deactivate(_ context.Context, _ int64) error     { return nil }

type mockTierRepo struct {
	tiers []discount.Tier
}

func (m *mockTierRepo) ListActive(_ context.Context) ([]discount.Tier, error) { return m.tiers, nil }
func (m *mockTierRepo) List(_ context.Context) ([]discount.Tier, error)       { return m.tiers, nil }

func (m *mockTierRepo) GetByID(_ context.Context, id int64) (*discount.Tier, error) {
	for i := range m.tiers {
		if m.tiers[i].ID == id {
			return &m.tiers[i], nil
		}
	}
	return nil, discount.ErrTierNotFound
}

func (m *mockTierRepo) GetByLevel(_ context.Context, level int) (*discount.Tier, error) {
	for i := range m.tiers {
		if m.tiers[i].Level == level {
			return &m.tiers[i], nil
		}
	}
	return nil, discount.ErrTierNotFound
}

func (m *mockTierRepo) Update(_ context.Context, _ *discount.Tier) error { return nil }

type staticConfig struct {
	ints map[string]int
}

func (c staticConfig) Decimal(_ context.Context, _ string, def decimal.Decimal) decimal.Decimal {
	return def
}

func (c staticConfig) Int(_ context.Context, key string, def int) int {
	if v, ok := c.ints[key]; ok {
		return v
	}
	return def
}

type mockNotifier struct {
	email   string
	orderID int64
	calls   int
}

func (m *mockNotifier) OrderConfirmation(_ context.Context, email string, orderID int64, _ decimal.Decimal) {
	m.email = email
	m.orderID = orderID
	m.calls++
}

// --- Fixture ---

var testNow = time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

type fixture struct {
	svc       *Service
	orders    *mockOrderRepo
	customers *mockCustomerRepo
	notifier  *mockNotifier
}

func newFixture(completedOrders int) *fixture {
	orders := newMockOrderRepo()
	customers := &mockCustomerRepo{byID: map[int64]*customer.Customer{
		7: {
			ID: 7, FullName: "Thandi M", Email: "thandi@example.com",
			TotalCompletedOrders: completedOrders,
		},
	}}
	restaurants := &mockRestaurantRepo{byID: map[int64]*restaurant.Restaurant{
		1: {ID: 1, Name: "Central", Address: "1 Milkshake Lane", OpeningTime: 480, ClosingTime: 1200, Active: true},
		2: {ID: 2, Name: "Shuttered", OpeningTime: 480, ClosingTime: 1200, Active: false},
	}}
	cat := &mockCatalogRepo{byID: map[int64]*catalog.Item{
		1: {ID: 1, Name: "Chocolate", Category: catalog.CategoryFlavour, Price: decimal.RequireFromString("45.00"), Active: true},
		2: {ID: 2, Name: "Oreo", Category: catalog.CategoryTopping, Price: decimal.RequireFromString("12.00"), Active: true},
		3: {ID: 3, Name: "Thick", Category: catalog.CategoryConsistency, Price: decimal.RequireFromString("5.00"), Active: true},
	}}
	tiers := &mockTierRepo{tiers: []discount.Tier{
		{
			ID: 1, Level: 1, Name: "Bronze",
			MinimumOrders: 5, MinimumDrinksPerOrder: 2,
			DiscountPct:       decimal.RequireFromString("5.00"),
			MaxDiscountAmount: decimal.RequireFromString("50.00"),
			Active:            true,
		},
	}}
	configs := staticConfig{}
	notifier := &mockNotifier{}

	svc := NewService(orders, customers, restaurants, cat, tiers,
		pricing.NewService(cat, configs),
		discount.NewEngine(customers, tiers),
		configs, notifier)
	svc.now = func() time.Time { return testNow }

	return &fixture{svc: svc, orders: orders, customers: customers, notifier: notifier}
}

func twoDrinks() []pricing.DrinkSelection {
	sel := pricing.DrinkSelection{FlavourID: 1, ToppingID: 2, ConsistencyID: 3}
	return []pricing.DrinkSelection{sel, sel}
}

func placeRequest() PlaceOrderRequest {
	return PlaceOrderRequest{
		CustomerID:   7,
		RestaurantID: 1,
		PickupTime:   testNow.Add(2 * time.Hour),
		Items:        twoDrinks(),
	}
}

// --- Tests ---

func TestPlace_EmptyItems(t *testing.T) {
	f := newFixture(0)

	req := placeRequest()
	req.Items = nil

	_, err := f.svc.Place(context.Background(), req)
	require.ErrorIs(t, err, ErrEmptyItems)
}

func TestPlace_TooManyDrinks(t *testing.T) {
	f := newFixture(0)
	f.svc.configs = staticConfig{ints: map[string]int{runtimeconfig.KeyMaxDrinks: 1}}

	_, err := f.svc.Place(context.Background(), placeRequest())
	require.ErrorIs(t, err, ErrTooManyDrinks)
}

func TestPlace_UnknownCustomer(t *testing.T) {
	f := newFixture(0)

	req := placeRequest()
	req.CustomerID = 99

	_, err := f.svc.Place(context.Background(), req)
	require.ErrorIs(t, err, customer.ErrNotFound)
}

func TestPlace_InactiveRestaurant(t *testing.T) {
	f := newFixture(0)

	req := placeRequest()
	req.RestaurantID = 2

	_, err := f.svc.Place(context.Background(), req)
	require.ErrorIs(t, err, restaurant.ErrNotFound)
}

func TestPlace_PastPickup(t *testing.T) {
	f := newFixture(0)

	req := placeRequest()
	req.PickupTime = testNow.Add(-time.Minute)

	_, err := f.svc.Place(context.Background(), req)
	require.ErrorIs(t, err, ErrPastPickup)
}

func TestPlace_SlotFull(t *testing.T) {
	f := newFixture(0)
	f.orders.createErr = ErrSlotFull

	_, err := f.svc.Place(context.Background(), placeRequest())
	require.ErrorIs(t, err, ErrSlotFull)
}

func TestPlace_Totals(t *testing.T) {
	// Customer with 5 completed orders qualifies for Bronze (5%).
	f := newFixture(5)

	detail, err := f.svc.Place(context.Background(), placeRequest())
	require.NoError(t, err)

	// Two drinks at 62.00: subtotal 124.00, VAT 15% = 18.60, Bronze 5% = 6.20.
	assert.True(t, decimal.RequireFromString("124.00").Equal(detail.Subtotal))
	assert.True(t, decimal.RequireFromString("18.60").Equal(detail.VAT))
	assert.True(t, decimal.RequireFromString("6.20").Equal(detail.DiscountAmount))
	assert.True(t, decimal.RequireFromString("136.40").Equal(detail.TotalCost))
	assert.Equal(t, 1, detail.DiscountTierApplied)
	assert.Equal(t, "Bronze", detail.DiscountTierName)
	assert.Equal(t, StatusPending, detail.OrderStatus)
	assert.Equal(t, PaymentPending, detail.PaymentStatus)
	assert.Equal(t, 2, detail.NumberOfDrinks)
}

func TestPlace_NoDiscountForNewCustomer(t *testing.T) {
	f := newFixture(0)

	detail, err := f.svc.Place(context.Background(), placeRequest())
	require.NoError(t, err)

	assert.True(t, detail.DiscountAmount.IsZero())
	assert.Equal(t, discount.NoTierName, detail.DiscountTierName)
	assert.True(t, decimal.RequireFromString("142.60").Equal(detail.TotalCost))
}

func TestPlace_SnapshotsItemPrices(t *testing.T) {
	f := newFixture(0)

	detail, err := f.svc.Place(context.Background(), placeRequest())
	require.NoError(t, err)
	require.Len(t, detail.Items, 2)

	item := detail.Items[0]
	assert.True(t, decimal.RequireFromString("45.00").Equal(item.FlavourPrice))
	assert.True(t, decimal.RequireFromString("12.00").Equal(item.ToppingPrice))
	assert.True(t, decimal.RequireFromString("5.00").Equal(item.ConsistencyPrice))
	assert.True(t, decimal.RequireFromString("62.00").Equal(item.ItemTotal))
	assert.Equal(t, "Chocolate", item.FlavourName)
	assert.Equal(t, "Oreo", item.ToppingName)
	assert.Equal(t, "Thick", item.ConsistencyName)
}

func TestPlace_SendsConfirmation(t *testing.T) {
	f := newFixture(0)

	detail, err := f.svc.Place(context.Background(), placeRequest())
	require.NoError(t, err)

	assert.Equal(t, 1, f.notifier.calls)
	assert.Equal(t, "thandi@example.com", f.notifier.email)
	assert.Equal(t, detail.ID, f.notifier.orderID)
}

func TestGet_Stable(t *testing.T) {
	f := newFixture(5)

	placed, err := f.svc.Place(context.Background(), placeRequest())
	require.NoError(t, err)

	first, err := f.svc.Get(context.Background(), placed.ID)
	require.NoError(t, err)
	second, err := f.svc.Get(context.Background(), placed.ID)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestGet_NotFound(t *testing.T) {
	f := newFixture(0)

	_, err := f.svc.Get(context.Background(), 42)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateStatus_ValidTransitions(t *testing.T) {
	f := newFixture(0)

	placed, err := f.svc.Place(context.Background(), placeRequest())
	require.NoError(t, err)

	err = f.svc.UpdateStatus(context.Background(), placed.ID, UpdateStatusRequest{
		OrderStatus:   StatusConfirmed,
		PaymentStatus: PaymentPaid,
	})
	require.NoError(t, err)

	detail, err := f.svc.Get(context.Background(), placed.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, detail.OrderStatus)
	assert.Equal(t, PaymentPaid, detail.PaymentStatus)

	err = f.svc.UpdateStatus(context.Background(), placed.ID, UpdateStatusRequest{OrderStatus: StatusCompleted})
	require.NoError(t, err)

	detail, err = f.svc.Get(context.Background(), placed.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, detail.OrderStatus)
	require.NotNil(t, detail.CompletedAt)
	assert.Equal(t, testNow, *detail.CompletedAt)
}

func TestUpdateStatus_InvalidTransition(t *testing.T) {
	f := newFixture(0)

	placed, err := f.svc.Place(context.Background(), placeRequest())
	require.NoError(t, err)

	err = f.svc.UpdateStatus(context.Background(), placed.ID, UpdateStatusRequest{OrderStatus: StatusCompleted})
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateStatus_UnknownStatus(t *testing.T) {
	f := newFixture(0)

	err := f.svc.UpdateStatus(context.Background(), 1, UpdateStatusRequest{OrderStatus: "Teleported"})
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateStatus_CancelRecordsTime(t *testing.T) {
	f := newFixture(0)

	placed, err := f.svc.Place(context.Background(), placeRequest())
	require.NoError(t, err)

	err = f.svc.UpdateStatus(context.Background(), placed.ID, UpdateStatusRequest{OrderStatus: StatusCancelled})
	require.NoError(t, err)

	detail, err := f.svc.Get(context.Background(), placed.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, detail.OrderStatus)
	require.NotNil(t, detail.CancelledAt)
	assert.Equal(t, testNow, *detail.CancelledAt)
}

func TestUpdateStatus_CompletionUpdatesStats(t *testing.T) {
	// 4 completed orders: this completion is the fifth, reaching Bronze.
	f := newFixture(4)

	placed, err := f.svc.Place(context.Background(), placeRequest())
	require.NoError(t, err)

	require.NoError(t, f.svc.UpdateStatus(context.Background(), placed.ID,
		UpdateStatusRequest{OrderStatus: StatusConfirmed}))
	require.NoError(t, f.svc.UpdateStatus(context.Background(), placed.ID,
		UpdateStatusRequest{OrderStatus: StatusCompleted}))

	assert.Equal(t, int64(7), f.customers.statsCustomer)
	assert.Equal(t, 2, f.customers.statsDrinks)
	assert.Equal(t, 1, f.customers.statsTier)
}

func TestUpdateStatus_CompletionKeepsBadgeWhenIneligible(t *testing.T) {
	// One prior order: still below Bronze after completing. The cached
	// badge must not be downgraded from its previous value.
	f := newFixture(1)
	f.customers.byID[7].CurrentDiscountTier = 1

	placed, err := f.svc.Place(context.Background(), placeRequest())
	require.NoError(t, err)

	require.NoError(t, f.svc.UpdateStatus(context.Background(), placed.ID,
		UpdateStatusRequest{OrderStatus: StatusConfirmed}))
	require.NoError(t, f.svc.UpdateStatus(context.Background(), placed.ID,
		UpdateStatusRequest{OrderStatus: StatusCompleted}))

	assert.Equal(t, 1, f.customers.statsTier)
}
