package pricing

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shakehq/milkshake-api/internal/domain/catalog"
	"github.com/shakehq/milkshake-api/internal/runtimeconfig"
)

// --- Mock implementations ---

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

// staticConfig returns canned values and falls back to defaults for absent keys.
type staticConfig struct {
	decimals map[string]decimal.Decimal
	ints     map[string]int
}

func (c staticConfig) Decimal(_ context.Context, key string, def decimal.Decimal) decimal.Decimal {
	if v, ok := c.decimals[key]; ok {
		return v
	}
	return def
}

func (c staticConfig) Int(_ context.Context, key string, def int) int {
	if v, ok := c.ints[key]; ok {
		return v
	}
	return def
}

// --- Helpers ---

func testCatalog() *mockCatalogRepo {
	return &mockCatalogRepo{byID: map[int64]*catalog.Item{
		1: {ID: 1, Name: "Chocolate", Category: catalog.CategoryFlavour, Price: decimal.RequireFromString("45.00"), Active: true},
		2: {ID: 2, Name: "Oreo", Category: catalog.CategoryTopping, Price: decimal.RequireFromString("12.00"), Active: true},
		3: {ID: 3, Name: "Thick", Category: catalog.CategoryConsistency, Price: decimal.RequireFromString("5.00"), Active: true},
		4: {ID: 4, Name: "Discontinued", Category: catalog.CategoryFlavour, Price: decimal.RequireFromString("10.00"), Active: false},
	}}
}

func chocOreoThick() DrinkSelection {
	return DrinkSelection{FlavourID: 1, ToppingID: 2, ConsistencyID: 3}
}

// --- Tests ---

func TestPriceOfDrink(t *testing.T) {
	svc := NewService(testCatalog(), staticConfig{})

	price, err := svc.PriceOfDrink(context.Background(), chocOreoThick())

	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("62.00").Equal(price.Total()))
}

func TestPriceOfDrink_InactiveComponent(t *testing.T) {
	svc := NewService(testCatalog(), staticConfig{})

	_, err := svc.PriceOfDrink(context.Background(), DrinkSelection{FlavourID: 4, ToppingID: 2, ConsistencyID: 3})
	require.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestPriceOfDrink_CategoryMismatch(t *testing.T) {
	svc := NewService(testCatalog(), staticConfig{})

	// A topping id in the flavour slot must not price.
	_, err := svc.PriceOfDrink(context.Background(), DrinkSelection{FlavourID: 2, ToppingID: 2, ConsistencyID: 3})
	require.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestSubtotal(t *testing.T) {
	svc := NewService(testCatalog(), staticConfig{})

	subtotal, prices, err := svc.Subtotal(context.Background(), []DrinkSelection{
		chocOreoThick(),
		chocOreoThick(),
	})

	require.NoError(t, err)
	require.Len(t, prices, 2)
	assert.True(t, decimal.RequireFromString("124.00").Equal(subtotal))
}

func TestSubtotal_Empty(t *testing.T) {
	svc := NewService(testCatalog(), staticConfig{})

	subtotal, prices, err := svc.Subtotal(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, prices)
	assert.True(t, subtotal.IsZero())
}

func TestVAT_ConfiguredPercentage(t *testing.T) {
	cfg := staticConfig{decimals: map[string]decimal.Decimal{
		runtimeconfig.KeyVATPercentage: decimal.RequireFromString("20"),
	}}
	svc := NewService(testCatalog(), cfg)

	vat := svc.VAT(context.Background(), decimal.RequireFromString("100.00"))
	assert.True(t, decimal.RequireFromString("20.00").Equal(vat))
}

func TestVAT_DefaultWhenAbsent(t *testing.T) {
	svc := NewService(testCatalog(), staticConfig{})

	vat := svc.VAT(context.Background(), decimal.RequireFromString("100.00"))
	assert.True(t, decimal.RequireFromString("15.00").Equal(vat))
}

func TestComputeVAT_Rounds(t *testing.T) {
	// 15% of 33.33 is 4.9995, rounded to 5.00.
	vat := ComputeVAT(decimal.RequireFromString("33.33"), decimal.NewFromInt(15))
	assert.True(t, decimal.RequireFromString("5.00").Equal(vat))
}
