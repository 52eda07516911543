// Package pricing computes drink prices, order subtotals and VAT.
// All arithmetic is decimal: money never touches floats.
package pricing

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/shakehq/milkshake-api/internal/domain/catalog"
	"github.com/shakehq/milkshake-api/internal/runtimeconfig"
)

// DefaultVATPct is used when the VATPercentage config is missing or invalid.
var DefaultVATPct = decimal.NewFromInt(15)

var hundred = decimal.NewFromInt(100)

// DrinkSelection identifies the three components of one drink.
type DrinkSelection struct {
	FlavourID     int64
	ToppingID     int64
	ConsistencyID int64
}

// DrinkPrice carries component price snapshots for one drink.
type DrinkPrice struct {
	FlavourPrice     decimal.Decimal
	ToppingPrice     decimal.Decimal
	ConsistencyPrice decimal.Decimal
}

// Total is the sum of the three component prices.
func (p DrinkPrice) Total() decimal.Decimal {
	return p.FlavourPrice.Add(p.ToppingPrice).Add(p.ConsistencyPrice)
}

// Service prices drinks against the live catalog.
type Service struct {
	catalog catalog.Repository
	configs runtimeconfig.Getter
}

// NewService creates a pricing Service.
func NewService(cat catalog.Repository, configs runtimeconfig.Getter) *Service {
	return &Service{catalog: cat, configs: configs}
}

// PriceOfDrink resolves the three components and returns their price
// snapshots. Any missing or inactive component yields catalog.ErrNotFound.
func (s *Service) PriceOfDrink(ctx context.Context, sel DrinkSelection) (DrinkPrice, error) {
	flavour, err := s.component(ctx, sel.FlavourID, catalog.CategoryFlavour)
	if err != nil {
		return DrinkPrice{}, err
	}
	topping, err := s.component(ctx, sel.ToppingID, catalog.CategoryTopping)
	if err != nil {
		return DrinkPrice{}, err
	}
	consistency, err := s.component(ctx, sel.ConsistencyID, catalog.CategoryConsistency)
	if err != nil {
		return DrinkPrice{}, err
	}

	return DrinkPrice{
		FlavourPrice:     flavour.Price,
		ToppingPrice:     topping.Price,
		ConsistencyPrice: consistency.Price,
	}, nil
}

func (s *Service) component(ctx context.Context, id int64, want catalog.Category) (*catalog.Item, error) {
	item, err := s.catalog.GetActive(ctx, id)
	if err != nil {
		return nil, errors.Wrapf(err, "%s %d", want, id)
	}
	if item.Category != want {
		return nil, errors.Wrapf(catalog.ErrNotFound, "%s %d", want, id)
	}
	return item, nil
}

// Subtotal prices every selection and sums the drink totals. An empty list
// yields zero; order placement rejects empty orders before reaching here.
func (s *Service) Subtotal(ctx context.Context, items []DrinkSelection) (decimal.Decimal, []DrinkPrice, error) {
	subtotal := decimal.Zero
	prices := make([]DrinkPrice, 0, len(items))
	for _, sel := range items {
		p, err := s.PriceOfDrink(ctx, sel)
		if err != nil {
			return decimal.Zero, nil, err
		}
		prices = append(prices, p)
		subtotal = subtotal.Add(p.Total())
	}
	return subtotal, prices, nil
}

// VAT computes subtotal * VATPercentage / 100, rounded to 2 decimal places.
// The percentage comes from runtime configuration, falling back to
// DefaultVATPct when absent or unparsable.
func (s *Service) VAT(ctx context.Context, subtotal decimal.Decimal) decimal.Decimal {
	pct := s.configs.Decimal(ctx, runtimeconfig.KeyVATPercentage, DefaultVATPct)
	return ComputeVAT(subtotal, pct)
}

// VATPercentage returns the currently configured VAT percentage.
func (s *Service) VATPercentage(ctx context.Context) decimal.Decimal {
	return s.configs.Decimal(ctx, runtimeconfig.KeyVATPercentage, DefaultVATPct)
}

// ComputeVAT is the pure VAT calculation.
func ComputeVAT(subtotal, pct decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(pct).Div(hundred).Round(2)
}
