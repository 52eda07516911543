package catalog

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Category enumerates the three kinds of drink components.
type Category string

const (
	CategoryFlavour     Category = "Flavour"
	CategoryTopping     Category = "Topping"
	CategoryConsistency Category = "Consistency"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryFlavour, CategoryTopping, CategoryConsistency:
		return true
	}
	return false
}

var (
	// ErrNotFound is returned when a requested item does not exist or is inactive.
	ErrNotFound = errors.New("catalog item not found")
	// ErrDuplicateName is returned when an active item with the same name
	// already exists within the category.
	ErrDuplicateName = errors.New("catalog item with this name already exists")
	// ErrInvalidCategory is returned for categories outside the known set.
	ErrInvalidCategory = errors.New("invalid category: must be Flavour, Topping, or Consistency")
	// ErrNegativePrice is returned for item prices below zero.
	ErrNegativePrice = errors.New("price must not be negative")
)

// Item is a priced, soft-deletable drink component. Items are never hard
// deleted: historical order items reference them by id.
type Item struct {
	ID          int64
	Name        string
	Category    Category
	Price       decimal.Decimal
	Description string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Repository defines persistence operations for catalog items.
type Repository interface {
	List(ctx context.Context) ([]Item, error)
	ListByCategory(ctx context.Context, c Category) ([]Item, error)
	// GetActive returns the item only when it exists and is active.
	GetActive(ctx context.Context, id int64) (*Item, error)
	// Get returns the item regardless of active state; historical orders
	// reference soft-deleted items.
	Get(ctx context.Context, id int64) (*Item, error)
	// ExistsActiveName reports whether an active item with the given name
	// exists in the category.
	ExistsActiveName(ctx context.Context, c Category, name string) (bool, error)
	Create(ctx context.Context, item *Item) error
	Update(ctx context.Context, item *Item) error
	// Deactivate soft-deletes the item.
	Deactivate(ctx context.Context, id int64) error
}
