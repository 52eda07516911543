// Package customer holds the account entity shared by auth, discounting and
// ordering.
package customer

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

// Roles recognised by the API.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// ErrNotFound is returned when a requested customer does not exist.
var ErrNotFound = errors.New("customer not found")

// Customer is a registered account. TotalCompletedOrders,
// TotalDrinksPurchased and CurrentDiscountTier are denormalized counters
// maintained when orders complete; CurrentDiscountTier is a cached badge, not
// the tier used for any specific order's discount.
type Customer struct {
	ID                   int64
	FullName             string
	Email                string
	MobileNumber         string
	PasswordHash         string
	Role                 string
	TotalCompletedOrders int
	TotalDrinksPurchased int
	CurrentDiscountTier  int
	Active               bool
	CreatedAt            time.Time
	LastLoginAt          *time.Time
}

// Repository defines persistence operations for customers.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*Customer, error)
	// GetByEmail returns only active accounts.
	GetByEmail(ctx context.Context, email string) (*Customer, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, c *Customer) error
	TouchLastLogin(ctx context.Context, id int64, at time.Time) error
	// IncrementStats adds one completed order and the given drink count,
	// then sets the cached tier badge.
	IncrementStats(ctx context.Context, id int64, drinks int, newTier int) error
}
