// Package runtimeconfig exposes operator-editable settings stored in the
// database, as opposed to process configuration loaded at startup.
package runtimeconfig

import (
	"context"
	"strconv"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Well-known configuration keys.
const (
	KeyMinDrinks       = "MinDrinks"
	KeyMaxDrinks       = "MaxDrinks"
	KeyVATPercentage   = "VATPercentage"
	KeyPreparationTime = "PreparationTime"
	KeySlotCapacity    = "SlotCapacity"
)

var (
	// ErrNotFound is returned when a configuration key does not exist.
	ErrNotFound = errors.New("configuration not found")
	// ErrInvalidValue is returned when a new value does not parse as the
	// entry's declared data type.
	ErrInvalidValue = errors.New("value does not match configuration data type")
)

// Entry is a single stored configuration value. Value is always a string;
// DataType declares how it should parse.
type Entry struct {
	ID          int64
	Key         string
	Value       string
	Description string
	DataType    string
	UpdatedAt   time.Time
}

// Repository defines persistence operations for configuration entries.
type Repository interface {
	List(ctx context.Context) ([]Entry, error)
	GetByKey(ctx context.Context, key string) (*Entry, error)
	UpdateValue(ctx context.Context, key, value string, updatedBy int64) error
}

// Getter is the read-side interface consumed by pricing and availability.
type Getter interface {
	Decimal(ctx context.Context, key string, def decimal.Decimal) decimal.Decimal
	Int(ctx context.Context, key string, def int) int
}

var _ Getter = (*Store)(nil)

// Store reads typed values with a default fallback on missing keys or parse
// failures. Lookups are uncached: an operator edit takes effect on the next
// request.
type Store struct {
	repo Repository
}

// NewStore creates a Store backed by the given Repository.
func NewStore(repo Repository) *Store {
	return &Store{repo: repo}
}

// String returns the raw value for key, or def when the key is absent.
func (s *Store) String(ctx context.Context, key, def string) string {
	e, err := s.repo.GetByKey(ctx, key)
	if err != nil || e.Value == "" {
		return def
	}
	return e.Value
}

// Decimal returns the value parsed as a decimal, or def on absence or parse
// failure.
func (s *Store) Decimal(ctx context.Context, key string, def decimal.Decimal) decimal.Decimal {
	raw := s.String(ctx, key, "")
	if raw == "" {
		return def
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return def
	}
	return d
}

// Int returns the value parsed as an int, or def on absence or parse failure.
func (s *Store) Int(ctx context.Context, key string, def int) int {
	raw := s.String(ctx, key, "")
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

// ValidateValue checks value against the entry's declared data type.
func ValidateValue(dataType, value string) error {
	switch dataType {
	case "Integer":
		if _, err := strconv.Atoi(value); err != nil {
			return ErrInvalidValue
		}
	case "Decimal":
		if _, err := decimal.NewFromString(value); err != nil {
			return ErrInvalidValue
		}
	}
	return nil
}
