package restaurant

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
)

var (
	// ErrNotFound is returned when a requested restaurant does not exist.
	ErrNotFound = errors.New("restaurant not found")
	// ErrInvalidHours is returned when opening time is not before closing time.
	ErrInvalidHours = errors.New("opening time must be before closing time")
	// ErrBadClock is returned when a clock string is not HH:MM.
	ErrBadClock = errors.New("invalid time: expected HH:MM")
)

// Minutes is a clock time expressed as minutes since midnight.
type Minutes int

// ParseClock parses "HH:MM" into Minutes.
func ParseClock(s string) (Minutes, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%2d:%2d", &h, &m); err != nil {
		return 0, ErrBadClock
	}
	if h < 0 || h > 24 || m < 0 || m > 59 || h*60+m > 24*60 {
		return 0, ErrBadClock
	}
	return Minutes(h*60 + m), nil
}

// String formats the clock time as "HH:MM".
func (m Minutes) String() string {
	return fmt.Sprintf("%02d:%02d", int(m)/60, int(m)%60)
}

// At anchors the clock time on the given calendar day.
func (m Minutes) At(day time.Time) time.Time {
	y, mo, d := day.Date()
	return time.Date(y, mo, d, int(m)/60, int(m)%60, 0, 0, day.Location())
}

// Restaurant is a pickup location with daily opening hours.
type Restaurant struct {
	ID          int64
	Name        string
	Address     string
	PhoneNumber string
	OpeningTime Minutes
	ClosingTime Minutes
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Repository defines persistence operations for restaurants.
type Repository interface {
	ListActive(ctx context.Context) ([]Restaurant, error)
	GetByID(ctx context.Context, id int64) (*Restaurant, error)
	Create(ctx context.Context, r *Restaurant) error
	Update(ctx context.Context, r *Restaurant) error
}

// SlotCounter counts non-cancelled orders with a pickup time in [from, to)
// at the given restaurant. Implemented by the order repository.
type SlotCounter interface {
	CountPickupsInRange(ctx context.Context, restaurantID int64, from, to time.Time) (int, error)
}
