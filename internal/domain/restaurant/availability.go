package restaurant

import (
	"context"
	"time"

	"github.com/go-faster/errors"

	"github.com/shakehq/milkshake-api/internal/runtimeconfig"
)

// SlotWidth is the fixed pickup window size.
const SlotWidth = 15 * time.Minute

// Defaults when runtime configuration is absent.
const (
	DefaultSlotCapacity = 5
	DefaultPrepMinutes  = 15
)

// Slot is one bookable pickup window.
type Slot struct {
	Time      time.Time
	Display   string
	Available bool
}

// SlotStarts generates successive slot start times for the given day and
// opening hours. For today, generation starts no earlier than now rounded up
// to the next slot boundary plus the preparation buffer; for other days it
// starts at opening time. A slot is included only while its start is strictly
// before closing time.
func SlotStarts(day time.Time, opening, closing Minutes, now time.Time, prep time.Duration) []time.Time {
	start := opening.At(day)
	end := closing.At(day)

	ny, nm, nd := now.Date()
	dy, dm, dd := day.Date()
	if ny == dy && nm == dm && nd == dd && now.After(start) {
		// Round-up works at minute granularity: 10:15:30 counts as being
		// on the 10:15 boundary, not past it.
		minute := now.Truncate(time.Minute)
		rounded := minute.Truncate(SlotWidth)
		if rounded.Before(minute) {
			rounded = rounded.Add(SlotWidth)
		}
		start = rounded.Add(prep)
	}

	var starts []time.Time
	for t := start; t.Before(end); t = t.Add(SlotWidth) {
		starts = append(starts, t)
	}
	return starts
}

// Availability computes bookable pickup slots. Results are recomputed from
// live order counts on every call.
type Availability struct {
	restaurants Repository
	orders      SlotCounter
	configs     runtimeconfig.Getter
	now         func() time.Time
}

// NewAvailability creates an Availability calculator.
func NewAvailability(restaurants Repository, orders SlotCounter, configs runtimeconfig.Getter) *Availability {
	return &Availability{
		restaurants: restaurants,
		orders:      orders,
		configs:     configs,
		now:         time.Now,
	}
}

// Slots returns the day's pickup slots for a restaurant, oldest first. A
// missing or inactive restaurant yields an empty list, not an error.
func (a *Availability) Slots(ctx context.Context, restaurantID int64, day time.Time) ([]Slot, error) {
	r, err := a.restaurants.GetByID(ctx, restaurantID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return []Slot{}, nil
		}
		return nil, errors.Wrap(err, "get restaurant")
	}
	if !r.Active {
		return []Slot{}, nil
	}

	capacity := a.configs.Int(ctx, runtimeconfig.KeySlotCapacity, DefaultSlotCapacity)
	prep := time.Duration(a.configs.Int(ctx, runtimeconfig.KeyPreparationTime, DefaultPrepMinutes)) * time.Minute

	starts := SlotStarts(day, r.OpeningTime, r.ClosingTime, a.now(), prep)
	slots := make([]Slot, 0, len(starts))
	for _, start := range starts {
		count, err := a.orders.CountPickupsInRange(ctx, restaurantID, start, start.Add(SlotWidth))
		if err != nil {
			return nil, errors.Wrap(err, "count pickups")
		}
		slots = append(slots, Slot{
			Time:      start,
			Display:   start.Format("15:04"),
			Available: count < capacity,
		})
	}
	return slots, nil
}
