package restaurant

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mock implementations ---

type mockRestaurantRepo struct {
	byID map[int64]*Restaurant
}

func (m *mockRestaurantRepo) ListActive(_ context.Context) ([]Restaurant, error) { return nil, nil }

func (m *mockRestaurantRepo) GetByID(_ context.Context, id int64) (*Restaurant, error) {
	r, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return r, nil
}

func (m *mockRestaurantRepo) Create(_ context.Context, _ *Restaurant) error { return nil }
func (m *mockRestaurantRepo) Update(_ context.Context, _ *Restaurant) error { return nil }

// mockSlotCounter returns per-slot counts keyed by slot start.
type mockSlotCounter struct {
	counts map[time.Time]int
}

func (m *mockSlotCounter) CountPickupsInRange(_ context.Context, _ int64, from, _ time.Time) (int, error) {
	return m.counts[from], nil
}

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

// --- Helpers ---

func openEightToEight() *mockRestaurantRepo {
	return &mockRestaurantRepo{byID: map[int64]*Restaurant{
		1: {ID: 1, Name: "Central", OpeningTime: 480, ClosingTime: 1200, Active: true},
		2: {ID: 2, Name: "Closed Down", OpeningTime: 480, ClosingTime: 1200, Active: false},
	}}
}

func newTestAvailability(counter SlotCounter, now time.Time) *Availability {
	a := NewAvailability(openEightToEight(), counter, staticConfig{})
	a.now = func() time.Time { return now }
	return a
}

// --- Tests ---

func TestSlotStarts_FullDay(t *testing.T) {
	day := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	starts := SlotStarts(day, 480, 1200, now, 15*time.Minute)

	// 08:00 through 19:45 inclusive.
	require.Len(t, starts, 48)
	assert.Equal(t, "08:00", starts[0].Format("15:04"))
	assert.Equal(t, "19:45", starts[47].Format("15:04"))
}

func TestSlotStarts_TodayRoundsUpAndBuffers(t *testing.T) {
	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 9, 1, 10, 7, 0, 0, time.UTC)

	starts := SlotStarts(day, 480, 1200, now, 15*time.Minute)

	// 10:07 rounds up to 10:15, plus the 15-minute preparation buffer.
	require.NotEmpty(t, starts)
	assert.Equal(t, "10:30", starts[0].Format("15:04"))
	assert.Equal(t, "19:45", starts[len(starts)-1].Format("15:04"))
}

func TestSlotStarts_TodayIgnoresSeconds(t *testing.T) {
	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 9, 1, 10, 15, 30, 0, time.UTC)

	starts := SlotStarts(day, 480, 1200, now, 15*time.Minute)

	// 10:15:30 is still the 10:15 boundary; only whole minutes count.
	assert.Equal(t, "10:30", starts[0].Format("15:04"))
}

func TestSlotStarts_TodayOnBoundary(t *testing.T) {
	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	starts := SlotStarts(day, 480, 1200, now, 15*time.Minute)

	// Already on a boundary: no round-up, buffer only.
	assert.Equal(t, "10:15", starts[0].Format("15:04"))
}

func TestSlotStarts_TodayBeforeOpening(t *testing.T) {
	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 9, 1, 6, 30, 0, 0, time.UTC)

	starts := SlotStarts(day, 480, 1200, now, 15*time.Minute)

	// Before opening the schedule starts at opening time, untouched.
	assert.Equal(t, "08:00", starts[0].Format("15:04"))
}

func TestSlotStarts_PastClosing(t *testing.T) {
	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 9, 1, 19, 58, 0, 0, time.UTC)

	starts := SlotStarts(day, 480, 1200, now, 15*time.Minute)
	assert.Empty(t, starts)
}

func TestSlots_CapacityBoundary(t *testing.T) {
	day := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	full := Minutes(600).At(day)   // 10:00 holds 5 bookings: full
	nearly := Minutes(615).At(day) // 10:15 holds 4: still open
	counter := &mockSlotCounter{counts: map[time.Time]int{full: 5, nearly: 4}}

	a := newTestAvailability(counter, now)
	slots, err := a.Slots(context.Background(), 1, day)

	require.NoError(t, err)
	require.Len(t, slots, 48)

	byDisplay := make(map[string]Slot, len(slots))
	for _, s := range slots {
		byDisplay[s.Display] = s
	}
	assert.False(t, byDisplay["10:00"].Available)
	assert.True(t, byDisplay["10:15"].Available)
	assert.True(t, byDisplay["08:00"].Available)
}

func TestSlots_InactiveRestaurant(t *testing.T) {
	a := newTestAvailability(&mockSlotCounter{}, time.Now())

	slots, err := a.Slots(context.Background(), 2, time.Now().AddDate(0, 0, 1))

	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestSlots_UnknownRestaurant(t *testing.T) {
	a := newTestAvailability(&mockSlotCounter{}, time.Now())

	slots, err := a.Slots(context.Background(), 99, time.Now().AddDate(0, 0, 1))

	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    Minutes
		wantErr bool
	}{
		{in: "08:00", want: 480},
		{in: "19:45", want: 1185},
		{in: "00:00", want: 0},
		{in: "24:00", want: 1440},
		{in: "25:00", wantErr: true},
		{in: "10:75", wantErr: true},
		{in: "whenever", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClock(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrBadClock)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMinutesString(t *testing.T) {
	assert.Equal(t, "08:00", Minutes(480).String())
	assert.Equal(t, "19:45", Minutes(1185).String())
}
