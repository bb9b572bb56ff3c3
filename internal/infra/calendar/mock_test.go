package calendar

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/slot-scheduler/internal/domain/availability"
	"github.com/BruksfildServices01/slot-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/slot-scheduler/internal/httperr"
	"github.com/BruksfildServices01/slot-scheduler/internal/timezone"
)

var la = timezone.Location("America/Los_Angeles")

func week() (time.Time, time.Time) {
	start := time.Date(2026, 1, 5, 0, 0, 0, 0, la)
	return start, start.AddDate(0, 0, 7)
}

func TestMockCalendar_Deterministic(t *testing.T) {
	hours := domain.DefaultRules().BusinessHours
	start, end := week()

	a, err := NewMockCalendar(42, la, hours).FetchBusy(context.Background(), "mock", start, end)
	require.NoError(t, err)
	b, err := NewMockCalendar(42, la, hours).FetchBusy(context.Background(), "mock", start, end)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestMockCalendar_BlocksStayInsideBusinessHours(t *testing.T) {
	hours := domain.DefaultRules().BusinessHours
	m := NewMockCalendar(7, la, hours)

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, la)
	end := start.AddDate(0, 3, 0)
	blocks, err := m.FetchBusy(context.Background(), "mock", start, end)
	require.NoError(t, err)
	require.NotEmpty(t, blocks)

	for _, b := range blocks {
		local := b.Start.In(la)
		assert.True(t, timezone.IsBusinessDay(local), "no weekend blocks")
		assert.GreaterOrEqual(t, local.Hour(), hours.Start)
		assert.Less(t, local.Hour(), hours.End)
		assert.True(t, b.Start.Before(b.End))
		assert.LessOrEqual(t, b.Duration(), 2*time.Hour)
	}
}

func TestMockCalendar_WindowFilter(t *testing.T) {
	m := NewMockCalendar(42, la, domain.DefaultRules().BusinessHours)

	// nothing is busy before opening
	start := time.Date(2026, 1, 5, 0, 0, 0, 0, la)
	blocks, err := m.FetchBusy(context.Background(), "mock", start, start.Add(8*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, blocks)
}

func TestMockCalendar_InsertedEventsAreBusy(t *testing.T) {
	m := NewMockCalendar(42, la, domain.DefaultRules().BusinessHours)
	ctx := context.Background()

	slotStart := time.Date(2026, 1, 10, 10, 0, 0, 0, la) // saturday has no seeded blocks
	slotEnd := slotStart.Add(2 * time.Hour)

	before, err := m.FetchBusy(ctx, "mock", slotStart, slotEnd)
	require.NoError(t, err)
	assert.Empty(t, before)

	id, err := m.InsertEvent(ctx, "mock", booking.Booking{Start: slotStart, End: slotEnd})
	require.NoError(t, err)
	assert.Contains(t, id, "mock-")

	after, err := m.FetchBusy(ctx, "mock", slotStart, slotEnd)
	require.NoError(t, err)
	assert.Equal(t, []domain.Interval{{Start: slotStart, End: slotEnd}}, after)
}

func TestMockCalendar_CancelledContext(t *testing.T) {
	m := NewMockCalendar(42, la, domain.DefaultRules().BusinessHours)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start, end := week()
	_, err := m.FetchBusy(ctx, "mock", start, end)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeUpstreamUnavailable))
}
