package calendar

import (
	"context"
	"hash/fnv"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/slot-scheduler/internal/domain/availability"
	"github.com/BruksfildServices01/slot-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/slot-scheduler/internal/httperr"
	"github.com/BruksfildServices01/slot-scheduler/internal/timezone"
)

const (
	mockMaxBlocksPerDay = 2
	mockBlockStep       = 30 * time.Minute
	mockMaxBlockSteps   = 4
)

// MockCalendar is a seeded stand-in for the external calendar. The same seed
// always yields the same busy blocks for a given date. Events written through
// it are kept in memory so the conflict guard sees them.
type MockCalendar struct {
	seed  uint64
	loc   *time.Location
	hours domain.BusinessHours

	mu     sync.Mutex
	booked []domain.Interval
}

func NewMockCalendar(seed int64, loc *time.Location, hours domain.BusinessHours) *MockCalendar {
	return &MockCalendar{
		seed:  uint64(seed),
		loc:   loc,
		hours: hours,
	}
}

func (m *MockCalendar) FetchBusy(
	ctx context.Context,
	_ string,
	windowStart time.Time,
	windowEnd time.Time,
) ([]domain.Interval, error) {

	if err := ctx.Err(); err != nil {
		return nil, httperr.Wrap(httperr.CodeUpstreamUnavailable, err)
	}

	window := domain.Interval{Start: windowStart, End: windowEnd}
	var out []domain.Interval

	for day := timezone.StartOfDay(windowStart, m.loc); day.Before(windowEnd); day = day.AddDate(0, 0, 1) {
		for _, b := range m.dayBlocks(day) {
			if b.Overlaps(window) {
				out = append(out, b)
			}
		}
	}

	m.mu.Lock()
	for _, b := range m.booked {
		if b.Overlaps(window) {
			out = append(out, b)
		}
	}
	m.mu.Unlock()

	return out, nil
}

func (m *MockCalendar) InsertEvent(
	ctx context.Context,
	_ string,
	b booking.Booking,
) (string, error) {

	if err := ctx.Err(); err != nil {
		return "", httperr.Wrap(httperr.CodeUpstreamUnavailable, err)
	}

	m.mu.Lock()
	m.booked = append(m.booked, domain.Interval{Start: b.Start, End: b.End})
	m.mu.Unlock()

	return "mock-" + uuid.NewString(), nil
}

// dayBlocks derives the pre-existing commitments of one day from the seed and
// the date key.
func (m *MockCalendar) dayBlocks(day time.Time) []domain.Interval {
	if !timezone.IsBusinessDay(day) {
		return nil
	}

	h := fnv.New64a()
	_, _ = h.Write([]byte(timezone.DateKey(day)))
	rng := rand.New(rand.NewPCG(m.seed, h.Sum64()))

	open := time.Date(day.Year(), day.Month(), day.Day(), m.hours.Start, 0, 0, 0, m.loc)
	steps := (m.hours.End - m.hours.Start) * 2
	if steps <= 0 {
		return nil
	}

	n := rng.IntN(mockMaxBlocksPerDay + 1)
	blocks := make([]domain.Interval, 0, n)
	for i := 0; i < n; i++ {
		start := open.Add(time.Duration(rng.IntN(steps)) * mockBlockStep)
		length := time.Duration(1+rng.IntN(mockMaxBlockSteps)) * mockBlockStep
		blocks = append(blocks, domain.Interval{Start: start, End: start.Add(length)})
	}
	return blocks
}
