package availability

import (
	"time"

	"github.com/BruksfildServices01/slot-scheduler/internal/httperr"
)

// Interval is a [Start, End) range. Busy blocks and offered slots share it.
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func NewInterval(start, end time.Time) (Interval, error) {
	if !start.Before(end) {
		return Interval{}, httperr.Detailed(httperr.CodeInvalidInput, "interval start must be before end")
	}
	return Interval{Start: start, End: end}, nil
}

// Overlaps is the half-open test: touching endpoints do not overlap.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start.Before(o.End) && i.End.After(o.Start)
}

// Pad widens the interval by d on both sides.
func (i Interval) Pad(d time.Duration) Interval {
	return Interval{Start: i.Start.Add(-d), End: i.End.Add(d)}
}

func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// OverlapsAny reports whether i overlaps any of busy once each busy block is
// padded by buffer.
func OverlapsAny(i Interval, busy []Interval, buffer time.Duration) bool {
	for _, b := range busy {
		if i.Overlaps(b.Pad(buffer)) {
			return true
		}
	}
	return false
}

// DaySlotSet is chronologically ascending and non-overlapping.
type DaySlotSet []Interval

// AvailabilityMap holds the bookable slot count per YYYY-MM-DD key.
type AvailabilityMap map[string]int
