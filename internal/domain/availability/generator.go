package availability

import "time"

// GenerateDaySlots lists the bookable windows of one calendar day.
//
// Candidates start every SlotCadence from opening time. A candidate survives
// when it starts at least LeadTime after now, no later than one hour before
// closing, and its [start, start+duration) window stays clear of every busy
// block padded by the buffer on both sides. The stored end excludes the
// buffer; the buffer tail may run past closing.
//
// The function is pure: the same inputs always yield the same set.
func GenerateDaySlots(day time.Time, rules Rules, busy []Interval, now time.Time) (DaySlotSet, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}

	y, m, d := day.Date()
	loc := day.Location()

	opening := time.Date(y, m, d, rules.BusinessHours.Start, 0, 0, 0, loc)
	closing := time.Date(y, m, d, rules.BusinessHours.End, 0, 0, 0, loc)
	lastStart := closing.Add(-LastStartBeforeClose)
	cutoff := now.Add(LeadTime)

	slots := DaySlotSet{}

	for start := opening; start.Before(closing); start = start.Add(SlotCadence) {
		if start.Before(cutoff) {
			continue
		}

		// candidates are chronological, nothing after this can qualify
		if start.After(lastStart) {
			break
		}

		candidate := Interval{
			Start: start,
			End:   start.Add(rules.AppointmentDuration),
		}

		if OverlapsAny(candidate, busy, rules.BufferTime) {
			continue
		}

		slots = append(slots, candidate)
	}

	return slots, nil
}
