package availability

import (
	"fmt"
	"time"

	"github.com/BruksfildServices01/slot-scheduler/internal/httperr"
)

// ===============================
// Fixed business rules
// ===============================

const (
	// LeadTime is the minimum delay between now and the earliest slot start.
	LeadTime = 3 * time.Hour

	// SlotCadence is the spacing between candidate starts.
	SlotCadence = 30 * time.Minute

	// LastStartBeforeClose bounds the latest start relative to closing time.
	LastStartBeforeClose = time.Hour
)

const (
	DefaultAppointmentDuration = 120 * time.Minute
	DefaultBufferTime          = 45 * time.Minute
	DefaultOpeningHour         = 9
	DefaultClosingHour         = 17
)

// BusinessHours is a half-open [Start, End) window in whole local hours.
type BusinessHours struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Rules is the resolved slot configuration. Zero values are never guessed
// downstream: build it with DefaultRules and validate it once.
type Rules struct {
	AppointmentDuration time.Duration
	BufferTime          time.Duration
	BusinessHours       BusinessHours
}

// MaxRuleDuration bounds appointment duration and buffer time.
const MaxRuleDuration = 24 * time.Hour

func DefaultRules() Rules {
	return Rules{
		AppointmentDuration: DefaultAppointmentDuration,
		BufferTime:          DefaultBufferTime,
		BusinessHours: BusinessHours{
			Start: DefaultOpeningHour,
			End:   DefaultClosingHour,
		},
	}
}

func (r Rules) Validate() error {
	if r.AppointmentDuration <= 0 || r.AppointmentDuration > MaxRuleDuration {
		return httperr.Detailed(httperr.CodeInvalidInput, "appointment duration must be within 1m..24h")
	}
	if r.BufferTime < 0 || r.BufferTime > MaxRuleDuration {
		return httperr.Detailed(httperr.CodeInvalidInput, "buffer time must be within 0..24h")
	}
	h := r.BusinessHours
	if h.Start < 0 || h.End > 24 || h.Start >= h.End {
		return httperr.Detailed(
			httperr.CodeInvalidInput,
			fmt.Sprintf("business hours %d-%d are not a valid window", h.Start, h.End),
		)
	}
	return nil
}

// Options drives range mode. StartDate and EndDate are local calendar dates
// (midnight in the business location), both inclusive.
type Options struct {
	StartDate time.Time
	EndDate   time.Time
	Rules     Rules
}

// MaxRangeDays caps a single range query.
const MaxRangeDays = 366

func (o Options) Validate() error {
	if o.StartDate.IsZero() || o.EndDate.IsZero() {
		return httperr.Detailed(httperr.CodeInvalidInput, "start and end dates are required")
	}
	if o.EndDate.Before(o.StartDate) {
		return httperr.Detailed(httperr.CodeInvalidInput, "end date is before start date")
	}
	if o.EndDate.After(o.StartDate.AddDate(0, 0, MaxRangeDays)) {
		return httperr.Detailed(httperr.CodeInvalidInput, fmt.Sprintf("range exceeds %d days", MaxRangeDays))
	}
	return o.Rules.Validate()
}
