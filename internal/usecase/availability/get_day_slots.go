package availability

import (
	"context"
	"time"

	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/slot-scheduler/internal/domain/availability"
	"github.com/BruksfildServices01/slot-scheduler/internal/timezone"
)

type DaySlotsInput struct {
	ResourceID string
	Date       time.Time
	Rules      domain.Rules
}

// GetDaySlots is detail mode: the full slot list of one day.
type GetDaySlots struct {
	source domain.BusySource
	loc    *time.Location
	now    domain.Clock
	logger *zap.Logger
}

func NewGetDaySlots(
	source domain.BusySource,
	loc *time.Location,
	now domain.Clock,
	logger *zap.Logger,
) *GetDaySlots {
	return &GetDaySlots{
		source: source,
		loc:    loc,
		now:    now,
		logger: logger,
	}
}

func (uc *GetDaySlots) Execute(
	ctx context.Context,
	in DaySlotsInput,
) (domain.DaySlotSet, error) {

	if err := in.Rules.Validate(); err != nil {
		return nil, err
	}

	day := timezone.StartOfDay(in.Date, uc.loc)

	// weekends are closed; no need to ask the calendar
	if !timezone.IsBusinessDay(day) {
		return domain.DaySlotSet{}, nil
	}

	return computeDay(ctx, uc.source, uc.logger, in.ResourceID, day, in.Rules, uc.now())
}
