package availability

import (
	"context"
	"time"

	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/slot-scheduler/internal/domain/availability"
	"github.com/BruksfildServices01/slot-scheduler/internal/timezone"
)

// computeDay fetches the busy blocks of one calendar day and runs the
// generator over them. day must be local midnight.
func computeDay(
	ctx context.Context,
	source domain.BusySource,
	logger *zap.Logger,
	resourceID string,
	day time.Time,
	rules domain.Rules,
	now time.Time,
) (domain.DaySlotSet, error) {

	windowEnd := day.AddDate(0, 0, 1)

	busy, err := source.FetchBusy(ctx, resourceID, day, windowEnd)
	if err != nil {
		return nil, err
	}

	slots, err := domain.GenerateDaySlots(day, rules, busy, now)
	if err != nil {
		return nil, err
	}

	logger.Debug("day slots computed",
		zap.String("date", timezone.DateKey(day)),
		zap.Int("busy", len(busy)),
		zap.Int("slots", len(slots)),
		zap.Time("cutoff", now.Add(domain.LeadTime)),
	)

	return slots, nil
}
