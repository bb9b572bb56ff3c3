package availability

import (
	"context"
	"time"

	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/slot-scheduler/internal/domain/availability"
	"github.com/BruksfildServices01/slot-scheduler/internal/httperr"
)

type CheckSlotInput struct {
	ResourceID string
	Start      time.Time
	End        time.Time
}

// CheckSlot is the conflict guard run right before a calendar write.
//
// It applies the same padded overlap test as slot generation, so a window
// that was offered stays bookable until something lands within the buffer.
type CheckSlot struct {
	source domain.BusySource
	buffer time.Duration
	logger *zap.Logger
}

func NewCheckSlot(
	source domain.BusySource,
	buffer time.Duration,
	logger *zap.Logger,
) *CheckSlot {
	return &CheckSlot{
		source: source,
		buffer: buffer,
		logger: logger,
	}
}

// Execute reports whether the window is still free.
func (uc *CheckSlot) Execute(
	ctx context.Context,
	in CheckSlotInput,
) (bool, error) {

	slot, err := domain.NewInterval(in.Start, in.End)
	if err != nil {
		return false, err
	}

	window := slot.Pad(uc.buffer)
	busy, err := uc.source.FetchBusy(ctx, in.ResourceID, window.Start, window.End)
	if err != nil {
		return false, err
	}

	if domain.OverlapsAny(slot, busy, uc.buffer) {
		uc.logger.Info("slot no longer available",
			zap.String("resource", in.ResourceID),
			zap.Time("start", slot.Start),
			zap.Time("end", slot.End),
		)
		return false, nil
	}

	return true, nil
}

// Ensure is Execute for write paths: a taken slot becomes slot_conflict.
func (uc *CheckSlot) Ensure(ctx context.Context, in CheckSlotInput) error {
	ok, err := uc.Execute(ctx, in)
	if err != nil {
		return err
	}
	if !ok {
		return httperr.ErrBusiness(httperr.CodeSlotConflict)
	}
	return nil
}
