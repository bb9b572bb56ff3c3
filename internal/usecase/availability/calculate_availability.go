package availability

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	domain "github.com/BruksfildServices01/slot-scheduler/internal/domain/availability"
	"github.com/BruksfildServices01/slot-scheduler/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CalculateInput struct {
	ResourceID string
	Options    domain.Options
}

// ======================================================
// USE CASE
// ======================================================

// CalculateAvailability is range mode: slot count per business day.
type CalculateAvailability struct {
	source      domain.BusySource
	loc         *time.Location
	now         domain.Clock
	concurrency int
	logger      *zap.Logger
}

func NewCalculateAvailability(
	source domain.BusySource,
	loc *time.Location,
	now domain.Clock,
	concurrency int,
	logger *zap.Logger,
) *CalculateAvailability {
	if concurrency < 1 {
		concurrency = 1
	}
	return &CalculateAvailability{
		source:      source,
		loc:         loc,
		now:         now,
		concurrency: concurrency,
		logger:      logger,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CalculateAvailability) Execute(
	ctx context.Context,
	in CalculateInput,
) (domain.AvailabilityMap, error) {

	if err := in.Options.Validate(); err != nil {
		return nil, err
	}

	now := uc.now()
	first := timezone.StartOfDay(in.Options.StartDate, uc.loc)
	last := timezone.StartOfDay(in.Options.EndDate, uc.loc)

	var (
		mu  sync.Mutex
		out = domain.AvailabilityMap{}
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.concurrency)

	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		if !timezone.IsBusinessDay(day) {
			continue
		}

		g.Go(func() error {
			slots, err := computeDay(gctx, uc.source, uc.logger, in.ResourceID, day, in.Options.Rules, now)
			if err != nil {
				return err
			}

			mu.Lock()
			out[timezone.DateKey(day)] = len(slots)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	uc.logger.Debug("availability calculated",
		zap.String("resource", in.ResourceID),
		zap.String("from", timezone.DateKey(first)),
		zap.String("to", timezone.DateKey(last)),
		zap.Int("days", len(out)),
	)

	return out, nil
}
