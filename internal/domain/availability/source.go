package availability

import (
	"context"
	"time"
)

// BusySource reads committed time from the external calendar.
//
// FetchBusy returns every busy block intersecting [windowStart, windowEnd],
// in no particular order. Failures are reported as upstream_unavailable and
// are never retried by the source.
type BusySource interface {
	FetchBusy(ctx context.Context, resourceID string, windowStart, windowEnd time.Time) ([]Interval, error)
}

// Clock returns the current instant. Use cases capture it once per call.
type Clock func() time.Time
