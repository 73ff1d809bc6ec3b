package interfaces

import (
	"context"
	"time"

	hmtmodels "gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.Models"
)

// TelemetryRepository is the append-only store for readings and advisories.
// The scheduler loop is the single writer; reads may run concurrently with
// the write and must never observe a partially appended sample.
type TelemetryRepository interface {
	// AppendSample persists a reading and its advisories as one atomic unit.
	AppendSample(ctx context.Context, reading hmtmodels.Reading, advisories []hmtmodels.Advisory) error

	// LatestReading returns the most recent reading by timestamp, or nil
	// when no readings exist yet.
	LatestReading(ctx context.Context) (*hmtmodels.Reading, error)

	// ReadingsSince returns readings with timestamp >= since, ascending.
	ReadingsSince(ctx context.Context, since time.Time) ([]hmtmodels.Reading, error)

	// AdvisoriesSince returns advisories with timestamp >= since, ordered by
	// priority descending then timestamp descending, truncated to limit.
	AdvisoriesSince(ctx context.Context, since time.Time, limit int) ([]hmtmodels.Advisory, error)
}
