package query

import (
	"context"
	"fmt"
	"time"

	hmtmodels "gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.Models"
	interfaces "gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.Repository/Interfaces"
)

// Service is the read-only facade over the telemetry store. Window
// boundaries are computed from a single `now` evaluated per call.
type Service struct {
	store          interfaces.TelemetryRepository
	advisoryWindow time.Duration
	advisoryLimit  int
}

func NewService(store interfaces.TelemetryRepository, advisoryWindow time.Duration, advisoryLimit int) *Service {
	return &Service{
		store:          store,
		advisoryWindow: advisoryWindow,
		advisoryLimit:  advisoryLimit,
	}
}

// CurrentReading returns the latest reading, or nil when none exist yet.
func (s *Service) CurrentReading(ctx context.Context) (*hmtmodels.Reading, error) {
	return s.store.LatestReading(ctx)
}

// History returns readings from the last `hours` hours, ascending.
func (s *Service) History(ctx context.Context, hours int) ([]hmtmodels.Reading, error) {
	if hours <= 0 {
		return nil, fmt.Errorf("hours must be positive: %w", hmtmodels.ErrInvalidArgument)
	}

	since := time.Now().Add(-time.Duration(hours) * time.Hour)
	return s.store.ReadingsSince(ctx, since)
}

// RecentAdvisories returns advisories from the configured window, highest
// priority first, newest first within a priority, capped at the configured
// limit.
func (s *Service) RecentAdvisories(ctx context.Context) ([]hmtmodels.Advisory, error) {
	since := time.Now().Add(-s.advisoryWindow)
	return s.store.AdvisoriesSince(ctx, since, s.advisoryLimit)
}
