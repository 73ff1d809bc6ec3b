package scheduler

import (
	"context"
	"time"

	advisor "gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.Advisor"
	broadcast "gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.Broadcast"
	logger "gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.Logger"
	hmtmodels "gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.Models"
	interfaces "gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.Repository/Interfaces"
)

// Source produces one reading per tick. The simulated sampler implements it.
type Source interface {
	Generate() hmtmodels.Reading
}

// Archive is an optional secondary sink for appended readings.
type Archive interface {
	InsertOne(ctx context.Context, r hmtmodels.Reading) error
}

// Loop drives the telemetry pipeline: generate, evaluate, append, publish.
// It is the single writer of the telemetry store. A failed append is logged
// and the tick's publish is skipped; the loop itself never stops on error.
type Loop struct {
	source   Source
	store    interfaces.TelemetryRepository
	hub      *broadcast.Hub
	archive  Archive // may be nil
	interval time.Duration
	readings <-chan hmtmodels.Reading // external feed; replaces the ticker when set
	evaluate func(hmtmodels.Reading) []hmtmodels.Advisory
	logger   *logger.Logger
}

// New creates a loop ticking the given source on a fixed interval.
func New(source Source, store interfaces.TelemetryRepository, hub *broadcast.Hub, interval time.Duration, log *logger.Logger) *Loop {
	return &Loop{
		source:   source,
		store:    store,
		hub:      hub,
		interval: interval,
		evaluate: advisor.Evaluate,
		logger:   log.WithComponent("scheduler"),
	}
}

// WithArchive attaches a best-effort reading archive.
func (l *Loop) WithArchive(a Archive) *Loop {
	l.archive = a
	return l
}

// WithReadings switches the loop to consume readings from an external
// source (e.g. the MQTT ingestor) instead of ticking the sampler.
func (l *Loop) WithReadings(ch <-chan hmtmodels.Reading) *Loop {
	l.readings = ch
	return l
}

// Run executes the loop until ctx is cancelled. Cancellation is observed
// between ticks only; an in-flight append always completes.
func (l *Loop) Run(ctx context.Context) {
	if l.readings != nil {
		l.logger.Info("scheduler loop started (external source)")
		for {
			select {
			case <-ctx.Done():
				l.logger.Info("scheduler loop stopped")
				return
			case reading, ok := <-l.readings:
				if !ok {
					l.logger.Info("reading source closed, scheduler loop stopped")
					return
				}
				l.tick(ctx, reading)
			}
		}
	}

	l.logger.Info("scheduler loop started")
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			l.logger.Info("scheduler loop stopped")
			return
		case <-ticker.C:
			l.tick(ctx, l.source.Generate())
		}
	}
}

// tick runs one generate-evaluate-append-publish cycle for the reading.
func (l *Loop) tick(ctx context.Context, reading hmtmodels.Reading) {
	advisories := l.evaluate(reading)

	// The append must not be aborted halfway through by shutdown; the loop
	// only observes cancellation between ticks.
	appendCtx := context.WithoutCancel(ctx)
	if err := l.store.AppendSample(appendCtx, reading, advisories); err != nil {
		l.logger.ErrorWithError(err, "failed to append sample, skipping publish for this tick")
		return
	}

	l.hub.Publish(hmtmodels.ReadingEvent(reading))
	if len(advisories) > 0 {
		l.hub.Publish(hmtmodels.AdvisoriesEvent(advisories))
	}

	if l.archive != nil {
		if err := l.archive.InsertOne(appendCtx, reading); err != nil {
			l.logger.WithError(err).Debug("reading archive insert failed")
		}
	}
}
