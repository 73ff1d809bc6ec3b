package query_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	query "gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.ApiService/implementation/query"
	hmtmodels "gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.Models"
	implementation "gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.Repository/Implementation"
)

func TestCurrentReadingEmptyStore(t *testing.T) {
	svc := query.NewService(implementation.NewMemoryTelemetryRepository(), time.Hour, 10)

	reading, err := svc.CurrentReading(context.Background())
	require.NoError(t, err)
	assert.Nil(t, reading)
}

func TestHistoryRejectsNonPositiveHours(t *testing.T) {
	svc := query.NewService(implementation.NewMemoryTelemetryRepository(), time.Hour, 10)

	for _, hours := range []int{0, -1, -24} {
		_, err := svc.History(context.Background(), hours)
		require.ErrorIs(t, err, hmtmodels.ErrInvalidArgument, "hours=%d", hours)
	}
}

func TestHistoryReturnsWindowedReadings(t *testing.T) {
	ctx := context.Background()
	store := implementation.NewMemoryTelemetryRepository()
	svc := query.NewService(store, time.Hour, 10)

	old := hmtmodels.Reading{Timestamp: time.Now().UTC().Add(-48 * time.Hour), Temperature: 20}
	recent := hmtmodels.Reading{Timestamp: time.Now().UTC().Add(-time.Hour), Temperature: 21}
	require.NoError(t, store.AppendSample(ctx, old, nil))
	require.NoError(t, store.AppendSample(ctx, recent, nil))

	readings, err := svc.History(ctx, 24)
	require.NoError(t, err)
	require.Len(t, readings, 1)
	assert.Equal(t, 21.0, readings[0].Temperature)
}

func TestRecentAdvisoriesHonorsWindowAndLimit(t *testing.T) {
	ctx := context.Background()
	store := implementation.NewMemoryTelemetryRepository()
	svc := query.NewService(store, time.Hour, 2)

	now := time.Now().UTC()
	reading := hmtmodels.Reading{Timestamp: now}
	advisories := []hmtmodels.Advisory{
		{Timestamp: now.Add(-2 * time.Hour), Message: "stale", Priority: 3},
		{Timestamp: now.Add(-30 * time.Minute), Message: "low", Priority: 1},
		{Timestamp: now.Add(-20 * time.Minute), Message: "mid", Priority: 2},
		{Timestamp: now.Add(-10 * time.Minute), Message: "high", Priority: 3},
	}
	require.NoError(t, store.AppendSample(ctx, reading, advisories))

	result, err := svc.RecentAdvisories(ctx)
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "high", result[0].Message)
	assert.Equal(t, "mid", result[1].Message)
}
