package implementation_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	hmtmodels "gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.Models"
	auth_models "gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.Models/auth"
	implementation "gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.Repository/Implementation"
)

var base = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func readingAt(ts time.Time) hmtmodels.Reading {
	return hmtmodels.Reading{
		Timestamp:   ts,
		Temperature: 22.0,
		Humidity:    45.0,
		AirQuality:  85,
		EnergyUsage: 1200.0,
		WaterUsage:  150.0,
		LightLevel:  60.0,
	}
}

func TestTelemetryLatestReading(t *testing.T) {
	ctx := context.Background()
	repo := implementation.NewMemoryTelemetryRepository()

	latest, err := repo.LatestReading(ctx)
	require.NoError(t, err)
	assert.Nil(t, latest)

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.AppendSample(ctx, readingAt(base.Add(time.Duration(i)*time.Minute)), nil))
	}

	latest, err = repo.LatestReading(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, base.Add(4*time.Minute), latest.Timestamp)
}

func TestTelemetryReadingsSinceWindow(t *testing.T) {
	ctx := context.Background()
	repo := implementation.NewMemoryTelemetryRepository()

	for i := 0; i < 10; i++ {
		require.NoError(t, repo.AppendSample(ctx, readingAt(base.Add(time.Duration(i)*time.Hour)), nil))
	}

	since := base.Add(6 * time.Hour)
	readings, err := repo.ReadingsSince(ctx, since)
	require.NoError(t, err)
	require.Len(t, readings, 4)

	// Oldest first, boundary inclusive
	assert.Equal(t, since, readings[0].Timestamp)
	for i := 1; i < len(readings); i++ {
		assert.True(t, readings[i].Timestamp.After(readings[i-1].Timestamp))
	}
}

func TestAdvisoriesSinceOrderingAndLimit(t *testing.T) {
	ctx := context.Background()
	repo := implementation.NewMemoryTelemetryRepository()

	mk := func(ts time.Time, priority int, msg string) hmtmodels.Advisory {
		return hmtmodels.Advisory{Timestamp: ts, Message: msg, Category: hmtmodels.CategoryEnergy, Priority: priority}
	}

	require.NoError(t, repo.AppendSample(ctx, readingAt(base), []hmtmodels.Advisory{
		mk(base, 1, "old low"),
		mk(base, 3, "old high"),
	}))
	require.NoError(t, repo.AppendSample(ctx, readingAt(base.Add(time.Minute)), []hmtmodels.Advisory{
		mk(base.Add(time.Minute), 3, "new high"),
		mk(base.Add(time.Minute), 2, "new mid"),
	}))

	advisories, err := repo.AdvisoriesSince(ctx, base, 10)
	require.NoError(t, err)
	require.Len(t, advisories, 4)

	// Priority descending, then newest first within a priority
	assert.Equal(t, "new high", advisories[0].Message)
	assert.Equal(t, "old high", advisories[1].Message)
	assert.Equal(t, "new mid", advisories[2].Message)
	assert.Equal(t, "old low", advisories[3].Message)

	capped, err := repo.AdvisoriesSince(ctx, base, 2)
	require.NoError(t, err)
	require.Len(t, capped, 2)
	assert.Equal(t, "new high", capped[0].Message)
	assert.Equal(t, "old high", capped[1].Message)
}

func TestAdvisoriesSinceExcludesOlderThanWindow(t *testing.T) {
	ctx := context.Background()
	repo := implementation.NewMemoryTelemetryRepository()

	old := hmtmodels.Advisory{Timestamp: base, Message: "stale", Priority: 3}
	fresh := hmtmodels.Advisory{Timestamp: base.Add(2 * time.Hour), Message: "fresh", Priority: 1}

	require.NoError(t, repo.AppendSample(ctx, readingAt(base), []hmtmodels.Advisory{old}))
	require.NoError(t, repo.AppendSample(ctx, readingAt(base.Add(2*time.Hour)), []hmtmodels.Advisory{fresh}))

	advisories, err := repo.AdvisoriesSince(ctx, base.Add(time.Hour), 10)
	require.NoError(t, err)
	require.Len(t, advisories, 1)
	assert.Equal(t, "fresh", advisories[0].Message)
}

func TestTelemetryConcurrentReadWrite(t *testing.T) {
	ctx := context.Background()
	repo := implementation.NewMemoryTelemetryRepository()

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			_ = repo.AppendSample(ctx, readingAt(base.Add(time.Duration(i)*time.Second)), nil)
		}
	}()

	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			_, _ = repo.LatestReading(ctx)
			_, _ = repo.ReadingsSince(ctx, base)
		}
	}()

	wg.Wait()

	readings, err := repo.ReadingsSince(ctx, base)
	require.NoError(t, err)
	assert.Len(t, readings, 500)
}

func TestDeviceSeedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := implementation.NewMemoryDeviceRepository()

	require.NoError(t, repo.Seed(ctx, hmtmodels.SeedDevices()))

	// Flip one device, reseed, and confirm the flip survives
	status, err := repo.Toggle(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, hmtmodels.DeviceOff, status)

	require.NoError(t, repo.Seed(ctx, hmtmodels.SeedDevices()))

	devices, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, devices, 6)
	assert.Equal(t, hmtmodels.DeviceOff, devices[0].Status)
}

func TestDeviceListOrderedByID(t *testing.T) {
	ctx := context.Background()
	repo := implementation.NewMemoryDeviceRepository()
	require.NoError(t, repo.Seed(ctx, hmtmodels.SeedDevices()))

	devices, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, devices, 6)

	for i := 1; i < len(devices); i++ {
		assert.Less(t, devices[i-1].ID, devices[i].ID)
	}
}

func TestDeviceToggleFlipsBothWays(t *testing.T) {
	ctx := context.Background()
	repo := implementation.NewMemoryDeviceRepository()
	require.NoError(t, repo.Seed(ctx, hmtmodels.SeedDevices()))

	first, err := repo.Toggle(ctx, 2)
	require.NoError(t, err)
	second, err := repo.Toggle(ctx, 2)
	require.NoError(t, err)

	assert.Equal(t, hmtmodels.DeviceOff, first)
	assert.Equal(t, hmtmodels.DeviceOn, second)
	assert.NotEqual(t, first, second)
}

func TestDeviceToggleUnknownIDLeavesRegistryUnchanged(t *testing.T) {
	ctx := context.Background()
	repo := implementation.NewMemoryDeviceRepository()
	require.NoError(t, repo.Seed(ctx, hmtmodels.SeedDevices()))

	before, err := repo.List(ctx)
	require.NoError(t, err)

	_, err = repo.Toggle(ctx, 999)
	require.ErrorIs(t, err, hmtmodels.ErrNotFound)

	after, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestUserRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := implementation.NewMemoryUserRepository()

	created, err := repo.Create(ctx, auth_models.NewUser("admin", "hash"))
	require.NoError(t, err)
	require.NotEmpty(t, created.UserID)

	byID, err := repo.GetByID(ctx, created.UserID)
	require.NoError(t, err)
	assert.Equal(t, "admin", byID.Username)

	byName, err := repo.GetByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, created.UserID, byName.UserID)

	_, err = repo.GetByUsername(ctx, "ghost")
	require.ErrorIs(t, err, hmtmodels.ErrNotFound)
}
