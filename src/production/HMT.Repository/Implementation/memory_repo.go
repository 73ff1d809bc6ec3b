package implementation

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	hmtmodels "gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.Models"
	auth_models "gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.Models/auth"
)

// MemoryTelemetryRepository is the in-memory telemetry store used with the
// memory storage driver and in tests. A single RWMutex gives readers a
// consistent view while the scheduler appends.
type MemoryTelemetryRepository struct {
	mu         sync.RWMutex
	readings   []hmtmodels.Reading
	advisories []hmtmodels.Advisory
}

func NewMemoryTelemetryRepository() *MemoryTelemetryRepository {
	return &MemoryTelemetryRepository{}
}

func (r *MemoryTelemetryRepository) AppendSample(ctx context.Context, reading hmtmodels.Reading, advisories []hmtmodels.Advisory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.readings = append(r.readings, reading)
	r.advisories = append(r.advisories, advisories...)
	return nil
}

func (r *MemoryTelemetryRepository) LatestReading(ctx context.Context) (*hmtmodels.Reading, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.readings) == 0 {
		return nil, nil
	}
	latest := r.readings[len(r.readings)-1]
	return &latest, nil
}

func (r *MemoryTelemetryRepository) ReadingsSince(ctx context.Context, since time.Time) ([]hmtmodels.Reading, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// Readings arrive in timestamp order from the single writer.
	var result []hmtmodels.Reading
	for _, reading := range r.readings {
		if !reading.Timestamp.Before(since) {
			result = append(result, reading)
		}
	}
	return result, nil
}

func (r *MemoryTelemetryRepository) AdvisoriesSince(ctx context.Context, since time.Time, limit int) ([]hmtmodels.Advisory, error) {
	r.mu.RLock()
	var result []hmtmodels.Advisory
	for _, a := range r.advisories {
		if !a.Timestamp.Before(since) {
			result = append(result, a)
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Priority != result[j].Priority {
			return result[i].Priority > result[j].Priority
		}
		return result[i].Timestamp.After(result[j].Timestamp)
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// MemoryDeviceRepository is the in-memory device registry counterpart.
type MemoryDeviceRepository struct {
	mu      sync.Mutex
	devices map[int64]hmtmodels.Device
	order   []int64
}

func NewMemoryDeviceRepository() *MemoryDeviceRepository {
	return &MemoryDeviceRepository{devices: make(map[int64]hmtmodels.Device)}
}

func (r *MemoryDeviceRepository) Seed(ctx context.Context, devices []hmtmodels.Device) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, d := range devices {
		if _, exists := r.devices[d.ID]; exists {
			continue
		}
		r.devices[d.ID] = d
		r.order = append(r.order, d.ID)
	}
	return nil
}

func (r *MemoryDeviceRepository) List(ctx context.Context) ([]hmtmodels.Device, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]int64, len(r.order))
	copy(ids, r.order)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	devices := make([]hmtmodels.Device, 0, len(ids))
	for _, id := range ids {
		devices = append(devices, r.devices[id])
	}
	return devices, nil
}

func (r *MemoryDeviceRepository) Toggle(ctx context.Context, id int64) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.devices[id]
	if !ok {
		return "", hmtmodels.ErrNotFound
	}

	if d.Status == hmtmodels.DeviceOn {
		d.Status = hmtmodels.DeviceOff
	} else {
		d.Status = hmtmodels.DeviceOn
	}
	r.devices[id] = d
	return d.Status, nil
}

// MemoryUserRepository backs auth when the memory storage driver is active.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]*auth_models.User // keyed by user id
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]*auth_models.User)}
}

func (r *MemoryUserRepository) Create(ctx context.Context, user *auth_models.User) (*auth_models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Username == user.Username {
			copied := *existing
			return &copied, nil
		}
	}

	if user.UserID == "" {
		user.UserID = uuid.New().String()
	}
	copied := *user
	r.users[user.UserID] = &copied

	result := copied
	return &result, nil
}

func (r *MemoryUserRepository) GetByID(ctx context.Context, userID string) (*auth_models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[userID]
	if !ok {
		return nil, hmtmodels.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *MemoryUserRepository) GetByUsername(ctx context.Context, username string) (*auth_models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, hmtmodels.ErrNotFound
}
