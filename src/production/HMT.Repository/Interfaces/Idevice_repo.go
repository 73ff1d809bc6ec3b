package interfaces

import (
	"context"

	hmtmodels "gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.Models"
)

// DeviceRepository holds the togglable device records.
type DeviceRepository interface {
	// Seed inserts the default devices. Existing rows are left untouched.
	Seed(ctx context.Context, devices []hmtmodels.Device) error

	// List returns all devices ordered by id.
	List(ctx context.Context) ([]hmtmodels.Device, error)

	// Toggle atomically flips a device's status and returns the new status.
	// Returns hmtmodels.ErrNotFound for an unknown id.
	Toggle(ctx context.Context, id int64) (string, error)
}
