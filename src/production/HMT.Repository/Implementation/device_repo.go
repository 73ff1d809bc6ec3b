package implementation

import (
	"context"
	"database/sql"

	hmtmodels "gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.Models"
)

type PostgresDeviceRepository struct {
	db *sql.DB
}

func NewPostgresDeviceRepository(db *sql.DB) *PostgresDeviceRepository {
	return &PostgresDeviceRepository{db: db}
}

// Seed inserts the default devices (idempotent, existing rows untouched)
func (r *PostgresDeviceRepository) Seed(ctx context.Context, devices []hmtmodels.Device) error {
	query := `
		INSERT INTO devices (device_id, name, device_type, status, energy_consumption)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (device_id)
		DO NOTHING
	`

	for _, d := range devices {
		if _, err := r.db.ExecContext(ctx, query, d.ID, d.Name, d.Type, d.Status, d.EnergyConsumption); err != nil {
			return storageErr("seed device", err)
		}
	}
	return nil
}

func (r *PostgresDeviceRepository) List(ctx context.Context) ([]hmtmodels.Device, error) {
	query := `
		SELECT device_id, name, device_type, status, energy_consumption
		FROM devices
		ORDER BY device_id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, storageErr("list devices", err)
	}
	defer rows.Close()

	var devices []hmtmodels.Device
	for rows.Next() {
		var d hmtmodels.Device
		if err := rows.Scan(&d.ID, &d.Name, &d.Type, &d.Status, &d.EnergyConsumption); err != nil {
			return nil, storageErr("scan device", err)
		}
		devices = append(devices, d)
	}

	if err := rows.Err(); err != nil {
		return nil, storageErr("list devices", err)
	}
	return devices, nil
}

// Toggle flips the device status in a single statement so concurrent
// repeats never leave partial state.
func (r *PostgresDeviceRepository) Toggle(ctx context.Context, id int64) (string, error) {
	query := `
		UPDATE devices
		SET status = CASE status WHEN 'on' THEN 'off' ELSE 'on' END
		WHERE device_id = $1
		RETURNING status
	`

	var status string
	err := r.db.QueryRowContext(ctx, query, id).Scan(&status)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", hmtmodels.ErrNotFound
		}
		return "", storageErr("toggle device", err)
	}

	return status, nil
}
