package implementation

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	hmtmodels "gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.Models"
)

type PostgresTelemetryRepository struct {
	db *sql.DB
}

func NewPostgresTelemetryRepository(db *sql.DB) *PostgresTelemetryRepository {
	return &PostgresTelemetryRepository{db: db}
}

// storageErr tags a driver failure so callers can match it with errors.Is.
func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, hmtmodels.ErrStorageUnavailable, err)
}

// AppendSample writes the reading and its advisories in one transaction.
// Readers never see the reading without its advisories.
func (r *PostgresTelemetryRepository) AppendSample(ctx context.Context, reading hmtmodels.Reading, advisories []hmtmodels.Advisory) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return storageErr("begin append", err)
	}
	defer tx.Rollback()

	insertReading := `
		INSERT INTO readings (ts, temperature, humidity, air_quality, energy_usage, water_usage, light_level)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	if _, err := tx.ExecContext(ctx, insertReading,
		reading.Timestamp, reading.Temperature, reading.Humidity, reading.AirQuality,
		reading.EnergyUsage, reading.WaterUsage, reading.LightLevel); err != nil {
		return storageErr("insert reading", err)
	}

	insertAdvisory := `
		INSERT INTO advisories (ts, message, category, priority)
		VALUES ($1, $2, $3, $4)
	`
	for _, a := range advisories {
		if _, err := tx.ExecContext(ctx, insertAdvisory, a.Timestamp, a.Message, a.Category, a.Priority); err != nil {
			return storageErr("insert advisory", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return storageErr("commit append", err)
	}
	return nil
}

func (r *PostgresTelemetryRepository) LatestReading(ctx context.Context) (*hmtmodels.Reading, error) {
	query := `
		SELECT ts, temperature, humidity, air_quality, energy_usage, water_usage, light_level
		FROM readings
		ORDER BY ts DESC
		LIMIT 1
	`

	var reading hmtmodels.Reading
	err := r.db.QueryRowContext(ctx, query).Scan(
		&reading.Timestamp, &reading.Temperature, &reading.Humidity, &reading.AirQuality,
		&reading.EnergyUsage, &reading.WaterUsage, &reading.LightLevel)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, storageErr("latest reading", err)
	}

	return &reading, nil
}

func (r *PostgresTelemetryRepository) ReadingsSince(ctx context.Context, since time.Time) ([]hmtmodels.Reading, error) {
	query := `
		SELECT ts, temperature, humidity, air_quality, energy_usage, water_usage, light_level
		FROM readings
		WHERE ts >= $1
		ORDER BY ts ASC
	`

	rows, err := r.db.QueryContext(ctx, query, since)
	if err != nil {
		return nil, storageErr("readings since", err)
	}
	defer rows.Close()

	var readings []hmtmodels.Reading
	for rows.Next() {
		var reading hmtmodels.Reading
		if err := rows.Scan(
			&reading.Timestamp, &reading.Temperature, &reading.Humidity, &reading.AirQuality,
			&reading.EnergyUsage, &reading.WaterUsage, &reading.LightLevel); err != nil {
			return nil, storageErr("scan reading", err)
		}
		readings = append(readings, reading)
	}

	if err := rows.Err(); err != nil {
		return nil, storageErr("readings since", err)
	}
	return readings, nil
}

func (r *PostgresTelemetryRepository) AdvisoriesSince(ctx context.Context, since time.Time, limit int) ([]hmtmodels.Advisory, error) {
	query := `
		SELECT ts, message, category, priority
		FROM advisories
		WHERE ts >= $1
		ORDER BY priority DESC, ts DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, since, limit)
	if err != nil {
		return nil, storageErr("advisories since", err)
	}
	defer rows.Close()

	var advisories []hmtmodels.Advisory
	for rows.Next() {
		var a hmtmodels.Advisory
		if err := rows.Scan(&a.Timestamp, &a.Message, &a.Category, &a.Priority); err != nil {
			return nil, storageErr("scan advisory", err)
		}
		advisories = append(advisories, a)
	}

	if err := rows.Err(); err != nil {
		return nil, storageErr("advisories since", err)
	}
	return advisories, nil
}
