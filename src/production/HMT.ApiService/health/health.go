package health

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	config "gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.Config"
)

// HealthChecker provides health check functionality
type HealthChecker struct {
	db *sql.DB
}

// NewHealthChecker creates a new health checker
func NewHealthChecker(db *sql.DB) *HealthChecker {
	return &HealthChecker{db: db}
}

// CheckDatabaseHealth performs a database health check
func (h *HealthChecker) CheckDatabaseHealth(ctx context.Context) error {
	if h.db == nil {
		return fmt.Errorf("database connection is nil")
	}
	if err := h.db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	var result int
	if err := h.db.QueryRowContext(ctx, "SELECT 1").Scan(&result); err != nil {
		return fmt.Errorf("database query failed: %w", err)
	}

	return nil
}

// GetHealthStatus returns the current health status
func (h *HealthChecker) GetHealthStatus(ctx context.Context) map[string]interface{} {
	status := map[string]interface{}{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"checks":    make(map[string]interface{}),
	}

	dbStatus := "ok"
	if err := h.CheckDatabaseHealth(ctx); err != nil {
		dbStatus = "error"
		status["checks"].(map[string]interface{})["postgres"] = map[string]interface{}{
			"status": dbStatus,
			"error":  err.Error(),
		}
	} else {
		status["checks"].(map[string]interface{})["postgres"] = map[string]interface{}{
			"status": dbStatus,
		}
	}

	overallStatus := "ok"
	if dbStatus != "ok" {
		overallStatus = "degraded"
	}
	status["status"] = overallStatus

	return status
}

// ConnectPostgresWithTimeout creates a PostgreSQL connection with a timeout context
func ConnectPostgresWithTimeout(cfg *config.Config, timeout time.Duration) (*sql.DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	db, err := sql.Open("postgres", cfg.GetDatabaseDSN())
	if err != nil {
		return nil, fmt.Errorf("unable to open PostgreSQL connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to ping PostgreSQL: %w", err)
	}

	db.SetMaxOpenConns(cfg.Database.MaxConns)
	db.SetMaxIdleConns(cfg.Database.MinConns)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

// DatabaseManager handles schema setup
type DatabaseManager struct {
	db *sql.DB
}

// NewDatabaseManager creates a new database manager
func NewDatabaseManager(db *sql.DB) *DatabaseManager {
	return &DatabaseManager{db: db}
}

// CreateTables creates the required tables if they don't exist
func (dm *DatabaseManager) CreateTables(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	createUsersTable := `
		CREATE TABLE IF NOT EXISTS users (
			user_id     TEXT PRIMARY KEY,
			username    TEXT NOT NULL UNIQUE,
			password    TEXT NOT NULL,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		);
	`

	createDevicesTable := `
		CREATE TABLE IF NOT EXISTS devices (
			device_id           BIGINT PRIMARY KEY,
			name                TEXT NOT NULL,
			device_type         TEXT NOT NULL,
			status              TEXT NOT NULL DEFAULT 'on',
			energy_consumption  DOUBLE PRECISION NOT NULL DEFAULT 0
		);
	`

	createReadingsTable := `
		CREATE TABLE IF NOT EXISTS readings (
			id            BIGSERIAL PRIMARY KEY,
			ts            TIMESTAMPTZ NOT NULL,
			temperature   DOUBLE PRECISION NOT NULL,
			humidity      DOUBLE PRECISION NOT NULL,
			air_quality   INTEGER NOT NULL,
			energy_usage  DOUBLE PRECISION NOT NULL,
			water_usage   DOUBLE PRECISION NOT NULL,
			light_level   DOUBLE PRECISION NOT NULL
		);
	`

	createAdvisoriesTable := `
		CREATE TABLE IF NOT EXISTS advisories (
			id        BIGSERIAL PRIMARY KEY,
			ts        TIMESTAMPTZ NOT NULL,
			message   TEXT NOT NULL,
			category  TEXT NOT NULL,
			priority  INTEGER NOT NULL
		);
	`

	createIndexes := `
		CREATE INDEX IF NOT EXISTS idx_readings_ts_desc ON readings (ts DESC);
		CREATE INDEX IF NOT EXISTS idx_advisories_ts_desc ON advisories (ts DESC);
		CREATE INDEX IF NOT EXISTS idx_advisories_priority_ts ON advisories (priority DESC, ts DESC);
	`

	queries := []string{
		createUsersTable,
		createDevicesTable,
		createReadingsTable,
		createAdvisoriesTable,
		createIndexes,
	}

	for _, query := range queries {
		if _, err := dm.db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
	}

	return nil
}

// Close closes the database connection
func (dm *DatabaseManager) Close() error {
	if dm.db != nil {
		return dm.db.Close()
	}
	return nil
}
