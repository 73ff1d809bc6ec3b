package container

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.ApiService/health"
	config "gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.Config"
	logger "gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.Logger"
	"go.mongodb.org/mongo-driver/mongo"
)

// Container manages dependencies and their lifecycle
type Container struct {
	config *config.Config
	logger *logger.Logger
	db     *sql.DB
	mongo  *mongo.Client

	// Health components
	healthChecker   *health.HealthChecker
	databaseManager *health.DatabaseManager

	// Mutex for thread-safe access
	mu sync.Mutex

	// Cleanup functions
	cleanupFuncs []func() error
}

// NewContainer creates a new dependency injection container
func NewContainer() (*Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.NewLogger(&cfg.Logging)

	return &Container{
		config: cfg,
		logger: log,
	}, nil
}

// GetConfig returns the configuration
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetLogger returns the logger
func (c *Container) GetLogger() *logger.Logger {
	return c.logger
}

// GetDatabase returns the database connection, opening it on first use
func (c *Container) GetDatabase() (*sql.DB, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db == nil {
		db, err := health.ConnectPostgresWithTimeout(c.config, 20*time.Second)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		c.db = db
		c.cleanupFuncs = append(c.cleanupFuncs, db.Close)
	}

	return c.db, nil
}

// GetMongoClient returns the archive client, connecting on first use.
// Returns nil without error when no archive is configured.
func (c *Container) GetMongoClient() (*mongo.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.config.Mongo.URI == "" {
		return nil, nil
	}

	if c.mongo == nil {
		client, err := health.ConnectMongoWithTimeout(c.config, 20*time.Second)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to mongo archive: %w", err)
		}
		c.mongo = client
		c.cleanupFuncs = append(c.cleanupFuncs, func() error {
			return client.Disconnect(context.Background())
		})
	}

	return c.mongo, nil
}

// GetHealthChecker returns the health checker
func (c *Container) GetHealthChecker() (*health.HealthChecker, error) {
	db, err := c.GetDatabase()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for health checker: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.healthChecker == nil {
		c.healthChecker = health.NewHealthChecker(db)
	}

	return c.healthChecker, nil
}

// InitializeDatabase creates the schema
func (c *Container) InitializeDatabase(ctx context.Context) error {
	db, err := c.GetDatabase()
	if err != nil {
		return err
	}

	c.mu.Lock()
	if c.databaseManager == nil {
		c.databaseManager = health.NewDatabaseManager(db)
	}
	dm := c.databaseManager
	c.mu.Unlock()

	if err := dm.CreateTables(ctx); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	c.logger.Info("Database initialized successfully")
	return nil
}

// AddCleanupFunc adds a cleanup function run at shutdown
func (c *Container) AddCleanupFunc(fn func() error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cleanupFuncs = append(c.cleanupFuncs, fn)
}

// Shutdown gracefully shuts down the container and all its dependencies
func (c *Container) Shutdown(ctx context.Context) error {
	c.logger.Info("Shutting down container...")

	c.mu.Lock()
	funcs := c.cleanupFuncs
	c.cleanupFuncs = nil
	c.mu.Unlock()

	// Execute cleanup functions in reverse order
	for i := len(funcs) - 1; i >= 0; i-- {
		if err := funcs[i](); err != nil {
			c.logger.ErrorWithError(err, "Error during cleanup")
		}
	}

	c.logger.Info("Container shutdown complete")
	return nil
}
