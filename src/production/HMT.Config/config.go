package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage drivers for the telemetry store and device registry.
const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

// Telemetry sources feeding the scheduler loop.
const (
	TelemetrySourceSimulated = "simulated"
	TelemetrySourceMQTT      = "mqtt"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig `json:"server"`

	// Database configuration
	Database DatabaseConfig `json:"database"`

	// Mongo archive configuration
	Mongo MongoConfig `json:"mongo"`

	// MQTT configuration
	MQTT MQTTConfig `json:"mqtt"`

	// Telemetry pipeline configuration
	Telemetry TelemetryConfig `json:"telemetry"`

	// Auth configuration
	Auth AuthConfig `json:"auth"`

	// Logging configuration
	Logging LoggingConfig `json:"logging"`

	// CORS configuration
	CORS CORSConfig `json:"cors"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port         string        `json:"port"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
	IdleTimeout  time.Duration `json:"idle_timeout"`
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Driver   string `json:"driver"` // postgres or memory
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"db_name"`
	SSLMode  string `json:"ssl_mode"`
	MaxConns int    `json:"max_conns"`
	MinConns int    `json:"min_conns"`
}

// MongoConfig holds configuration for the optional reading archive
type MongoConfig struct {
	URI        string `json:"uri"` // empty disables the archive
	Database   string `json:"database"`
	Collection string `json:"collection"`
}

// MQTTConfig holds MQTT-related configuration
type MQTTConfig struct {
	BrokerHost  string        `json:"broker_host"`
	BrokerPort  int           `json:"broker_port"`
	BrokerUser  string        `json:"broker_user"`
	BrokerPass  string        `json:"broker_pass"`
	UseTLS      bool          `json:"use_tls"`
	CACertPath  string        `json:"ca_cert_path"`
	Topic       string        `json:"topic"`
	ClientID    string        `json:"client_id"`
	KeepAlive   time.Duration `json:"keep_alive"`
	PingTimeout time.Duration `json:"ping_timeout"`
}

// TelemetryConfig holds the pipeline cadence and query window defaults.
// Advisory window and limit are fixed constants of the read API, not
// protocol parameters.
type TelemetryConfig struct {
	Source              string        `json:"source"` // simulated or mqtt
	TickInterval        time.Duration `json:"tick_interval"`
	AdvisoryWindow      time.Duration `json:"advisory_window"`
	AdvisoryLimit       int           `json:"advisory_limit"`
	DefaultHistoryHours int           `json:"default_history_hours"`
	ViewerBufferSize    int           `json:"viewer_buffer_size"`
}

// AuthConfig holds authentication-related configuration
type AuthConfig struct {
	JWTSecretKey         string        `json:"jwt_secret_key"`
	JWTIssuer            string        `json:"jwt_issuer"`
	AccessTokenDuration  time.Duration `json:"access_token_duration"`
	RefreshTokenDuration time.Duration `json:"refresh_token_duration"`
	Admin                AdminConfig   `json:"admin"`
}

// AdminConfig holds the seeded dashboard user
type AdminConfig struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level        string `json:"level"`
	Format       string `json:"format"` // json or text
	Output       string `json:"output"` // stdout or stderr
	EnableCaller bool   `json:"enable_caller"`
}

// CORSConfig holds CORS-related configuration
type CORSConfig struct {
	AllowedOrigins   []string `json:"allowed_origins"`
	AllowedMethods   []string `json:"allowed_methods"`
	AllowedHeaders   []string `json:"allowed_headers"`
	ExposedHeaders   []string `json:"exposed_headers"`
	AllowCredentials bool     `json:"allow_credentials"`
	MaxAge           int      `json:"max_age"`
}

// Load loads configuration from environment variables with fallback defaults
func Load() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	if err := godotenv.Load(); err != nil {
		// Environment variables can also be set directly
	}

	config := &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "9000"),
			ReadTimeout:  getDuration("READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getDuration("WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:  getDuration("IDLE_TIMEOUT", 120*time.Second),
		},
		Database: DatabaseConfig{
			Driver:   getEnv("STORAGE_DRIVER", StorageDriverPostgres),
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getInt("POSTGRES_PORT", 5432),
			User:     getEnv("POSTGRES_USER", ""),
			Password: getEnv("POSTGRES_PASSWORD", ""),
			DBName:   getEnv("POSTGRES_DB", "smarthome"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
			MaxConns: getInt("POSTGRES_MAX_CONNS", 25),
			MinConns: getInt("POSTGRES_MIN_CONNS", 5),
		},
		Mongo: MongoConfig{
			URI:        getEnv("MONGODB_URI", ""),
			Database:   getEnv("MONGODB_DATABASE", "smarthome"),
			Collection: getEnv("MONGODB_COLLECTION", "readings_archive"),
		},
		MQTT: MQTTConfig{
			BrokerHost:  getEnv("BROKER_HOST", "localhost"),
			BrokerPort:  getInt("BROKER_PORT", 1883),
			BrokerUser:  getEnv("BROKER_USER", ""),
			BrokerPass:  getEnv("BROKER_PASS", ""),
			UseTLS:      getBool("BROKER_TLS", false),
			CACertPath:  getEnv("BROKER_CA_FILE", ""),
			Topic:       getEnv("MQTT_TOPIC", "home/environment"),
			ClientID:    getEnv("MQTT_CLIENT_ID", "hmt-telemetry-server"),
			KeepAlive:   getDuration("MQTT_KEEP_ALIVE", 30*time.Second),
			PingTimeout: getDuration("MQTT_PING_TIMEOUT", 10*time.Second),
		},
		Telemetry: TelemetryConfig{
			Source:              getEnv("TELEMETRY_SOURCE", TelemetrySourceSimulated),
			TickInterval:        getDuration("TELEMETRY_TICK_INTERVAL", 5*time.Second),
			AdvisoryWindow:      getDuration("ADVISORY_WINDOW", time.Hour),
			AdvisoryLimit:       getInt("ADVISORY_LIMIT", 10),
			DefaultHistoryHours: getInt("HISTORY_DEFAULT_HOURS", 24),
			ViewerBufferSize:    getInt("VIEWER_BUFFER_SIZE", 64),
		},
		Auth: AuthConfig{
			JWTSecretKey:         getEnv("JWT_SECRET_KEY", "change-this-secret-in-production"),
			JWTIssuer:            getEnv("JWT_ISSUER", "hmt-telemetry-server"),
			AccessTokenDuration:  getDuration("JWT_ACCESS_TOKEN_DURATION", 15*time.Minute),
			RefreshTokenDuration: getDuration("JWT_REFRESH_TOKEN_DURATION", 7*24*time.Hour),
			Admin: AdminConfig{
				Username: getEnv("ADMIN_USERNAME", "admin"),
				Password: getEnv("ADMIN_PASSWORD", "adminpassword123"),
			},
		},
		Logging: LoggingConfig{
			Level:        getEnv("LOG_LEVEL", "info"),
			Format:       getEnv("LOG_FORMAT", "text"),
			Output:       getEnv("LOG_OUTPUT", "stdout"),
			EnableCaller: getBool("LOG_ENABLE_CALLER", false),
		},
		CORS: CORSConfig{
			AllowedOrigins:   getStringSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
			AllowedMethods:   getStringSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
			AllowedHeaders:   getStringSlice("CORS_ALLOWED_HEADERS", []string{"Origin", "Content-Type", "Accept", "Authorization"}),
			ExposedHeaders:   getStringSlice("CORS_EXPOSED_HEADERS", []string{"Content-Length"}),
			AllowCredentials: getBool("CORS_ALLOW_CREDENTIALS", true),
			MaxAge:           getInt("CORS_MAX_AGE", 43200), // 12 hours
		},
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case StorageDriverPostgres:
		if c.Database.User == "" {
			return fmt.Errorf("POSTGRES_USER is required with the postgres storage driver")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("POSTGRES_PASSWORD is required with the postgres storage driver")
		}
	case StorageDriverMemory:
		// No database credentials needed
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q (expected postgres or memory)", c.Database.Driver)
	}

	switch c.Telemetry.Source {
	case TelemetrySourceSimulated, TelemetrySourceMQTT:
	default:
		return fmt.Errorf("unknown TELEMETRY_SOURCE %q (expected simulated or mqtt)", c.Telemetry.Source)
	}

	if c.Telemetry.TickInterval <= 0 {
		return fmt.Errorf("TELEMETRY_TICK_INTERVAL must be positive")
	}
	if c.Telemetry.AdvisoryWindow <= 0 || c.Telemetry.AdvisoryLimit <= 0 {
		return fmt.Errorf("advisory window and limit must be positive")
	}
	if c.Telemetry.ViewerBufferSize <= 0 {
		return fmt.Errorf("VIEWER_BUFFER_SIZE must be positive")
	}

	if c.Auth.JWTSecretKey == "change-this-secret-in-production" {
		log.Println("WARNING: Using default JWT secret key. Change JWT_SECRET_KEY in production!")
	}

	return nil
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host, c.Database.Port, c.Database.User, c.Database.Password, c.Database.DBName, c.Database.SSLMode)
}

// GetMQTTBrokerURL returns the MQTT broker URL
func (c *Config) GetMQTTBrokerURL() string {
	scheme := "tcp"
	if c.MQTT.UseTLS {
		scheme = "tcps"
	}
	return fmt.Sprintf("%s://%s:%d", scheme, c.MQTT.BrokerHost, c.MQTT.BrokerPort)
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Fatalf("invalid %s: %v", key, err)
	}
	return intValue
}

func getBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if value == "1" || value == "true" || value == "TRUE" {
		return true
	}
	if value == "0" || value == "false" || value == "FALSE" {
		return false
	}
	log.Fatalf("invalid %s: %q (expected true/false or 1/0)", key, value)
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		log.Fatalf("invalid %s: %v", key, err)
	}
	return duration
}

func getStringSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := make([]string, 0)
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
