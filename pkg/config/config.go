package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Database configuration
	Database DatabaseConfig

	// Entitlement cache configuration
	Cache CacheConfig

	// Feature flag configuration
	Flags FlagsConfig

	// Observability configuration
	Observability ObservabilityConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// Health/metrics server (separate port for k8s probes)
	HealthPort string
}

// DatabaseConfig holds PostgreSQL connection settings
type DatabaseConfig struct {
	PostgresURL     string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// CacheConfig holds entitlement cache settings
type CacheConfig struct {
	TTL        time.Duration
	MaxEntries int

	// Janitor sweep interval for expired entries
	PurgeInterval time.Duration

	// Optional Redis secondary store
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// FlagsConfig holds feature flag settings
type FlagsConfig struct {
	// Path to the JSON flags file; empty disables file-backed flags
	FilePath string
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	LogLevel       string
	MetricsEnabled bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Server:        loadServerConfig(),
		Database:      loadDatabaseConfig(),
		Cache:         loadCacheConfig(),
		Flags:         loadFlagsConfig(),
		Observability: loadObservabilityConfig(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadServerConfig loads server configuration from environment
func loadServerConfig() ServerConfig {
	return ServerConfig{
		Host:            getEnv("BOOKCLUB_HOST", "0.0.0.0"),
		Port:            getEnv("BOOKCLUB_PORT", "8080"),
		ReadTimeout:     getEnvDuration("BOOKCLUB_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:    getEnvDuration("BOOKCLUB_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:     getEnvDuration("BOOKCLUB_IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout: getEnvDuration("BOOKCLUB_SHUTDOWN_TIMEOUT", 30*time.Second),
		HealthPort:      getEnv("BOOKCLUB_HEALTH_PORT", "9090"),
	}
}

// loadDatabaseConfig loads database configuration from environment
func loadDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		PostgresURL:     getEnv("BOOKCLUB_POSTGRES_URL", ""),
		MaxOpenConns:    getEnvInt("BOOKCLUB_POSTGRES_MAX_CONNS", 20),
		MaxIdleConns:    getEnvInt("BOOKCLUB_POSTGRES_IDLE_CONNS", 5),
		ConnMaxLifetime: getEnvDuration("BOOKCLUB_POSTGRES_CONN_LIFETIME", 30*time.Minute),
	}
}

// loadCacheConfig loads entitlement cache configuration from environment
func loadCacheConfig() CacheConfig {
	return CacheConfig{
		TTL:           getEnvDuration("BOOKCLUB_CACHE_TTL", 15*time.Minute),
		MaxEntries:    getEnvInt("BOOKCLUB_CACHE_MAX_ENTRIES", 4096),
		PurgeInterval: getEnvDuration("BOOKCLUB_CACHE_PURGE_INTERVAL", 5*time.Minute),
		RedisAddr:     getEnv("BOOKCLUB_REDIS_ADDR", ""),
		RedisPassword: getEnv("BOOKCLUB_REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("BOOKCLUB_REDIS_DB", 0),
	}
}

// loadFlagsConfig loads feature flag configuration from environment
func loadFlagsConfig() FlagsConfig {
	return FlagsConfig{
		FilePath: getEnv("BOOKCLUB_FLAGS_FILE", ""),
	}
}

// loadObservabilityConfig loads observability configuration from environment
func loadObservabilityConfig() ObservabilityConfig {
	return ObservabilityConfig{
		LogLevel:       getEnv("BOOKCLUB_LOG_LEVEL", "info"),
		MetricsEnabled: getEnvBool("BOOKCLUB_METRICS_ENABLED", true),
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.Server.HealthPort == "" {
		return fmt.Errorf("health port is required")
	}
	if c.Server.Port == c.Server.HealthPort {
		return fmt.Errorf("server port and health port must be different")
	}

	if c.Database.PostgresURL == "" {
		return fmt.Errorf("postgres URL is required")
	}

	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache TTL must be positive")
	}
	if c.Cache.MaxEntries <= 0 {
		return fmt.Errorf("cache max entries must be positive")
	}
	if c.Cache.PurgeInterval <= 0 {
		return fmt.Errorf("cache purge interval must be positive")
	}

	switch strings.ToLower(c.Observability.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.Observability.LogLevel)
	}

	return nil
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable or a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
