// Package config provides application configuration management from environment variables.
//
// # Overview
//
// This package loads and validates configuration from environment variables with
// sensible defaults for all settings.
//
// # Configuration Structure
//
// Server settings:
//
//	BOOKCLUB_HOST="0.0.0.0"
//	BOOKCLUB_PORT="8080"
//	BOOKCLUB_HEALTH_PORT="9090"
//	BOOKCLUB_READ_TIMEOUT="15s"
//	BOOKCLUB_WRITE_TIMEOUT="15s"
//
// Database settings:
//
//	BOOKCLUB_POSTGRES_URL="postgres://localhost/bookclub"
//	BOOKCLUB_POSTGRES_MAX_CONNS="20"
//	BOOKCLUB_POSTGRES_IDLE_CONNS="5"
//
// Cache settings:
//
//	BOOKCLUB_CACHE_TTL="15m"
//	BOOKCLUB_CACHE_MAX_ENTRIES="4096"
//	BOOKCLUB_CACHE_PURGE_INTERVAL="5m"
//	BOOKCLUB_REDIS_ADDR="localhost:6379"
//
// Feature flag settings:
//
//	BOOKCLUB_FLAGS_FILE="/etc/bookclub/flags.json"
//
// Observability settings:
//
//	BOOKCLUB_LOG_LEVEL="info"  # debug, info, warn, error
//	BOOKCLUB_METRICS_ENABLED="true"
//
// # Usage Example
//
// Load configuration:
//
//	cfg, err := config.LoadConfig()
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	fmt.Printf("Server: %s:%s\n", cfg.Server.Host, cfg.Server.Port)
//	fmt.Printf("Cache TTL: %s\n", cfg.Cache.TTL)
//
// # Related Packages
//
//   - pkg/store: Uses database configuration
//   - pkg/entitlements: Uses cache configuration
//   - pkg/featureflags: Uses flag file configuration
package config
