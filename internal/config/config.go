package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	CORS     CORSConfig
	Log      LogConfig
	Auth     AuthConfig
	Snapshot SnapshotConfig
	Currency string
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string
	Format string // "json" or "console"
}

// AuthConfig holds the shared secret protecting write endpoints.
// An empty key is allowed at startup; write requests then fail with 500.
type AuthConfig struct {
	APIKey string
}

// SnapshotConfig controls the scheduled refresh of materialized performance periods.
type SnapshotConfig struct {
	Schedule string // cron expression, empty disables the scheduler
	Workers  int
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	workers, err := strconv.Atoi(getEnv("SNAPSHOT_WORKERS", "4"))
	if err != nil || workers < 1 {
		return nil, fmt.Errorf("invalid SNAPSHOT_WORKERS: %q", os.Getenv("SNAPSHOT_WORKERS"))
	}

	format := strings.ToLower(getEnv("LOG_FORMAT", "json"))
	if format != "json" && format != "console" {
		return nil, fmt.Errorf("invalid LOG_FORMAT: %q (expected json or console)", format)
	}

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/portfolio_performance.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost")),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: format,
		},
		Auth: AuthConfig{
			APIKey: os.Getenv("INTERNAL_API_KEY"),
		},
		Snapshot: SnapshotConfig{
			Schedule: os.Getenv("SNAPSHOT_SCHEDULE"),
			Workers:  workers,
		},
		Currency: strings.ToUpper(getEnv("DEFAULT_CURRENCY", "EUR")),
	}

	if _, set := os.LookupEnv("SNAPSHOT_SCHEDULE"); !set {
		config.Snapshot.Schedule = "5 0 * * *"
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// splitList splits a comma separated value and drops empty entries.
func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
