package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Backend selection
	DataBackend string

	// Database
	SQLiteDBPath string

	// Memory backend seed directory
	DataDir string

	// Logging
	LogLevel string

	// Month boundaries are computed in this zone ("Local", "UTC" or an IANA name)
	Timezone string

	// clock or counter
	IDStrategy string

	AggregateCacheSize int

	// Upper bound on a single blob write
	PersistTimeout time.Duration
}

func Load() *Config {
	return &Config{
		DataBackend:        getEnv("DATA_BACKEND", "sqlite"),
		SQLiteDBPath:       getEnv("SQLITE_DB_PATH", "./data/fintrack.db"),
		DataDir:            getEnv("DATA_DIR", "data"),
		LogLevel:           getEnv("LOG_LEVEL", "warn"),
		Timezone:           getEnv("TIMEZONE", "Local"),
		IDStrategy:         getEnv("ID_STRATEGY", "clock"),
		AggregateCacheSize: getEnvInt("AGGREGATE_CACHE_SIZE", 64),
		PersistTimeout:     getEnvDuration("PERSIST_TIMEOUT", 5*time.Second),
	}
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	switch c.Timezone {
	case "", "Local":
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	validBackends := []string{"memory", "sqlite"}
	if !contains(validBackends, c.DataBackend) {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	if c.DataBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	validLevels := []string{"debug", "info", "warn", "warning", "error"}
	if !contains(validLevels, strings.ToLower(c.LogLevel)) {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of %v", c.LogLevel, validLevels))
	}

	if _, err := c.Location(); err != nil {
		errors = append(errors, fmt.Sprintf("invalid timezone '%s': %v", c.Timezone, err))
	}

	validStrategies := []string{"clock", "counter"}
	if !contains(validStrategies, c.IDStrategy) {
		errors = append(errors, fmt.Sprintf("invalid id strategy '%s': must be one of %v", c.IDStrategy, validStrategies))
	}

	if c.AggregateCacheSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid aggregate cache size %d: must be at least 1", c.AggregateCacheSize))
	} else if c.AggregateCacheSize > 10000 {
		errors = append(errors, fmt.Sprintf("invalid aggregate cache size %d: must be at most 10000", c.AggregateCacheSize))
	}

	if c.PersistTimeout < 100*time.Millisecond {
		errors = append(errors, fmt.Sprintf("invalid persist timeout %v: must be at least 100ms", c.PersistTimeout))
	} else if c.PersistTimeout > time.Minute {
		errors = append(errors, fmt.Sprintf("invalid persist timeout %v: must be at most 1 minute", c.PersistTimeout))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
