package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds application configuration
type Config struct {
	// Server
	ServerPort int

	// MongoDB
	MongoURI string
	MongoDB  string

	// InfluxDB (execution metrics)
	InfluxEnabled  bool
	InfluxURL      string
	InfluxToken    string
	InfluxDatabase string

	// Webhook execution
	FetchRetries    int
	FetchRetryDelay int // milliseconds
	FetchTimeout    int // seconds

	// Scheduler
	SchedulerEnabled bool
	SchedulerTick    int // seconds between scheduler sweeps

	// Logging
	LogLevel string
	LogDir   string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		ServerPort: getEnvInt("SERVER_PORT", 8080),

		MongoURI: getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:  getEnv("MONGO_DATABASE", "envizi_webhook"),

		InfluxEnabled:  getEnvBool("INFLUXDB_ENABLED", false),
		InfluxURL:      getEnv("INFLUXDB_URL", "http://localhost:8086"),
		InfluxToken:    getEnv("INFLUXDB_TOKEN", ""),
		InfluxDatabase: getEnv("INFLUXDB_DATABASE", "envizi_webhook"),

		FetchRetries:    getEnvInt("FETCH_RETRIES", 3),
		FetchRetryDelay: getEnvInt("FETCH_RETRY_DELAY", 1000),
		FetchTimeout:    getEnvInt("FETCH_TIMEOUT", 30),

		SchedulerEnabled: getEnvBool("SCHEDULER_ENABLED", true),
		SchedulerTick:    getEnvInt("SCHEDULER_TICK", 60),

		LogLevel: getEnv("LOG_LEVEL", "INFO"),
		LogDir:   getEnv("LOG_DIRECTORY", "./logs"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if configuration is valid
func (c *Config) Validate() error {
	if c.ServerPort < 1 || c.ServerPort > 65535 {
		return fmt.Errorf("invalid SERVER_PORT: %d", c.ServerPort)
	}

	if c.FetchRetries < 1 || c.FetchRetries > 10 {
		return fmt.Errorf("invalid FETCH_RETRIES: %d (must be 1-10)", c.FetchRetries)
	}

	if c.FetchRetryDelay < 100 || c.FetchRetryDelay > 30000 {
		return fmt.Errorf("invalid FETCH_RETRY_DELAY: %d (must be 100-30000ms)", c.FetchRetryDelay)
	}

	if c.SchedulerTick < 5 {
		return fmt.Errorf("invalid SCHEDULER_TICK: %d (must be >= 5s)", c.SchedulerTick)
	}

	if c.InfluxEnabled && c.InfluxURL == "" {
		return fmt.Errorf("INFLUXDB_URL is required when INFLUXDB_ENABLED is set")
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
