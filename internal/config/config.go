// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/aristath/tradedesk/internal/utils"
)

// Config holds application configuration
type Config struct {
	DataDir        string        `validate:"required"` // Directory of calendar.db (always absolute)
	CalendarFile   string        // Optional YAML calendar overlay
	LogLevel       string        `validate:"oneof=debug info warn error"`
	Port           int           `validate:"min=1,max=65535"`
	DevMode        bool
	Timezone       string        `validate:"required,timezone"`
	HorizonDays    int           `validate:"min=1,max=3660"`
	EconomicMonths int           `validate:"min=1,max=24"`
	PollInterval   time.Duration `validate:"min=100ms"`
	AllowedOrigins []string      // CORS origins, also used for the stream origin check
}

var validate = validator.New()

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	dataDir, err := filepath.Abs(getEnv("TIMING_DATA_DIR", "./data"))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}

	cfg := &Config{
		DataDir:        dataDir,
		CalendarFile:   getEnv("CALENDAR_FILE", ""),
		LogLevel:       strings.ToLower(getEnv("LOG_LEVEL", "info")),
		Port:           getEnvAsInt("TIMING_PORT", 8080),
		DevMode:        getEnvAsBool("DEV_MODE", false),
		Timezone:       getEnv("MARKET_TIMEZONE", "America/New_York"),
		HorizonDays:    getEnvAsInt("EVENT_HORIZON_DAYS", 60),
		EconomicMonths: getEnvAsInt("ECONOMIC_MONTHS", 2),
		PollInterval:   getEnvAsDuration("POLL_INTERVAL", time.Second),
		AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// Validate checks ranges and that the market timezone loads
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.CalendarFile != "" {
		if _, err := os.Stat(c.CalendarFile); err != nil {
			return fmt.Errorf("calendar file: %w", err)
		}
	}
	return nil
}

// PollSchedule returns the cron spec for the timing poller.
func (c *Config) PollSchedule() string {
	return "@every " + c.PollInterval.String()
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	if values := utils.ParseCSV(os.Getenv(key)); values != nil {
		return values
	}
	return defaultValue
}
