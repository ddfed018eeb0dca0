package config

import (
	"fmt"
	"os"
	"time"
)

// Config represents the application configuration
// This struct contains all configuration parameters for the application
type Config struct {
	// Identity scoping all stored data
	Identity string

	// Default accounting period (YYYY-MM)
	Period string

	// Environment info
	Environment string

	// SQLite configuration
	DataPath string

	// HTTP server configuration
	HTTPAddr string
}

// LoadFromEnv loads the configuration from environment variables
func LoadFromEnv() (*Config, error) {
	cfg := &Config{}

	cfg.Identity = os.Getenv("BOOKKEEPER_IDENTITY")
	if cfg.Identity == "" {
		cfg.Identity = "demo@smallbusiness.com" // Default demo identity
	}

	cfg.Period = os.Getenv("BOOKKEEPER_PERIOD")
	if cfg.Period == "" {
		cfg.Period = time.Now().Format("2006-01") // Default to the current month
	}
	if err := ValidatePeriod(cfg.Period); err != nil {
		return nil, err
	}

	cfg.Environment = os.Getenv("ENVIRONMENT")
	if cfg.Environment == "" {
		cfg.Environment = "dev" // Default to dev environment
	}

	cfg.DataPath = os.Getenv("BOOKKEEPER_DATA_PATH")
	if cfg.DataPath == "" {
		cfg.DataPath = "./data/bookkeeper.db" // Local development path
	}

	cfg.HTTPAddr = os.Getenv("HTTP_ADDR")
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}

	return cfg, nil
}

func (c *Config) IsProd() bool {
	return c.Environment == "prod"
}

// ValidatePeriod checks that a period string is a well-formed YYYY-MM month.
func ValidatePeriod(period string) error {
	if _, err := time.Parse("2006-01", period); err != nil {
		return fmt.Errorf("invalid period %q, expected YYYY-MM: %w", period, err)
	}
	return nil
}
