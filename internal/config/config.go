// Package config loads process-global defaults — timezone, day-count
// convention, and root-finder tolerance — from the environment, using the
// godotenv-then-getEnv pattern.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds money-warp's process-global defaults.
type Config struct {
	// DefaultTimezone is the IANA zone name used to coerce naive date-times
	// at API boundaries and to drive the default TimeContext clock.
	DefaultTimezone string
	// DefaultYearSize is the day-count convention (360 or 365) assumed when
	// an InterestRate is not given an explicit year size.
	DefaultYearSize int
	// RootTolerance is the absolute tolerance passed to bracketed
	// root-finders (grossup, IRR) when the caller does not override it.
	RootTolerance float64

	// Location is DefaultTimezone resolved to a *time.Location.
	Location *time.Location
}

// Load reads configuration from environment variables, loading a .env file
// first if one exists (ignored if absent).
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DefaultTimezone: getEnv("MONEY_WARP_DEFAULT_TZ", "UTC"),
		DefaultYearSize: getEnvInt("MONEY_WARP_YEAR_SIZE", 365),
		RootTolerance:   getEnvFloat("MONEY_WARP_ROOT_TOL", 1e-4),
	}

	loc, err := time.LoadLocation(cfg.DefaultTimezone)
	if err != nil {
		return nil, fmt.Errorf("config: unknown MONEY_WARP_DEFAULT_TZ %q: %w", cfg.DefaultTimezone, err)
	}
	cfg.Location = loc

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.DefaultYearSize != 360 && c.DefaultYearSize != 365 {
		return fmt.Errorf("config: MONEY_WARP_YEAR_SIZE must be 360 or 365, got %d", c.DefaultYearSize)
	}
	if c.RootTolerance <= 0 {
		return fmt.Errorf("config: MONEY_WARP_ROOT_TOL must be positive, got %g", c.RootTolerance)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvFloat(key string, defaultValue float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return defaultValue
	}
	return v
}
