package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"edumaster/internal/core/sequence"
)

// Allocator modes.
const (
	ModeLocked = "locked" // sys_sequences row lock, safe across processes
	ModeLocal  = "local"  // in-process lock, safe within one replica
	ModeLookup = "lookup" // unguarded max-query, duplicates surface as DUPLICATE_ENTRY
)

// Config is the server configuration read from the environment.
type Config struct {
	DatabaseURL       string
	Port              string
	LogLevel          string
	Development       bool
	AllocatorMode     string
	Sequence          sequence.Config
	EnrollMaxAttempts int
	DBMaxConns        int32
	PoolStatsInterval time.Duration
}

// LoadConfig reads the configuration from the environment.
func LoadConfig() (Config, error) {
	cfg := Config{
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		Port:              getEnv("APP_PORT", "8080"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		Development:       getEnv("APP_ENV", "development") == "development",
		AllocatorMode:     strings.ToLower(getEnv("ALLOCATOR_MODE", ModeLocked)),
		Sequence:          sequence.Config{Width: getEnvInt("ID_SEQUENCE_WIDTH", sequence.DefaultWidth)},
		EnrollMaxAttempts: getEnvInt("ENROLL_MAX_ATTEMPTS", 3),
		DBMaxConns:        int32(getEnvInt("DB_MAX_CONNS", 10)),
		PoolStatsInterval: getEnvDuration("POOL_STATS_INTERVAL", 5*time.Minute),
	}
	return cfg, cfg.Validate()
}

// Validate checks the configuration for consistency.
func (c Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("required environment variable DATABASE_URL not set")
	}
	switch c.AllocatorMode {
	case ModeLocked, ModeLocal, ModeLookup:
	default:
		return fmt.Errorf("ALLOCATOR_MODE must be one of %s, %s, %s: got %q", ModeLocked, ModeLocal, ModeLookup, c.AllocatorMode)
	}
	if c.Sequence.Width < 1 || c.Sequence.Width > 9 {
		return fmt.Errorf("ID_SEQUENCE_WIDTH must be between 1 and 9: got %d", c.Sequence.Width)
	}
	if c.EnrollMaxAttempts < 1 {
		return fmt.Errorf("ENROLL_MAX_ATTEMPTS must be positive: got %d", c.EnrollMaxAttempts)
	}
	if c.DBMaxConns < 1 {
		return fmt.Errorf("DB_MAX_CONNS must be positive: got %d", c.DBMaxConns)
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
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
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
