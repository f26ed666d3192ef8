//go:build e2e

package e2e

import (
	"os"
	"time"
)

// Config holds the configuration for E2E tests.
type Config struct {
	TestDir string
	Timeout time.Duration
}

// LoadConfig loads E2E test configuration from environment variables.
func LoadConfig() *Config {
	return &Config{
		TestDir: getEnvOrDefault("DROPBOX_E2E_TEST_DIR", "/E2E-Tests"),
		Timeout: getTimeoutFromEnv("DROPBOX_E2E_TIMEOUT", 120*time.Second),
	}
}

// getEnvOrDefault returns environment variable value or default.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getTimeoutFromEnv parses a duration from the environment or returns default.
func getTimeoutFromEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
