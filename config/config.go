// Package config has the configuration for the crawler and the dataset
// server, loaded from environment variables (optionally via a .env file).
package config

import (
	"fmt"
	"net"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// Config holds all application configuration
type Config struct {
	// Crawl side
	UserAgent      string  // User-Agent sent to PMDA
	RequestRate    float64 // Outbound requests per second
	HTTPTimeout    int     // Seconds, search/detail requests
	ExportTimeout  int     // Seconds, CSV export requests
	RetryCount     int     // Retries per request on transient failure
	RetryWaitMs    int     // Initial backoff between retries
	MaxSearchCount int     // Server-side result cap per search

	// Serve side
	Port      string
	Address   string
	Env       string
	RefreshAt string // gocron time spec, e.g. "06:00;18:00"

	// Shared
	DataDir  string
	LogDir   string
	LogLevel string
}

// Load loads and validates configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		UserAgent:      getEnvWithDefault("PMDA_USER_AGENT", "pmda-datasets/1.0 (+https://github.com/giygas/pmda-datasets)"),
		RequestRate:    getFloatEnvWithDefault("PMDA_REQUEST_RATE", 4),
		HTTPTimeout:    getIntEnvWithDefault("PMDA_HTTP_TIMEOUT", 30),
		ExportTimeout:  getIntEnvWithDefault("PMDA_EXPORT_TIMEOUT", 90),
		RetryCount:     getIntEnvWithDefault("PMDA_RETRY_COUNT", 3),
		RetryWaitMs:    getIntEnvWithDefault("PMDA_RETRY_WAIT_MS", 500),
		MaxSearchCount: getIntEnvWithDefault("PMDA_MAX_SEARCH_COUNT", 1000),
		Port:           getEnvWithDefault("PORT", "8000"),
		Address:        getEnvWithDefault("ADDRESS", "127.0.0.1"),
		Env:            getEnvWithDefault("ENV", "dev"),
		RefreshAt:      getEnvWithDefault("REFRESH_AT", "06:00"),
		DataDir:        getEnvWithDefault("DATA_DIR", "data"),
		LogDir:         getEnvWithDefault("LOG_DIR", "logs"),
		LogLevel:       getEnvWithDefault("LOG_LEVEL", "info"),
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

var refreshAtRe = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9](;([01][0-9]|2[0-3]):[0-5][0-9])*$`)

// validateConfig validates all configuration values
func validateConfig(cfg *Config) error {
	if err := validatePort(cfg.Port); err != nil {
		return fmt.Errorf("invalid PORT: %w", err)
	}

	if err := validateAddress(cfg.Address); err != nil {
		return fmt.Errorf("invalid ADDRESS: %w", err)
	}

	if err := validateEnv(cfg.Env); err != nil {
		return fmt.Errorf("invalid ENV: %w", err)
	}

	if err := validateLogLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	if cfg.RequestRate <= 0 || cfg.RequestRate > 100 {
		return fmt.Errorf("invalid PMDA_REQUEST_RATE: must be in (0, 100], got %v", cfg.RequestRate)
	}

	if cfg.HTTPTimeout < 1 || cfg.HTTPTimeout > 600 {
		return fmt.Errorf("invalid PMDA_HTTP_TIMEOUT: must be 1-600 seconds, got %d", cfg.HTTPTimeout)
	}

	if cfg.ExportTimeout < cfg.HTTPTimeout {
		return fmt.Errorf("invalid PMDA_EXPORT_TIMEOUT: must be at least PMDA_HTTP_TIMEOUT (%d), got %d", cfg.HTTPTimeout, cfg.ExportTimeout)
	}

	if cfg.RetryCount < 0 || cfg.RetryCount > 10 {
		return fmt.Errorf("invalid PMDA_RETRY_COUNT: must be 0-10, got %d", cfg.RetryCount)
	}

	if cfg.RetryWaitMs < 0 || cfg.RetryWaitMs > 60000 {
		return fmt.Errorf("invalid PMDA_RETRY_WAIT_MS: must be 0-60000, got %d", cfg.RetryWaitMs)
	}

	if cfg.MaxSearchCount < 1 {
		return fmt.Errorf("invalid PMDA_MAX_SEARCH_COUNT: must be positive, got %d", cfg.MaxSearchCount)
	}

	if !refreshAtRe.MatchString(cfg.RefreshAt) {
		return fmt.Errorf("invalid REFRESH_AT: must be HH:MM times separated by ';', got %q", cfg.RefreshAt)
	}

	if strings.TrimSpace(cfg.DataDir) == "" {
		return fmt.Errorf("invalid DATA_DIR: cannot be empty")
	}

	return nil
}

// validatePort validates the PORT environment variable
func validatePort(port string) error {
	if port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}

	portNum, err := strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf("PORT must be a valid number: %w", err)
	}

	if portNum < 1 || portNum > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}

	if portNum < 1024 {
		return fmt.Errorf("PORT %d is privileged (less than 1024), use ports 1024-65535", portNum)
	}

	return nil
}

// validateAddress validates the ADDRESS environment variable
func validateAddress(address string) error {
	if address == "" {
		return fmt.Errorf("ADDRESS cannot be empty")
	}

	if address == "127.0.0.1" || address == "::1" || address == "localhost" {
		return nil
	}

	if ip := net.ParseIP(address); ip == nil {
		return fmt.Errorf("ADDRESS must be a valid IP address or 'localhost', got: %s", address)
	}

	return nil
}

// validateEnv validates the ENV environment variable
func validateEnv(env string) error {
	validEnvs := []string{"dev", "staging", "prod", "test"}
	env = strings.ToLower(env)

	for _, validEnv := range validEnvs {
		if env == validEnv {
			return nil
		}
	}

	return fmt.Errorf("ENV must be one of: %v, got: %s", validEnvs, env)
}

// validateLogLevel validates the LOG_LEVEL environment variable
func validateLogLevel(logLevel string) error {
	validLevels := []string{"debug", "info", "warn", "error"}
	logLevel = strings.ToLower(logLevel)

	for _, level := range validLevels {
		if logLevel == level {
			return nil
		}
	}

	return fmt.Errorf("LOG_LEVEL must be one of: %v, got: %s", validLevels, logLevel)
}

// getEnvWithDefault gets an environment variable with a default value
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnvWithDefault gets an environment variable as int with a default value
func getIntEnvWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getFloatEnvWithDefault gets an environment variable as float64 with a default value
func getFloatEnvWithDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
