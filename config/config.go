package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds application configuration
type Config struct {
	Port      string
	LogLevel  string
	CacheAddr string // empty = in-memory cache

	// Recommendation thresholds
	HighInterestThreshold float64 // annual %, at or above = high-interest debt
	LowInterestThreshold  float64 // annual %, below = low-interest debt
	BufferCriticalMin     float64 // absolute floor before everything else yields

	// Rate limiting
	RateLimitRequests int
}

// NewConfig loads configuration from environment variables
func NewConfig() (*Config, error) {
	highRate, err := getEnvFloat("HIGH_INTEREST_THRESHOLD", 10.0)
	if err != nil {
		return nil, err
	}
	lowRate, err := getEnvFloat("LOW_INTEREST_THRESHOLD", 5.0)
	if err != nil {
		return nil, err
	}
	criticalMin, err := getEnvFloat("BUFFER_CRITICAL_MIN", 5000)
	if err != nil {
		return nil, err
	}
	rateLimit, err := getEnvInt("RATE_LIMIT_REQUESTS", 30)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:                  getEnv("PORT", "8080"),
		LogLevel:              getEnv("LOG_LEVEL", "INFO"),
		CacheAddr:             getEnv("CACHE_ADDR", ""),
		HighInterestThreshold: highRate,
		LowInterestThreshold:  lowRate,
		BufferCriticalMin:     criticalMin,
		RateLimitRequests:     rateLimit,
	}

	if cfg.LowInterestThreshold > cfg.HighInterestThreshold {
		return nil, fmt.Errorf("LOW_INTEREST_THRESHOLD must not exceed HIGH_INTEREST_THRESHOLD")
	}
	if cfg.BufferCriticalMin < 0 {
		return nil, fmt.Errorf("BUFFER_CRITICAL_MIN must not be negative")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) (float64, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal, nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}

func getEnvInt(key string, defaultVal int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}
