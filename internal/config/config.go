// Package config handles application configuration from environment variables
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server settings
	Port     string
	Env      string // "development", "staging", "production"
	LogLevel string

	// Database
	DatabaseURL string // PostgreSQL connection string (optional, uses in-memory if not set)

	// Matching policy overrides
	MinScore   float64 // eligibility threshold, 0-100
	MaxResults int     // ranked results per lead

	// Candidate assembly
	CandidateLimit int // max region candidates fetched per lead

	// Observability
	OTLPEndpoint string // OTLP/gRPC collector; empty disables tracing
}

// Defaults
const (
	DefaultPort           = "8080"
	DefaultEnv            = "development"
	DefaultLogLevel       = "info"
	DefaultMinScore       = 40.0
	DefaultMaxResults     = 5
	DefaultCandidateLimit = 200
)

// Load reads configuration from environment variables
// It loads .env file if present (for local development)
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not present)
	_ = godotenv.Load()

	cfg := &Config{
		Port:           getEnv("PORT", DefaultPort),
		Env:            getEnv("ENV", DefaultEnv),
		LogLevel:       getEnv("LOG_LEVEL", DefaultLogLevel),
		DatabaseURL:    os.Getenv("DATABASE_URL"), // Optional, uses in-memory if not set
		MinScore:       getEnvFloat("MATCH_MIN_SCORE", DefaultMinScore),
		MaxResults:     int(getEnvInt64("MATCH_MAX_RESULTS", DefaultMaxResults)),
		CandidateLimit: int(getEnvInt64("CANDIDATE_LIMIT", DefaultCandidateLimit)),
		OTLPEndpoint:   os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the configuration is coherent
func (c *Config) Validate() error {
	if c.MinScore < 0 || c.MinScore > 100 {
		return fmt.Errorf("MATCH_MIN_SCORE must be in [0,100], got %f", c.MinScore)
	}
	if c.MaxResults <= 0 {
		return fmt.Errorf("MATCH_MAX_RESULTS must be positive, got %d", c.MaxResults)
	}
	if c.CandidateLimit <= 0 {
		return fmt.Errorf("CANDIDATE_LIMIT must be positive, got %d", c.CandidateLimit)
	}
	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
