package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	apperrors "vocabgraph/backend/pkg/errors"
)

// Config holds all application configuration
type Config struct {
	// App
	Port     string
	Env      string
	LogLevel string

	// Vocabulary
	VocabularyFile  string
	DefaultRelation string // relation used by invert when the caller names none
	DerivedRelation string // id given to derived relations when the caller names none

	// HTTP
	CORSOrigins     []string
	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()

	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// FromEnv builds a Config from the process environment without validating it.
func FromEnv() *Config {
	env := getEnv("ENV", "development")
	defaultLevel := "debug"
	if env == "production" {
		defaultLevel = "info"
	}

	return &Config{
		Port:            getEnv("PORT", "8080"),
		Env:             env,
		LogLevel:        getEnv("LOG_LEVEL", defaultLevel),
		VocabularyFile:  getEnv("VOCAB_FILE", ""),
		DefaultRelation: getEnv("DEFAULT_RELATION", "part_of"),
		DerivedRelation: getEnv("DERIVED_RELATION", "myrel"),
		CORSOrigins:     getEnvList("CORS_ORIGINS", []string{"*"}),
		ShutdownTimeout: time.Duration(getEnvInt("SHUTDOWN_TIMEOUT", 5)) * time.Second,
	}
}

// Validate checks that required configuration values are set
func (c *Config) Validate() error {
	if c.VocabularyFile == "" {
		return apperrors.NewConfigMissingRequired("VOCAB_FILE")
	}
	if c.Port == "" {
		return apperrors.NewConfigMissingRequired("PORT")
	}
	if c.DefaultRelation == "" {
		return apperrors.NewConfigValidationFailed("DEFAULT_RELATION", "must not be empty")
	}
	if c.DerivedRelation == "" {
		return apperrors.NewConfigValidationFailed("DERIVED_RELATION", "must not be empty")
	}
	if c.ShutdownTimeout <= 0 {
		return apperrors.NewConfigValidationFailed("SHUTDOWN_TIMEOUT", "must be positive")
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

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
