// Package config loads service settings from the environment and an
// optional .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	GinMode     string
	DatabaseURL string
	EnableDB    bool
	LogLevel    string
	LogFormat   string
	Model       ModelConfig
}

// ModelConfig selects where the classifier comes from.
type ModelConfig struct {
	Backend         string
	Path            string
	URL             string
	Timeout         time.Duration
	StubProbability float64
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	timeout, err := time.ParseDuration(getEnv("MODEL_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("MODEL_TIMEOUT: %w", err)
	}

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		GinMode:     getEnv("GIN_MODE", "release"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		EnableDB:    strings.EqualFold(getEnv("ENABLE_DB", "false"), "true"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "json"),
		Model: ModelConfig{
			Backend: strings.ToLower(getEnv("MODEL_BACKEND", "catboost")),
			Path:    getEnv("MODEL_PATH", "catboost_model.json"),
			URL:     os.Getenv("MODEL_URL"),
			Timeout: timeout,
		},
	}

	if raw := os.Getenv("STUB_PROBABILITY"); raw != "" {
		p, err := strconv.ParseFloat(raw, 64)
		if err != nil || p < 0 || p > 1 {
			return nil, fmt.Errorf("STUB_PROBABILITY must be a number in [0,1], got %q", raw)
		}
		cfg.Model.StubProbability = p
	}

	if cfg.EnableDB && cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required when ENABLE_DB=true")
	}

	switch cfg.Model.Backend {
	case "catboost":
		if cfg.Model.Path == "" {
			return nil, fmt.Errorf("MODEL_PATH is required for the catboost backend")
		}
	case "remote":
		if cfg.Model.URL == "" {
			return nil, fmt.Errorf("MODEL_URL is required when MODEL_BACKEND=remote")
		}
	case "stub":
	default:
		return nil, fmt.Errorf("unknown MODEL_BACKEND %q", cfg.Model.Backend)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
