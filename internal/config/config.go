package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	OpenAIAPIKey      string
	OpenAIBaseURL     string
	Model             string
	RequestTimeout    time.Duration
	KnowledgeBasePath string
	DBPath            string
	APIPort           string
	LogLevel          slog.Level
	LogFormat         string
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates required fields.
// If a .env file exists in the current directory or project root, it will be loaded automatically.
// Environment variables already set take precedence over .env file values.
//
// OPENAI_API_KEY is required: the service refuses to start without a provider
// credential rather than failing on the first chat request.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	// Check current directory first, then walk up to find project root (where go.mod is)
	_ = godotenv.Load() // Try current directory

	wd, err := os.Getwd()
	if err == nil {
		dir := wd
		for i := 0; i < 5; i++ { // Limit search depth
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break // Reached filesystem root
			}
			dir = parent
		}
	}

	cfg := &Config{
		OpenAIAPIKey:      os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:     getEnv("OPENAI_BASE_URL", ""),
		Model:             getEnv("OPENAI_MODEL", "gpt-3.5-turbo"),
		KnowledgeBasePath: getEnv("KNOWLEDGE_BASE_PATH", "./data/knowledge_base.json"),
		DBPath:            getEnv("DB_PATH", "./data/flexone.db"),
		APIPort:           getEnv("API_PORT", "8000"),
		LogFormat:         getEnv("LOG_FORMAT", "text"),
	}

	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}

	timeoutStr := getEnv("REQUEST_TIMEOUT_SECONDS", "30")
	timeoutSec, err := strconv.Atoi(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("REQUEST_TIMEOUT_SECONDS must be a valid integer: %w", err)
	}
	if timeoutSec <= 0 {
		return nil, fmt.Errorf("REQUEST_TIMEOUT_SECONDS must be greater than 0")
	}
	cfg.RequestTimeout = time.Duration(timeoutSec) * time.Second

	levelStr := getEnv("LOG_LEVEL", "info")
	var level slog.Level
	if err := level.UnmarshalText([]byte(levelStr)); err != nil {
		return nil, fmt.Errorf("LOG_LEVEL %q is not a valid level: %w", levelStr, err)
	}
	cfg.LogLevel = level

	// Create ./data directory if it doesn't exist (for the usage DB file)
	dataDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
