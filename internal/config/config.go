package config

import (
	"log/slog"
	"os"
	"strings"
)

// Config holds the server's process-level settings, read from the
// environment. Command-line flags may override individual fields.
type Config struct {
	Port        string
	CardsFile   string
	Environment string
	LogLevel    slog.Level
}

// Load reads configuration from environment variables, applying defaults.
func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		CardsFile:   getEnv("CARDS", "cards.yaml"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    parseLogLevel(getEnv("LOG_LEVEL", "info")),
	}
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
