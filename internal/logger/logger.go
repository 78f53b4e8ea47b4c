package logger

import (
	"log/slog"
	"os"

	"github.com/peterkuimelis/sovereign/internal/config"
)

// Setup configures the global slog logger based on the environment: JSON
// output in production, text elsewhere.
func Setup(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var handler slog.Handler
	if cfg.Environment == "production" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
