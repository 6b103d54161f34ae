package logger

import (
	"log/slog"
	"os"

	"github.com/polkiloo/banksampah/internal/config"
)

// New creates a preconfigured slog.Logger writing JSON to stdout at the configured level.
func New(cfg *config.Config) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})
	return slog.New(handler).With(slog.String("service", "banksampah"))
}
