package logger

import (
	"log/slog"
	"os"
)

// New returns the root structured logger. Handlers and services receive it by
// injection and attach request-scoped attrs themselves.
func New() *slog.Logger {
	level := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}
