package logger

import (
	"log/slog"
	"os"
)

// New builds the process-wide structured logger. Dev environments get debug
// level, everything else info.
func New(env string) *slog.Logger {
	level := slog.LevelInfo
	if env == "dev" {
		level = slog.LevelDebug
	}
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(h)
}
