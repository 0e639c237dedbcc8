// Package logging sets up the application logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Init installs a text logger writing to w as the default slog logger. An
// unknown level falls back to INFO and is reported as a warning.
func Init(w io.Writer, level string) *slog.Logger {
	lvl, err := ParseLevel(level)

	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: lvl,
	}))
	slog.SetDefault(logger)

	if err != nil {
		logger.Warn(err.Error())
	}

	return logger
}

// ParseLevel converts a level name to a slog level.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug, nil
	case "INFO", "":
		return slog.LevelInfo, nil
	case "WARN", "WARNING":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q, using INFO",
			level)
	}
}
