package libs

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// ParseLevel maps DEBUG/INFO/WARN/ERROR (any case) to a slog level; anything
// else is INFO.
func ParseLevel(level string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func NewLogger(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	if strings.EqualFold(strings.TrimSpace(format), "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// SetupLogger installs the process-wide logger on stderr.
func SetupLogger(level, format string) *slog.Logger {
	logger := NewLogger(os.Stderr, level, format)
	slog.SetDefault(logger)
	return logger
}
