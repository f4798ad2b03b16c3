package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

// New creates a logger writing to stderr. Format is "text" or "json";
// anything else falls back to text. Diagnostics go to stderr so command
// output on stdout stays machine-readable.
func New(lvl string, format string) *slog.Logger {
	return NewWithWriter(os.Stderr, lvl, format)
}

// NewWithWriter creates a logger writing to w.
func NewWithWriter(w io.Writer, lvl string, format string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: parseLevel(lvl),
	}

	var handler slog.Handler
	if strings.ToLower(format) == FormatJSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

func parseLevel(level string) slog.Level {

	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
