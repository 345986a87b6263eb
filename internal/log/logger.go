package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Options configures the process logger.
type Options struct {
	Level  string
	JSON   bool
	Output io.Writer
}

// New returns a zerolog logger writing to opts.Output (stderr when nil).
func New(opts Options) zerolog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	if !opts.JSON {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	return zerolog.New(out).
		Level(ParseLevel(opts.Level)).
		With().
		Timestamp().
		Logger()
}

// OpenFile opens path for appending log lines.
func OpenFile(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

// ParseLevel parses a log level string, defaulting to info.
func ParseLevel(levelStr string) zerolog.Level {
	switch strings.ToLower(levelStr) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// LogConfigLoad logs a config load event.
func LogConfigLoad(logger zerolog.Logger, path string, err error) {
	if err != nil {
		logger.Error().Err(err).Str("path", path).Msg("config load failed")
		return
	}
	logger.Info().Str("path", path).Msg("config loaded")
}

// LogError logs an error raised by component.
func LogError(logger zerolog.Logger, component string, err error) {
	logger.Error().Err(err).Str("component", component).Msg("error occurred")
}
