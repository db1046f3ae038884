// Package sgmlog provides the structured logging setup shared by the
// parser's CLI commands: a log/slog handler selected by level and format
// strings, wired to pflag so it can be configured from the command line.
package sgmlog

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Format selects a slog handler's output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

var (
	ErrUnknownLevel  = errors.New("unknown log level")
	ErrUnknownFormat = errors.New("unknown log format")
)

// GetLevel parses a level string ("debug", "info", "warn", "error").
func GetLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownLevel, level)
	}
}

// GetFormat parses a format string ("text" or "json").
func GetFormat(format string) (Format, error) {
	switch f := Format(strings.ToLower(format)); f {
	case FormatText, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// NewHandler builds a slog.Handler writing to w at the given level and
// format.
func NewHandler(w io.Writer, level slog.Level, format Format) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if format == FormatJSON {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// NewHandlerFromStrings parses levelStr/formatStr and builds a handler, or
// returns the parse error.
func NewHandlerFromStrings(w io.Writer, levelStr, formatStr string) (slog.Handler, error) {
	level, err := GetLevel(levelStr)
	if err != nil {
		return nil, err
	}
	format, err := GetFormat(formatStr)
	if err != nil {
		return nil, err
	}
	return NewHandler(w, level, format), nil
}
