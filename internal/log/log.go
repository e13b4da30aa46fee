// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package log builds the slog handler the CLI installs as the default
// logger. Three output formats are supported: a colored human-readable text
// format, logfmt and JSON.
package log

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/muesli/termenv"
)

type (
	format string
	level  string
)

const (
	formatJSON   format = "json"
	formatLogfmt format = "logfmt"
	formatText   format = "text"

	levelError level = "error"
	levelWarn  level = "warn"
	levelInfo  level = "info"
	levelDebug level = "debug"
)

var (
	// ErrInvalidArgument wraps every configuration error from NewHandler.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnknownLogLevel is returned for a level outside AllLevels.
	ErrUnknownLogLevel = errors.New("unknown log level")
	// ErrUnknownLogFormat is returned for a format outside AllFormats.
	ErrUnknownLogFormat = errors.New("unknown log format")

	// AllFormats lists the accepted format names, for flag help.
	AllFormats = []string{string(formatJSON), string(formatLogfmt), string(formatText)}
	// AllLevels lists the accepted level names, most severe first.
	AllLevels = []string{string(levelError), string(levelWarn), string(levelInfo), string(levelDebug)}
)

// NewHandler returns a [slog.Handler] writing to w. Names are matched
// case-insensitively; empty names select info and text.
func NewHandler(w io.Writer, levelName, formatName string) (slog.Handler, error) {
	lvl, err := parseLevel(levelName)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	f, err := parseFormat(formatName)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	switch f {
	case formatJSON:
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl}), nil
	case formatLogfmt:
		return slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}), nil
	}
	return newTextHandler(w, lvl), nil
}

func parseLevel(name string) (slog.Level, error) {
	switch level(strings.ToLower(strings.TrimSpace(name))) {
	case levelError:
		return slog.LevelError, nil
	case levelWarn, "warning":
		return slog.LevelWarn, nil
	case levelInfo, "":
		return slog.LevelInfo, nil
	case levelDebug:
		return slog.LevelDebug, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownLogLevel, name)
}

func parseFormat(name string) (format, error) {
	f := format(strings.ToLower(strings.TrimSpace(name)))
	if f == "" {
		return formatText, nil
	}
	if slices.Contains([]format{formatJSON, formatLogfmt, formatText}, f) {
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLogFormat, name)
}

// newTextHandler is the charm logger: timestamps without dates, colors
// when the terminal supports them.
func newTextHandler(w io.Writer, lvl slog.Level) slog.Handler {
	logger := charmlog.NewWithOptions(w, charmlog.Options{
		//nolint:gosec // G115: lvl is one of the four slog levels.
		Level:           charmlog.Level(int32(lvl)),
		Formatter:       charmlog.TextFormatter,
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
	})
	logger.SetColorProfile(termenv.ColorProfile())
	return logger
}
