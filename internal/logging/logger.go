// Package logging sets up structured logging and writes training artifacts:
// per-generation metrics, the best-fitness history and its plot.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// New builds a slog logger writing to w. level is one of debug, info, warn
// or error; format is text or json.
func New(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("parsing log level %q: %w", level, err)
	}
	opts := &slog.HandlerOptions{Level: lvl}

	switch strings.ToLower(format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}
