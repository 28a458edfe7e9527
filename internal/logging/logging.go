// Package logging builds the slog loggers used by the CLI, the batch runner
// and the history store.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config selects the output format and minimum level.
type Config struct {
	Format string // human or json
	Level  string // debug, info, warn, error
	Output io.Writer
}

// New returns a logger for cfg. Output defaults to stderr.
func New(cfg Config) (*slog.Logger, error) {
	w := cfg.Output
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: LevelFromString(cfg.Level)}

	switch strings.ToLower(cfg.Format) {
	case "", "human":
		return slog.New(NewHumanHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return nil, fmt.Errorf("logging: unknown format %q", cfg.Format)
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// LevelFromString converts debug, info, warn or error (any case) to a
// slog.Level. Unrecognized strings are info.
func LevelFromString(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
