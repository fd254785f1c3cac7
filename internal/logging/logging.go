// Package logging wires slog with a colored console handler and a JSON
// file handler.
package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Attribute keys shared across packages.
const (
	KeyRunID   = "run_id"
	KeyPost    = "post"
	KeyStyle   = "style"
	KeyModel   = "model"
	KeyAttempt = "attempt"
	KeyBackoff = "backoff"
	KeyOutput  = "output"
	KeyURL     = "url"
	KeyError   = "error"
)

// ParseLevel maps debug/info/warn/error to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}

// Setup builds the application logger. Console output goes to w at the given
// level; when path is not empty, everything from DEBUG up is also appended to
// that file as JSON, with size and age based rotation. The returned func
// closes the file.
func Setup(w io.Writer, level slog.Level, path string) (*slog.Logger, func() error, error) {
	console := tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.DateTime,
	})

	if path == "" {
		return slog.New(console), func() error { return nil }, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f := fileWriter(path)

	file := slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(fanout{console, file}), f.Close, nil
}

// Log file rotation limits.
const (
	MaxFileMB   = 10
	MaxFileDays = 7
)

// fileWriter appends to path, rotating it at MaxFileMB and removing rotated
// files older than MaxFileDays.
func fileWriter(path string) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:  path,
		MaxSize:   MaxFileMB,
		MaxAge:    MaxFileDays,
		LocalTime: true,
	}
}

// Discard returns a logger that drops everything; used by tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range f {
		if h.Enabled(ctx, r.Level) {
			errs = append(errs, h.Handle(ctx, r.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanout) WithGroup(name string) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}
