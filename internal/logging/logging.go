// Package logging holds pgrid's process-wide slog logger. Output goes to a
// file because stderr belongs to the table view while it runs.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
)

// level controls the log level of every pgrid logger.
// Default is LevelWarn; --verbose or log.level lower it.
var level = new(slog.LevelVar)

var current atomic.Pointer[slog.Logger]

func init() {
	level.Set(slog.LevelWarn)
	current.Store(slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: level})))
}

// Logger returns the process logger.
func Logger() *slog.Logger {
	return current.Load()
}

// SetVerbose switches debug logging on or back to the configured level.
func SetVerbose(v bool) {
	if v {
		level.Set(slog.LevelDebug)
	}
}

// Verbose reports whether debug records are written.
func Verbose() bool {
	return level.Level() <= slog.LevelDebug
}

// ParseLevel maps a config value to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q (want debug, info, warn or error)", s)
}

// Setup points the logger at path with the given level. An empty path keeps
// records in memory only, i.e. discards them. The returned closer closes the
// log file.
func Setup(levelName, path string) (io.Closer, error) {
	lvl, err := ParseLevel(levelName)
	if err != nil {
		return nil, err
	}
	if !Verbose() {
		level.Set(lvl)
	}

	if path == "" {
		current.Store(slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: level})))
		return io.NopCloser(nil), nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}
	return f, use(f)
}

// SetOutput sends records to w. Tests use it to capture output.
func SetOutput(w io.Writer) {
	_ = use(w)
}

func use(w io.Writer) error {
	current.Store(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})).With("pid", os.Getpid()))
	return nil
}
