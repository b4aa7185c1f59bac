// Package debug holds the process-wide log/slog logger.
package debug

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

var (
	logger  *slog.Logger
	enabled bool
	mu      sync.RWMutex
)

func init() {
	Init(false)
}

// Init configures the logger to write to os.Stderr.
// With enable false only warnings and errors are written.
func Init(enable bool) {
	InitWithWriter(os.Stderr, enable)
}

// InitWithWriter is Init with a custom destination
func InitWithWriter(w io.Writer, enable bool) {
	level := slog.LevelWarn
	if enable {
		level = slog.LevelDebug
	}
	l := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))

	mu.Lock()
	defer mu.Unlock()
	enabled = enable
	logger = l
}

// Enabled returns whether debug logging is enabled
func Enabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled
}

// Debug logs a debug message
func Debug(msg string, args ...any) {
	Logger().Debug(msg, args...)
}

// Warn logs a warning message
func Warn(msg string, args ...any) {
	Logger().Warn(msg, args...)
}

// Logger returns the underlying slog.Logger instance
func Logger() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}
