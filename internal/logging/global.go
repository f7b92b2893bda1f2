package logging

import (
	"context"
	"sync/atomic"
)

var (
	globalLogger atomic.Pointer[Logger]
	noopLogger   = NewNoop()
)

// Global returns the process-wide logger, or a no-op logger before InitGlobal.
func Global() *Logger {
	if l := globalLogger.Load(); l != nil {
		return l
	}
	return noopLogger
}

// SetGlobal replaces the process-wide logger. Passing nil restores the no-op logger.
func SetGlobal(l *Logger) {
	globalLogger.Store(l)
}

// InitGlobal opens a file logger with config and installs it globally.
func InitGlobal(config *Config) error {
	l, err := New(config)
	if err != nil {
		return err
	}
	SetGlobal(l)
	return nil
}

// CloseGlobal closes the global logger's file and reverts to the no-op logger.
func CloseGlobal() error {
	l := globalLogger.Swap(nil)
	if l == nil {
		return nil
	}
	return l.Close()
}

// Debug logs a debug message using the global logger.
func Debug(msg string, args ...any) { Global().Debug(msg, args...) }

// Info logs an info message using the global logger.
func Info(msg string, args ...any) { Global().Info(msg, args...) }

// Warn logs a warning message using the global logger.
func Warn(msg string, args ...any) { Global().Warn(msg, args...) }

// Error logs an error message using the global logger.
func Error(msg string, args ...any) { Global().Error(msg, args...) }

// With returns the global logger with the given attributes added.
func With(args ...any) *Logger { return Global().With(args...) }

// FromContext returns the global logger annotated with ctx's request id and view.
func FromContext(ctx context.Context) *Logger { return Global().WithContext(ctx) }
