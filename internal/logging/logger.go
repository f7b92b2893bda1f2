// Package logging provides structured logging for pulse.
// Logs go to timestamped files so they never interleave with the terminal UI.
package logging

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// Level represents log severity levels.
type Level int

const (
	// LevelDebug is for request/response tracing.
	LevelDebug Level = iota
	// LevelInfo is for informational messages.
	LevelInfo
	// LevelWarn is for warning messages.
	LevelWarn
	// LevelError is for error messages.
	LevelError
)

// filePrefix is the name prefix of every log file pulse writes.
const filePrefix = "pulse_"

// String returns the string representation of the level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a config value ("debug", "info", "warn", "error") to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

func (l Level) toSlogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Config configures the logger.
type Config struct {
	// Level is the minimum log level to output.
	Level Level
	// LogDir is the directory to write log files to.
	LogDir string
	// MaxLogFiles is the maximum number of log files to keep.
	MaxLogFiles int
	// MaxLogAge is the maximum age of log files before cleanup.
	MaxLogAge time.Duration
	// Console also writes to stderr. Never set this while the TUI runs.
	Console bool
	// JSONFormat uses JSON output format for structured logs.
	JSONFormat bool
}

// DefaultConfig returns default logging configuration.
func DefaultConfig() *Config {
	return &Config{
		Level:       LevelInfo,
		LogDir:      filepath.Join(os.TempDir(), "pulse", "logs"),
		MaxLogFiles: 10,
		MaxLogAge:   7 * 24 * time.Hour,
	}
}

// Logger is a structured logger for pulse.
type Logger struct {
	slog    *slog.Logger
	config  *Config
	logFile *os.File
	logPath string
	mu      sync.Mutex
}

// New creates a new logger with the given configuration.
// It creates a log file in the configured log directory.
func New(config *Config) (*Logger, error) {
	if config == nil {
		config = DefaultConfig()
	}

	if err := os.MkdirAll(config.LogDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	logPath := filepath.Join(config.LogDir, filePrefix+time.Now().Format("20060102_150405")+".log")
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}

	var out io.Writer = logFile
	if config.Console {
		out = io.MultiWriter(logFile, os.Stderr)
	}

	logger := &Logger{
		slog:    slog.New(newHandler(out, config)),
		config:  config,
		logFile: logFile,
		logPath: logPath,
	}

	go func() { _ = logger.Cleanup() }()

	return logger, nil
}

// newWithWriter creates a logger that writes to w instead of a file.
func newWithWriter(w io.Writer, config *Config) *Logger {
	if config == nil {
		config = DefaultConfig()
	}
	return &Logger{
		slog:   slog.New(newHandler(w, config)),
		config: config,
	}
}

// NewNoop creates a no-op logger that discards all output.
func NewNoop() *Logger {
	return &Logger{
		slog:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		config: DefaultConfig(),
	}
}

func newHandler(w io.Writer, config *Config) slog.Handler {
	opts := &slog.HandlerOptions{Level: config.Level.toSlogLevel()}
	if config.JSONFormat {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// LogPath returns the path to the current log file.
func (l *Logger) LogPath() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.logPath
}

// Close closes the log file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.logFile != nil {
		return l.logFile.Close()
	}
	return nil
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, args ...any) {
	l.slog.Debug(msg, args...)
}

// Info logs an info message.
func (l *Logger) Info(msg string, args ...any) {
	l.slog.Info(msg, args...)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, args ...any) {
	l.slog.Warn(msg, args...)
}

// Error logs an error message.
func (l *Logger) Error(msg string, args ...any) {
	l.slog.Error(msg, args...)
}

// With returns a new logger with the given attributes added.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		slog:    l.slog.With(args...),
		config:  l.config,
		logFile: l.logFile,
		logPath: l.logPath,
	}
}

// WithContext returns a logger carrying the request id and view stored in ctx.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	newLogger := l.slog

	if requestID, ok := ctx.Value(ContextKeyRequestID).(string); ok && requestID != "" {
		newLogger = newLogger.With("request_id", requestID)
	}
	if view, ok := ctx.Value(ContextKeyView).(string); ok && view != "" {
		newLogger = newLogger.With("view", view)
	}

	return &Logger{
		slog:    newLogger,
		config:  l.config,
		logFile: l.logFile,
		logPath: l.logPath,
	}
}

type contextKey string

const (
	// ContextKeyRequestID is the context key for the outgoing request id.
	ContextKeyRequestID contextKey = "request_id"
	// ContextKeyView is the context key for the dashboard view that issued a call.
	ContextKeyView contextKey = "view"
)

// WithRequestID adds a request id to the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// RequestIDFrom returns the request id stored in ctx, if any.
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(ContextKeyRequestID).(string)
	return id
}

// WithView adds the issuing view name to the context.
func WithView(ctx context.Context, view string) context.Context {
	return context.WithValue(ctx, ContextKeyView, view)
}

// Writer returns an io.Writer that logs each line at the given level.
// The demo server routes gin's request log through it.
func (l *Logger) Writer(level Level) io.Writer {
	return &logWriter{
		logger: l,
		level:  level,
	}
}

type logWriter struct {
	mu     sync.Mutex
	logger *Logger
	level  Level
	buf    []byte
}

// Write implements io.Writer, logging each complete line.
func (w *logWriter) Write(p []byte) (n int, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf = append(w.buf, p...)
	for {
		idx := bytes.IndexByte(w.buf, '\n')
		if idx < 0 {
			break
		}
		line := strings.TrimRight(string(w.buf[:idx]), "\r")
		w.buf = w.buf[idx+1:]
		if line != "" {
			w.emit(line)
		}
	}
	return len(p), nil
}

func (w *logWriter) emit(line string) {
	switch w.level {
	case LevelDebug:
		w.logger.Debug(line)
	case LevelWarn:
		w.logger.Warn(line)
	case LevelError:
		w.logger.Error(line)
	default:
		w.logger.Info(line)
	}
}

// Cleanup removes old log files based on MaxLogFiles and MaxLogAge.
func (l *Logger) Cleanup() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.config.LogDir == "" {
		return nil
	}

	entries, err := os.ReadDir(l.config.LogDir)
	if err != nil {
		return fmt.Errorf("failed to read log directory: %w", err)
	}

	type logFileInfo struct {
		path    string
		modTime time.Time
	}
	var logFiles []logFileInfo

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, ".log") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		logFiles = append(logFiles, logFileInfo{
			path:    filepath.Join(l.config.LogDir, name),
			modTime: info.ModTime(),
		})
	}

	// Newest first
	sort.Slice(logFiles, func(i, j int) bool {
		return logFiles[i].modTime.After(logFiles[j].modTime)
	})

	now := time.Now()
	var removed int

	for i, lf := range logFiles {
		if lf.path == l.logPath {
			continue
		}

		expired := l.config.MaxLogFiles > 0 && i >= l.config.MaxLogFiles
		if l.config.MaxLogAge > 0 && now.Sub(lf.modTime) > l.config.MaxLogAge {
			expired = true
		}
		if expired {
			if err := os.Remove(lf.path); err == nil {
				removed++
			}
		}
	}

	if removed > 0 {
		l.slog.Debug("cleaned up old log files", "count", removed)
	}

	return nil
}
