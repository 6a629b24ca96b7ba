// Package logger provides a simple logging interface for vitals components.
// It allows packages to log debug, info, warn, and error messages without
// being coupled to a specific logging implementation. The production
// implementation is backed by zap.
package logger

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DebugEnv enables debug output when set to any non-empty value.
const DebugEnv = "VITALS_DEBUG"

// Logger defines the interface for logging operations.
// All methods accept a format string and arguments, similar to fmt.Printf.
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}

// Config selects where and how log lines are written.
type Config struct {
	// Level is one of "debug", "info", "warn", "error". Defaults to "info".
	Level string
	// Format is "console" or "json". Defaults to "console".
	Format string
	// File receives the log output. Empty means stderr.
	File string
}

// zapLogger implements Logger on top of a sugared zap logger.
type zapLogger struct {
	prefix string
	sugar  *zap.SugaredLogger
}

// New builds a zap-backed logger from cfg. VITALS_DEBUG forces debug level.
func New(cfg Config, prefix string) (Logger, error) {
	level := parseLevel(cfg.Level)
	if os.Getenv(DebugEnv) != "" {
		level = zapcore.DebugLevel
	}

	var zc zap.Config
	if cfg.Format == "json" {
		zc = zap.NewProductionConfig()
		zc.EncoderConfig.TimeKey = "timestamp"
		zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		zc = zap.NewDevelopmentConfig()
		zc.DisableStacktrace = true
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.DisableCaller = true

	out := "stderr"
	if cfg.File != "" {
		out = cfg.File
	}
	zc.OutputPaths = []string{out}
	zc.ErrorOutputPaths = []string{out}

	base, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return NewZap(base, prefix), nil
}

// NewZap wraps an existing zap logger. The prefix is prepended to all
// messages (e.g., "[stream]" or "[ranges]").
func NewZap(base *zap.Logger, prefix string) Logger {
	return &zapLogger{prefix: prefix, sugar: base.Sugar()}
}

// NewEnvLogger creates a console logger on stderr that respects VITALS_DEBUG.
func NewEnvLogger(prefix string) Logger {
	l, err := New(Config{}, prefix)
	if err != nil {
		return Noop()
	}
	return l
}

func (l *zapLogger) msg(format string) string {
	if l.prefix == "" {
		return format
	}
	return l.prefix + " " + format
}

func (l *zapLogger) Debug(format string, args ...interface{}) {
	l.sugar.Debugf(l.msg(format), args...)
}

func (l *zapLogger) Info(format string, args ...interface{}) {
	l.sugar.Infof(l.msg(format), args...)
}

func (l *zapLogger) Warn(format string, args ...interface{}) {
	l.sugar.Warnf(l.msg(format), args...)
}

func (l *zapLogger) Error(format string, args ...interface{}) {
	l.sugar.Errorf(l.msg(format), args...)
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// noopLogger implements Logger but discards all messages.
type noopLogger struct{}

// Noop returns a logger that discards all messages.
func Noop() Logger {
	return &noopLogger{}
}

func (l *noopLogger) Debug(format string, args ...interface{}) {}
func (l *noopLogger) Info(format string, args ...interface{})  {}
func (l *noopLogger) Warn(format string, args ...interface{})  {}
func (l *noopLogger) Error(format string, args ...interface{}) {}

// LogMessage represents a captured log message.
type LogMessage struct {
	Level   string
	Message string
}

// BufferLogger captures log messages for testing.
// It is safe for concurrent use.
type BufferLogger struct {
	mu       sync.Mutex
	Messages []LogMessage
}

// NewBufferLogger creates a logger that captures messages for inspection.
func NewBufferLogger() *BufferLogger {
	return &BufferLogger{
		Messages: make([]LogMessage, 0),
	}
}

func (l *BufferLogger) add(level, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Messages = append(l.Messages, LogMessage{Level: level, Message: fmt.Sprintf(format, args...)})
}

func (l *BufferLogger) Debug(format string, args ...interface{}) { l.add("debug", format, args...) }
func (l *BufferLogger) Info(format string, args ...interface{})  { l.add("info", format, args...) }
func (l *BufferLogger) Warn(format string, args ...interface{})  { l.add("warn", format, args...) }
func (l *BufferLogger) Error(format string, args ...interface{}) { l.add("error", format, args...) }

// HasLevel returns true if any message was logged at the given level.
func (l *BufferLogger) HasLevel(level string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, m := range l.Messages {
		if m.Level == level {
			return true
		}
	}
	return false
}

// Snapshot returns a copy of the captured messages.
func (l *BufferLogger) Snapshot() []LogMessage {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]LogMessage, len(l.Messages))
	copy(out, l.Messages)
	return out
}

// Clear removes all captured messages.
func (l *BufferLogger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Messages = l.Messages[:0]
}

// defaultLogger is the package-level default logger.
var defaultLogger = NewEnvLogger("")

// Default returns the default logger for the package.
func Default() Logger {
	return defaultLogger
}

// SetDefault sets the default logger for the package.
// This is useful for testing or to configure logging globally.
func SetDefault(l Logger) {
	defaultLogger = l
}
