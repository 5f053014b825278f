// Package logger provides the logging interface used by sensorpanel components.
// Components log through Logger without knowing where the output goes. The
// dashboard owns the terminal, so the production logger writes to a file.
package logger

import (
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DebugEnv enables debug-level output when set to any non-empty value.
const DebugEnv = "SENSORPANEL_DEBUG"

// Logger defines the interface for logging operations.
// All methods accept a format string and arguments, similar to fmt.Printf.
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}

// zapLogger adapts a zap SugaredLogger to Logger.
type zapLogger struct {
	s *zap.SugaredLogger
}

// New wraps an existing zap logger.
func New(z *zap.Logger) Logger {
	return &zapLogger{s: z.Sugar()}
}

// NewFileLogger builds a JSON logger appending to path. Debug output is
// included when debug is true or DebugEnv is set. The returned func flushes
// buffered entries and should be called before exit.
func NewFileLogger(path string, debug bool) (Logger, func(), error) {
	level := zapcore.InfoLevel
	if debug || os.Getenv(DebugEnv) != "" {
		level = zapcore.DebugLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	cfg.EncoderConfig.TimeKey = "time"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.Sampling = nil

	z, err := cfg.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("open log file %s: %w", path, err)
	}
	return New(z), func() { _ = z.Sync() }, nil
}

func (l *zapLogger) Debug(format string, args ...interface{}) { l.s.Debugf(format, args...) }
func (l *zapLogger) Info(format string, args ...interface{})  { l.s.Infof(format, args...) }
func (l *zapLogger) Warn(format string, args ...interface{})  { l.s.Warnf(format, args...) }
func (l *zapLogger) Error(format string, args ...interface{}) { l.s.Errorf(format, args...) }

// Named returns a logger scoped to a component (e.g. "poller").
// Loggers other than the zap-backed one are returned unchanged.
func Named(l Logger, name string) Logger {
	if zl, ok := l.(*zapLogger); ok {
		return &zapLogger{s: zl.s.Named(name)}
	}
	return l
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

// BufferLogger captures log messages for test assertions. It is safe to log
// from one goroutine while another inspects it through Entries or HasLevel.
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

func (l *BufferLogger) Debug(format string, args ...interface{}) { l.add("debug", format, args) }
func (l *BufferLogger) Info(format string, args ...interface{})  { l.add("info", format, args) }
func (l *BufferLogger) Warn(format string, args ...interface{})  { l.add("warn", format, args) }
func (l *BufferLogger) Error(format string, args ...interface{}) { l.add("error", format, args) }

func (l *BufferLogger) add(level, format string, args []interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Messages = append(l.Messages, LogMessage{Level: level, Message: fmt.Sprintf(format, args...)})
}

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

// Clear removes all captured messages.
func (l *BufferLogger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Messages = l.Messages[:0]
}

// Entries returns a copy of the captured messages.
func (l *BufferLogger) Entries() []LogMessage {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]LogMessage(nil), l.Messages...)
}
