package logging

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu   sync.RWMutex
	base = zap.NewNop()
)

// Init builds the process logger. Production environments get JSON output,
// everything else the development console encoder.
func Init(env, level string) (*zap.Logger, error) {
	var cfg zap.Config
	if env == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(level))

	l, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	SetBase(l)
	return l, nil
}

// SetBase replaces the process logger.
func SetBase(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	mu.Lock()
	base = l
	mu.Unlock()
}

// L returns the process logger.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Logger provides structured logging for services
type Logger struct {
	requestID string
	l         *zap.Logger
}

// NewLogger creates a logger with request context
func NewLogger(ctx context.Context) *Logger {
	requestID := RequestID(ctx)
	if requestID == "" {
		requestID = "unknown"
	}
	return &Logger{
		requestID: requestID,
		l:         L().With(zap.String("request_id", requestID)),
	}
}

// LogError logs an error with context
func (l *Logger) LogError(operation string, err error) {
	l.l.Error("operation failed", zap.String("operation", operation), zap.Error(err))
}

// LogErrorf logs a formatted error with context
func (l *Logger) LogErrorf(operation string, format string, args ...interface{}) {
	l.l.Error(fmt.Sprintf(format, args...), zap.String("operation", operation))
}

// LogInfo logs an info message with context
func (l *Logger) LogInfo(operation string, message string) {
	l.l.Info(message, zap.String("operation", operation))
}

// LogInfof logs a formatted info message with context
func (l *Logger) LogInfof(operation string, format string, args ...interface{}) {
	l.l.Info(fmt.Sprintf(format, args...), zap.String("operation", operation))
}

// LogWarn logs a warning with context
func (l *Logger) LogWarn(operation string, message string) {
	l.l.Warn(message, zap.String("operation", operation))
}

// LogWarnf logs a formatted warning with context
func (l *Logger) LogWarnf(operation string, format string, args ...interface{}) {
	l.l.Warn(fmt.Sprintf(format, args...), zap.String("operation", operation))
}

// RequestID returns the id of the request this logger is bound to.
func (l *Logger) RequestID() string { return l.requestID }
