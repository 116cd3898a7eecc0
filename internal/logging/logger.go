// Package logging wraps a process-wide zap logger. It is silent unless a
// level is requested through Initialize or SNIPPETGEN_LOG_LEVEL.
package logging

import (
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger *zap.Logger

// LogLevelEnvVar controls logging verbosity when no level is passed.
// Valid values: "debug", "info", "warn", "error".
const LogLevelEnvVar = "SNIPPETGEN_LOG_LEVEL"

// Initialize creates the global logger. An empty level falls back to
// SNIPPETGEN_LOG_LEVEL; when both are empty logging is disabled.
func Initialize(level string) error {
	if level == "" {
		level = os.Getenv(LogLevelEnvVar)
	}
	level = strings.ToLower(strings.TrimSpace(level))

	if level == "" {
		logger = zap.NewNop()
		return nil
	}

	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}
	config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	built, err := config.Build()
	if err != nil {
		return fmt.Errorf("logging: initialize: %w", err)
	}
	logger = built
	return nil
}

// SetLogger replaces the global logger. Tests use it with zaptest/observer.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}

// GetLogger returns the global logger, falling back to a no-op logger.
func GetLogger() *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return logger
}

// Info logs an info message
func Info(msg string, fields ...zap.Field) {
	GetLogger().Info(msg, fields...)
}

// Debug logs a debug message
func Debug(msg string, fields ...zap.Field) {
	GetLogger().Debug(msg, fields...)
}

// Warn logs a warning message
func Warn(msg string, fields ...zap.Field) {
	GetLogger().Warn(msg, fields...)
}

// Error logs an error message
func Error(msg string, fields ...zap.Field) {
	GetLogger().Error(msg, fields...)
}

// LogRender records one snippet render.
func LogRender(language, protocol, scenario string, docsOnly bool, elapsed time.Duration, err error) {
	fields := []zap.Field{
		zap.String("language", language),
		zap.String("protocol", protocol),
		zap.String("scenario", scenario),
		zap.Bool("docs_only", docsOnly),
		zap.Duration("elapsed", elapsed),
	}
	if err != nil {
		Error("snippet render failed", append(fields, zap.Error(err))...)
		return
	}
	Debug("snippet rendered", fields...)
}

// LogHTTPRequest logs an HTTP request
func LogHTTPRequest(remoteAddr, method, path string, status int, elapsed time.Duration) {
	Info("HTTP request",
		zap.String("remote_addr", remoteAddr),
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", status),
		zap.Duration("elapsed", elapsed),
	)
}

// LogWebSocketMessage logs a websocket frame summary.
func LogWebSocketMessage(remoteAddr, direction string, data []byte) {
	Debug("WebSocket message",
		zap.String("remote_addr", remoteAddr),
		zap.String("direction", direction),
		zap.Int("length", len(data)),
	)
}

// Sync flushes any buffered log entries
func Sync() {
	if logger != nil {
		_ = logger.Sync()
	}
}
