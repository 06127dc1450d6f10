// Package common provides shared utilities for the Bridge integration-test
// harness.
package common

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logger   = zap.NewNop()
	loggerMu sync.RWMutex
)

// InitLogger configures the shared logger at the given level. Output is a
// console encoder on stderr so test output stays readable; timestamps are
// ISO-8601 to match the platform's serialization everywhere else.
func InitLogger(level string) error {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return err
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		MessageKey:     "message",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(os.Stderr),
		lvl,
	)

	loggerMu.Lock()
	logger = zap.New(core)
	loggerMu.Unlock()
	return nil
}

// Logger returns the shared logger. Before InitLogger it is a nop logger,
// so callers never need a nil check.
func Logger() *zap.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return logger
}

// Info logs an informational message on the shared logger.
func Info(message string, fields ...zap.Field) {
	Logger().Info(message, fields...)
}

// Error logs an error with its cause on the shared logger.
func Error(message string, err error, fields ...zap.Field) {
	Logger().Error(message, append(fields, zap.Error(err))...)
}
