// Package logger provides structured logging using Zap.
package logger

import (
	"sync"

	"go.uber.org/zap"
)

var (
	sugar *zap.SugaredLogger
	once  sync.Once
)

// Init configures the global logger for the given environment.
// "production" logs JSON, "test" discards output so test runs stay
// quiet, and everything else gets the human-readable console encoder.
func Init(env string) {
	once.Do(func() {
		sugar = build(env).Sugar()
	})
}

func build(env string) *zap.Logger {
	switch env {
	case "production":
		if l, err := zap.NewProduction(); err == nil {
			return l
		}
		return zap.NewNop()
	case "test":
		return zap.NewNop()
	default:
		if l, err := zap.NewDevelopment(); err == nil {
			return l
		}
		return zap.NewNop()
	}
}

// Get returns the global sugared logger, initializing a development
// logger if Init was never called.
func Get() *zap.SugaredLogger {
	if sugar == nil {
		Init("development")
	}
	return sugar
}

// Sync flushes any buffered log entries. Call this before application exit.
func Sync() {
	if sugar != nil {
		_ = sugar.Sync()
	}
}
