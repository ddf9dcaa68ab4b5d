// Package logger holds the process-wide zap logger shared by the server, the
// CLI and the vocabulary packages.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the process-wide logger. It stays nil until Init succeeds.
var Logger *zap.Logger

// fallback serves callers that log before Init, such as package tests.
var fallback = zap.NewNop()

// Init builds the process-wide logger for env ("production" or anything
// else for development). level overrides the env default when non-empty.
func Init(env, level string) error {
	cfg := configFor(env)
	if level != "" {
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			return err
		}
		cfg.Level.SetLevel(lvl)
	}

	built, err := cfg.Build()
	if err != nil {
		return err
	}
	Logger = built
	return nil
}

// configFor returns JSON output at info in production and colored console
// output at debug everywhere else. Both write to stderr so CLI output on
// stdout stays clean.
func configFor(env string) zap.Config {
	var cfg zap.Config
	if env == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.OutputPaths = []string{"stderr"}
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg
}

// Sync flushes buffered entries; safe to call before Init.
func Sync() {
	if Logger != nil {
		_ = Logger.Sync()
	}
}

// Get returns the process-wide logger, or a no-op logger before Init.
func Get() *zap.Logger {
	if Logger == nil {
		return fallback
	}
	return Logger
}

// Named scopes the process-wide logger to one component.
func Named(component string) *zap.Logger {
	return Get().Named(component)
}
