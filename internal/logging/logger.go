// Package logging builds the zap loggers used across the page objects.
// Every subsystem logs under its own category so a run's output can be
// filtered by the part of the console being driven.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/v2v-test/integration-tests/internal/config"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot       Category = "boot"       // Startup, config
	CategoryBrowser    Category = "browser"    // Browser session, DOM actions
	CategoryNavigation Category = "navigation" // Navigation graph walks
	CategoryREST       Category = "rest"       // REST API calls
	CategoryV2V        Category = "v2v"        // Migration mapping/plan wizards
	CategoryAutomate   Category = "automate"   // Service dialog editor
	CategoryGenericObj Category = "generic_objects"
	CategoryLedger     Category = "ledger"
)

// New builds a logger from the logging section of the config.
func New(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	var zc zap.Config
	if cfg.Format == "json" {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		zc.OutputPaths = append(zc.OutputPaths, cfg.File)
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// For returns the category logger derived from l. A nil l yields a no-op logger.
func For(l *zap.Logger, category Category) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l.Named(string(category))
}

func parseLevel(s string) (zapcore.Level, error) {
	switch s {
	case "", "info":
		return zapcore.InfoLevel, nil
	case "debug":
		return zapcore.DebugLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	}
	return zapcore.InfoLevel, fmt.Errorf("invalid log level: %s (valid: debug, info, warn, error)", s)
}
