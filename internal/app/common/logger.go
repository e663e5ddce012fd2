package common

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"whisper-api/internal/config"
)

// NewLogger creates a zap logger from the logging configuration. JSON output
// uses the production encoder; otherwise a colored console encoder is used.
func NewLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	var zc zap.Config
	if cfg.JSON {
		zc = zap.NewProductionConfig()
		zc.Encoding = "json"
	} else {
		zc = zap.NewDevelopmentConfig()
		zc.Encoding = "console"
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	zc.DisableStacktrace = level > zapcore.DebugLevel

	return zc.Build()
}

// MustNewLogger creates a new logger and panics if it fails
func MustNewLogger(cfg config.LoggingConfig) *zap.Logger {
	logger, err := NewLogger(cfg)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	return logger
}
