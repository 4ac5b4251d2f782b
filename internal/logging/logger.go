package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Environment represents the log output style.
type Environment string

const (
	// EnvironmentProduction writes JSON records, for log shippers.
	EnvironmentProduction Environment = "production"

	// EnvironmentDevelopment writes colored console records, for operators.
	EnvironmentDevelopment Environment = "development"
)

// Config holds the configuration for a console logger.
type Config struct {
	// Level is the minimum enabled logging level (debug, info, warn, error).
	Level string

	// Environment determines the log format (production = JSON, development = console).
	Environment Environment

	// OutputPaths is a list of URLs or file paths to write logging output to.
	OutputPaths []string

	// ErrorOutputPaths is a list of URLs or file paths to write internal logger errors to.
	ErrorOutputPaths []string
}

// DefaultConfig returns a console configuration writing to stderr.
func DefaultConfig() Config {
	return Config{
		Level:            "info",
		Environment:      EnvironmentDevelopment,
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}
}

// EnvironmentFromFormat maps a --log-format value ("json" or "console") to an Environment.
func EnvironmentFromFormat(format string) Environment {
	if strings.EqualFold(format, "json") {
		return EnvironmentProduction
	}
	return EnvironmentDevelopment
}

// NewLogger creates a zap logger based on the provided configuration.
func NewLogger(cfg Config) (*zap.Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	zapConfig := zap.Config{
		Level:             zap.NewAtomicLevelAt(level),
		Development:       cfg.Environment == EnvironmentDevelopment,
		DisableCaller:     true,
		DisableStacktrace: true,
		Encoding:          encodingFromEnvironment(cfg.Environment),
		EncoderConfig:     consoleEncoderConfig(cfg.Environment),
		OutputPaths:       cfg.OutputPaths,
		ErrorOutputPaths:  cfg.ErrorOutputPaths,
	}

	logger, err := zapConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	return logger, nil
}

// ParseLevel converts a string level to zapcore.Level.
func ParseLevel(level string) (zapcore.Level, error) {
	return zapcore.ParseLevel(strings.ToLower(level))
}

// encodingFromEnvironment returns the encoding format based on environment.
func encodingFromEnvironment(env Environment) string {
	if env == EnvironmentProduction {
		return "json"
	}
	return "console"
}

func consoleEncoderConfig(env Environment) zapcore.EncoderConfig {
	if env == EnvironmentProduction {
		cfg := zap.NewProductionEncoderConfig()
		cfg.TimeKey = "timestamp"
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		return cfg
	}
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return cfg
}

// fileEncoderConfig renders "2006-01-02 15:04:05 - LEVEL - message {fields}" lines.
func fileEncoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "time"
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.CallerKey = zapcore.OmitKey
	cfg.StacktraceKey = zapcore.OmitKey
	cfg.ConsoleSeparator = " - "
	return cfg
}
