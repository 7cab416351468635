// Package logging builds the zap logger used across snapsort.
//
// The logger is constructed once in the command layer and injected into every
// component; there is no ambient global logger.
package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config controls logger construction.
type Config struct {
	// Verbosity maps -v counts to levels: 0 = warn, 1 = info, >= 2 = debug.
	Verbosity int

	// Format selects the encoder: "console" (default) or "json".
	Format string
}

// Validate checks the config.
func (c *Config) Validate() error {
	if c.Verbosity < 0 {
		return fmt.Errorf("verbosity cannot be negative: %d", c.Verbosity)
	}
	switch c.Format {
	case "", "console", "json":
		return nil
	default:
		return fmt.Errorf("unknown log format %q (expected console or json)", c.Format)
	}
}

// Level returns the zap level for the configured verbosity.
func (c *Config) Level() zapcore.Level {
	switch {
	case c.Verbosity <= 0:
		return zapcore.WarnLevel
	case c.Verbosity == 1:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}

// New builds a logger writing to stderr with the configured level and format.
func New(cfg Config) (*zap.Logger, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid logging config: %w", err)
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if cfg.Format == "json" {
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	} else {
		encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), cfg.Level())
	return zap.New(core), nil
}
