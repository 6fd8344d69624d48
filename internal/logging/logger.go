// Package logging builds the console's zap logger. The TUI owns the
// terminal, so logs go to a file unless stderr is asked for explicitly.
package logging

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/zhouzirui/honeypot-console/internal/config"
)

// New builds a production-style JSON logger from cfg.
func New(cfg config.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	output := Destination(cfg.File)

	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.Sampling = nil
	zcfg.EncoderConfig.TimeKey = "ts"
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zcfg.OutputPaths = []string{output}
	zcfg.ErrorOutputPaths = []string{output}

	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger.Named("console"), nil
}

// Destination maps the configured file to a zap output path.
func Destination(file string) string {
	switch file {
	case "", "-", "stderr":
		return "stderr"
	case "stdout":
		return "stdout"
	}
	return filepath.Clean(file)
}
