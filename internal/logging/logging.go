// Package logging builds the assistant's zap logger.
//
// Logs never go to stdout, which belongs to the interactive prompt. They are
// appended to a file, or discarded when no file is configured.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/smileynet/assistant/internal/config"
)

// New returns a logger writing to cfg.File at cfg.Level. The returned close
// function flushes the logger and closes the file; it is safe to call on the
// no-op logger too.
func New(cfg config.Logging) (*zap.Logger, func() error, error) {
	if cfg.File == "" {
		return zap.NewNop(), func() error { return nil }, nil
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("logging: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
		return nil, nil, fmt.Errorf("logging: creating directory: %w", err)
	}
	f, err := os.OpenFile(cfg.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("logging: opening %s: %w", cfg.File, err)
	}

	core := zapcore.NewCore(encoder(cfg.Format), zapcore.AddSync(f), zap.NewAtomicLevelAt(level))
	logger := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))

	closeFn := func() error {
		_ = logger.Sync()
		return f.Close()
	}
	return logger, closeFn, nil
}

func encoder(format string) zapcore.Encoder {
	ec := zap.NewProductionEncoderConfig()
	ec.EncodeTime = zapcore.ISO8601TimeEncoder
	ec.EncodeCaller = zapcore.ShortCallerEncoder
	if format == "console" {
		ec.EncodeLevel = zapcore.CapitalLevelEncoder
		return zapcore.NewConsoleEncoder(ec)
	}
	return zapcore.NewJSONEncoder(ec)
}
