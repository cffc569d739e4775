package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/sadopc/mithaq/internal/config"
)

// Options controls where log records go. The TUI owns the terminal, so it
// writes to the rotating file only; CLI commands also tee warnings to
// Stderr.
type Options struct {
	Stderr io.Writer
}

// New builds a sugared logger writing JSON records to a lumberjack-rotated
// file. The returned function flushes and closes the file.
func New(cfg config.LogConfig, opts Options) (*zap.SugaredLogger, func(), error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("log.level: %w", err)
	}

	if cfg.File == "" {
		return nil, nil, fmt.Errorf("log.file must not be empty")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	rotator := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
	}
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), zapcore.AddSync(rotator), level),
	}
	if opts.Stderr != nil {
		consoleConfig := encoderConfig
		consoleConfig.TimeKey = ""
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(consoleConfig),
			zapcore.AddSync(opts.Stderr),
			zapcore.WarnLevel,
		))
	}

	logger := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel))
	closeFn := func() {
		_ = logger.Sync()
		_ = rotator.Close()
	}
	return logger.Sugar(), closeFn, nil
}
