// Package logging builds the structured diagnostic logger. The terminal
// belongs to the UI, so log output goes to a file in the data directory.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"dayboard/internal/config"
)

// FileName is the log file created inside the data directory.
const FileName = "dayboard.log"

// New returns a JSON logger appending to <dataDir>/dayboard.log, or a no-op
// logger when logging is disabled.
func New(cfg config.LogConfig, dataDir string) (*zap.Logger, error) {
	if !cfg.Enabled {
		return zap.NewNop(), nil
	}

	level := cfg.Level
	if level == "" {
		level = "info"
	}
	atomicLevel, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", cfg.Level, err)
	}

	f, err := openLogFile(dataDir)
	if err != nil {
		return nil, err
	}

	// Same encoding as zap.NewProductionConfig, but writing to an already
	// opened file so Windows paths never go through zap's URL sink parsing.
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.Lock(f),
		atomicLevel,
	)
	return zap.New(core, zap.AddCaller(), zap.ErrorOutput(zapcore.Lock(f))), nil
}

func openLogFile(dataDir string) (*os.File, error) {
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	path := filepath.Join(dataDir, FileName)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}
