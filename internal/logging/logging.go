// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of erptab

// Package logging builds the process logger.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects the log level and sinks.
type Options struct {
	Level string
	// File receives the log. The TUI owns the terminal so stderr is only
	// used when File is empty and Stderr is set.
	File   string
	Stderr bool
}

// ParseLevel converts a level name, defaulting to info.
func ParseLevel(s string) (zapcore.Level, error) {
	if s == "" {
		return zapcore.InfoLevel, nil
	}
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return zapcore.InfoLevel, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return l, nil
}

// New builds a production JSON logger. With no sink configured it returns
// a no-op logger.
func New(opts Options) (*zap.Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	var out []string
	switch {
	case opts.File != "":
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o700); err != nil {
			return nil, fmt.Errorf("failed to create log dir: %w", err)
		}
		out = []string{opts.File}
	case opts.Stderr:
		out = []string{"stderr"}
	default:
		return zap.NewNop(), nil
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(level)
	config.OutputPaths = out
	config.ErrorOutputPaths = out
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return logger, nil
}

// Install builds the logger and makes it the global zap logger. The
// returned func flushes and restores the previous global.
func Install(opts Options) (*zap.Logger, func(), error) {
	logger, err := New(opts)
	if err != nil {
		return nil, nil, err
	}
	restore := zap.ReplaceGlobals(logger)

	return logger, func() {
		_ = logger.Sync()
		restore()
	}, nil
}
