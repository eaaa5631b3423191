// Package logging builds the zap loggers used by both binaries.
package logging

import (
	"fmt"

	"go.uber.org/zap"
)

// New returns a logger at level writing to stderr. Development loggers print
// human-readable lines with caller info; production loggers print JSON.
func New(level string, development bool) (*zap.Logger, error) {
	return build(level, development, "stderr")
}

// ToFile is like New but writes to path, for programs that own the terminal.
func ToFile(level string, development bool, path string) (*zap.Logger, error) {
	return build(level, development, path)
}

func build(level string, development bool, sink string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}
	cfg := zap.NewProductionConfig()
	if development {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = lvl
	cfg.OutputPaths = []string{sink}
	cfg.ErrorOutputPaths = []string{sink}
	return cfg.Build()
}
