// Package config provides configuration for chessrules.
package config

import (
	"fmt"
	"io"
	"os"

	"github.com/lgbarn/chessrules-go/internal/errors"
)

// Config holds all program configuration.
type Config struct {
	Verbosity int // 0=nothing, 1=results, 2=running commentary

	// StartFEN is the starting position; empty means the standard one.
	StartFEN string

	// Workers is the number of parallel replay goroutines.
	Workers int

	// StoreDir is the archive directory. Empty disables archiving unless
	// MemoryStore is set.
	StoreDir    string
	MemoryStore bool

	Clock  ClockConfig
	Output OutputConfig

	// Output streams
	OutputFile io.Writer
	LogFile    io.Writer
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Verbosity:  1,
		Workers:    1,
		Clock:      *NewClockConfig(),
		Output:     *NewOutputConfig(),
		OutputFile: os.Stdout,
		LogFile:    os.Stderr,
	}
}

// SetOutput sets the output writer.
func (c *Config) SetOutput(w io.Writer) {
	c.OutputFile = w
}

// Archiving reports whether finished games should be stored.
func (c *Config) Archiving() bool {
	return c.StoreDir != "" || c.MemoryStore
}

// Logf writes to the log file when verbosity is at least level.
func (c *Config) Logf(level int, format string, args ...interface{}) {
	if c.Verbosity >= level && c.LogFile != nil {
		fmt.Fprintf(c.LogFile, format, args...)
	}
}

// Validate checks the configuration and its sub-configurations.
func (c *Config) Validate() error {
	if c.Verbosity < 0 || c.Verbosity > 2 {
		return fmt.Errorf("verbosity %d outside 0..2: %w", c.Verbosity, errors.ErrInvalidConfig)
	}
	if c.Workers < 1 {
		return fmt.Errorf("worker count %d < 1: %w", c.Workers, errors.ErrInvalidConfig)
	}
	return c.Clock.Validate()
}
