package config

import (
	"fmt"
	"time"

	"github.com/lgbarn/chessrules-go/internal/errors"
)

// ClockConfig holds the time control.
type ClockConfig struct {
	// StartMinutes is each player's initial time. Zero plays untimed.
	StartMinutes int

	// IncrementSeconds is added to the mover's clock after each move.
	IncrementSeconds int

	// TickInterval is how often a running clock reports. Zero disables
	// the ticker.
	TickInterval time.Duration
}

// NewClockConfig creates an untimed ClockConfig.
func NewClockConfig() *ClockConfig {
	return &ClockConfig{TickInterval: time.Second}
}

// Timed reports whether games run with a clock.
func (c *ClockConfig) Timed() bool {
	return c.StartMinutes > 0
}

// Validate checks that the time control is usable.
func (c *ClockConfig) Validate() error {
	if c.StartMinutes < 0 {
		return fmt.Errorf("start minutes %d < 0: %w", c.StartMinutes, errors.ErrInvalidConfig)
	}
	if c.IncrementSeconds < 0 {
		return fmt.Errorf("increment %d < 0: %w", c.IncrementSeconds, errors.ErrInvalidConfig)
	}
	if c.IncrementSeconds > 0 && c.StartMinutes == 0 {
		return fmt.Errorf("increment without start time: %w", errors.ErrInvalidConfig)
	}
	if c.TickInterval < 0 {
		return fmt.Errorf("tick interval %v < 0: %w", c.TickInterval, errors.ErrInvalidConfig)
	}
	return nil
}
