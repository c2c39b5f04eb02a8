// Package errors provides sentinel errors and error types for the chess rules engine.
// Rule violations are reported as engine.Code values; the errors here cover
// malformed input, configuration, storage and corrupted internal state.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common failure conditions.
// Use these with errors.Is() to check for specific error types.
var (
	// ErrInvalidFEN indicates a malformed FEN string.
	ErrInvalidFEN = errors.New("invalid FEN string")

	// ErrIllegalMove indicates a move that violates chess rules.
	ErrIllegalMove = errors.New("illegal move")

	// ErrInvalidCoordinate indicates a rank or file outside 0..7.
	ErrInvalidCoordinate = errors.New("invalid coordinate")

	// ErrSquareOccupied indicates a placement onto an occupied square.
	ErrSquareOccupied = errors.New("square occupied")

	// ErrParseFailure indicates move text that does not fit the move grammar.
	ErrParseFailure = errors.New("parse failure")

	// ErrInvalidConfig indicates invalid configuration values.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrNotFound indicates an archived game that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrGameNotActive indicates an operation on a finished or unstarted game.
	ErrGameNotActive = errors.New("game not active")

	// ErrCorruptState indicates a broken internal invariant.
	ErrCorruptState = errors.New("corrupt game state")
)

// GameError wraps errors with game context, including the game id,
// ply position, and move information. It implements the error interface
// and supports unwrapping via errors.Is() and errors.As().
type GameError struct {
	Err      error  // The underlying error
	GameID   string // Game identifier (if known)
	PlyNum   int    // Ply number where error occurred (0 if not applicable)
	MoveText string // The move text that caused the error (if applicable)
	File     string // Source file name (if known)
}

// Error returns a formatted error message including all available context.
func (e *GameError) Error() string {
	var parts []string

	if e.File != "" {
		parts = append(parts, e.File)
	}
	if e.GameID != "" {
		parts = append(parts, fmt.Sprintf("game %s", e.GameID))
	}
	if e.PlyNum > 0 {
		parts = append(parts, fmt.Sprintf("ply %d", e.PlyNum))
	}
	if e.MoveText != "" {
		parts = append(parts, fmt.Sprintf("move %q", e.MoveText))
	}

	context := strings.Join(parts, ", ")
	switch {
	case context == "" && e.Err != nil:
		return e.Err.Error()
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", context, e.Err)
	case context == "":
		return "game error"
	}
	return context
}

// Unwrap returns the underlying error, enabling errors.Is() and errors.As()
// to work through the GameError wrapper.
func (e *GameError) Unwrap() error {
	return e.Err
}

// ParseError represents a move text parsing error with position context.
type ParseError struct {
	Err      error  // The underlying error
	Input    string // The text being parsed
	Column   int    // Column number (1-based, 0 if unknown)
	Expected string // What was expected (for syntax errors)
	Got      string // What was found instead
}

// Error returns a formatted error message with location and context.
func (e *ParseError) Error() string {
	var parts []string

	if e.Input != "" {
		loc := fmt.Sprintf("%q", e.Input)
		if e.Column > 0 {
			loc += fmt.Sprintf(" column %d", e.Column)
		}
		parts = append(parts, loc)
	}

	if e.Expected != "" && e.Got != "" {
		parts = append(parts, fmt.Sprintf("expected %s, got %s", e.Expected, e.Got))
	} else if e.Expected != "" {
		parts = append(parts, fmt.Sprintf("expected %s", e.Expected))
	} else if e.Got != "" {
		parts = append(parts, fmt.Sprintf("unexpected %s", e.Got))
	}

	if e.Err != nil {
		if len(parts) > 0 {
			return fmt.Sprintf("%s: %v", strings.Join(parts, ": "), e.Err)
		}
		return e.Err.Error()
	}

	if len(parts) > 0 {
		return strings.Join(parts, ": ")
	}
	return "parse error"
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// InvariantError reports a programming error: the engine reached a state
// that its own bookkeeping should make impossible.
type InvariantError struct {
	Msg string
}

// Error returns the diagnostic message.
func (e *InvariantError) Error() string {
	return fmt.Sprintf("%v: %s", ErrCorruptState, e.Msg)
}

// Unwrap returns ErrCorruptState.
func (e *InvariantError) Unwrap() error {
	return ErrCorruptState
}

// Invariantf aborts the current operation with an *InvariantError.
// It never returns.
func Invariantf(format string, args ...interface{}) {
	panic(&InvariantError{Msg: fmt.Sprintf(format, args...)})
}

// Wrap adds context to an error while preserving the underlying error
// for inspection with errors.Is() and errors.As().
func Wrap(err error, context string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", context, err)
}

// Wrapf adds formatted context to an error while preserving the underlying
// error for inspection with errors.Is() and errors.As().
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}
