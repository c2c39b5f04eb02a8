// flags.go - Command-line flag definitions and configuration
package main

import (
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/lgbarn/chessrules-go/internal/config"
	"github.com/lgbarn/chessrules-go/internal/errors"
)

var (
	// Input options
	movesText = flag.String("moves", "", "Move list to replay, e.g. \"1. e4 e5 2. Nf3\"")
	startFEN  = flag.String("fen", "", "Start position (default: standard)")
	playMode  = flag.Bool("play", false, "Read moves and commands from stdin")

	// Output options
	outputFile    = flag.String("o", "", "Output file (default: stdout)")
	appendOutput  = flag.Bool("a", false, "Append to output file instead of overwrite")
	jsonOutput    = flag.Bool("J", false, "Output in JSON format")
	noMoves       = flag.Bool("nomoves", false, "Don't output the move history")
	noFEN         = flag.Bool("nofen", false, "Don't output the final FEN")
	showSignature = flag.Bool("sig", false, "Output the repetition signature")
	legalFrom     = flag.String("legal", "", "List legal destinations from this square after replay")

	// Archive
	storeDir    = flag.String("store", "", "Archive games in this directory")
	listStore   = flag.Bool("list", false, "List archived games and exit")
	deleteGame  = flag.String("delete", "", "Delete the archived game with this id and exit")
	showArchive = flag.String("show", "", "Show the archived game with this id and exit")

	// Clock
	timeControl = flag.String("tc", "", "Time control for -play as minutes+increment, e.g. 5+3")

	// Processing
	workers = flag.Int("j", 1, "Number of parallel replay workers")

	// Logging
	logFile   = flag.String("l", "", "Write diagnostics to this file")
	verbosity = flag.Int("v", 1, "Verbosity: 0 silent, 1 results, 2 running commentary")
	quiet     = flag.Bool("s", false, "Silent mode (same as -v 0)")
	debug     = flag.Bool("debug", false, "Enable debug traces")

	help    = flag.Bool("h", false, "Show help")
	version = flag.Bool("version", false, "Show version")
)

// applyFlags applies command-line flags to the configuration.
func applyFlags(cfg *config.Config) error {
	cfg.StartFEN = *startFEN
	cfg.Workers = *workers
	cfg.StoreDir = *storeDir
	applyOutputFlags(cfg)
	if err := applyClockFlags(cfg); err != nil {
		return err
	}

	cfg.Verbosity = *verbosity
	if *quiet {
		cfg.Verbosity = 0
	}
	return cfg.Validate()
}

// applyOutputFlags configures report contents.
func applyOutputFlags(cfg *config.Config) {
	cfg.Output.JSONFormat = *jsonOutput
	cfg.Output.ShowMoves = !*noMoves
	cfg.Output.ShowFEN = !*noFEN
	cfg.Output.ShowSignature = *showSignature
	cfg.Output.LegalFrom = *legalFrom
}

// applyClockFlags parses -tc.
func applyClockFlags(cfg *config.Config) error {
	if *timeControl == "" {
		return nil
	}
	minutes, increment, err := parseTimeControl(*timeControl)
	if err != nil {
		return err
	}
	cfg.Clock.StartMinutes = minutes
	cfg.Clock.IncrementSeconds = increment
	return nil
}

// parseTimeControl reads "M" or "M+S".
func parseTimeControl(s string) (minutes, increment int, err error) {
	base, inc, hasInc := strings.Cut(s, "+")
	minutes, err = strconv.Atoi(base)
	if err != nil {
		return 0, 0, fmt.Errorf("time control %q: %w", s, errors.ErrInvalidConfig)
	}
	if hasInc {
		increment, err = strconv.Atoi(inc)
		if err != nil {
			return 0, 0, fmt.Errorf("time control %q: %w", s, errors.ErrInvalidConfig)
		}
	}
	return minutes, increment, nil
}
