// chessrules replays, validates and archives chess games.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/lgbarn/chessrules-go/internal/config"
	"github.com/lgbarn/chessrules-go/internal/logging"
	"github.com/lgbarn/chessrules-go/internal/notation"
	"github.com/lgbarn/chessrules-go/internal/output"
	"github.com/lgbarn/chessrules-go/internal/store"
	"github.com/lgbarn/chessrules-go/internal/worker"
)

const programVersion = "0.1.0"

func main() {
	flag.Usage = usage
	flag.Parse()

	if *help {
		usage()
		os.Exit(0)
	}

	if *version {
		fmt.Printf("chessrules version %s\n", programVersion)
		os.Exit(0)
	}

	cfg := config.NewConfig()
	if err := applyFlags(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	setupLogFile(cfg)
	setupOutputFile(cfg)
	logging.Debug = *debug
	logging.SetOutput(cfg.LogFile)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var err error
	switch {
	case *listStore:
		err = listArchive(ctx, cfg)
	case *showArchive != "":
		err = showRecord(ctx, cfg, *showArchive)
	case *deleteGame != "":
		err = deleteRecord(ctx, cfg, *deleteGame)
	case *playMode:
		err = runInteractive(ctx, cfg, os.Stdin)
	default:
		var failed int
		failed, err = runReplay(ctx, cfg, collectItems(*movesText, flag.Args()))
		if err == nil && failed > 0 {
			os.Exit(1)
		}
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setupLogFile configures the log file based on command-line flags.
func setupLogFile(cfg *config.Config) {
	if *logFile == "" {
		return
	}
	file, err := os.OpenFile(*logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644) //nolint:gosec // G302: 0644 is appropriate for user-created log files
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log file %s: %v\n", *logFile, err)
		os.Exit(1)
	}
	cfg.LogFile = file
}

// setupOutputFile configures the output file based on command-line flags.
func setupOutputFile(cfg *config.Config) {
	if *outputFile == "" {
		return
	}

	var file *os.File
	var err error

	if *appendOutput {
		file, err = os.OpenFile(*outputFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644) //nolint:gosec // G302: 0644 is appropriate for user-created output files
	} else {
		file, err = os.Create(*outputFile)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output file %s: %v\n", *outputFile, err)
		os.Exit(1)
	}
	cfg.OutputFile = file
}

// collectItems builds one replay item from -moves and one per input file.
func collectItems(moves string, files []string) []worker.Item {
	var items []worker.Item
	if moves != "" || len(files) == 0 {
		items = append(items, worker.Item{Name: "moves", FEN: *startFEN, Moves: notation.Tokens(moves)})
	}
	for _, name := range files {
		items = append(items, readItem(name))
	}
	return items
}

func readItem(name string) worker.Item {
	item := worker.Item{Name: filepath.Base(name), FEN: *startFEN}
	data, err := os.ReadFile(name) //nolint:gosec // G304: reading user-specified input files is the purpose
	if err != nil {
		item.Err = err
		return item
	}
	item.Moves = notation.Tokens(string(data))
	return item
}

// runReplay replays items in parallel, writes the reports in input order and
// archives the games. It returns the number of items that failed.
func runReplay(ctx context.Context, cfg *config.Config, items []worker.Item) (int, error) {
	results := worker.Run(ctx, items, worker.WithWorkers(cfg.Workers))

	var st *store.Store
	if cfg.Archiving() {
		var err error
		if st, err = openStore(cfg); err != nil {
			return 0, err
		}
		defer st.Close()
	}

	w := output.NewWriter(cfg.OutputFile, cfg)
	failed := 0
	for _, r := range results {
		if !r.OK() {
			failed++
		}
		if err := w.WriteResult(r); err != nil {
			return failed, err
		}
		if st != nil && r.Game != nil {
			rec := store.RecordOf(uuid.New(), r.Game)
			if err := st.Save(ctx, rec); err != nil {
				return failed, err
			}
			cfg.Logf(1, "archived %s as %s\n", r.Name, rec.ID)
		}
	}
	if err := w.Close(); err != nil {
		return failed, err
	}
	cfg.Logf(1, "%d game(s) replayed, %d failed\n", len(results), failed)
	return failed, nil
}

func openStore(cfg *config.Config) (*store.Store, error) {
	if cfg.MemoryStore {
		return store.Open("")
	}
	return store.Open(cfg.StoreDir)
}

func requireStore(cfg *config.Config) (*store.Store, error) {
	if !cfg.Archiving() {
		return nil, fmt.Errorf("-store is required")
	}
	return openStore(cfg)
}

// listArchive prints one line per archived game.
func listArchive(ctx context.Context, cfg *config.Config) error {
	st, err := requireStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	recs, err := st.List(ctx)
	if err != nil {
		return err
	}
	for _, rec := range recs {
		fmt.Fprintf(cfg.OutputFile, "%s %s %-7s %3d %s\n",
			rec.ID, rec.SavedAt.Format("2006-01-02 15:04:05"), rec.Result, rec.Plies, rec.Status)
	}
	return nil
}

// showRecord prints an archived game.
func showRecord(ctx context.Context, cfg *config.Config, id string) error {
	st, err := requireStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	gid, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("game id %q: %w", id, err)
	}
	rec, err := st.Load(ctx, gid)
	if err != nil {
		return err
	}
	writeRecord(cfg.OutputFile, rec)
	return nil
}

func writeRecord(w io.Writer, rec *store.Record) {
	fmt.Fprintf(w, "[%s]\n", rec.ID)
	if rec.Moves != "" {
		fmt.Fprintf(w, "%s %s\n", rec.Moves, rec.Result)
	}
	fmt.Fprintf(w, "FEN: %s\n", rec.FEN)
	fmt.Fprintf(w, "Status: %s (%s)\n", rec.Status, rec.Result)
	fmt.Fprintf(w, "Saved: %s\n", rec.SavedAt.Format("2006-01-02 15:04:05"))
}

// deleteRecord removes an archived game.
func deleteRecord(ctx context.Context, cfg *config.Config, id string) error {
	st, err := requireStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	gid, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("game id %q: %w", id, err)
	}
	if err := st.Delete(ctx, gid); err != nil {
		return err
	}
	cfg.Logf(1, "deleted %s\n", gid)
	return nil
}

// usage prints usage information.
func usage() {
	fmt.Fprintf(os.Stderr, "Usage: chessrules [options] [move-files...]\n\n")
	fmt.Fprintf(os.Stderr, "Replays chess games move by move under the full rules and reports the result.\n")
	fmt.Fprintf(os.Stderr, "Each file holds one game; moves may be coordinate (e2e4), algebraic (Nf3) or castles (O-O).\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nCommands in -play mode:\n")
	fmt.Fprintf(os.Stderr, "  <move>        play a move\n")
	fmt.Fprintf(os.Stderr, "  undo, redo    take back or replay a move\n")
	fmt.Fprintf(os.Stderr, "  draw          offer, accept or claim a draw for the side to move\n")
	fmt.Fprintf(os.Stderr, "  resign        resign for the side to move\n")
	fmt.Fprintf(os.Stderr, "  legal <sq>    list legal destinations\n")
	fmt.Fprintf(os.Stderr, "  fen, moves    show the position or the history\n")
	fmt.Fprintf(os.Stderr, "  save, quit    archive the game, leave\n")
}
