package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/lgbarn/chessrules-go/internal/chess"
	"github.com/lgbarn/chessrules-go/internal/config"
	"github.com/lgbarn/chessrules-go/internal/session"
	"github.com/lgbarn/chessrules-go/internal/store"
)

// runInteractive plays one game from commands read on in.
func runInteractive(ctx context.Context, cfg *config.Config, in io.Reader) error {
	var st *store.Store
	if cfg.Archiving() {
		var err error
		if st, err = openStore(cfg); err != nil {
			return err
		}
		defer st.Close()
	}

	s, err := session.New(cfg, st)
	if err != nil {
		return err
	}
	defer s.End() //nolint:errcheck // fails only when the game already ended

	out := cfg.OutputFile
	fmt.Fprintf(out, "game %s\n", s.ID())
	prompt(out, s)

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if quit := command(ctx, out, s, line); quit {
			break
		}
		prompt(out, s)
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return s.ArchiveErr()
}

func prompt(out io.Writer, s *session.Session) {
	g := s.Snapshot()
	line := g.Status().String()
	if c := s.Clock(); c != nil {
		line += fmt.Sprintf(" [%s %s]", c.Remaining(chess.White).Round(time.Second), c.Remaining(chess.Black).Round(time.Second))
	}
	fmt.Fprintf(out, "%s\n> ", line)
}

// command runs one input line and reports whether to leave.
func command(ctx context.Context, out io.Writer, s *session.Session, line string) bool {
	word, arg, _ := strings.Cut(line, " ")
	turn := s.Snapshot().Turn()

	switch word {
	case "quit", "exit":
		return true
	case "undo":
		fmt.Fprintln(out, s.TakeBack())
	case "redo":
		fmt.Fprintln(out, s.Redo())
	case "draw":
		report(out, s.OfferDraw(turn))
	case "resign":
		report(out, s.Resign(turn))
	case "fen":
		fmt.Fprintln(out, s.Snapshot().FEN())
	case "moves":
		fmt.Fprintln(out, s.Snapshot().MoveHistoryText())
	case "save":
		report(out, s.Save(ctx))
	case "legal":
		sq, err := chess.ParseSquare(strings.TrimSpace(arg))
		if err != nil {
			report(out, err)
			return false
		}
		var names []string
		for _, to := range s.LegalMoves(sq) {
			names = append(names, to.String())
		}
		fmt.Fprintln(out, strings.Join(names, " "))
	default:
		code, err := s.Play(line)
		if err != nil {
			report(out, err)
			return false
		}
		if !code.Moved() {
			fmt.Fprintln(out, code)
			return false
		}
		if last, ok := s.Snapshot().LastMove(); ok {
			fmt.Fprintln(out, last.Text)
		}
	}
	return false
}

func report(out io.Writer, err error) {
	if err != nil {
		fmt.Fprintf(out, "error: %v\n", err)
		return
	}
	fmt.Fprintln(out, "ok")
}
