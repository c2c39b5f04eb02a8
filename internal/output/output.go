// Package output renders replay results as text or JSON.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/lgbarn/chessrules-go/internal/chess"
	"github.com/lgbarn/chessrules-go/internal/config"
	"github.com/lgbarn/chessrules-go/internal/engine"
	"github.com/lgbarn/chessrules-go/internal/worker"
)

// MaxLineLength is where move histories wrap in text output.
const MaxLineLength = 80

// OutputWriter handles formatted output with line length control.
type OutputWriter struct {
	w             io.Writer
	lineLength    int
	maxLineLength int
	needsSpace    bool
}

// NewOutputWriter creates a new output writer.
func NewOutputWriter(w io.Writer, maxLineLength int) *OutputWriter {
	if maxLineLength <= 0 {
		maxLineLength = MaxLineLength
	}
	return &OutputWriter{
		w:             w,
		maxLineLength: maxLineLength,
	}
}

// Write writes a string, adding a space separator or a line break if needed.
func (o *OutputWriter) Write(s string) {
	if o.needsSpace && len(s) > 0 {
		if o.lineLength+1+len(s) > o.maxLineLength {
			fmt.Fprintln(o.w)
			o.lineLength = 0
		} else {
			fmt.Fprint(o.w, " ")
			o.lineLength++
		}
	}
	fmt.Fprint(o.w, s)
	o.lineLength += len(s)
	o.needsSpace = true
}

// NewLine starts a new line.
func (o *OutputWriter) NewLine() {
	fmt.Fprintln(o.w)
	o.lineLength = 0
	o.needsSpace = false
}

// OutputResult writes one replay result in text form.
func OutputResult(w io.Writer, r worker.Result, cfg *config.Config) {
	if r.Name != "" {
		fmt.Fprintf(w, "[%s]\n", r.Name)
	}
	if r.Game == nil {
		fmt.Fprintf(w, "Error: %v\n\n", r.Err)
		return
	}
	g := r.Game

	if cfg.Output.ShowMoves && g.Ply() > 0 {
		ow := NewOutputWriter(w, MaxLineLength)
		for _, token := range historyTokens(g) {
			ow.Write(token)
		}
		ow.Write(g.Status().Result())
		ow.NewLine()
	}
	if cfg.Output.ShowFEN {
		fmt.Fprintf(w, "FEN: %s\n", g.FEN())
	}
	if cfg.Output.ShowSignature {
		fmt.Fprintf(w, "Signature: %s\n", g.Signature())
	}
	fmt.Fprintf(w, "Status: %s (%s)\n", g.Status(), g.Status().Result())
	if cfg.Output.LegalFrom != "" {
		fmt.Fprintf(w, "Legal %s: %s\n", cfg.Output.LegalFrom, strings.Join(legalFrom(g, cfg.Output.LegalFrom), " "))
	}
	if r.Err != nil {
		fmt.Fprintf(w, "Error: %v\n", r.Err)
	}
	fmt.Fprintln(w)
}

// historyTokens splits the move history into wrap points: move numbers stay
// attached to their white move.
func historyTokens(g *engine.Game) []string {
	text := g.MoveHistoryText()
	if text == "" {
		return nil
	}
	fields := strings.Fields(text)
	var tokens []string
	for i := 0; i < len(fields); i++ {
		f := fields[i]
		if strings.HasSuffix(f, ".") && i+1 < len(fields) {
			f += " " + fields[i+1]
			i++
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// legalFrom lists destinations from the named square. An unreadable name
// yields no squares.
func legalFrom(g *engine.Game, name string) []string {
	sq, err := chess.ParseSquare(name)
	if err != nil {
		return nil
	}
	var out []string
	for _, to := range g.LegalMoves(sq) {
		out = append(out, to.String())
	}
	return out
}
