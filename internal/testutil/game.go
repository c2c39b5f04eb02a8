package testutil

import (
	"strings"
	"testing"

	"github.com/lgbarn/chessrules-go/internal/chess"
	"github.com/lgbarn/chessrules-go/internal/engine"
)

// MustGame returns a started game from fen, or the standard starting
// position when fen is empty. It calls t.Fatal on a bad FEN.
func MustGame(t *testing.T, fen string) *engine.Game {
	t.Helper()
	if fen == "" {
		return engine.NewStandardGame()
	}
	g, err := engine.NewGameFromFEN(fen)
	if err != nil {
		t.Fatalf("NewGameFromFEN(%q): %v", fen, err)
	}
	return g
}

// ParseCoordinate splits coordinate text such as "e2e4", "e2-e4" or
// "e7e8q" into its squares and promotion type.
func ParseCoordinate(t *testing.T, move string) (from, to chess.Square, promo chess.PieceType) {
	t.Helper()
	text := strings.ReplaceAll(strings.ReplaceAll(move, "-", ""), "x", "")
	if len(text) != 4 && len(text) != 5 {
		t.Fatalf("bad coordinate move %q", move)
	}
	var err error
	if from, err = chess.ParseSquare(text[:2]); err != nil {
		t.Fatalf("bad coordinate move %q: %v", move, err)
	}
	if to, err = chess.ParseSquare(text[2:4]); err != nil {
		t.Fatalf("bad coordinate move %q: %v", move, err)
	}
	if len(text) == 5 {
		promo = chess.PieceTypeFromLetter(text[4])
	}
	return from, to, promo
}

// Play plays coordinate moves in order and fails the test on the first
// move that is not accepted.
func Play(t *testing.T, g *engine.Game, moves ...string) {
	t.Helper()
	for _, m := range moves {
		from, to, promo := ParseCoordinate(t, m)
		if code := g.Move(from, to, promo); !code.Moved() {
			t.Fatalf("move %s (ply %d): %s", m, g.Ply()+1, code)
		}
	}
}

// Sq is shorthand for chess.MustParse in table tests.
func Sq(s string) chess.Square {
	return chess.MustParse(s)
}
