package testutil

import (
	"testing"

	"github.com/lgbarn/chessrules-go/internal/chess"
)

func TestMustGame(t *testing.T) {
	g := MustGame(t, "")
	AssertEqual(t, g.FEN(), "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")

	g = MustGame(t, "4k3/8/8/8/8/8/8/4K2R w K - 0 1")
	AssertEqual(t, g.Turn(), chess.White)
}

func TestParseCoordinate(t *testing.T) {
	tests := []struct {
		in    string
		from  string
		to    string
		promo chess.PieceType
	}{
		{"e2e4", "e2", "e4", chess.NoPieceType},
		{"g1-f3", "g1", "f3", chess.NoPieceType},
		{"d4xe5", "d4", "e5", chess.NoPieceType},
		{"a7a8n", "a7", "a8", chess.Knight},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			from, to, promo := ParseCoordinate(t, tt.in)
			AssertEqual(t, from.String(), tt.from)
			AssertEqual(t, to.String(), tt.to)
			AssertEqual(t, promo, tt.promo)
		})
	}
}

func TestPlay(t *testing.T) {
	g := MustGame(t, "")
	Play(t, g, "e2e4", "e7e5", "g1f3")
	AssertEqual(t, g.Ply(), 3)
	AssertEqual(t, g.Turn(), chess.Black)
}
