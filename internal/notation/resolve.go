package notation

import (
	"slices"

	"github.com/lgbarn/chessrules-go/internal/chess"
	"github.com/lgbarn/chessrules-go/internal/engine"
)

// Move is a resolved intent ready for engine.Game.Move.
type Move struct {
	From      chess.Square
	To        chess.Square
	Promotion chess.PieceType
}

// Resolve matches an intent against the side to move. A standard move that
// no piece can make yields MoveIllegal; one that several pieces can make
// yields MoveAmbiguous. A capture mark onto a square with nothing to take
// yields NothingToCapture.
func Resolve(g *engine.Game, in Intent) (Move, engine.Code) {
	if !g.Active() {
		return Move{}, engine.GameNotActive
	}
	switch in.Kind {
	case Coordinate:
		if in.Capture && !capturesOn(g, in.From, in.To) {
			return Move{}, engine.NothingToCapture
		}
		return Move{From: in.From, To: in.To, Promotion: in.Promotion}, engine.Legal
	case Castle:
		return resolveCastle(g, in)
	}

	var found []chess.Square
	missed := false
	for _, p := range g.Board().ActivePieces(g.Turn()) {
		if p.Type != in.Piece {
			continue
		}
		if in.FromFile >= 0 && p.Square.File() != in.FromFile {
			continue
		}
		if in.FromRank >= 0 && p.Square.Rank() != in.FromRank {
			continue
		}
		if !slices.Contains(g.LegalMoves(p.Square), in.To) {
			continue
		}
		if in.Capture && !capturesOn(g, p.Square, in.To) {
			missed = true
			continue
		}
		found = append(found, p.Square)
	}
	switch len(found) {
	case 0:
		if missed {
			return Move{}, engine.NothingToCapture
		}
		return Move{}, engine.MoveIllegal
	case 1:
		return Move{From: found[0], To: in.To, Promotion: in.Promotion}, engine.Legal
	default:
		return Move{}, engine.MoveAmbiguous
	}
}

// capturesOn reports whether the move from onto to takes a piece, en passant
// included.
func capturesOn(g *engine.Game, from, to chess.Square) bool {
	if p, ok := g.PieceAt(to); ok {
		return p.Colour != g.Turn()
	}
	return g.Validate(from, to, chess.NoPieceType) == engine.LegalEnPassant
}

// resolveCastle expresses castling as the king's two-file jump.
func resolveCastle(g *engine.Game, in Intent) (Move, engine.Code) {
	for _, p := range g.Board().ActivePieces(g.Turn()) {
		if p.Type != chess.King {
			continue
		}
		df := 2
		if in.Castle == chess.Queenside {
			df = -2
		}
		to, ok := p.Square.Offset(0, df)
		if !ok {
			return Move{}, engine.MoveIllegal
		}
		return Move{From: p.Square, To: to}, engine.Legal
	}
	return Move{}, engine.MoveIllegal
}

// Play parses text, resolves it against g and plays it. Parse failures are
// returned as errors; rule violations as codes.
func Play(g *engine.Game, text string) (engine.Code, error) {
	in, err := Parse(text)
	if err != nil {
		return engine.MoveIllegal, err
	}
	m, code := Resolve(g, in)
	if code != engine.Legal {
		return code, nil
	}
	return g.Move(m.From, m.To, m.Promotion), nil
}
