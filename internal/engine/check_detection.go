package engine

import "github.com/lgbarn/chessrules-go/internal/chess"

// attackers returns every active piece of colour by that observes sq.
func (g *Game) attackers(sq chess.Square, by chess.Colour) []*chess.Piece {
	var out []*chess.Piece
	for _, p := range g.board.ActivePieces(by) {
		if ruleFor(p).observes(g.board, p, sq) {
			out = append(out, p)
		}
	}
	return out
}

// isAttacked reports whether any active piece of colour by observes sq.
func (g *Game) isAttacked(sq chess.Square, by chess.Colour) bool {
	for _, p := range g.board.ActivePieces(by) {
		if ruleFor(p).observes(g.board, p, sq) {
			return true
		}
	}
	return false
}

// InCheck reports whether colour's king is attacked.
func (g *Game) InCheck(colour chess.Colour) bool {
	return g.isAttacked(g.kingOf(colour).Square, colour.Opposite())
}

// exposesKing simulates p moving to to, with captured removed, and reports
// whether p's own king would be attacked afterwards.
func (g *Game) exposesKing(p *chess.Piece, to chess.Square, captured chess.PieceID) bool {
	return g.board.Try(p.ID, to, captured, func() bool {
		return g.InCheck(p.Colour)
	})
}
