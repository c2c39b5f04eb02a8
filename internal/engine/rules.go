package engine

import "github.com/lgbarn/chessrules-go/internal/chess"

// FiftyMoveLimit is the half-move clock value at which a fifty-move draw
// may be claimed.
const FiftyMoveLimit = 100

// RepetitionCount is the number of occurrences for a repetition draw.
const RepetitionCount = 3

// HasInsufficientMaterial reports whether neither side can mate: no pawns,
// rooks or queens, at most one bishop per colour, and no colour holding
// both a knight and a bishop.
func (g *Game) HasInsufficientMaterial() bool {
	for _, c := range chess.Colours {
		var knights, bishops int
		for _, p := range g.board.ActivePieces(c) {
			switch p.Type {
			case chess.Pawn, chess.Rook, chess.Queen:
				return false
			case chess.Knight:
				knights++
			case chess.Bishop:
				bishops++
			}
		}
		if bishops > 1 || (knights > 0 && bishops > 0) {
			return false
		}
	}
	return true
}

// HalfmoveClock returns the number of plies since the last pawn move or
// capture, continuing an imported half-move clock when the history does
// not reach one.
func (g *Game) HalfmoveClock() int {
	played := g.history.played
	n := 0
	for i := len(played) - 1; i >= 0; i-- {
		if played[i].ResetsClock() {
			return n
		}
		n++
	}
	return n + g.startHalfmove
}

// FiftyMoveAvailable reports whether a fifty-move draw may be claimed.
func (g *Game) FiftyMoveAvailable() bool {
	return g.HalfmoveClock() >= FiftyMoveLimit
}

// ThreefoldRepetition reports whether the current position has occurred at
// least three times with the same side to move. It replays the history
// backwards on a clone and stops at the first irreversible move.
func (g *Game) ThreefoldRepetition() bool {
	target := g.Signature()
	seen := 1
	c := g.Clone()
	for distance := 1; ; distance++ {
		rec, ok := c.history.pop()
		if !ok {
			return false
		}
		c.revert(rec)
		if rec.ResetsClock() {
			return false
		}
		if distance%2 != 0 {
			continue
		}
		if c.Signature() == target {
			seen++
			if seen >= RepetitionCount {
				return true
			}
		}
	}
}
