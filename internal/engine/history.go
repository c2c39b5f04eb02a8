package engine

import (
	"github.com/lgbarn/chessrules-go/internal/chess"
)

// History is the move ledger: the played records plus a redo buffer of
// records that were taken back. Playing a fresh move clears the buffer.
type History struct {
	played []chess.MoveRecord
	future []chess.MoveRecord
}

// NewHistory creates an empty ledger.
func NewHistory() *History {
	return &History{}
}

// Push appends a freshly played record and discards the redo buffer.
func (h *History) Push(rec chess.MoveRecord) {
	h.played = append(h.played, rec)
	h.future = h.future[:0]
}

// Len returns the number of played records.
func (h *History) Len() int { return len(h.played) }

// FutureLen returns the number of records available to redo.
func (h *History) FutureLen() int { return len(h.future) }

// Last returns the most recent played record.
func (h *History) Last() (chess.MoveRecord, bool) {
	if len(h.played) == 0 {
		return chess.MoveRecord{}, false
	}
	return h.played[len(h.played)-1], true
}

// Played returns a copy of the played records in order.
func (h *History) Played() []chess.MoveRecord {
	out := make([]chess.MoveRecord, len(h.played))
	copy(out, h.played)
	return out
}

// Clone returns an independent copy of the ledger.
func (h *History) Clone() *History {
	c := &History{
		played: make([]chess.MoveRecord, len(h.played)),
		future: make([]chess.MoveRecord, len(h.future)),
	}
	copy(c.played, h.played)
	copy(c.future, h.future)
	return c
}

// amendLast replaces the record just pushed while it is being completed.
func (h *History) amendLast(rec chess.MoveRecord) {
	h.played[len(h.played)-1] = rec
}

func (h *History) pop() (chess.MoveRecord, bool) {
	rec, ok := h.Last()
	if ok {
		h.played = h.played[:len(h.played)-1]
	}
	return rec, ok
}

// stash moves a taken-back record onto the redo buffer.
func (h *History) stash(rec chess.MoveRecord) {
	h.future = append(h.future, rec)
}

// unstash removes the most recently taken-back record and replays it
// into the played list without touching the rest of the buffer.
func (h *History) unstash() (chess.MoveRecord, bool) {
	if len(h.future) == 0 {
		return chess.MoveRecord{}, false
	}
	rec := h.future[len(h.future)-1]
	h.future = h.future[:len(h.future)-1]
	h.played = append(h.played, rec)
	return rec, true
}

// TakeBack reverts the last played ply and keeps it for Redo. A game that
// ended by checkmate, stalemate or insufficient material is reopened; any
// other finished game stays finished. A timed game can only be reopened when
// its timer is a Resumer.
func (g *Game) TakeBack() Code {
	wasActive := g.active
	if !wasActive && !g.canReopen() {
		return GameNotActive
	}
	rec, ok := g.history.pop()
	if !ok {
		return NothingToTakeBack
	}
	g.revert(rec)
	g.history.stash(rec)

	g.turn = rec.Colour
	g.ply--
	g.drawFlags = [2]bool{}
	g.status = g.derivedStatus()
	g.active = !g.status.Terminal()
	g.syncTimer(wasActive)
	g.notify(nil)
	return Legal
}

// Redo replays the most recently taken-back ply.
func (g *Game) Redo() Code {
	if !g.CanRedo() {
		return NothingToRedo
	}
	if !g.active {
		return GameNotActive
	}
	rec, _ := g.history.unstash()
	g.replay(rec)

	g.turn = rec.Colour.Opposite()
	g.ply++
	g.drawFlags = [2]bool{}
	g.status = g.derivedStatus()
	g.active = !g.status.Terminal()
	g.syncTimer(true)
	last := rec
	g.notify(&last)
	return Legal
}

func (g *Game) canReopen() bool {
	if !g.status.Positional() {
		return false
	}
	if g.timer == nil {
		return true
	}
	_, ok := g.timer.(Resumer)
	return ok
}

// syncTimer puts the timer back on the side to move after the history moved.
func (g *Game) syncTimer(wasActive bool) {
	if g.timer == nil {
		return
	}
	if !g.active {
		if wasActive {
			g.timer.Stop()
		}
		return
	}
	if r, ok := g.timer.(Resumer); ok {
		r.Resume(g.turn)
	} else if wasActive {
		g.timer.SwitchActivePlayer()
	}
}

// revert undoes the board effects of rec.
func (g *Game) revert(rec chess.MoveRecord) {
	b := g.board
	if rec.IsPromotion() {
		must(b.Remove(rec.Promoted, chess.StatusNotPlaced))
		must(b.Restore(rec.Piece, rec.To))
	}
	if rec.IsCastle() {
		must(b.Uncastle(rec.Piece, rec.From, rec.Rook, rec.RookFrom))
	} else {
		must(b.MoveBack(rec.Piece, rec.From))
	}
	if rec.IsCapture() {
		must(b.Restore(rec.Captured, rec.CaptureSquare))
	}
	g.pieceUpdated(b.Piece(rec.Piece))
}

// replay re-applies the board effects of rec, reusing the promoted piece.
func (g *Game) replay(rec chess.MoveRecord) {
	b := g.board
	if rec.IsCapture() {
		must(b.Capture(rec.Captured))
	}
	if rec.IsCastle() {
		must(b.Castle(rec.Piece, rec.To, rec.Rook, rec.RookTo))
	} else {
		must(b.Move(rec.Piece, rec.To))
	}
	if rec.IsPromotion() {
		must(b.Remove(rec.Piece, chess.StatusPromoted))
		must(b.Place(rec.Promoted, rec.To))
	}
	g.pieceUpdated(b.Piece(rec.Piece))
}
