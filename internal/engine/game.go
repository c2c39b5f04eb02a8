// Package engine provides chess move validation, the game state machine,
// draw detection and the undo/redo ledger.
package engine

import (
	"fmt"

	"github.com/lgbarn/chessrules-go/internal/chess"
	"github.com/lgbarn/chessrules-go/internal/errors"
)

// Game owns a board, its piece set, the move history and all turn state.
// A Game is not safe for concurrent use; callers serialise access.
type Game struct {
	board   *chess.Board
	history *History

	turn   chess.Colour
	status Status
	active bool
	ply    int

	// Standing draw offers or claims, indexed by colour.
	drawFlags [2]bool

	// Seconds remaining per colour as last reported by the timer.
	clock [2]int

	// Cached king handles, re-resolved when stale.
	kings [2]chess.PieceID

	// Position the game started from, for FEN-started games.
	startTurn      chess.Colour
	startFullmove  int
	startHalfmove  int
	startEnPassant chess.Square

	timer            Timer
	startMinutes     int
	incrementSeconds int

	listeners      []Listener
	pieceListeners []PieceListener
}

// NewGame creates a game with an empty board. Pieces are added with
// SetupStandard or by starting from a FEN string.
func NewGame() *Game {
	return &Game{
		board:          chess.NewBoard(),
		history:        NewHistory(),
		turn:           chess.White,
		status:         NotStarted,
		kings:          [2]chess.PieceID{chess.NoPiece, chess.NoPiece},
		startTurn:      chess.White,
		startFullmove:  1,
		startEnPassant: chess.NoSquare,
	}
}

// NewStandardGame creates a started game in the standard starting position.
func NewStandardGame() *Game {
	g := NewGame()
	if err := g.SetupStandard(); err != nil {
		errors.Invariantf("standard setup: %v", err)
	}
	if err := g.Start(); err != nil {
		errors.Invariantf("standard start: %v", err)
	}
	return g
}

// SetupStandard places the standard starting position on an empty board.
func (g *Game) SetupStandard() error {
	if len(g.board.Pieces()) > 0 {
		return fmt.Errorf("setup on a non-empty board: %w", errors.ErrSquareOccupied)
	}
	return g.board.SetupInitialPosition()
}

// SetTimer attaches the clock collaborator with the given time control.
// It must be called before Start.
func (g *Game) SetTimer(t Timer, startMinutes, incrementSeconds int) {
	g.timer = t
	g.startMinutes = startMinutes
	g.incrementSeconds = incrementSeconds
	for _, c := range chess.Colours {
		g.clock[c] = startMinutes * 60
	}
}

// AddListener registers a game-level listener.
func (g *Game) AddListener(l Listener) {
	g.listeners = append(g.listeners, l)
}

// AddPieceListener registers a piece-level listener.
func (g *Game) AddPieceListener(l PieceListener) {
	g.pieceListeners = append(g.pieceListeners, l)
}

// Start activates the game. Both kings must be on the board.
func (g *Game) Start() error {
	if g.active {
		return nil
	}
	for _, c := range chess.Colours {
		if g.findKing(c) == nil {
			return fmt.Errorf("start without a %s king: %w", c, errors.ErrCorruptState)
		}
	}
	g.active = true
	if g.timer != nil {
		g.timer.Init(g.startMinutes, g.incrementSeconds, g.turn)
	}
	g.transition(event{kind: eventStart})
	return nil
}

// Board returns the live board. Callers must treat it as read-only.
func (g *Game) Board() *chess.Board { return g.board }

// PieceAt returns a copy of the occupant of sq.
func (g *Game) PieceAt(sq chess.Square) (chess.Piece, bool) {
	p := g.board.At(sq)
	if p == nil {
		return chess.Piece{}, false
	}
	return *p, true
}

// Status returns the current status code.
func (g *Game) Status() Status { return g.status }

// Active reports whether moves may be played.
func (g *Game) Active() bool { return g.active }

// Turn returns the colour to move.
func (g *Game) Turn() chess.Colour { return g.turn }

// Ply returns the number of plies played since the start position.
func (g *Game) Ply() int { return g.ply }

// History returns a copy of the played move records.
func (g *Game) History() []chess.MoveRecord { return g.history.Played() }

// CanRedo reports whether a taken-back move can be replayed.
func (g *Game) CanRedo() bool { return g.history.FutureLen() > 0 }

// DrawOffered reports whether c has a standing draw offer or claim.
func (g *Game) DrawOffered(c chess.Colour) bool { return g.drawFlags[c] }

// ClockSeconds returns the seconds remaining for c as last reported by the timer.
func (g *Game) ClockSeconds(c chess.Colour) int { return g.clock[c] }

// LastMove returns the most recent record, if any.
func (g *Game) LastMove() (chess.MoveRecord, bool) { return g.history.Last() }

// Winner returns the winning colour of a decided game.
func (g *Game) Winner() (chess.Colour, bool) { return g.status.Winner() }

// Clone returns a fully independent deep copy of the game: board, pieces and
// history. Listeners and the timer are not carried over.
func (g *Game) Clone() *Game {
	c := *g
	c.board = g.board.Clone()
	c.history = g.history.Clone()
	c.timer = nil
	c.listeners = nil
	c.pieceListeners = nil
	return &c
}

// kingOf returns the active king of c. A missing king is a corrupted state.
func (g *Game) kingOf(c chess.Colour) *chess.Piece {
	king := g.findKing(c)
	if king == nil {
		errors.Invariantf("no %s king on the board", c)
	}
	return king
}

func (g *Game) findKing(c chess.Colour) *chess.Piece {
	if p := g.board.Piece(g.kings[c]); p != nil && p.Active && p.Type == chess.King && p.Colour == c {
		return p
	}
	for _, p := range g.board.ActivePieces(c) {
		if p.Type == chess.King {
			g.kings[c] = p.ID
			return p
		}
	}
	return nil
}

func (g *Game) pieceMoved(p *chess.Piece, from chess.Square) {
	for _, l := range g.pieceListeners {
		l.Moved(*p, from, p.Square)
	}
}

func (g *Game) pieceCaptured(p *chess.Piece) {
	for _, l := range g.pieceListeners {
		l.Captured(*p)
	}
}

func (g *Game) piecePromoted(pawn, promoted *chess.Piece) {
	for _, l := range g.pieceListeners {
		l.Promoted(*pawn, *promoted)
	}
}

func (g *Game) pieceUpdated(p *chess.Piece) {
	for _, l := range g.pieceListeners {
		l.Updated(*p)
	}
}

// must converts a board error during execution into an invariant failure:
// every board call made here has already been validated.
func must(err error) {
	if err != nil {
		errors.Invariantf("%v", err)
	}
}
