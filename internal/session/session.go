// Package session serialises access to one game. Moves, draw offers and
// clock updates all run under a single mutex, so a timeout cannot interleave
// with a move.
package session

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/lgbarn/chessrules-go/internal/chess"
	"github.com/lgbarn/chessrules-go/internal/clock"
	"github.com/lgbarn/chessrules-go/internal/config"
	"github.com/lgbarn/chessrules-go/internal/engine"
	"github.com/lgbarn/chessrules-go/internal/errors"
	"github.com/lgbarn/chessrules-go/internal/logging"
	"github.com/lgbarn/chessrules-go/internal/notation"
	"github.com/lgbarn/chessrules-go/internal/store"
)

// Session owns a game, its clock and its archive.
type Session struct {
	mu    sync.Mutex
	id    uuid.UUID
	game  *engine.Game
	clock *clock.Clock
	store *store.Store
	cfg   *config.Config

	archiveErr error
}

// New creates and starts a game from cfg.StartFEN. st may be nil, in which
// case finished games are not archived.
func New(cfg *config.Config, st *store.Store, opts ...clock.Option) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Session{
		id:    uuid.New(),
		store: st,
		cfg:   cfg,
	}

	g, err := newGame(cfg.StartFEN)
	if err != nil {
		return nil, err
	}
	s.game = g
	g.AddListener(engine.ListenerFuncs{
		OnStateChanged: s.stateChanged,
		OnGameOver:     s.gameOver,
	})

	if cfg.Clock.Timed() {
		opts = append([]clock.Option{clock.WithTickInterval(cfg.Clock.TickInterval)}, opts...)
		s.clock = clock.New(s.timeUpdate, opts...)
		g.SetTimer(s.clock, cfg.Clock.StartMinutes, cfg.Clock.IncrementSeconds)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := g.Start(); err != nil {
		return nil, errors.Wrapf(err, "start game %s", s.id)
	}
	cfg.Logf(2, "game %s started: %s\n", s.id, g.FEN())
	return s, nil
}

// newGame returns an unstarted game so the clock and listeners are in place
// for the first transition.
func newGame(fen string) (*engine.Game, error) {
	if fen == "" {
		g := engine.NewGame()
		return g, g.SetupStandard()
	}
	return engine.ParseFEN(fen)
}

// ID returns the game id.
func (s *Session) ID() uuid.UUID { return s.id }

// Clock returns the game clock, nil for untimed games.
func (s *Session) Clock() *clock.Clock { return s.clock }

// Move plays a move given as squares.
func (s *Session) Move(from, to chess.Square, promotion chess.PieceType) engine.Code {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.Move(from, to, promotion)
}

// Play parses and plays move text.
func (s *Session) Play(text string) (engine.Code, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	code, err := notation.Play(s.game, text)
	if err != nil {
		return code, &errors.GameError{Err: err, GameID: s.id.String(), PlyNum: s.game.Ply() + 1, MoveText: text}
	}
	return code, nil
}

// Validate checks a move without playing it.
func (s *Session) Validate(from, to chess.Square, promotion chess.PieceType) engine.Code {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.Validate(from, to, promotion)
}

// LegalMoves lists the destinations of the piece on from.
func (s *Session) LegalMoves(from chess.Square) []chess.Square {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.LegalMoves(from)
}

// TakeBack undoes the last move.
func (s *Session) TakeBack() engine.Code {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.TakeBack()
}

// Redo replays the last undone move.
func (s *Session) Redo() engine.Code {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.Redo()
}

// Resign ends the game in the opponent's favour.
func (s *Session) Resign(colour chess.Colour) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.Resign(colour)
}

// OfferDraw records or accepts a draw offer, or claims a draw.
func (s *Session) OfferDraw(colour chess.Colour) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.OfferDraw(colour)
}

// End terminates the game without a result.
func (s *Session) End() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.End()
}

// Status returns the game status.
func (s *Session) Status() engine.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.Status()
}

// Snapshot returns an independent copy of the game for inspection.
func (s *Session) Snapshot() *engine.Game {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.Clone()
}

// Save archives the current state of the game, finished or not.
func (s *Session) Save(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	s.mu.Lock()
	rec := store.RecordOf(s.id, s.game)
	s.mu.Unlock()
	return s.store.Save(ctx, rec)
}

// ArchiveErr returns the error from archiving the finished game, if any.
func (s *Session) ArchiveErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.archiveErr
}

// timeUpdate is the clock callback. It runs on the clock goroutine.
func (s *Session) timeUpdate(colour chess.Colour, seconds int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.game.TimeUpdate(colour, seconds)
}

// The listeners below run inside game operations, with s.mu held.

func (s *Session) stateChanged(e engine.Event) {
	if e.LastMove != nil {
		s.cfg.Logf(2, "game %s ply %d: %s (%s)\n", s.id, e.LastMove.Ply, e.LastMove.Text, e.Status)
	}
}

func (s *Session) gameOver(e engine.Event) {
	s.cfg.Logf(1, "game %s over: %s %s\n", s.id, e.Status, e.Status.Result())
	if s.store == nil {
		return
	}
	s.archiveErr = s.store.Save(context.Background(), store.RecordOf(s.id, s.game))
	if s.archiveErr != nil {
		logging.Debugf("archive %s: %v", s.id, s.archiveErr)
	}
}
