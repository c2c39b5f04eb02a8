package engine

import "github.com/lgbarn/chessrules-go/internal/chess"

// Status is the game status code.
type Status int

const (
	NotStarted Status = iota
	WhiteToMove
	BlackToMove
	WhiteInCheck
	BlackInCheck
	WhiteWinsCheckmate
	BlackWinsCheckmate
	WhiteWinsResignation
	BlackWinsResignation
	WhiteWinsTimeout
	BlackWinsTimeout
	DrawStalemate
	DrawInsufficientMaterial
	DrawFiftyMove
	DrawThreefold
	DrawAgreement
	Ended
)

var statusText = map[Status]string{
	NotStarted:               "Game not started",
	WhiteToMove:              "White to move",
	BlackToMove:              "Black to move",
	WhiteInCheck:             "White in check",
	BlackInCheck:             "Black in check",
	WhiteWinsCheckmate:       "White wins by checkmate",
	BlackWinsCheckmate:       "Black wins by checkmate",
	WhiteWinsResignation:     "White wins by resignation",
	BlackWinsResignation:     "Black wins by resignation",
	WhiteWinsTimeout:         "White wins on time",
	BlackWinsTimeout:         "Black wins on time",
	DrawStalemate:            "Draw by stalemate",
	DrawInsufficientMaterial: "Draw by insufficient material",
	DrawFiftyMove:            "Draw by fifty-move rule",
	DrawThreefold:            "Draw by threefold repetition",
	DrawAgreement:            "Draw by agreement",
	Ended:                    "Game ended",
}

// String returns the human-readable status.
func (s Status) String() string {
	if text, ok := statusText[s]; ok {
		return text
	}
	return "Unknown status"
}

// Terminal reports whether the status ends the game.
func (s Status) Terminal() bool {
	return s >= WhiteWinsCheckmate
}

// Positional reports whether a terminal status follows from the position
// alone, so that taking back the last move may reopen the game.
func (s Status) Positional() bool {
	switch s {
	case WhiteWinsCheckmate, BlackWinsCheckmate, DrawStalemate, DrawInsufficientMaterial:
		return true
	}
	return false
}

// Winner returns the winning colour for decisive results.
func (s Status) Winner() (chess.Colour, bool) {
	switch s {
	case WhiteWinsCheckmate, WhiteWinsResignation, WhiteWinsTimeout:
		return chess.White, true
	case BlackWinsCheckmate, BlackWinsResignation, BlackWinsTimeout:
		return chess.Black, true
	}
	return chess.White, false
}

// Result returns the conventional result token: "1-0", "0-1", "1/2-1/2" or "*".
func (s Status) Result() string {
	if winner, ok := s.Winner(); ok {
		if winner == chess.White {
			return "1-0"
		}
		return "0-1"
	}
	if s.Terminal() && s != Ended {
		return "1/2-1/2"
	}
	return "*"
}

func toMoveStatus(c chess.Colour) Status {
	if c == chess.White {
		return WhiteToMove
	}
	return BlackToMove
}

func inCheckStatus(c chess.Colour) Status {
	if c == chess.White {
		return WhiteInCheck
	}
	return BlackInCheck
}

func checkmateStatus(winner chess.Colour) Status {
	if winner == chess.White {
		return WhiteWinsCheckmate
	}
	return BlackWinsCheckmate
}

func resignationStatus(winner chess.Colour) Status {
	if winner == chess.White {
		return WhiteWinsResignation
	}
	return BlackWinsResignation
}

func timeoutStatus(winner chess.Colour) Status {
	if winner == chess.White {
		return WhiteWinsTimeout
	}
	return BlackWinsTimeout
}

// PlayerState is the derived state of one side.
type PlayerState int

const (
	StateOK PlayerState = iota
	StateInCheck
	StateCheckmate
	StateStalemate
)

// String returns the string representation of a player state.
func (s PlayerState) String() string {
	switch s {
	case StateInCheck:
		return "in check"
	case StateCheckmate:
		return "checkmate"
	case StateStalemate:
		return "stalemate"
	default:
		return "ok"
	}
}

// Event is delivered to game listeners after every transition.
type Event struct {
	Status      Status
	Description string
	Winner      chess.Colour
	HasWinner   bool
	LastMove    *chess.MoveRecord
}

// Listener receives game-level notifications. Handlers run synchronously
// and must not mutate the game.
type Listener interface {
	StateChanged(Event)
	GameOver(Event)
}

// ListenerFuncs adapts plain functions to Listener. Nil fields are skipped.
type ListenerFuncs struct {
	OnStateChanged func(Event)
	OnGameOver     func(Event)
}

// StateChanged implements Listener.
func (l ListenerFuncs) StateChanged(e Event) {
	if l.OnStateChanged != nil {
		l.OnStateChanged(e)
	}
}

// GameOver implements Listener.
func (l ListenerFuncs) GameOver(e Event) {
	if l.OnGameOver != nil {
		l.OnGameOver(e)
	}
}

// PieceListener receives piece-level notifications.
type PieceListener interface {
	Updated(p chess.Piece)
	Moved(p chess.Piece, from, to chess.Square)
	Captured(p chess.Piece)
	Promoted(p chess.Piece, newPiece chess.Piece)
}

// Timer is the clock collaborator. The engine calls SwitchActivePlayer once
// per completed ply and Stop when the game ends; the clock reports back
// through Game.TimeUpdate.
type Timer interface {
	Init(startMinutes, incrementSeconds int, starting chess.Colour)
	SwitchActivePlayer()
	Stop()
}

// Resumer is implemented by timers that can be put back on a given colour,
// restarting if stopped, without crediting an increment. TakeBack and Redo
// resume such timers on the side to move; other timers are switched.
type Resumer interface {
	Resume(colour chess.Colour)
}
