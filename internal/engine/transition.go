package engine

import (
	"fmt"

	"github.com/lgbarn/chessrules-go/internal/chess"
	"github.com/lgbarn/chessrules-go/internal/errors"
)

type eventKind int

const (
	eventStart eventKind = iota
	eventMove
	eventResign
	eventTimeout
	eventDraw
	eventEnd
)

// event is the input to transition.
type event struct {
	kind   eventKind
	colour chess.Colour      // mover, resigner or player out of time
	move   *chess.MoveRecord // eventMove only
	state  PlayerState       // opponent state after eventMove
	draw   Status            // eventDraw only
}

// transition is the single place where status, turn and activity change.
func (g *Game) transition(e event) {
	switch e.kind {
	case eventStart:
		g.status = g.derivedStatus()

	case eventMove:
		opponent := e.colour.Opposite()
		switch e.state {
		case StateInCheck:
			g.status = inCheckStatus(opponent)
		case StateCheckmate:
			g.status = checkmateStatus(e.colour)
		case StateStalemate:
			g.status = DrawStalemate
		default:
			g.status = toMoveStatus(opponent)
		}
		g.turn = opponent
		g.ply++
		if g.timer != nil && !g.status.Terminal() {
			g.timer.SwitchActivePlayer()
		}

	case eventResign:
		g.status = resignationStatus(e.colour.Opposite())

	case eventTimeout:
		g.status = timeoutStatus(e.colour.Opposite())

	case eventDraw:
		g.status = e.draw

	case eventEnd:
		g.status = Ended
	}

	if !g.status.Terminal() {
		switch {
		case g.HasInsufficientMaterial():
			g.status = DrawInsufficientMaterial
		case g.drawFlags[chess.White] || g.drawFlags[chess.Black]:
			if draw, ok := g.claimableDraw(); ok {
				g.status = draw
			}
		}
	}
	if e.kind == eventMove {
		g.drawFlags[g.turn] = false
	}

	if g.status.Terminal() {
		g.active = false
		if g.timer != nil {
			g.timer.Stop()
		}
	}
	g.notify(e.move)
}

// claimableDraw returns the draw a standing offer or claim can finalise.
func (g *Game) claimableDraw() (Status, bool) {
	if g.FiftyMoveAvailable() {
		return DrawFiftyMove, true
	}
	if g.ThreefoldRepetition() {
		return DrawThreefold, true
	}
	return g.status, false
}

// derivedStatus recomputes the status of the side to move from the position.
func (g *Game) derivedStatus() Status {
	switch g.PlayerState(g.turn) {
	case StateCheckmate:
		return checkmateStatus(g.turn.Opposite())
	case StateStalemate:
		return DrawStalemate
	case StateInCheck:
		return inCheckStatus(g.turn)
	}
	if g.HasInsufficientMaterial() {
		return DrawInsufficientMaterial
	}
	return toMoveStatus(g.turn)
}

func (g *Game) notify(last *chess.MoveRecord) {
	if len(g.listeners) == 0 {
		return
	}
	e := Event{
		Status:      g.status,
		Description: g.status.String(),
		LastMove:    last,
	}
	e.Winner, e.HasWinner = g.status.Winner()
	for _, l := range g.listeners {
		if g.status.Terminal() {
			l.GameOver(e)
		} else {
			l.StateChanged(e)
		}
	}
}

func (g *Game) requireActive(op string) error {
	if !g.active {
		return fmt.Errorf("%s: %w", op, errors.ErrGameNotActive)
	}
	return nil
}

// Resign ends the game with a win for colour's opponent.
func (g *Game) Resign(colour chess.Colour) error {
	if err := g.requireActive("resign"); err != nil {
		return err
	}
	g.transition(event{kind: eventResign, colour: colour})
	return nil
}

// OfferDraw records a standing draw offer or claim by colour. The game is
// drawn by agreement when the opponent's offer also stands, or by the
// fifty-move or threefold rule when either currently holds.
func (g *Game) OfferDraw(colour chess.Colour) error {
	if err := g.requireActive("offer draw"); err != nil {
		return err
	}
	g.drawFlags[colour] = true
	if g.drawFlags[colour.Opposite()] {
		g.transition(event{kind: eventDraw, draw: DrawAgreement})
		return nil
	}
	if draw, ok := g.claimableDraw(); ok {
		g.transition(event{kind: eventDraw, draw: draw})
	}
	return nil
}

// TimeUpdate is the clock callback. A non-positive remainder while the game
// is active loses on time.
func (g *Game) TimeUpdate(colour chess.Colour, seconds int) {
	g.clock[colour] = seconds
	if seconds <= 0 && g.active {
		g.transition(event{kind: eventTimeout, colour: colour})
	}
}

// End terminates an active game without a result.
func (g *Game) End() error {
	if err := g.requireActive("end"); err != nil {
		return err
	}
	g.transition(event{kind: eventEnd})
	return nil
}
