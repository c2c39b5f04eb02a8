package worker

import (
	"github.com/lgbarn/chessrules-go/internal/engine"
	"github.com/lgbarn/chessrules-go/internal/errors"
	"github.com/lgbarn/chessrules-go/internal/notation"
)

// Replay plays item's moves on a new game and stops at the first move that
// fails to parse or is rejected.
func Replay(item Item) Result {
	res := Result{Index: item.Index, Name: item.Name, Code: engine.Legal}

	if item.Err != nil {
		res.Err = &errors.GameError{Err: item.Err, File: item.Name}
		return res
	}

	g, err := startGame(item.FEN)
	if err != nil {
		res.Err = &errors.GameError{Err: err, File: item.Name}
		return res
	}
	res.Game = g

	for i, text := range item.Moves {
		code, err := notation.Play(g, text)
		if err == nil {
			err = code.Err()
		}
		if err != nil {
			res.Code = code
			res.Err = &errors.GameError{Err: err, File: item.Name, PlyNum: g.Ply() + 1, MoveText: text}
			return res
		}
		res.Played = i + 1
	}
	return res
}

func startGame(fen string) (*engine.Game, error) {
	if fen == "" {
		return engine.NewStandardGame(), nil
	}
	return engine.NewGameFromFEN(fen)
}
