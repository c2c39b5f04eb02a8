package engine

import (
	"fmt"

	"github.com/lgbarn/chessrules-go/internal/errors"
)

// Code is the result of validating or executing a move. Rule violations are
// expected outcomes and are reported as codes, never as errors or panics.
type Code int

const (
	Legal Code = iota
	LegalEnPassant
	CastleKingside
	CastleQueenside

	InvalidCoordinate
	SquareEmpty
	SquareOccupied
	WrongPlayer
	GameNotActive
	PieceNotActive
	MoveIllegal
	Impeded
	PawnBlocked
	PawnHasMoved
	NothingToCapture
	LateEnPassant
	KingInCheck
	CastleKingHasMoved
	CastleRookHasMoved
	CastleImpeded
	CastleThroughCheck
	AmbiguousPromotion
	MoveAmbiguous
	NothingToTakeBack
	NothingToRedo
)

var codeNames = map[Code]string{
	Legal:              "legal",
	LegalEnPassant:     "legal en passant",
	CastleKingside:     "castle kingside",
	CastleQueenside:    "castle queenside",
	InvalidCoordinate:  "invalid coordinate",
	SquareEmpty:        "square empty",
	SquareOccupied:     "square occupied",
	WrongPlayer:        "wrong player",
	GameNotActive:      "game not active",
	PieceNotActive:     "piece not active",
	MoveIllegal:        "move illegal",
	Impeded:            "path impeded",
	PawnBlocked:        "pawn blocked",
	PawnHasMoved:       "pawn has moved",
	NothingToCapture:   "nothing to capture",
	LateEnPassant:      "late en passant",
	KingInCheck:        "king in check",
	CastleKingHasMoved: "castle: king has moved",
	CastleRookHasMoved: "castle: rook has moved",
	CastleImpeded:      "castle: path impeded",
	CastleThroughCheck: "castle: through check",
	AmbiguousPromotion: "ambiguous promotion",
	MoveAmbiguous:      "move ambiguous",
	NothingToTakeBack:  "nothing to take back",
	NothingToRedo:      "nothing to redo",
}

// String returns the human-readable code name.
func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("code(%d)", int(c))
}

// Moved reports whether the code means the move was (or would be) played.
func (c Code) Moved() bool {
	switch c {
	case Legal, LegalEnPassant, CastleKingside, CastleQueenside:
		return true
	default:
		return false
	}
}

// Err converts a failure code to an error wrapping errors.ErrIllegalMove.
// It returns nil for codes that mean the move happened.
func (c Code) Err() error {
	if c.Moved() {
		return nil
	}
	if c == GameNotActive {
		return fmt.Errorf("%s: %w", c, errors.ErrGameNotActive)
	}
	return fmt.Errorf("%s: %w", c, errors.ErrIllegalMove)
}
