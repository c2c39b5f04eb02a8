package chess

import "strings"

// Castle notation tokens.
const (
	KingsideCastleText  = "O-O"
	QueensideCastleText = "O-O-O"
)

// CastleSide distinguishes castling moves.
type CastleSide int

const (
	NoCastle CastleSide = iota
	Kingside
	Queenside
)

// MoveRecord is one played ply. Records are values and are never changed
// once appended to a history; pieces are referenced by arena handle.
type MoveRecord struct {
	Piece     PieceID
	PieceType PieceType
	Colour    Colour
	From      Square
	To        Square

	// The piece captured (NoPiece if none) and where it stood.
	Captured      PieceID
	CapturedType  PieceType
	CaptureSquare Square

	// The piece created by promotion (NoPiece if none).
	Promoted     PieceID
	PromotedType PieceType

	// The rook moved by castling (NoPiece if none).
	Rook     PieceID
	RookFrom Square
	RookTo   Square
	Castle   CastleSide

	EnPassant bool

	// State of the opponent after the move.
	Check     bool
	Checkmate bool
	Stalemate bool

	// Ply is the 1-based ply number of this move within the game.
	Ply  int
	Text string
}

// IsCapture returns true if this move captured a piece.
func (m MoveRecord) IsCapture() bool {
	return m.Captured != NoPiece
}

// IsPromotion returns true if this move is a pawn promotion.
func (m MoveRecord) IsPromotion() bool {
	return m.Promoted != NoPiece
}

// IsCastle returns true if this move is a castling move.
func (m MoveRecord) IsCastle() bool {
	return m.Castle != NoCastle
}

// IsPawnMove returns true if a pawn was moved.
func (m MoveRecord) IsPawnMove() bool {
	return m.PieceType == Pawn
}

// IsDoubleStep returns true for a pawn's two-square advance.
func (m MoveRecord) IsDoubleStep() bool {
	if m.PieceType != Pawn || m.From.File() != m.To.File() {
		return false
	}
	d := m.To.Rank() - m.From.Rank()
	return d == 2 || d == -2
}

// ResetsClock returns true if the move resets the fifty-move count.
func (m MoveRecord) ResetsClock() bool {
	return m.IsPawnMove() || m.IsCapture()
}

// RenderMove returns the long algebraic text for a record: type letter, origin,
// separator ('-' or 'x'), destination, optional "=Q" and "+" or "#".
func RenderMove(m MoveRecord) string {
	var sb strings.Builder
	switch m.Castle {
	case Kingside:
		sb.WriteString(KingsideCastleText)
	case Queenside:
		sb.WriteString(QueensideCastleText)
	default:
		if m.PieceType != Pawn {
			sb.WriteByte(m.PieceType.Letter())
		}
		sb.WriteString(m.From.String())
		if m.IsCapture() {
			sb.WriteByte('x')
		} else {
			sb.WriteByte('-')
		}
		sb.WriteString(m.To.String())
		if m.IsPromotion() {
			sb.WriteByte('=')
			sb.WriteByte(m.PromotedType.Letter())
		}
	}
	switch {
	case m.Checkmate:
		sb.WriteByte('#')
	case m.Check:
		sb.WriteByte('+')
	}
	return sb.String()
}
