// Package chess provides the board and piece model of the rules engine.
package chess

// Colour represents the colour of a piece or player.
type Colour int

const (
	Black Colour = iota
	White
)

// Colours lists both colours, White first.
var Colours = [2]Colour{White, Black}

// String returns the string representation of a colour.
func (c Colour) String() string {
	if c == White {
		return "White"
	}
	return "Black"
}

// Opposite returns the opposite colour.
func (c Colour) Opposite() Colour {
	if c == White {
		return Black
	}
	return White
}

// ColourOffset returns +1 for White, -1 for Black (for pawn direction).
func ColourOffset(colour Colour) int {
	if colour == White {
		return 1
	}
	return -1
}

// BackRank returns the zero-based rank a colour's pieces start on.
func BackRank(colour Colour) int {
	if colour == White {
		return 0
	}
	return BoardSize - 1
}

// PawnRank returns the zero-based rank a colour's pawns start on.
func PawnRank(colour Colour) int {
	return BackRank(colour) + ColourOffset(colour)
}

// PromotionRank returns the zero-based rank a colour's pawns promote on.
func PromotionRank(colour Colour) int {
	return BackRank(colour.Opposite())
}

// PieceType represents a chess piece type.
type PieceType int

const (
	NoPieceType PieceType = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
	NumPieceTypes
)

// String returns the string representation of a piece type.
func (p PieceType) String() string {
	names := []string{"None", "Pawn", "Knight", "Bishop", "Rook", "Queen", "King"}
	if p >= 0 && int(p) < len(names) {
		return names[p]
	}
	return "Unknown"
}

// Letter returns the single letter representation of a piece type (uppercase).
// Pawns and the empty type return a space.
func (p PieceType) Letter() byte {
	letters := []byte{' ', ' ', 'N', 'B', 'R', 'Q', 'K'}
	if p >= 0 && int(p) < len(letters) {
		return letters[p]
	}
	return '?'
}

// FENLetter returns the FEN letter for a piece type in the given colour.
func (p PieceType) FENLetter(colour Colour) byte {
	letters := []byte{'?', 'P', 'N', 'B', 'R', 'Q', 'K'}
	letter := byte('?')
	if p >= 0 && int(p) < len(letters) {
		letter = letters[p]
	}
	if colour == Black && letter != '?' {
		letter += 'a' - 'A'
	}
	return letter
}

// PromotionTarget reports whether a pawn may promote to p.
func (p PieceType) PromotionTarget() bool {
	switch p {
	case Queen, Rook, Bishop, Knight:
		return true
	default:
		return false
	}
}

// PieceTypeFromLetter converts a piece letter (either case) to a piece type.
func PieceTypeFromLetter(c byte) PieceType {
	switch c {
	case 'K', 'k':
		return King
	case 'Q', 'q':
		return Queen
	case 'R', 'r':
		return Rook
	case 'N', 'n':
		return Knight
	case 'B', 'b':
		return Bishop
	case 'P', 'p':
		return Pawn
	default:
		return NoPieceType
	}
}

// PieceStatus records where a piece is in its lifecycle.
type PieceStatus int

const (
	StatusNotPlaced PieceStatus = iota
	StatusActive
	StatusCaptured
	StatusPromoted
)

// String returns the string representation of a piece status.
func (s PieceStatus) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusCaptured:
		return "captured"
	case StatusPromoted:
		return "promoted"
	default:
		return "not placed"
	}
}

// PieceID is a stable handle into a board's piece arena.
type PieceID int

// NoPiece is the handle of an empty cell or absent piece.
const NoPiece PieceID = -1

// Piece is the identity-stable record of one chessman. Pieces are never
// deleted; capture and promotion only deactivate them.
type Piece struct {
	ID        PieceID
	Colour    Colour
	Type      PieceType
	Square    Square // current square, or last square once inactive
	Start     Square // first square placed on, NoSquare until placed
	Active    bool
	Status    PieceStatus
	MoveCount int
}

// Letter returns the FEN letter of the piece.
func (p *Piece) Letter() byte {
	return p.Type.FENLetter(p.Colour)
}
