package chess

import (
	"fmt"

	"github.com/lgbarn/chessrules-go/internal/errors"
)

// Constants for board dimensions and coordinates.
const (
	BoardSize  = 8
	NumSquares = BoardSize * BoardSize

	RankBase = '1'
	FileBase = 'a'
)

// Square is a board coordinate with zero-based rank and file.
type Square struct {
	rank int8
	file int8
}

// NoSquare is the "unplaced" sentinel.
var NoSquare = Square{rank: -1, file: -1}

// NewSquare returns the square at the zero-based rank and file.
func NewSquare(rank, file int) (Square, error) {
	if !OnBoard(rank, file) {
		return NoSquare, fmt.Errorf("rank %d file %d: %w", rank, file, errors.ErrInvalidCoordinate)
	}
	return Square{rank: int8(rank), file: int8(file)}, nil
}

// MustSquare is like NewSquare but panics on an invalid coordinate.
func MustSquare(rank, file int) Square {
	sq, err := NewSquare(rank, file)
	if err != nil {
		panic(err)
	}
	return sq
}

// FromHuman returns the square at the one-based rank and file.
func FromHuman(rank, file int) (Square, error) {
	return NewSquare(rank-1, file-1)
}

// ParseSquare converts algebraic text such as "e4" to a square.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, fmt.Errorf("square %q: %w", s, errors.ErrInvalidCoordinate)
	}
	return NewSquare(int(s[1])-RankBase, int(s[0])-FileBase)
}

// MustParse is like ParseSquare but panics on malformed text.
func MustParse(s string) Square {
	sq, err := ParseSquare(s)
	if err != nil {
		panic(err)
	}
	return sq
}

// OnBoard reports whether the zero-based coordinates are on the board.
func OnBoard(rank, file int) bool {
	return rank >= 0 && rank < BoardSize && file >= 0 && file < BoardSize
}

// Rank returns the zero-based rank.
func (s Square) Rank() int { return int(s.rank) }

// File returns the zero-based file.
func (s Square) File() int { return int(s.file) }

// Valid reports whether s is on the board.
func (s Square) Valid() bool { return OnBoard(int(s.rank), int(s.file)) }

// Human returns the one-based rank and file.
func (s Square) Human() (rank, file int) {
	return int(s.rank) + 1, int(s.file) + 1
}

// Index returns the cell index 0..63, rank-major from a1.
func (s Square) Index() int {
	return int(s.rank)*BoardSize + int(s.file)
}

// Offset returns the square dr ranks and df files away, and whether it is on the board.
func (s Square) Offset(dr, df int) (Square, bool) {
	r, f := int(s.rank)+dr, int(s.file)+df
	if !OnBoard(r, f) {
		return NoSquare, false
	}
	return Square{rank: int8(r), file: int8(f)}, true
}

// FileLetter returns the algebraic file letter.
func (s Square) FileLetter() byte {
	return byte(int(s.file) + FileBase)
}

// RankDigit returns the algebraic rank digit.
func (s Square) RankDigit() byte {
	return byte(int(s.rank) + RankBase)
}

// String returns the algebraic name, or "-" for an invalid square.
func (s Square) String() string {
	if !s.Valid() {
		return "-"
	}
	return string([]byte{s.FileLetter(), s.RankDigit()})
}

// AllSquares returns the 64 squares from a1 to h8, rank-major.
func AllSquares() []Square {
	squares := make([]Square, 0, NumSquares)
	for rank := 0; rank < BoardSize; rank++ {
		for file := 0; file < BoardSize; file++ {
			squares = append(squares, Square{rank: int8(rank), file: int8(file)})
		}
	}
	return squares
}

// Equal reports whether two squares are the same coordinate.
func (s Square) Equal(o Square) bool { return s == o }
