// Package notation turns move text into engine moves. It accepts castling
// tokens, coordinate moves (e2e4, e2-e4, e7e8=Q) and standard algebraic
// moves with optional disambiguation (Nbd7, R1e2, exd5, e8=Q+).
package notation

import (
	"fmt"
	"strings"

	"github.com/lgbarn/chessrules-go/internal/chess"
	"github.com/lgbarn/chessrules-go/internal/errors"
)

// Kind distinguishes the grammar alternatives.
type Kind int

const (
	Coordinate Kind = iota
	Standard
	Castle
)

// String returns the string representation of a kind.
func (k Kind) String() string {
	switch k {
	case Coordinate:
		return "coordinate"
	case Standard:
		return "standard"
	case Castle:
		return "castle"
	default:
		return "unknown"
	}
}

// Intent is a parsed move, not yet checked against a position.
type Intent struct {
	Kind Kind
	Text string

	// Piece is the moving piece type; Pawn when no letter was given.
	Piece chess.PieceType

	// From is set for coordinate moves only.
	From chess.Square
	To   chess.Square

	// Disambiguation for standard moves, -1 when absent.
	FromFile int
	FromRank int

	Capture   bool
	Promotion chess.PieceType
	Castle    chess.CastleSide
}

func isFile(c byte) bool { return c >= 'a' && c <= 'h' }
func isRank(c byte) bool { return c >= '1' && c <= '8' }

func isCastlingChar(c byte) bool {
	return c == 'O' || c == '0' || c == 'o'
}

func isCheck(c byte) bool {
	return c == '+' || c == '#'
}

func isCapture(c byte) bool {
	return c == 'x' || c == 'X' || c == ':'
}

// pieceLetter maps an upper-case piece letter to its type. Lower case 'b'
// is always a file, so piece letters must be capitals.
func pieceLetter(c byte) chess.PieceType {
	switch c {
	case 'K', 'Q', 'R', 'B', 'N':
		return chess.PieceTypeFromLetter(c)
	}
	return chess.NoPieceType
}

// describe renders a byte for error messages.
func describe(c byte) string {
	if c == 0 {
		return "end of input"
	}
	return fmt.Sprintf("'%c'", c)
}

// Parse decodes move text into an Intent.
func Parse(text string) (Intent, error) {
	text = strings.TrimSpace(text)
	in := Intent{
		Text:     text,
		Piece:    chess.Pawn,
		From:     chess.NoSquare,
		To:       chess.NoSquare,
		FromFile: -1,
		FromRank: -1,
	}

	pos := 0
	current := func() byte {
		if pos >= len(text) {
			return 0
		}
		return text[pos]
	}
	advance := func() { pos++ }
	fail := func(expected string) (Intent, error) {
		return Intent{}, &errors.ParseError{
			Err:      errors.ErrParseFailure,
			Input:    text,
			Column:   pos + 1,
			Expected: expected,
			Got:      describe(current()),
		}
	}
	square := func() (chess.Square, bool) {
		if pos+1 >= len(text) || !isFile(text[pos]) || !isRank(text[pos+1]) {
			return chess.NoSquare, false
		}
		sq := chess.MustSquare(int(text[pos+1]-chess.RankBase), int(text[pos]-chess.FileBase))
		pos += 2
		return sq, true
	}

	if text == "" {
		return fail("move")
	}

	switch {
	case isCastlingChar(current()):
		if !strings.HasPrefix(text, "O-O") && !strings.HasPrefix(text, "0-0") && !strings.HasPrefix(text, "o-o") {
			return fail("castle")
		}
		in.Kind = Castle
		in.Piece = chess.King
		in.Castle = chess.Kingside
		pos = 3
		if pos+1 < len(text) && text[pos] == '-' && isCastlingChar(text[pos+1]) {
			in.Castle = chess.Queenside
			pos += 2
		}

	case pieceLetter(current()) != chess.NoPieceType:
		in.Kind = Standard
		in.Piece = pieceLetter(current())
		advance()
		if err := decodeTarget(&in, text, &pos, square); err != nil {
			return fail(err.Error())
		}

	case isFile(current()):
		// Coordinate move when a full origin square is followed by a
		// destination square, otherwise a pawn move.
		save := pos
		if from, ok := square(); ok {
			if current() == '-' || isCapture(current()) {
				in.Capture = isCapture(current())
				advance()
			}
			if to, ok := square(); ok {
				in.Kind = Coordinate
				in.From, in.To = from, to
				break
			}
		}
		pos = save
		in.Kind = Standard
		if err := decodeTarget(&in, text, &pos, square); err != nil {
			return fail(err.Error())
		}

	default:
		return fail("piece, file or castle")
	}

	if in.Kind != Castle {
		if current() == '=' {
			advance()
			if pieceLetter(current()) == chess.NoPieceType {
				return fail("promotion piece")
			}
		}
		if c := current(); c != 0 && strings.IndexByte("QRBNqrbn", c) >= 0 {
			pt := chess.PieceTypeFromLetter(c)
			if in.Kind == Standard && in.Piece != chess.Pawn {
				return fail("check or end of input")
			}
			in.Promotion = pt
			advance()
		}
	}

	for isCheck(current()) {
		advance()
	}
	if pos != len(text) {
		return fail("end of input")
	}
	return in, nil
}

// decodeTarget reads the optional disambiguation, capture mark and
// destination of a standard move.
func decodeTarget(in *Intent, text string, pos *int, square func() (chess.Square, bool)) error {
	rest := len(text) - *pos
	at := func(i int) byte {
		if *pos+i >= len(text) {
			return 0
		}
		return text[*pos+i]
	}

	// Full origin square: Qd1h5, Qd1xh5.
	if rest >= 4 && isFile(at(0)) && isRank(at(1)) && (isFile(at(2)) || isCapture(at(2))) {
		in.FromFile = int(at(0) - chess.FileBase)
		in.FromRank = int(at(1) - chess.RankBase)
		*pos += 2
	} else if isFile(at(0)) && (isFile(at(1)) || isCapture(at(1))) {
		in.FromFile = int(at(0) - chess.FileBase)
		*pos++
	} else if isRank(at(0)) {
		in.FromRank = int(at(0) - chess.RankBase)
		*pos++
	}

	if isCapture(at(0)) {
		in.Capture = true
		*pos++
	}
	to, ok := square()
	if !ok {
		return fmt.Errorf("destination square")
	}
	in.To = to
	return nil
}
