package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lgbarn/chessrules-go/internal/chess"
	"github.com/lgbarn/chessrules-go/internal/errors"
)

// InitialFEN is the FEN string for the standard starting position.
const InitialFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// NewGameFromFEN creates a started game from a FEN string.
func NewGameFromFEN(fen string) (*Game, error) {
	g, err := ParseFEN(fen)
	if err != nil {
		return nil, err
	}
	if err := g.Start(); err != nil {
		return nil, fmt.Errorf("start from FEN: %w", err)
	}
	return g, nil
}

// ParseFEN creates an unstarted game from a FEN string, so that a timer and
// listeners can be attached before Start. Missing trailing fields default to
// white to move, no castling, no en passant, 0 and 1.
func ParseFEN(fen string) (*Game, error) {
	parts := strings.Fields(fen)
	if len(parts) < 1 {
		return nil, fmt.Errorf("empty FEN string: %w", errors.ErrInvalidFEN)
	}

	g := NewGame()
	if err := parsePiecePositions(g.board, parts[0]); err != nil {
		return nil, err
	}
	for _, c := range chess.Colours {
		if err := checkKings(g.board, c); err != nil {
			return nil, err
		}
	}
	if err := parseSideToMove(g, parts); err != nil {
		return nil, err
	}
	if err := parseCastlingRights(g, parts); err != nil {
		return nil, err
	}
	if err := parseEnPassant(g, parts); err != nil {
		return nil, err
	}
	if err := parseClocks(g, parts); err != nil {
		return nil, err
	}
	if g.InCheck(g.turn.Opposite()) {
		return nil, fmt.Errorf("side not to move is in check: %w", errors.ErrInvalidFEN)
	}
	return g, nil
}

// parsePiecePositions parses the piece placement field of a FEN string.
func parsePiecePositions(b *chess.Board, positions string) error {
	rows := strings.Split(positions, "/")
	if len(rows) != chess.BoardSize {
		return fmt.Errorf("placement has %d ranks: %w", len(rows), errors.ErrInvalidFEN)
	}
	for i, row := range rows {
		rank := chess.BoardSize - 1 - i
		file := 0
		for _, c := range row {
			if c >= '1' && c <= '8' {
				file += int(c - '0')
				continue
			}
			pt := chess.PieceTypeFromLetter(byte(c))
			if pt == chess.NoPieceType {
				return fmt.Errorf("invalid piece character: %c: %w", c, errors.ErrInvalidFEN)
			}
			if file >= chess.BoardSize {
				return fmt.Errorf("rank %d overflows: %w", rank+1, errors.ErrInvalidFEN)
			}
			if pt == chess.Pawn && (rank == 0 || rank == chess.BoardSize-1) {
				return fmt.Errorf("pawn on rank %d: %w", rank+1, errors.ErrInvalidFEN)
			}
			colour := chess.White
			if c >= 'a' && c <= 'z' {
				colour = chess.Black
			}
			p := b.Spawn(colour, pt)
			if err := b.Place(p.ID, chess.MustSquare(rank, file)); err != nil {
				return fmt.Errorf("%v: %w", err, errors.ErrInvalidFEN)
			}
			// Rook and king rights come from the castling field; pawns off
			// their home rank have moved.
			if pt == chess.King || pt == chess.Rook || (pt == chess.Pawn && rank != chess.PawnRank(colour)) {
				p.MoveCount = 1
			}
			file++
		}
		if file != chess.BoardSize {
			return fmt.Errorf("rank %d has %d files: %w", rank+1, file, errors.ErrInvalidFEN)
		}
	}
	return nil
}

func checkKings(b *chess.Board, c chess.Colour) error {
	n := 0
	for _, p := range b.ActivePieces(c) {
		if p.Type == chess.King {
			n++
		}
	}
	if n != 1 {
		return fmt.Errorf("%d %s kings: %w", n, c, errors.ErrInvalidFEN)
	}
	return nil
}

// parseSideToMove parses the side to move field.
func parseSideToMove(g *Game, parts []string) error {
	if len(parts) < 2 {
		return nil
	}
	switch parts[1] {
	case "w":
		g.turn = chess.White
	case "b":
		g.turn = chess.Black
	default:
		return fmt.Errorf("invalid side to move: %s: %w", parts[1], errors.ErrInvalidFEN)
	}
	g.startTurn = g.turn
	return nil
}

// parseCastlingRights parses the castling availability field. Both the
// KQkq letters and rook file letters are accepted.
func parseCastlingRights(g *Game, parts []string) error {
	if len(parts) < 3 || parts[2] == "-" {
		return nil
	}
	for _, c := range parts[2] {
		colour := chess.White
		letter := c
		if c >= 'a' && c <= 'z' {
			colour = chess.Black
			letter = c - 'a' + 'A'
		}
		king := g.findKing(colour)
		if king.Square.Rank() != chess.BackRank(colour) {
			return fmt.Errorf("castling right %c with king off the back rank: %w", c, errors.ErrInvalidFEN)
		}

		var rook *chess.Piece
		switch {
		case letter == 'K':
			rook = g.castleRook(king, chess.Kingside)
		case letter == 'Q':
			rook = g.castleRook(king, chess.Queenside)
		case letter >= 'A' && letter <= 'H':
			p := g.board.At(chess.MustSquare(chess.BackRank(colour), int(letter-'A')))
			if p != nil && p.Colour == colour && p.Type == chess.Rook {
				rook = p
			}
		default:
			return fmt.Errorf("invalid castling character: %c: %w", c, errors.ErrInvalidFEN)
		}
		if rook == nil {
			return fmt.Errorf("castling right %c without a rook: %w", c, errors.ErrInvalidFEN)
		}
		king.MoveCount = 0
		rook.MoveCount = 0
	}
	return nil
}

// parseEnPassant parses the en passant target square field.
func parseEnPassant(g *Game, parts []string) error {
	if len(parts) < 4 || parts[3] == "-" {
		return nil
	}
	sq, err := chess.ParseSquare(parts[3])
	if err != nil {
		return fmt.Errorf("en passant square %q: %w", parts[3], errors.ErrInvalidFEN)
	}
	g.startEnPassant = sq
	if _, _, ok := g.enPassantTarget(); !ok {
		return fmt.Errorf("en passant square %s without a double-stepped pawn: %w", sq, errors.ErrInvalidFEN)
	}
	return nil
}

// parseClocks parses the halfmove clock and fullmove number fields.
func parseClocks(g *Game, parts []string) error {
	if len(parts) >= 5 {
		n, err := strconv.Atoi(parts[4])
		if err != nil || n < 0 {
			return fmt.Errorf("halfmove clock %q: %w", parts[4], errors.ErrInvalidFEN)
		}
		g.startHalfmove = n
	}
	if len(parts) >= 6 {
		n, err := strconv.Atoi(parts[5])
		if err != nil || n < 1 {
			return fmt.Errorf("fullmove number %q: %w", parts[5], errors.ErrInvalidFEN)
		}
		g.startFullmove = n
	}
	return nil
}

// FEN returns the position as a FEN string.
func (g *Game) FEN() string {
	var sb strings.Builder
	writePiecePositions(&sb, g.board)
	sb.WriteByte(' ')
	if g.turn == chess.White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}
	sb.WriteByte(' ')
	sb.WriteString(g.CastlingRights())
	sb.WriteByte(' ')
	if _, passed, ok := g.enPassantTarget(); ok {
		sb.WriteString(passed.String())
	} else {
		sb.WriteByte('-')
	}
	fmt.Fprintf(&sb, " %d %d", g.HalfmoveClock(), g.FullmoveNumber())
	return sb.String()
}

// FullmoveNumber returns the FEN full-move number of the current position.
func (g *Game) FullmoveNumber() int {
	offset := 0
	if g.startTurn == chess.Black {
		offset = 1
	}
	return g.startFullmove + (g.ply+offset)/2
}

// StartFullmove returns the fullmove number of the starting position.
func (g *Game) StartFullmove() int { return g.startFullmove }

// Signature returns the canonical position key used for repetition: the
// castling rights, the en passant file and the piece placement.
func (g *Game) Signature() string {
	var sb strings.Builder
	sb.WriteString(g.CastlingRights())
	sb.WriteByte(' ')
	if _, passed, ok := g.enPassantTarget(); ok {
		sb.WriteByte(passed.FileLetter())
	} else {
		sb.WriteByte('-')
	}
	sb.WriteByte(' ')
	writePiecePositions(&sb, g.board)
	return sb.String()
}

// CastlingRights returns the remaining castling rights as FEN letters, or "-".
func (g *Game) CastlingRights() string {
	var sb strings.Builder
	for _, c := range chess.Colours {
		for _, side := range []chess.CastleSide{chess.Kingside, chess.Queenside} {
			if !g.canStillCastle(c, side) {
				continue
			}
			letter := byte('K')
			if side == chess.Queenside {
				letter = 'Q'
			}
			if c == chess.Black {
				letter += 'a' - 'A'
			}
			sb.WriteByte(letter)
		}
	}
	if sb.Len() == 0 {
		return "-"
	}
	return sb.String()
}

// canStillCastle reports whether neither the king nor the rook on side has
// moved. It ignores temporary obstacles and attacks.
func (g *Game) canStillCastle(c chess.Colour, side chess.CastleSide) bool {
	king := g.findKing(c)
	if king == nil || king.MoveCount != 0 || king.Square.Rank() != chess.BackRank(c) {
		return false
	}
	rook := g.castleRook(king, side)
	return rook != nil && rook.MoveCount == 0
}

// writePiecePositions writes the run-length encoded placement.
func writePiecePositions(sb *strings.Builder, b *chess.Board) {
	for rank := chess.BoardSize - 1; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < chess.BoardSize; file++ {
			p := b.At(chess.MustSquare(rank, file))
			if p == nil {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteByte(p.Letter())
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}
}

// MoveHistoryText returns the played moves as numbered text, for example
// "1. e2-e4 e7-e5 2. Ng1-f3".
func (g *Game) MoveHistoryText() string {
	played := g.history.played
	var parts []string
	number := g.startFullmove
	i := 0
	if len(played) > 0 && g.startTurn == chess.Black {
		parts = append(parts, fmt.Sprintf("%d... %s", number, played[0].Text))
		number++
		i = 1
	}
	for ; i < len(played); i += 2 {
		s := fmt.Sprintf("%d. %s", number, played[i].Text)
		if i+1 < len(played) {
			s += " " + played[i+1].Text
		}
		parts = append(parts, s)
		number++
	}
	return strings.Join(parts, " ")
}
