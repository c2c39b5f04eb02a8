package engine

import "github.com/lgbarn/chessrules-go/internal/chess"

var (
	straightDirs  = [][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	diagonalDirs  = [][2]int{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}
	queenDirs     = append(append([][2]int{}, straightDirs...), diagonalDirs...)
	knightOffsets = [][2]int{{-2, -1}, {-2, 1}, {-1, -2}, {-1, 2}, {1, -2}, {1, 2}, {2, -1}, {2, 1}}
	kingOffsets   = [][2]int{{-1, -1}, {-1, 0}, {-1, 1}, {0, -1}, {0, 1}, {1, -1}, {1, 0}, {1, 1}}
)

// pieceRule is the capability set shared by every piece variant.
type pieceRule interface {
	// observes reports whether p attacks sq, ignoring turn and check safety.
	observes(b *chess.Board, p *chess.Piece, sq chess.Square) bool
	// candidates returns a superset of the squares p might legally reach.
	candidates(b *chess.Board, p *chess.Piece) []chess.Square
	// reach tests piece-specific reachability and blocking for a target
	// that holds no piece of p's colour.
	reach(g *Game, p *chess.Piece, to chess.Square) Code
}

var rules = [chess.NumPieceTypes]pieceRule{
	chess.Pawn:   pawnRule{},
	chess.Knight: leaper{offsets: knightOffsets},
	chess.Bishop: slider{dirs: diagonalDirs},
	chess.Rook:   slider{dirs: straightDirs},
	chess.Queen:  slider{dirs: queenDirs},
	chess.King:   kingRule{leaper{offsets: kingOffsets}},
}

func ruleFor(p *chess.Piece) pieceRule {
	return rules[p.Type]
}

// slider covers rooks, bishops and queens.
type slider struct {
	dirs [][2]int
}

// direction returns the unit step from one square toward another if the
// slider moves along that line.
func (s slider) direction(from, to chess.Square) (int, int, bool) {
	dr := to.Rank() - from.Rank()
	df := to.File() - from.File()
	if dr == 0 && df == 0 {
		return 0, 0, false
	}
	if dr != 0 && df != 0 && abs(dr) != abs(df) {
		return 0, 0, false
	}
	step := [2]int{sign(dr), sign(df)}
	for _, d := range s.dirs {
		if d == step {
			return step[0], step[1], true
		}
	}
	return 0, 0, false
}

// pathClear reports whether every square strictly between from and to is empty.
func pathClear(b *chess.Board, from, to chess.Square, dr, df int) bool {
	cur, _ := from.Offset(dr, df)
	for cur != to {
		if b.Occupied(cur) {
			return false
		}
		cur, _ = cur.Offset(dr, df)
	}
	return true
}

func (s slider) observes(b *chess.Board, p *chess.Piece, sq chess.Square) bool {
	dr, df, ok := s.direction(p.Square, sq)
	return ok && pathClear(b, p.Square, sq, dr, df)
}

func (s slider) candidates(b *chess.Board, p *chess.Piece) []chess.Square {
	var out []chess.Square
	for _, d := range s.dirs {
		cur, ok := p.Square.Offset(d[0], d[1])
		for ok {
			out = append(out, cur)
			if b.Occupied(cur) {
				break
			}
			cur, ok = cur.Offset(d[0], d[1])
		}
	}
	return out
}

func (s slider) reach(g *Game, p *chess.Piece, to chess.Square) Code {
	dr, df, ok := s.direction(p.Square, to)
	if !ok {
		return MoveIllegal
	}
	if !pathClear(g.board, p.Square, to, dr, df) {
		return Impeded
	}
	return Legal
}

// leaper covers knights and the ordinary king step.
type leaper struct {
	offsets [][2]int
}

func (l leaper) matches(from, to chess.Square) bool {
	d := [2]int{to.Rank() - from.Rank(), to.File() - from.File()}
	for _, o := range l.offsets {
		if o == d {
			return true
		}
	}
	return false
}

func (l leaper) observes(_ *chess.Board, p *chess.Piece, sq chess.Square) bool {
	return l.matches(p.Square, sq)
}

func (l leaper) candidates(_ *chess.Board, p *chess.Piece) []chess.Square {
	var out []chess.Square
	for _, o := range l.offsets {
		if sq, ok := p.Square.Offset(o[0], o[1]); ok {
			out = append(out, sq)
		}
	}
	return out
}

func (l leaper) reach(_ *Game, p *chess.Piece, to chess.Square) Code {
	if !l.matches(p.Square, to) {
		return MoveIllegal
	}
	return Legal
}

// kingRule adds the castle targets to the king's candidates. Castle intent
// itself is routed to validateCastle before reach is consulted.
type kingRule struct {
	leaper
}

func (k kingRule) candidates(b *chess.Board, p *chess.Piece) []chess.Square {
	out := k.leaper.candidates(b, p)
	if p.MoveCount == 0 {
		for _, df := range []int{-2, 2} {
			if sq, ok := p.Square.Offset(0, df); ok {
				out = append(out, sq)
			}
		}
	}
	return out
}

// pawnRule covers single and double steps, diagonal captures and en passant.
// Promotion is handled when the move is executed.
type pawnRule struct{}

func (pawnRule) observes(_ *chess.Board, p *chess.Piece, sq chess.Square) bool {
	dir := chess.ColourOffset(p.Colour)
	return sq.Rank()-p.Square.Rank() == dir && abs(sq.File()-p.Square.File()) == 1
}

func (pawnRule) candidates(_ *chess.Board, p *chess.Piece) []chess.Square {
	dir := chess.ColourOffset(p.Colour)
	var out []chess.Square
	for _, df := range []int{-1, 0, 1} {
		if sq, ok := p.Square.Offset(dir, df); ok {
			out = append(out, sq)
		}
	}
	if p.MoveCount == 0 {
		if sq, ok := p.Square.Offset(2*dir, 0); ok {
			out = append(out, sq)
		}
	}
	return out
}

func (pawnRule) reach(g *Game, p *chess.Piece, to chess.Square) Code {
	b := g.board
	dir := chess.ColourOffset(p.Colour)
	from := p.Square
	dr := to.Rank() - from.Rank()
	df := to.File() - from.File()

	switch {
	case df == 0 && dr == dir:
		if b.Occupied(to) {
			return PawnBlocked
		}
		return Legal

	case df == 0 && dr == 2*dir:
		if p.MoveCount != 0 || from.Rank() != chess.PawnRank(p.Colour) {
			return PawnHasMoved
		}
		mid, _ := from.Offset(dir, 0)
		if b.Occupied(mid) || b.Occupied(to) {
			return PawnBlocked
		}
		return Legal

	case abs(df) == 1 && dr == dir:
		if b.Occupied(to) {
			// Same-colour occupants were rejected before reach.
			return Legal
		}
		return g.enPassantCode(p, to)
	}
	return MoveIllegal
}

// enPassantCode classifies a pawn's diagonal step onto an empty square.
func (g *Game) enPassantCode(p *chess.Piece, to chess.Square) Code {
	adjacent := chess.MustSquare(p.Square.Rank(), to.File())
	victim := g.board.At(adjacent)
	if victim == nil || victim.Colour == p.Colour || victim.Type != chess.Pawn {
		return NothingToCapture
	}
	pawn, passed, ok := g.enPassantTarget()
	if ok && pawn == victim.ID && passed == to {
		return LegalEnPassant
	}
	return LateEnPassant
}

// enPassantTarget returns the pawn that has just advanced two squares and
// the square it passed over. Only the immediately preceding ply counts; a
// game started from FEN uses the FEN target until its first move.
func (g *Game) enPassantTarget() (chess.PieceID, chess.Square, bool) {
	if last, ok := g.history.Last(); ok {
		if !last.IsDoubleStep() {
			return chess.NoPiece, chess.NoSquare, false
		}
		passed := chess.MustSquare((last.From.Rank()+last.To.Rank())/2, last.From.File())
		return last.Piece, passed, true
	}
	if !g.startEnPassant.Valid() {
		return chess.NoPiece, chess.NoSquare, false
	}
	mover := g.startTurn.Opposite()
	sq, ok := g.startEnPassant.Offset(chess.ColourOffset(mover), 0)
	if !ok {
		return chess.NoPiece, chess.NoSquare, false
	}
	pawn := g.board.At(sq)
	if pawn == nil || pawn.Type != chess.Pawn || pawn.Colour != mover {
		return chess.NoPiece, chess.NoSquare, false
	}
	return pawn.ID, g.startEnPassant, true
}
