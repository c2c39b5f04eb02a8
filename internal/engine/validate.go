package engine

import "github.com/lgbarn/chessrules-go/internal/chess"

// Castle destination files.
const (
	kingsideKingFile  = 6
	kingsideRookFile  = 5
	queensideKingFile = 2
	queensideRookFile = 3
)

// validate tests a move by p to to without turn or activity checks.
// The first failing rule wins.
func (g *Game) validate(p *chess.Piece, to chess.Square) Code {
	if p.Type == chess.King {
		if side, ok := g.castleIntent(p, to); ok {
			return g.validateCastle(p, side)
		}
	}

	occupant := g.board.At(to)
	if occupant != nil && occupant.Colour == p.Colour {
		return SquareOccupied
	}

	code := ruleFor(p).reach(g, p, to)
	if !code.Moved() {
		return code
	}

	captured := chess.NoPiece
	if occupant != nil {
		captured = occupant.ID
	}
	if code == LegalEnPassant {
		captured = g.board.At(chess.MustSquare(p.Square.Rank(), to.File())).ID
	}
	if g.exposesKing(p, to, captured) {
		return KingInCheck
	}
	return code
}

// castleIntent reports whether a king move to to is a castling attempt: a
// two-file jump along its back rank, or a move onto one of its own rooks
// on the same rank.
func (g *Game) castleIntent(king *chess.Piece, to chess.Square) (chess.CastleSide, bool) {
	from := king.Square
	if from.Rank() != chess.BackRank(king.Colour) || to.Rank() != from.Rank() {
		return chess.NoCastle, false
	}
	df := to.File() - from.File()
	if abs(df) != 2 {
		occ := g.board.At(to)
		if occ == nil || occ.Colour != king.Colour || occ.Type != chess.Rook {
			return chess.NoCastle, false
		}
	}
	if df > 0 {
		return chess.Kingside, true
	}
	return chess.Queenside, true
}

// castleRook finds the rook a king would castle with on side: the first own
// rook met scanning the back rank from the edge toward the king.
func (g *Game) castleRook(king *chess.Piece, side chess.CastleSide) *chess.Piece {
	rank := king.Square.Rank()
	edge, step := chess.BoardSize-1, -1
	if side == chess.Queenside {
		edge, step = 0, 1
	}
	for file := edge; file != king.Square.File(); file += step {
		p := g.board.At(chess.MustSquare(rank, file))
		if p != nil && p.Colour == king.Colour && p.Type == chess.Rook {
			return p
		}
	}
	return nil
}

// castleTargets returns the king and rook destinations for side.
func castleTargets(colour chess.Colour, side chess.CastleSide) (king, rook chess.Square) {
	rank := chess.BackRank(colour)
	if side == chess.Kingside {
		return chess.MustSquare(rank, kingsideKingFile), chess.MustSquare(rank, kingsideRookFile)
	}
	return chess.MustSquare(rank, queensideKingFile), chess.MustSquare(rank, queensideRookFile)
}

func castleCode(side chess.CastleSide) Code {
	if side == chess.Kingside {
		return CastleKingside
	}
	return CastleQueenside
}

func (g *Game) validateCastle(king *chess.Piece, side chess.CastleSide) Code {
	if king.MoveCount != 0 {
		return CastleKingHasMoved
	}
	rook := g.castleRook(king, side)
	if rook == nil || rook.MoveCount != 0 {
		return CastleRookHasMoved
	}
	kingTo, rookTo := castleTargets(king.Colour, side)

	// Every square spanned by the two pieces and their destinations must be
	// empty apart from the king and rook themselves.
	lo := min(king.Square.File(), rook.Square.File(), kingTo.File(), rookTo.File())
	hi := max(king.Square.File(), rook.Square.File(), kingTo.File(), rookTo.File())
	rank := king.Square.Rank()
	for file := lo; file <= hi; file++ {
		p := g.board.At(chess.MustSquare(rank, file))
		if p != nil && p.ID != king.ID && p.ID != rook.ID {
			return CastleImpeded
		}
	}

	// The king may not start in, pass through, or land in check.
	opponent := king.Colour.Opposite()
	step := sign(kingTo.File() - king.Square.File())
	through := g.board.Without(rook.ID, func() bool {
		file := king.Square.File()
		for {
			sq := chess.MustSquare(rank, file)
			attacked := g.board.Try(king.ID, sq, chess.NoPiece, func() bool {
				return g.isAttacked(sq, opponent)
			})
			if attacked {
				return true
			}
			if file == kingTo.File() {
				return false
			}
			file += step
		}
	})
	if through {
		return CastleThroughCheck
	}
	return castleCode(side)
}
