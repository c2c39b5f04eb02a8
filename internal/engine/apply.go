package engine

import "github.com/lgbarn/chessrules-go/internal/chess"

// Validate reports the code Move would return for the same arguments
// without changing the game.
func (g *Game) Validate(from, to chess.Square, promotion chess.PieceType) Code {
	p, code := g.precheck(from, to)
	if code != Legal {
		return code
	}
	return g.validateFull(p, to, promotion)
}

// Move validates and, when the returned code is a Moved code, executes a
// move for the side to move. promotion is only consulted for a pawn
// reaching its last rank and must then be a queen, rook, bishop or knight.
func (g *Game) Move(from, to chess.Square, promotion chess.PieceType) Code {
	p, code := g.precheck(from, to)
	if code != Legal {
		return code
	}
	code = g.validateFull(p, to, promotion)
	if !code.Moved() {
		return code
	}
	g.execute(p, to, code, promotion)
	return code
}

// precheck applies the turn and activity checks that precede validation.
func (g *Game) precheck(from, to chess.Square) (*chess.Piece, Code) {
	if !g.active {
		return nil, GameNotActive
	}
	if !from.Valid() || !to.Valid() {
		return nil, InvalidCoordinate
	}
	p := g.board.At(from)
	if p == nil {
		return nil, SquareEmpty
	}
	if !p.Active {
		return nil, PieceNotActive
	}
	if p.Colour != g.turn {
		return nil, WrongPlayer
	}
	return p, Legal
}

func (g *Game) validateFull(p *chess.Piece, to chess.Square, promotion chess.PieceType) Code {
	code := g.validate(p, to)
	if code.Moved() && promotes(p, to) && !promotion.PromotionTarget() {
		return AmbiguousPromotion
	}
	return code
}

func promotes(p *chess.Piece, to chess.Square) bool {
	return p.Type == chess.Pawn && to.Rank() == chess.PromotionRank(p.Colour)
}

// execute plays a validated move, records it and drives the state machine.
func (g *Game) execute(p *chess.Piece, to chess.Square, code Code, promotion chess.PieceType) {
	b := g.board
	from := p.Square
	rec := chess.MoveRecord{
		Piece:         p.ID,
		PieceType:     p.Type,
		Colour:        p.Colour,
		From:          from,
		To:            to,
		Captured:      chess.NoPiece,
		CaptureSquare: chess.NoSquare,
		Promoted:      chess.NoPiece,
		Rook:          chess.NoPiece,
		RookFrom:      chess.NoSquare,
		RookTo:        chess.NoSquare,
		Ply:           g.ply + 1,
	}

	switch code {
	case CastleKingside, CastleQueenside:
		side := chess.Kingside
		if code == CastleQueenside {
			side = chess.Queenside
		}
		rook := g.castleRook(p, side)
		kingTo, rookTo := castleTargets(p.Colour, side)
		rec.To = kingTo
		rec.Castle = side
		rec.Rook = rook.ID
		rec.RookFrom = rook.Square
		rec.RookTo = rookTo
		must(b.Castle(p.ID, kingTo, rook.ID, rookTo))
		g.pieceMoved(p, from)
		g.pieceMoved(rook, rec.RookFrom)

	default:
		victimSq := to
		if code == LegalEnPassant {
			victimSq = chess.MustSquare(from.Rank(), to.File())
			rec.EnPassant = true
		}
		if victim := b.At(victimSq); victim != nil {
			rec.Captured = victim.ID
			rec.CapturedType = victim.Type
			rec.CaptureSquare = victimSq
			must(b.Capture(victim.ID))
			g.pieceCaptured(victim)
		}
		must(b.Move(p.ID, to))
		g.pieceMoved(p, from)

		if promotes(p, to) {
			np := b.Spawn(p.Colour, promotion)
			must(b.Remove(p.ID, chess.StatusPromoted))
			must(b.Place(np.ID, to))
			rec.Promoted = np.ID
			rec.PromotedType = promotion
			g.piecePromoted(p, np)
		}
	}

	// The opponent's state depends on this move being the last one played,
	// so the record is pushed before the flags are known.
	g.history.Push(rec)
	state := g.PlayerState(p.Colour.Opposite())
	rec.Check = state == StateInCheck || state == StateCheckmate
	rec.Checkmate = state == StateCheckmate
	rec.Stalemate = state == StateStalemate
	rec.Text = chess.RenderMove(rec)
	g.history.amendLast(rec)

	g.transition(event{kind: eventMove, colour: p.Colour, move: &rec, state: state})
}
