package engine_test

import (
	"testing"

	"github.com/lgbarn/chessrules-go/internal/chess"
	"github.com/lgbarn/chessrules-go/internal/engine"
	"github.com/lgbarn/chessrules-go/internal/errors"
	"github.com/lgbarn/chessrules-go/internal/testutil"
)

func move(t *testing.T, g *engine.Game, m string) engine.Code {
	t.Helper()
	from, to, promo := testutil.ParseCoordinate(t, m)
	return g.Move(from, to, promo)
}

func TestOpeningMove(t *testing.T) {
	g := testutil.MustGame(t, "")
	testutil.AssertEqual(t, g.Status(), engine.WhiteToMove)

	testutil.AssertEqual(t, move(t, g, "e2e4"), engine.Legal)
	testutil.AssertEqual(t, g.Status(), engine.BlackToMove)
	testutil.AssertEqual(t, g.Turn(), chess.Black)
	testutil.AssertEqual(t, g.Ply(), 1)
	testutil.AssertEqual(t, g.FEN(), "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1")
	testutil.AssertEqual(t, g.MoveHistoryText(), "1. e2-e4")

	p, ok := g.PieceAt(testutil.Sq("e4"))
	testutil.AssertTrue(t, ok, "pawn on e4")
	testutil.AssertEqual(t, p.Type, chess.Pawn)
	testutil.AssertEqual(t, p.MoveCount, 1)
	_, ok = g.PieceAt(testutil.Sq("e2"))
	testutil.AssertFalse(t, ok, "e2 empty")
}

func TestMoveRejections(t *testing.T) {
	tests := []struct {
		name  string
		fen   string
		moves []string
		try   string
		want  engine.Code
	}{
		{"wrong player", "", nil, "e7e5", engine.WrongPlayer},
		{"empty square", "", nil, "e3e4", engine.SquareEmpty},
		{"own piece on target", "", nil, "a1a2", engine.SquareOccupied},
		{"pawn three squares", "", nil, "e2e5", engine.MoveIllegal},
		{"knight geometry", "", nil, "g1g3", engine.MoveIllegal},
		{"bishop impeded", "", nil, "c1e3", engine.Impeded},
		{"pawn blocked", "", []string{"e2e4", "e7e5"}, "e4e5", engine.PawnBlocked},
		{"double step after moving", "", []string{"e2e3", "e7e6"}, "e3e5", engine.PawnHasMoved},
		{"pawn diagonal onto nothing", "", nil, "e2d3", engine.NothingToCapture},
		{"pawn backwards", "", []string{"e2e4", "e7e5"}, "e4e3", engine.MoveIllegal},
		{"pinned knight", "4k3/4r3/8/8/8/8/4N3/4K3 w - - 0 1", nil, "e2c3", engine.KingInCheck},
		{"king into check", "4k3/3r4/8/8/8/8/8/4K3 w - - 0 1", nil, "e1d1", engine.KingInCheck},
		{"ignoring check", "", []string{"e2e4", "f7f6", "d1h5"}, "a7a6", engine.KingInCheck},
		{"off the board", "", nil, "", engine.InvalidCoordinate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := testutil.MustGame(t, tt.fen)
			testutil.Play(t, g, tt.moves...)
			before := g.FEN()

			var code engine.Code
			if tt.try == "" {
				code = g.Move(chess.NoSquare, testutil.Sq("e4"), chess.NoPieceType)
			} else {
				code = move(t, g, tt.try)
			}
			testutil.AssertEqual(t, code, tt.want)
			testutil.AssertFalse(t, code.Moved())
			testutil.AssertErrorIs(t, code.Err(), errors.ErrIllegalMove)
			testutil.AssertEqual(t, g.FEN(), before, "rejected move changed the position")
		})
	}
}

func TestValidateDoesNotMove(t *testing.T) {
	g := testutil.MustGame(t, "")
	before := g.FEN()
	testutil.AssertEqual(t, g.Validate(testutil.Sq("g1"), testutil.Sq("f3"), chess.NoPieceType), engine.Legal)
	testutil.AssertEqual(t, g.Validate(testutil.Sq("g1"), testutil.Sq("g3"), chess.NoPieceType), engine.MoveIllegal)
	testutil.AssertEqual(t, g.FEN(), before)
	testutil.AssertEqual(t, g.Ply(), 0)
}

func TestCastling(t *testing.T) {
	const open = "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1"

	t.Run("both sides", func(t *testing.T) {
		g := testutil.MustGame(t, open)
		testutil.AssertEqual(t, move(t, g, "e1g1"), engine.CastleKingside)
		testutil.AssertEqual(t, pieceType(g, "g1"), chess.King)
		testutil.AssertEqual(t, pieceType(g, "f1"), chess.Rook)
		testutil.AssertEqual(t, move(t, g, "e8c8"), engine.CastleQueenside)
		testutil.AssertEqual(t, pieceType(g, "c8"), chess.King)
		testutil.AssertEqual(t, pieceType(g, "d8"), chess.Rook)
		testutil.AssertEqual(t, g.MoveHistoryText(), "1. O-O O-O-O")
		testutil.AssertEqual(t, g.CastlingRights(), "-")
	})

	t.Run("onto own rook", func(t *testing.T) {
		g := testutil.MustGame(t, open)
		testutil.AssertEqual(t, move(t, g, "e1h1"), engine.CastleKingside)
		testutil.AssertEqual(t, pieceType(g, "g1"), chess.King)
		testutil.AssertEqual(t, pieceType(g, "f1"), chess.Rook)
	})

	tests := []struct {
		name string
		fen  string
		try  string
		want engine.Code
	}{
		{"pieces in the way", "", "e1g1", engine.CastleImpeded},
		{"king has moved", "r3k2r/8/8/8/8/8/8/R3K2R w - - 0 1", "e1g1", engine.CastleKingHasMoved},
		{"rook has moved", "r3k2r/8/8/8/8/8/8/R3K2R w Q - 0 1", "e1g1", engine.CastleRookHasMoved},
		{"through check", "4k3/8/8/8/8/8/5r2/4K2R w K - 0 1", "e1g1", engine.CastleThroughCheck},
		{"out of check", "4k3/4r3/8/8/8/8/8/R3K3 w Q - 0 1", "e1c1", engine.CastleThroughCheck},
		{"into check", "2r1k3/8/8/8/8/8/8/R3K3 w Q - 0 1", "e1c1", engine.CastleThroughCheck},
		{"queenside b-file blocked", "4k3/8/8/8/8/8/8/RN2K3 w Q - 0 1", "e1c1", engine.CastleImpeded},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := testutil.MustGame(t, tt.fen)
			testutil.AssertEqual(t, move(t, g, tt.try), tt.want)
		})
	}

	t.Run("rights lost after rook moves", func(t *testing.T) {
		g := testutil.MustGame(t, open)
		testutil.Play(t, g, "h1h2", "a8a7")
		testutil.AssertEqual(t, g.CastlingRights(), "Qk")
		testutil.Play(t, g, "h2h1", "a7a8")
		testutil.AssertEqual(t, g.CastlingRights(), "Qk")
		testutil.AssertEqual(t, move(t, g, "e1g1"), engine.CastleRookHasMoved)
	})
}

func pieceType(g *engine.Game, sq string) chess.PieceType {
	p, ok := g.PieceAt(testutil.Sq(sq))
	if !ok {
		return chess.NoPieceType
	}
	return p.Type
}

func TestEnPassantTiming(t *testing.T) {
	t.Run("immediately after the double step", func(t *testing.T) {
		g := testutil.MustGame(t, "")
		testutil.Play(t, g, "e2e4", "a7a6", "e4e5", "d7d5")
		testutil.AssertEqual(t, move(t, g, "e5d6"), engine.LegalEnPassant)
		testutil.AssertEqual(t, pieceType(g, "d6"), chess.Pawn)
		testutil.AssertEqual(t, pieceType(g, "d5"), chess.NoPieceType)
		last, _ := g.LastMove()
		testutil.AssertTrue(t, last.EnPassant)
		testutil.AssertEqual(t, last.CaptureSquare, testutil.Sq("d5"))
		testutil.AssertEqual(t, last.Text, "e5xd6")
	})

	t.Run("one ply late", func(t *testing.T) {
		g := testutil.MustGame(t, "")
		testutil.Play(t, g, "e2e4", "a7a6", "e4e5", "d7d5", "h2h3", "h7h6")
		testutil.AssertEqual(t, move(t, g, "e5d6"), engine.LateEnPassant)
	})

	t.Run("from a FEN target", func(t *testing.T) {
		g := testutil.MustGame(t, "4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 1")
		testutil.AssertEqual(t, move(t, g, "e5d6"), engine.LegalEnPassant)
	})

	t.Run("FEN without a target", func(t *testing.T) {
		g := testutil.MustGame(t, "4k3/8/8/3pP3/8/8/8/4K3 w - - 0 1")
		testutil.AssertEqual(t, move(t, g, "e5d6"), engine.LateEnPassant)
	})
}

func TestScholarsMate(t *testing.T) {
	g := testutil.MustGame(t, "")
	var gameOver, changed int
	g.AddListener(engine.ListenerFuncs{
		OnStateChanged: func(engine.Event) { changed++ },
		OnGameOver: func(e engine.Event) {
			gameOver++
			testutil.AssertEqual(t, e.Status, engine.WhiteWinsCheckmate)
			testutil.AssertTrue(t, e.HasWinner)
			testutil.AssertEqual(t, e.Winner, chess.White)
		},
	})

	testutil.Play(t, g, "e2e4", "e7e5", "f1c4", "b8c6", "d1h5", "g8f6", "h5f7")
	testutil.AssertEqual(t, g.Status(), engine.WhiteWinsCheckmate)
	testutil.AssertFalse(t, g.Active())
	testutil.AssertEqual(t, gameOver, 1)
	testutil.AssertEqual(t, changed, 6)
	testutil.AssertEqual(t, g.Status().Result(), "1-0")

	last, _ := g.LastMove()
	testutil.AssertTrue(t, last.Checkmate)
	testutil.AssertEqual(t, last.Text, "Qh5xf7#")
	testutil.AssertEqual(t, g.MoveHistoryText(), "1. e2-e4 e7-e5 2. Bf1-c4 Nb8-c6 3. Qd1-h5 Ng8-f6 4. Qh5xf7#")

	code := move(t, g, "a7a6")
	testutil.AssertEqual(t, code, engine.GameNotActive)
	testutil.AssertErrorIs(t, code.Err(), errors.ErrGameNotActive)
}

func TestFoolsMate(t *testing.T) {
	g := testutil.MustGame(t, "")
	testutil.Play(t, g, "f2f3", "e7e5", "g2g4", "d8h4")
	testutil.AssertEqual(t, g.Status(), engine.BlackWinsCheckmate)
	testutil.AssertEqual(t, g.PlayerState(chess.White), engine.StateCheckmate)
}

func TestCheckAndBlock(t *testing.T) {
	g := testutil.MustGame(t, "")
	testutil.Play(t, g, "e2e4", "f7f6", "d1h5")
	testutil.AssertEqual(t, g.Status(), engine.BlackInCheck)
	testutil.AssertEqual(t, g.PlayerState(chess.Black), engine.StateInCheck)
	last, _ := g.LastMove()
	testutil.AssertEqual(t, last.Text, "Qd1-h5+")

	testutil.AssertEqual(t, move(t, g, "g7g6"), engine.Legal)
	testutil.AssertEqual(t, g.Status(), engine.WhiteToMove)
}

func TestCheckEscapes(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		want engine.PlayerState
	}{
		// Bxf7 and Rh2 would answer either check alone.
		{"double check allows only king moves", "4b1rk/5Np1/8/8/8/8/r7/2K4R b - - 0 1", engine.StateCheckmate},
		{"single check can be captured", "4b1rk/5Np1/8/8/8/8/r7/2K5 b - - 0 1", engine.StateInCheck},
		{"en passant captures the checking pawn", "k7/8/5n1p/5Pp1/7K/r7/8/8 w - g6 0 1", engine.StateInCheck},
		{"same position without en passant", "k7/8/5n1p/5Pp1/7K/r7/8/8 w - - 0 1", engine.StateCheckmate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := engine.ParseFEN(tt.fen)
			testutil.AssertNoError(t, err)
			testutil.AssertEqual(t, g.PlayerState(g.Turn()), tt.want)
		})
	}
}

func TestEnPassantAnswersCheck(t *testing.T) {
	g := testutil.MustGame(t, "k7/8/5n1p/5Pp1/7K/r7/8/8 w - g6 0 1")
	testutil.AssertEqual(t, g.Status(), engine.WhiteInCheck)
	testutil.AssertEqual(t, len(g.LegalMoves(testutil.Sq("h4"))), 0, "king has no escape")
	testutil.AssertEqual(t, move(t, g, "f5g6"), engine.LegalEnPassant)
	_, ok := g.PieceAt(testutil.Sq("g5"))
	testutil.AssertFalse(t, ok, "checking pawn captured")
	testutil.AssertFalse(t, g.InCheck(chess.White))
}

func TestStalemate(t *testing.T) {
	g := testutil.MustGame(t, "7k/4Q3/6K1/8/8/8/8/8 w - - 0 1")
	testutil.AssertEqual(t, move(t, g, "e7f7"), engine.Legal)
	testutil.AssertEqual(t, g.Status(), engine.DrawStalemate)
	testutil.AssertFalse(t, g.Active())
	last, _ := g.LastMove()
	testutil.AssertTrue(t, last.Stalemate)
	testutil.AssertEqual(t, g.Status().Result(), "1/2-1/2")
}

func TestInsufficientMaterial(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		want bool
	}{
		{"bare kings", "4k3/8/8/8/8/8/8/4K3 w - - 0 1", true},
		{"king and bishop each", "4kb2/8/8/8/8/8/8/2B1K3 w - - 0 1", true},
		{"king and knight", "4k3/8/8/8/8/8/8/1N2K3 w - - 0 1", true},
		{"two bishops", "4k3/8/8/8/8/8/8/1BB1K3 w - - 0 1", false},
		{"knight and bishop", "4k3/8/8/8/8/8/8/1NB1K3 w - - 0 1", false},
		{"pawn", "4k3/8/8/8/8/8/P7/4K3 w - - 0 1", false},
		{"rook", "4k3/8/8/8/8/8/8/R3K3 w - - 0 1", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := testutil.MustGame(t, tt.fen)
			testutil.AssertEqual(t, g.HasInsufficientMaterial(), tt.want)
			testutil.AssertEqual(t, g.Status() == engine.DrawInsufficientMaterial, tt.want)
			testutil.AssertEqual(t, g.Active(), !tt.want)
		})
	}

	t.Run("after capturing the last rook", func(t *testing.T) {
		g := testutil.MustGame(t, "4k3/8/8/8/8/8/3r4/4K3 w - - 0 1")
		testutil.AssertEqual(t, move(t, g, "e1d2"), engine.Legal)
		testutil.AssertEqual(t, g.Status(), engine.DrawInsufficientMaterial)
		testutil.AssertFalse(t, g.Active())
	})
}

func TestResign(t *testing.T) {
	g := testutil.MustGame(t, "")
	testutil.AssertNoError(t, g.Resign(chess.White))
	testutil.AssertEqual(t, g.Status(), engine.BlackWinsResignation)
	testutil.AssertFalse(t, g.Active())
	testutil.AssertErrorIs(t, g.Resign(chess.Black), errors.ErrGameNotActive)
	testutil.AssertErrorIs(t, g.End(), errors.ErrGameNotActive)
}

func TestEnd(t *testing.T) {
	g := testutil.MustGame(t, "")
	testutil.AssertNoError(t, g.End())
	testutil.AssertEqual(t, g.Status(), engine.Ended)
	testutil.AssertEqual(t, g.Status().Result(), "*")
	testutil.AssertFalse(t, g.Active())
}

func TestDrawOffers(t *testing.T) {
	t.Run("agreement", func(t *testing.T) {
		g := testutil.MustGame(t, "")
		testutil.AssertNoError(t, g.OfferDraw(chess.White))
		testutil.AssertEqual(t, g.Status(), engine.WhiteToMove)
		testutil.AssertTrue(t, g.DrawOffered(chess.White))
		testutil.AssertNoError(t, g.OfferDraw(chess.Black))
		testutil.AssertEqual(t, g.Status(), engine.DrawAgreement)
		testutil.AssertFalse(t, g.Active())
	})

	t.Run("offer lapses after the opponent moves", func(t *testing.T) {
		g := testutil.MustGame(t, "")
		testutil.AssertNoError(t, g.OfferDraw(chess.White))
		testutil.Play(t, g, "e2e4")
		testutil.AssertTrue(t, g.DrawOffered(chess.White))
		testutil.Play(t, g, "e7e5")
		testutil.AssertFalse(t, g.DrawOffered(chess.White))
		testutil.AssertNoError(t, g.OfferDraw(chess.Black))
		testutil.AssertEqual(t, g.Status(), engine.WhiteToMove)
	})
}

var knightShuffle = []string{"g1f3", "g8f6", "f3g1", "f6g8"}

func TestThreefoldRepetition(t *testing.T) {
	g := testutil.MustGame(t, "")
	start := g.Signature()
	testutil.AssertEqual(t, start, "KQkq - rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR")

	testutil.Play(t, g, knightShuffle...)
	testutil.AssertEqual(t, g.Signature(), start)
	testutil.AssertFalse(t, g.ThreefoldRepetition(), "two occurrences")

	testutil.Play(t, g, knightShuffle...)
	testutil.AssertTrue(t, g.ThreefoldRepetition(), "three occurrences")
	testutil.AssertEqual(t, g.Status(), engine.WhiteToMove, "repetition alone does not end the game")

	testutil.AssertNoError(t, g.OfferDraw(chess.White))
	testutil.AssertEqual(t, g.Status(), engine.DrawThreefold)
}

func TestThreefoldByStandingClaim(t *testing.T) {
	g := testutil.MustGame(t, "")
	testutil.Play(t, g, knightShuffle...)
	testutil.Play(t, g, knightShuffle[:3]...)
	testutil.AssertNoError(t, g.OfferDraw(chess.Black))
	testutil.AssertEqual(t, g.Status(), engine.BlackToMove)
	testutil.Play(t, g, knightShuffle[3])
	testutil.AssertEqual(t, g.Status(), engine.DrawThreefold)
}

func TestThreefoldStopsAtPawnMove(t *testing.T) {
	g := testutil.MustGame(t, "")
	testutil.Play(t, g, knightShuffle...)
	testutil.Play(t, g, "e2e3", "e7e6")
	testutil.Play(t, g, knightShuffle...)
	testutil.AssertFalse(t, g.ThreefoldRepetition(), "only two occurrences since the pawn moves")
	testutil.Play(t, g, knightShuffle...)
	testutil.AssertTrue(t, g.ThreefoldRepetition())
}

func TestFiftyMoveRule(t *testing.T) {
	g := testutil.MustGame(t, "4k3/8/8/8/8/8/8/R3K3 w - - 99 60")
	testutil.AssertFalse(t, g.FiftyMoveAvailable())
	testutil.Play(t, g, "a1a2")
	testutil.AssertEqual(t, g.HalfmoveClock(), 100)
	testutil.AssertTrue(t, g.FiftyMoveAvailable())
	testutil.AssertEqual(t, g.Status(), engine.BlackToMove)
	testutil.AssertEqual(t, g.FEN(), "4k3/8/8/8/8/8/R7/4K3 b - - 100 60")

	testutil.AssertNoError(t, g.OfferDraw(chess.Black))
	testutil.AssertEqual(t, g.Status(), engine.DrawFiftyMove)
}

func TestFiftyMoveResets(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		move string
	}{
		{"pawn move", "4k3/8/8/8/8/8/P7/4K3 w - - 99 60", "a2a3"},
		{"capture", "4k3/8/8/8/8/8/r7/R3K3 w - - 99 60", "a1a2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := testutil.MustGame(t, tt.fen)
			testutil.Play(t, g, tt.move)
			testutil.AssertEqual(t, g.HalfmoveClock(), 0)
			testutil.AssertFalse(t, g.FiftyMoveAvailable())
		})
	}
}

func TestPromotion(t *testing.T) {
	const fen = "8/P6k/8/8/8/8/8/K7 w - - 0 1"

	tests := []struct {
		name  string
		promo chess.PieceType
		want  engine.Code
	}{
		{"missing type", chess.NoPieceType, engine.AmbiguousPromotion},
		{"king", chess.King, engine.AmbiguousPromotion},
		{"pawn", chess.Pawn, engine.AmbiguousPromotion},
		{"queen", chess.Queen, engine.Legal},
		{"knight", chess.Knight, engine.Legal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := testutil.MustGame(t, fen)
			testutil.AssertEqual(t, g.Move(testutil.Sq("a7"), testutil.Sq("a8"), tt.promo), tt.want)
			if tt.want.Moved() {
				testutil.AssertEqual(t, pieceType(g, "a8"), tt.promo)
			}
		})
	}

	t.Run("record and take back", func(t *testing.T) {
		g := testutil.MustGame(t, fen)
		var promoted []chess.PieceType
		g.AddPieceListener(promotionRecorder(&promoted))

		testutil.AssertEqual(t, g.Move(testutil.Sq("a7"), testutil.Sq("a8"), chess.Queen), engine.Legal)
		last, _ := g.LastMove()
		testutil.AssertEqual(t, last.Text, "a7-a8=Q")
		testutil.AssertEqual(t, promoted, []chess.PieceType{chess.Queen})

		testutil.AssertEqual(t, g.TakeBack(), engine.Legal)
		testutil.AssertEqual(t, g.FEN(), fen)
		testutil.AssertEqual(t, pieceType(g, "a7"), chess.Pawn)
	})
}

type pieceWatcher struct {
	promoted *[]chess.PieceType
	captured int
	moved    int
}

func (w *pieceWatcher) Updated(chess.Piece)                           {}
func (w *pieceWatcher) Moved(chess.Piece, chess.Square, chess.Square) { w.moved++ }
func (w *pieceWatcher) Captured(chess.Piece)                          { w.captured++ }
func (w *pieceWatcher) Promoted(_ chess.Piece, p chess.Piece) {
	if w.promoted != nil {
		*w.promoted = append(*w.promoted, p.Type)
	}
}

func promotionRecorder(out *[]chess.PieceType) engine.PieceListener {
	return &pieceWatcher{promoted: out}
}

func TestPieceListener(t *testing.T) {
	g := testutil.MustGame(t, "")
	w := &pieceWatcher{}
	g.AddPieceListener(w)
	testutil.Play(t, g, "e2e4", "d7d5", "e4d5")
	testutil.AssertEqual(t, w.moved, 3)
	testutil.AssertEqual(t, w.captured, 1)
}

func TestTakeBackAndRedo(t *testing.T) {
	g := testutil.MustGame(t, "")
	testutil.AssertEqual(t, g.TakeBack(), engine.NothingToTakeBack)
	testutil.AssertEqual(t, g.Redo(), engine.NothingToRedo)

	testutil.Play(t, g, "e2e4", "e7e5", "g1f3")
	after := g.FEN()

	testutil.AssertEqual(t, g.TakeBack(), engine.Legal)
	testutil.AssertEqual(t, g.TakeBack(), engine.Legal)
	testutil.AssertEqual(t, g.Turn(), chess.Black)
	testutil.AssertEqual(t, g.Ply(), 1)
	testutil.AssertTrue(t, g.CanRedo())

	testutil.AssertEqual(t, g.Redo(), engine.Legal)
	testutil.AssertEqual(t, g.Redo(), engine.Legal)
	testutil.AssertEqual(t, g.FEN(), after)
	testutil.AssertEqual(t, g.MoveHistoryText(), "1. e2-e4 e7-e5 2. Ng1-f3")
	testutil.AssertFalse(t, g.CanRedo())

	testutil.AssertEqual(t, g.TakeBack(), engine.Legal)
	testutil.Play(t, g, "b1c3")
	testutil.AssertFalse(t, g.CanRedo(), "a new move clears the redo buffer")
}

func TestTakeBackReactivatesFinishedGame(t *testing.T) {
	g := testutil.MustGame(t, "")
	testutil.Play(t, g, "f2f3", "e7e5", "g2g4", "d8h4")
	testutil.AssertFalse(t, g.Active())

	testutil.AssertEqual(t, g.TakeBack(), engine.Legal)
	testutil.AssertTrue(t, g.Active())
	testutil.AssertEqual(t, g.Status(), engine.BlackToMove)

	testutil.AssertEqual(t, g.Redo(), engine.Legal)
	testutil.AssertFalse(t, g.Active())
	testutil.AssertEqual(t, g.Status(), engine.BlackWinsCheckmate)
}

func TestClone(t *testing.T) {
	g := testutil.MustGame(t, "")
	testutil.Play(t, g, "e2e4")
	c := g.Clone()
	testutil.Play(t, c, "e7e5", "g1f3")

	testutil.AssertEqual(t, g.FEN(), "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1")
	testutil.AssertEqual(t, len(g.History()), 1)
	testutil.AssertEqual(t, len(c.History()), 3)
}

func TestLegalMoves(t *testing.T) {
	g := testutil.MustGame(t, "")
	names := func(sqs []chess.Square) []string {
		var out []string
		for _, sq := range sqs {
			out = append(out, sq.String())
		}
		return out
	}
	testutil.AssertEqual(t, names(g.LegalMoves(testutil.Sq("g1"))), []string{"f3", "h3"})
	testutil.AssertEqual(t, names(g.LegalMoves(testutil.Sq("e2"))), []string{"e3", "e4"})
	testutil.AssertEqual(t, len(g.LegalMoves(testutil.Sq("e1"))), 0)
	testutil.AssertEqual(t, len(g.LegalMoves(testutil.Sq("e4"))), 0)
	testutil.AssertTrue(t, g.HasLegalMoves())
}

func TestMoveHistoryTextBlackStart(t *testing.T) {
	g := testutil.MustGame(t, "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1")
	testutil.Play(t, g, "e7e5", "g1f3", "b8c6")
	testutil.AssertEqual(t, g.MoveHistoryText(), "1... e7-e5 2. Ng1-f3 Nb8-c6")
	testutil.AssertEqual(t, g.FEN(), "r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 2 3")
}

func TestTimeUpdate(t *testing.T) {
	g := testutil.MustGame(t, "")
	g.TimeUpdate(chess.White, 42)
	testutil.AssertEqual(t, g.ClockSeconds(chess.White), 42)
	testutil.AssertTrue(t, g.Active())

	g.TimeUpdate(chess.Black, 0)
	testutil.AssertEqual(t, g.Status(), engine.WhiteWinsTimeout)
	testutil.AssertFalse(t, g.Active())
}

type fakeTimer struct {
	inits, switches, stops int
}

func (f *fakeTimer) Init(int, int, chess.Colour) { f.inits++ }
func (f *fakeTimer) SwitchActivePlayer()         { f.switches++ }
func (f *fakeTimer) Stop()                       { f.stops++ }

func TestTimerContract(t *testing.T) {
	g := engine.NewGame()
	testutil.AssertNoError(t, g.SetupStandard())
	timer := &fakeTimer{}
	g.SetTimer(timer, 5, 3)
	testutil.AssertEqual(t, g.ClockSeconds(chess.White), 300)
	testutil.AssertNoError(t, g.Start())
	testutil.AssertEqual(t, timer.inits, 1)

	testutil.Play(t, g, "f2f3", "e7e5", "g2g4")
	testutil.AssertEqual(t, timer.switches, 3)
	testutil.Play(t, g, "d8h4")
	testutil.AssertEqual(t, timer.switches, 3, "no switch on the mating move")
	testutil.AssertEqual(t, timer.stops, 1)
}

type resumingTimer struct {
	fakeTimer
	resumed []chess.Colour
}

func (r *resumingTimer) Resume(c chess.Colour) { r.resumed = append(r.resumed, c) }

func timedGame(t *testing.T, timer engine.Timer) *engine.Game {
	t.Helper()
	g := engine.NewGame()
	testutil.AssertNoError(t, g.SetupStandard())
	g.SetTimer(timer, 5, 3)
	testutil.AssertNoError(t, g.Start())
	return g
}

func TestTakeBackSwitchesPlainTimer(t *testing.T) {
	timer := &fakeTimer{}
	g := timedGame(t, timer)
	testutil.Play(t, g, "e2e4")
	testutil.AssertEqual(t, timer.switches, 1)

	testutil.AssertEqual(t, g.TakeBack(), engine.Legal)
	testutil.AssertEqual(t, timer.switches, 2, "take back hands the clock back")
	testutil.AssertEqual(t, g.Redo(), engine.Legal)
	testutil.AssertEqual(t, timer.switches, 3, "redo hands it on again")

	testutil.Play(t, g, "e7e5", "f1c4", "b8c6", "d1h5", "g8f6", "h5f7")
	testutil.AssertEqual(t, g.Status(), engine.WhiteWinsCheckmate)
	testutil.AssertEqual(t, timer.stops, 1)
	testutil.AssertEqual(t, g.TakeBack(), engine.GameNotActive, "a stopped plain timer cannot restart")
	testutil.AssertEqual(t, g.Status(), engine.WhiteWinsCheckmate)
}

func TestTakeBackResumesTimer(t *testing.T) {
	timer := &resumingTimer{}
	g := timedGame(t, timer)
	testutil.Play(t, g, "e2e4", "e7e5")

	testutil.AssertEqual(t, g.TakeBack(), engine.Legal)
	testutil.AssertEqual(t, timer.resumed, []chess.Colour{chess.Black})
	testutil.AssertEqual(t, g.Redo(), engine.Legal)
	testutil.AssertEqual(t, timer.resumed, []chess.Colour{chess.Black, chess.White})
	testutil.AssertEqual(t, timer.switches, 2, "resumable timers are not switched")

	testutil.Play(t, g, "d1h5", "b8c6", "f1c4", "g8f6", "h5f7")
	testutil.AssertEqual(t, timer.stops, 1)
	testutil.AssertEqual(t, g.TakeBack(), engine.Legal)
	testutil.AssertTrue(t, g.Active())
	testutil.AssertEqual(t, timer.resumed[len(timer.resumed)-1], chess.White)

	testutil.AssertEqual(t, g.Redo(), engine.Legal)
	testutil.AssertEqual(t, g.Status(), engine.WhiteWinsCheckmate)
	testutil.AssertEqual(t, timer.stops, 2)
}

func TestTakeBackKeepsNonPositionalResults(t *testing.T) {
	tests := []struct {
		name   string
		finish func(g *engine.Game)
		want   engine.Status
	}{
		{"resignation", func(g *engine.Game) { _ = g.Resign(chess.White) }, engine.BlackWinsResignation},
		{"timeout", func(g *engine.Game) { g.TimeUpdate(chess.Black, 0) }, engine.WhiteWinsTimeout},
		{"agreement", func(g *engine.Game) {
			_ = g.OfferDraw(chess.Black)
			_ = g.OfferDraw(chess.White)
		}, engine.DrawAgreement},
		{"ended", func(g *engine.Game) { _ = g.End() }, engine.Ended},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := testutil.MustGame(t, "")
			testutil.Play(t, g, "e2e4")
			tt.finish(g)
			testutil.AssertEqual(t, g.Status(), tt.want)
			fen := g.FEN()

			testutil.AssertEqual(t, g.TakeBack(), engine.GameNotActive)
			testutil.AssertEqual(t, g.Status(), tt.want)
			testutil.AssertEqual(t, g.FEN(), fen)
			testutil.AssertFalse(t, g.Active())
		})
	}
}

func TestRedoRequiresActiveGame(t *testing.T) {
	g := testutil.MustGame(t, "")
	testutil.Play(t, g, "e2e4", "e7e5")
	testutil.AssertEqual(t, g.TakeBack(), engine.Legal)
	testutil.AssertNoError(t, g.End())
	testutil.AssertEqual(t, g.Redo(), engine.GameNotActive)
	testutil.AssertEqual(t, g.Ply(), 1)
}

func TestStartRequiresKings(t *testing.T) {
	g := engine.NewGame()
	testutil.AssertErrorIs(t, g.Start(), errors.ErrCorruptState)
	testutil.AssertEqual(t, g.Status(), engine.NotStarted)
	testutil.AssertEqual(t, move(t, g, "e2e4"), engine.GameNotActive)
}

func TestParseFENLeavesGameUnstarted(t *testing.T) {
	g, err := engine.ParseFEN("8/P6k/8/8/8/8/8/K7 b - - 3 40")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, g.Status(), engine.NotStarted)
	testutil.AssertEqual(t, g.StartFullmove(), 40)
	testutil.AssertEqual(t, move(t, g, "h7g6"), engine.GameNotActive)

	testutil.AssertNoError(t, g.Start())
	testutil.AssertEqual(t, g.Status(), engine.BlackToMove)
	testutil.AssertEqual(t, move(t, g, "h7g6"), engine.Legal)
}
