package chess

import (
	"fmt"

	"github.com/lgbarn/chessrules-go/internal/errors"
)

// Board is the single source of truth for occupancy. It holds the piece
// arena and 64 cells of piece handles; a piece records its own square and
// the two are kept in lockstep by the methods below only.
type Board struct {
	cells  [NumSquares]PieceID
	pieces []*Piece
}

// NewBoard creates a new empty board with an empty piece arena.
func NewBoard() *Board {
	b := &Board{}
	for i := range b.cells {
		b.cells[i] = NoPiece
	}
	return b
}

// Spawn creates a new unplaced piece in the arena.
func (b *Board) Spawn(colour Colour, pieceType PieceType) *Piece {
	p := &Piece{
		ID:     PieceID(len(b.pieces)),
		Colour: colour,
		Type:   pieceType,
		Square: NoSquare,
		Start:  NoSquare,
		Status: StatusNotPlaced,
	}
	b.pieces = append(b.pieces, p)
	return p
}

// Piece returns the arena entry for id, or nil for an unknown handle.
func (b *Board) Piece(id PieceID) *Piece {
	if id < 0 || int(id) >= len(b.pieces) {
		return nil
	}
	return b.pieces[id]
}

// Pieces returns every piece ever created on this board, in creation order.
func (b *Board) Pieces() []*Piece {
	out := make([]*Piece, len(b.pieces))
	copy(out, b.pieces)
	return out
}

// ActivePieces returns the active pieces of one colour in creation order.
func (b *Board) ActivePieces(colour Colour) []*Piece {
	var out []*Piece
	for _, p := range b.pieces {
		if p.Active && p.Colour == colour {
			out = append(out, p)
		}
	}
	return out
}

// At returns the occupant of sq, or nil.
func (b *Board) At(sq Square) *Piece {
	if !sq.Valid() {
		return nil
	}
	id := b.cells[sq.Index()]
	if id == NoPiece {
		return nil
	}
	return b.pieces[id]
}

// Occupied reports whether sq holds a piece.
func (b *Board) Occupied(sq Square) bool {
	return sq.Valid() && b.cells[sq.Index()] != NoPiece
}

func (b *Board) lookup(id PieceID) (*Piece, error) {
	p := b.Piece(id)
	if p == nil {
		return nil, fmt.Errorf("piece %d: %w", id, errors.ErrCorruptState)
	}
	return p, nil
}

func checkSquare(sq Square) error {
	if !sq.Valid() {
		return fmt.Errorf("square %d,%d: %w", sq.rank, sq.file, errors.ErrInvalidCoordinate)
	}
	return nil
}

// Place puts an unplaced or inactive piece on sq. It fails if sq is occupied.
func (b *Board) Place(id PieceID, sq Square) error {
	if err := checkSquare(sq); err != nil {
		return err
	}
	p, err := b.lookup(id)
	if err != nil {
		return err
	}
	if b.cells[sq.Index()] != NoPiece {
		return fmt.Errorf("place %s on %s: %w", p.Type, sq, errors.ErrSquareOccupied)
	}
	if p.Active {
		return fmt.Errorf("place %s on %s: already on %s: %w", p.Type, sq, p.Square, errors.ErrCorruptState)
	}
	if p.Start == NoSquare {
		p.Start = sq
	}
	p.Square = sq
	p.Active = true
	p.Status = StatusActive
	b.cells[sq.Index()] = id
	return nil
}

// Restore reactivates a captured or promoted piece on sq without touching
// its start square or move counter.
func (b *Board) Restore(id PieceID, sq Square) error {
	return b.Place(id, sq)
}

// Move relocates an active piece to an empty square and increments its move counter.
func (b *Board) Move(id PieceID, to Square) error {
	return b.relocate(id, to, 1)
}

// MoveBack relocates an active piece to an empty square and decrements its move counter.
func (b *Board) MoveBack(id PieceID, to Square) error {
	return b.relocate(id, to, -1)
}

func (b *Board) relocate(id PieceID, to Square, delta int) error {
	if err := checkSquare(to); err != nil {
		return err
	}
	p, err := b.lookup(id)
	if err != nil {
		return err
	}
	if !p.Active {
		return fmt.Errorf("move inactive %s: %w", p.Type, errors.ErrCorruptState)
	}
	if occ := b.cells[to.Index()]; occ != NoPiece && occ != id {
		return fmt.Errorf("move %s to %s: %w", p.Type, to, errors.ErrSquareOccupied)
	}
	b.cells[p.Square.Index()] = NoPiece
	b.cells[to.Index()] = id
	p.Square = to
	p.MoveCount += delta
	return nil
}

// Capture deactivates a piece and clears its cell. Nothing else moves.
func (b *Board) Capture(id PieceID) error {
	return b.Remove(id, StatusCaptured)
}

// Remove deactivates a piece with the given status and clears its cell.
// The piece keeps its last square.
func (b *Board) Remove(id PieceID, status PieceStatus) error {
	p, err := b.lookup(id)
	if err != nil {
		return err
	}
	if p.Active && b.cells[p.Square.Index()] == id {
		b.cells[p.Square.Index()] = NoPiece
	}
	p.Active = false
	p.Status = status
	return nil
}

// Castle moves king and rook together, which allows either destination to be
// the other piece's origin. Both move counters are incremented.
func (b *Board) Castle(king PieceID, kingTo Square, rook PieceID, rookTo Square) error {
	return b.swapPair(king, kingTo, rook, rookTo, 1)
}

// Uncastle is the inverse of Castle.
func (b *Board) Uncastle(king PieceID, kingFrom Square, rook PieceID, rookFrom Square) error {
	return b.swapPair(king, kingFrom, rook, rookFrom, -1)
}

func (b *Board) swapPair(a PieceID, aTo Square, c PieceID, cTo Square, delta int) error {
	if err := checkSquare(aTo); err != nil {
		return err
	}
	if err := checkSquare(cTo); err != nil {
		return err
	}
	pa, err := b.lookup(a)
	if err != nil {
		return err
	}
	pc, err := b.lookup(c)
	if err != nil {
		return err
	}
	for _, to := range []Square{aTo, cTo} {
		if occ := b.cells[to.Index()]; occ != NoPiece && occ != a && occ != c {
			return fmt.Errorf("castle onto %s: %w", to, errors.ErrSquareOccupied)
		}
	}
	b.cells[pa.Square.Index()] = NoPiece
	b.cells[pc.Square.Index()] = NoPiece
	pa.Square, pc.Square = aTo, cTo
	b.cells[aTo.Index()] = a
	b.cells[cTo.Index()] = c
	pa.MoveCount += delta
	pc.MoveCount += delta
	return nil
}

// Try moves mover to sq in place, with captured (or NoPiece) detached,
// evaluates probe, and reverts every change before returning probe's result.
func (b *Board) Try(mover PieceID, to Square, captured PieceID, probe func() bool) bool {
	m := b.pieces[mover]
	from := m.Square

	var cp *Piece
	var cpActive bool
	if captured != NoPiece {
		cp = b.pieces[captured]
		cpActive = cp.Active
		if b.cells[cp.Square.Index()] == captured {
			b.cells[cp.Square.Index()] = NoPiece
		}
		cp.Active = false
	}
	prev := b.cells[to.Index()]

	b.cells[from.Index()] = NoPiece
	b.cells[to.Index()] = mover
	m.Square = to

	defer func() {
		b.cells[to.Index()] = prev
		b.cells[from.Index()] = mover
		m.Square = from
		if cp != nil {
			cp.Active = cpActive
			if cpActive {
				b.cells[cp.Square.Index()] = captured
			}
		}
	}()
	return probe()
}

// Without hides an active piece for the duration of probe.
func (b *Board) Without(id PieceID, probe func() bool) bool {
	p := b.pieces[id]
	if !p.Active {
		return probe()
	}
	b.cells[p.Square.Index()] = NoPiece
	p.Active = false
	defer func() {
		p.Active = true
		b.cells[p.Square.Index()] = id
	}()
	return probe()
}

// Clone returns a deep copy. Handles are preserved, so records that refer to
// pieces by id stay valid against the copy.
func (b *Board) Clone() *Board {
	c := &Board{cells: b.cells, pieces: make([]*Piece, len(b.pieces))}
	for i, p := range b.pieces {
		cp := *p
		c.pieces[i] = &cp
	}
	return c
}

// Verify checks that cells and piece records agree.
func (b *Board) Verify() error {
	for i, id := range b.cells {
		if id == NoPiece {
			continue
		}
		p := b.Piece(id)
		if p == nil || !p.Active || p.Square.Index() != i {
			return fmt.Errorf("cell %d holds piece %d out of lockstep: %w", i, id, errors.ErrCorruptState)
		}
	}
	for _, p := range b.pieces {
		if p.Active && b.cells[p.Square.Index()] != p.ID {
			return fmt.Errorf("active %s %s not on %s: %w", p.Colour, p.Type, p.Square, errors.ErrCorruptState)
		}
	}
	return nil
}

// SetupInitialPosition places the standard starting position on an empty board.
func (b *Board) SetupInitialPosition() error {
	backRank := []PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for _, colour := range Colours {
		for file, pt := range backRank {
			if err := b.Place(b.Spawn(colour, pt).ID, MustSquare(BackRank(colour), file)); err != nil {
				return err
			}
		}
		for file := 0; file < BoardSize; file++ {
			if err := b.Place(b.Spawn(colour, Pawn).ID, MustSquare(PawnRank(colour), file)); err != nil {
				return err
			}
		}
	}
	return nil
}
