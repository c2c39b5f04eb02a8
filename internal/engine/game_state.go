package engine

import (
	"sort"

	"github.com/lgbarn/chessrules-go/internal/chess"
)

// PlayerState classifies colour's position: ok, in check, checkmated or
// stalemated. It does not depend on whose turn it is.
func (g *Game) PlayerState(colour chess.Colour) PlayerState {
	king := g.kingOf(colour)
	checkers := g.attackers(king.Square, colour.Opposite())

	if len(checkers) == 0 {
		if g.hasLegalMove(colour) {
			return StateOK
		}
		return StateStalemate
	}
	if g.pieceCanMove(king) {
		return StateInCheck
	}
	// A double check can only be answered by the king.
	if len(checkers) == 1 && g.canAnswerCheck(colour, king, checkers[0]) {
		return StateInCheck
	}
	return StateCheckmate
}

// canAnswerCheck reports whether a non-king piece can capture the single
// checker or interpose between it and the king.
func (g *Game) canAnswerCheck(colour chess.Colour, king, checker *chess.Piece) bool {
	targets := []chess.Square{checker.Square}
	if s, ok := ruleFor(checker).(slider); ok {
		if dr, df, aligned := s.direction(checker.Square, king.Square); aligned {
			sq, _ := checker.Square.Offset(dr, df)
			for sq != king.Square {
				targets = append(targets, sq)
				sq, _ = sq.Offset(dr, df)
			}
		}
	}
	if checker.Type == chess.Pawn {
		if pawn, passed, ok := g.enPassantTarget(); ok && pawn == checker.ID {
			targets = append(targets, passed)
		}
	}

	for _, p := range g.board.ActivePieces(colour) {
		if p.Type == chess.King {
			continue
		}
		for _, sq := range targets {
			if g.validate(p, sq).Moved() {
				return true
			}
		}
	}
	return false
}

// hasLegalMove reports whether any piece of colour has a legal move.
func (g *Game) hasLegalMove(colour chess.Colour) bool {
	for _, p := range g.board.ActivePieces(colour) {
		if g.pieceCanMove(p) {
			return true
		}
	}
	return false
}

func (g *Game) pieceCanMove(p *chess.Piece) bool {
	for _, sq := range ruleFor(p).candidates(g.board, p) {
		if g.validate(p, sq).Moved() {
			return true
		}
	}
	return false
}

// HasLegalMoves reports whether the side to move has any legal move.
func (g *Game) HasLegalMoves() bool {
	return g.hasLegalMove(g.turn)
}

// LegalMoves returns the legal destinations of the piece on from, sorted
// by square index. It returns nil for an empty square or a finished game.
// Moves are listed regardless of whose turn it is.
func (g *Game) LegalMoves(from chess.Square) []chess.Square {
	if !g.active {
		return nil
	}
	p := g.board.At(from)
	if p == nil {
		return nil
	}
	seen := make(map[chess.Square]bool)
	var out []chess.Square
	for _, sq := range ruleFor(p).candidates(g.board, p) {
		if seen[sq] || !g.validate(p, sq).Moved() {
			continue
		}
		seen[sq] = true
		out = append(out, sq)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index() < out[j].Index() })
	return out
}
