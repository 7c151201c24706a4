/*
 * MIT License
 *
 * Copyright (c) 2018-2020 Frank Kopp
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

// Package movegen generates pseudo-legal moves for each piece type on a
// board.Board, per the per-piece geometry in spec.md §4.2. It does not
// check whether a move leaves the mover's own king in check - that is
// internal/check's job, wired in by internal/validate.
package movegen

import (
	"github.com/op/go-logging"

	myLogging "github.com/frankkopp/xiangqigo/xqlogging"

	"github.com/frankkopp/xiangqigo/internal/board"
	"github.com/frankkopp/xiangqigo/internal/types"
)

var log *logging.Logger

func init() {
	log = myLogging.GetLog()
}

// offset is a (file, rank) displacement.
type offset struct{ df, dr int }

var kingOffsets = []offset{{0, 1}, {0, -1}, {1, 0}, {-1, 0}}
var advisorOffsets = []offset{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
var elephantOffsets = []offset{{2, 2}, {2, -2}, {-2, 2}, {-2, -2}}

// horseLegs maps each of the horse's eight destinations to the
// intervening "leg" square that, if occupied, blocks the jump
// (spec.md §4.2, GLOSSARY "horse leg").
var horseLegs = []struct {
	to  offset
	leg offset
}{
	{offset{1, 2}, offset{0, 1}},
	{offset{-1, 2}, offset{0, 1}},
	{offset{1, -2}, offset{0, -1}},
	{offset{-1, -2}, offset{0, -1}},
	{offset{2, 1}, offset{1, 0}},
	{offset{2, -1}, offset{1, 0}},
	{offset{-2, 1}, offset{-1, 0}},
	{offset{-2, -1}, offset{-1, 0}},
}

var rookDirs = []offset{{0, 1}, {0, -1}, {1, 0}, {-1, 0}}

// PseudoLegalMoves returns every pseudo-legal move available to color c on
// b, without regard to whether the move leaves c's own king in check.
func PseudoLegalMoves(b *board.Board, c types.Color) []types.Move {
	var moves []types.Move
	for _, p := range b.Pieces() {
		if p.Color != c {
			continue
		}
		moves = append(moves, PieceMoves(b, p)...)
	}
	return moves
}

// PieceMoves dispatches to the per-piece-type generator for p.
func PieceMoves(b *board.Board, p board.Piece) []types.Move {
	switch p.Type {
	case types.King:
		return kingMoves(b, p)
	case types.Advisor:
		return advisorMoves(b, p)
	case types.Elephant:
		return elephantMoves(b, p)
	case types.Horse:
		return horseMoves(b, p)
	case types.Rook:
		return rookMoves(b, p)
	case types.Cannon:
		return cannonMoves(b, p)
	case types.Pawn:
		return pawnMoves(b, p)
	default:
		return nil
	}
}

func friendlyOccupied(b *board.Board, sq types.Square, c types.Color) bool {
	occ, ok := b.PieceAt(sq)
	return ok && occ.Color == c
}

func addIfOk(moves []types.Move, from, to types.Square, b *board.Board, c types.Color) []types.Move {
	if !to.IsValid() || friendlyOccupied(b, to, c) {
		return moves
	}
	return append(moves, types.Move{From: from, To: to})
}

// kingMoves: one step orthogonally, confined to the palace (spec.md §4.2).
func kingMoves(b *board.Board, p board.Piece) []types.Move {
	var moves []types.Move
	from := p.Square
	for _, o := range kingOffsets {
		to := types.SquareOf(from.File()+o.df, from.Rank()+o.dr)
		if !to.IsValid() || !to.InPalace(p.Color) {
			continue
		}
		moves = addIfOk(moves, from, to, b, p.Color)
	}
	return moves
}

// advisorMoves: one step diagonally, confined to the palace.
func advisorMoves(b *board.Board, p board.Piece) []types.Move {
	var moves []types.Move
	from := p.Square
	for _, o := range advisorOffsets {
		to := types.SquareOf(from.File()+o.df, from.Rank()+o.dr)
		if !to.IsValid() || !to.InPalace(p.Color) {
			continue
		}
		moves = addIfOk(moves, from, to, b, p.Color)
	}
	return moves
}

// elephantMoves: two steps diagonally, never crossing the river, blocked
// by an occupied "eye" at the midpoint.
func elephantMoves(b *board.Board, p board.Piece) []types.Move {
	var moves []types.Move
	from := p.Square
	for _, o := range elephantOffsets {
		to := types.SquareOf(from.File()+o.df, from.Rank()+o.dr)
		if !to.IsValid() {
			continue
		}
		if to.CrossedRiver(p.Color) {
			continue
		}
		eye := types.SquareOf(from.File()+o.df/2, from.Rank()+o.dr/2)
		if _, occupied := b.PieceAt(eye); occupied {
			continue
		}
		moves = addIfOk(moves, from, to, b, p.Color)
	}
	return moves
}

// horseMoves: one step orthogonal then one diagonal, blocked by an
// occupied leg square (spec.md §4.2, GLOSSARY "horse leg").
func horseMoves(b *board.Board, p board.Piece) []types.Move {
	var moves []types.Move
	from := p.Square
	for _, hm := range horseLegs {
		leg := types.SquareOf(from.File()+hm.leg.df, from.Rank()+hm.leg.dr)
		if _, occupied := b.PieceAt(leg); occupied {
			continue
		}
		to := types.SquareOf(from.File()+hm.to.df, from.Rank()+hm.to.dr)
		moves = addIfOk(moves, from, to, b, p.Color)
	}
	return moves
}

// rookMoves: any distance orthogonally, stopping at the first occupied
// square (captured if it's an enemy).
func rookMoves(b *board.Board, p board.Piece) []types.Move {
	var moves []types.Move
	from := p.Square
	for _, d := range rookDirs {
		for i := 1; ; i++ {
			to := types.SquareOf(from.File()+d.df*i, from.Rank()+d.dr*i)
			if !to.IsValid() {
				break
			}
			occ, ok := b.PieceAt(to)
			if !ok {
				moves = append(moves, types.Move{From: from, To: to})
				continue
			}
			if occ.Color != p.Color {
				moves = append(moves, types.Move{From: from, To: to})
			}
			break
		}
	}
	return moves
}

// cannonMoves: slides like a rook for non-captures; to capture it must
// jump exactly one screening piece of either color (spec.md §4.2,
// GLOSSARY "cannon screen").
func cannonMoves(b *board.Board, p board.Piece) []types.Move {
	var moves []types.Move
	from := p.Square
	for _, d := range rookDirs {
		foundScreen := false
		for i := 1; ; i++ {
			to := types.SquareOf(from.File()+d.df*i, from.Rank()+d.dr*i)
			if !to.IsValid() {
				break
			}
			occ, ok := b.PieceAt(to)
			if !foundScreen {
				if !ok {
					moves = append(moves, types.Move{From: from, To: to})
					continue
				}
				foundScreen = true
				continue
			}
			if !ok {
				continue
			}
			if occ.Color != p.Color {
				moves = append(moves, types.Move{From: from, To: to})
			}
			break
		}
	}
	return moves
}

// pawnMoves: one step forward always; one step sideways only after
// crossing the river; never backward (spec.md §4.2).
func pawnMoves(b *board.Board, p board.Piece) []types.Move {
	var moves []types.Move
	from := p.Square
	fwd := from.Rank() + p.Color.Forward()
	moves = addIfOk(moves, from, types.SquareOf(from.File(), fwd), b, p.Color)
	if from.CrossedRiver(p.Color) {
		moves = addIfOk(moves, from, types.SquareOf(from.File()-1, from.Rank()), b, p.Color)
		moves = addIfOk(moves, from, types.SquareOf(from.File()+1, from.Rank()), b, p.Color)
	}
	return moves
}
