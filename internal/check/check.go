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

// Package check detects whether a king is under attack, including the
// flying-general rule that forbids two bare kings from facing each other
// down an open file (spec.md §4.4).
package check

import (
	"github.com/frankkopp/xiangqigo/internal/board"
	"github.com/frankkopp/xiangqigo/internal/movegen"
	"github.com/frankkopp/xiangqigo/internal/types"
)

// InCheck reports whether c's king is currently attacked on b. If c's
// king has been captured this returns false; callers that need terminal
// detection check board.Board.KingSquare separately (spec.md §3
// invariant 4).
func InCheck(b *board.Board, c types.Color) bool {
	kingSq := b.KingSquare(c)
	if !kingSq.IsValid() {
		return false
	}
	return SquareAttackedBy(b, kingSq, c.Other())
}

// SquareAttackedBy reports whether any piece of color attacker threatens
// sq. This covers every piece type's capture geometry, including the
// cannon's screen requirement and the kings-facing flying-general rule.
func SquareAttackedBy(b *board.Board, sq types.Square, attacker types.Color) bool {
	for _, p := range b.Pieces() {
		if p.Color != attacker {
			continue
		}
		for _, m := range movegen.PieceMoves(b, p) {
			if m.To == sq {
				return true
			}
		}
	}
	if flyingGeneralThreat(b, sq, attacker) {
		return true
	}
	return false
}

// flyingGeneralThreat reports whether, were attacker's king to stand at
// sq's file, it would face the defender's king on an open file with no
// pieces between them. Since the kings-facing rule makes each bare king
// attack the other directly, this only applies when sq itself holds (or
// would hold) a king; we check it generically by looking at sq's file
// for the attacking king with nothing but empty squares to the
// defender's king (spec.md §4.4, GLOSSARY "flying general").
func flyingGeneralThreat(b *board.Board, sq types.Square, attacker types.Color) bool {
	attackerKingSq := b.KingSquare(attacker)
	if !attackerKingSq.IsValid() || attackerKingSq.File() != sq.File() {
		return false
	}
	lo, hi := attackerKingSq.Rank(), sq.Rank()
	if lo > hi {
		lo, hi = hi, lo
	}
	for r := lo + 1; r < hi; r++ {
		if _, occupied := b.PieceAt(types.SquareOf(sq.File(), r)); occupied {
			return false
		}
	}
	return true
}

// KingsFacing reports whether the two kings stand on the same file with
// no piece between them - an illegal position regardless of whose turn
// it is (spec.md §4.4).
func KingsFacing(b *board.Board) bool {
	redSq := b.KingSquare(types.Red)
	blackSq := b.KingSquare(types.Black)
	if !redSq.IsValid() || !blackSq.IsValid() || redSq.File() != blackSq.File() {
		return false
	}
	lo, hi := redSq.Rank(), blackSq.Rank()
	if lo > hi {
		lo, hi = hi, lo
	}
	for r := lo + 1; r < hi; r++ {
		if _, occupied := b.PieceAt(types.SquareOf(redSq.File(), r)); occupied {
			return false
		}
	}
	return true
}
