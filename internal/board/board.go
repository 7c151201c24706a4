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

// Package board holds the authoritative Xiangqi board representation:
// a set of live pieces addressed both by square and by a stable identity
// that survives FEN re-parses (spec.md §3, §4.1).
package board

import (
	"fmt"

	"github.com/frankkopp/xiangqigo/internal/assert"
	"github.com/frankkopp/xiangqigo/internal/types"
)

// Piece is one live entity on the board: its kind, its current square and
// an opaque id that is stable across non-capturing moves and across
// identity-preserving FEN re-parses (spec.md §3).
type Piece struct {
	ID     int
	Type   types.PieceType
	Color  types.Color
	Square types.Square
}

// numSquares is the number of intersections on a 9x10 Xiangqi board.
const numSquares = 9 * 10

// Board is the live piece set. It is not safe for concurrent use; all
// mutation happens on the single control thread (spec.md §5).
type Board struct {
	bySquare [numSquares]int // square -> piece id, or 0 if empty
	pieces   map[int]*Piece
	kingSq   [2]types.Square
}

// NewEmpty returns a Board with no pieces.
func NewEmpty() *Board {
	return &Board{pieces: make(map[int]*Piece), kingSq: [2]types.Square{types.SqNone, types.SqNone}}
}

// PieceAt returns the piece occupying sq and true, or the zero Piece and
// false if sq is empty or invalid.
func (b *Board) PieceAt(sq types.Square) (Piece, bool) {
	if !sq.IsValid() {
		return Piece{}, false
	}
	id := b.bySquare[sq]
	if id == 0 {
		return Piece{}, false
	}
	p := b.pieces[id]
	return *p, true
}

// Put places a new piece of the given id/type/color on sq. In builds with
// the "debug" tag it panics (via assert) if sq is already occupied or id
// is already in use; other builds do not check - callers (fen.Parse,
// identity-preserving reparse) are expected to never violate this.
func (b *Board) Put(id int, pt types.PieceType, c types.Color, sq types.Square) {
	if assert.DEBUG {
		assert.Assert(sq.IsValid(), "Put: invalid square")
		assert.Assert(b.bySquare[sq] == 0, "Put: square %v already occupied", sq)
		assert.Assert(b.pieces[id] == nil, "Put: id %d already in use", id)
	}
	p := &Piece{ID: id, Type: pt, Color: c, Square: sq}
	b.pieces[id] = p
	b.bySquare[sq] = id
	if pt == types.King {
		b.kingSq[c] = sq
	}
}

// Remove deletes the piece with the given id from the board. Removing a
// king clears its kingSq entry so KingSquare reports SqNone afterward
// (spec.md §3 invariant 4: a captured king's absence must be observable).
func (b *Board) Remove(id int) {
	p, ok := b.pieces[id]
	if !ok {
		return
	}
	delete(b.pieces, id)
	b.bySquare[p.Square] = 0
	if p.Type == types.King {
		b.kingSq[p.Color] = types.SqNone
	}
}

// MovePiece relocates the piece with the given id to "to", capturing and
// removing whatever occupies "to" first (if anything). Returns the
// captured piece and true, or the zero Piece and false if "to" was empty.
func (b *Board) MovePiece(id int, to types.Square) (Piece, bool) {
	p, ok := b.pieces[id]
	if assert.DEBUG {
		assert.Assert(ok, "MovePiece: unknown id %d", id)
	}
	captured, hadCapture := b.PieceAt(to)
	if hadCapture {
		b.Remove(captured.ID)
	}
	b.bySquare[p.Square] = 0
	p.Square = to
	b.bySquare[to] = id
	if p.Type == types.King {
		b.kingSq[p.Color] = to
	}
	return captured, hadCapture
}

// KingSquare returns the square of c's king, or types.SqNone if it has
// been captured (spec.md §3 invariant 4: absence forces terminal state).
func (b *Board) KingSquare(c types.Color) types.Square {
	return b.kingSq[c]
}

// Pieces returns a snapshot slice of all live pieces. The caller owns the
// returned slice; mutating it does not affect the board.
func (b *Board) Pieces() []Piece {
	out := make([]Piece, 0, len(b.pieces))
	for _, p := range b.pieces {
		out = append(out, *p)
	}
	return out
}

// Len returns the number of live pieces.
func (b *Board) Len() int {
	return len(b.pieces)
}

// MaxID returns the highest id currently in use, or 0 if the board is
// empty. Used by the identity-preserving reparse (internal/fen) to seed
// fresh id assignment per spec.md §4.1 rule 3.
func (b *Board) MaxID() int {
	max := 0
	for id := range b.pieces {
		if id > max {
			max = id
		}
	}
	return max
}

// Clone returns a deep copy of the board, suitable for local validation
// that must not mutate the authoritative state.
func (b *Board) Clone() *Board {
	nb := NewEmpty()
	nb.kingSq = b.kingSq
	for id, p := range b.pieces {
		cp := *p
		nb.pieces[id] = &cp
		nb.bySquare[cp.Square] = id
	}
	return nb
}

func (b *Board) String() string {
	return fmt.Sprintf("Board{%d pieces}", len(b.pieces))
}
