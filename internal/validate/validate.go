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

// Package validate decides whether a proposed move is legal: pseudo-legal
// per the mover's piece geometry (internal/movegen) and does not leave
// the mover's own king in check or facing the opposing king down an open
// file (internal/check). This is the local-rule fallback referenced in
// spec.md §4.3 and §4.6 when the external engine is unavailable.
package validate

import (
	"errors"

	"github.com/frankkopp/xiangqigo/internal/board"
	"github.com/frankkopp/xiangqigo/internal/check"
	"github.com/frankkopp/xiangqigo/internal/movegen"
	"github.com/frankkopp/xiangqigo/internal/types"
)

// Reason enumerates why a move was rejected, for surfacing to callers
// that want to explain a refusal rather than just deny it (spec.md §7).
type Reason string

const (
	ReasonNone            Reason = ""
	ReasonNoPiece         Reason = "no piece on from-square"
	ReasonWrongTurn       Reason = "piece does not belong to the side to move"
	ReasonIllegalGeometry Reason = "move is not pseudo-legal for this piece"
	ReasonSelfCheck       Reason = "move would leave own king in check"
	ReasonKingsFacing     Reason = "move would leave the kings facing each other"
)

// ErrNoKing describes a board that has no king for the color being
// validated; this can only happen for a board already past its terminal
// state (spec.md §3 invariant 4). No function in this package returns
// it: IsLegal reports that case as ErrKingCapturedReason.
var ErrNoKing = errors.New("validate: board has no king for this color")

// IsLegal reports whether m is legal for the side to move turn on b, and
// if not, why. It never mutates b.
func IsLegal(b *board.Board, turn types.Color, m types.Move) (bool, Reason) {
	mover, ok := b.PieceAt(m.From)
	if !ok {
		return false, ReasonNoPiece
	}
	if mover.Color != turn {
		return false, ReasonWrongTurn
	}
	if !pseudoLegal(b, mover, m) {
		return false, ReasonIllegalGeometry
	}

	after := b.Clone()
	after.MovePiece(mover.ID, m.To)

	if !after.KingSquare(turn).IsValid() {
		return false, ErrKingCapturedReason
	}
	if check.KingsFacing(after) {
		return false, ReasonKingsFacing
	}
	if check.InCheck(after, turn) {
		return false, ReasonSelfCheck
	}
	return true, ReasonNone
}

// ErrKingCapturedReason signals the (illegal, should-never-happen) case
// where simulating a move captured the mover's own king, which would
// only occur from a corrupt board.
const ErrKingCapturedReason Reason = "own king missing after move"

func pseudoLegal(b *board.Board, mover board.Piece, m types.Move) bool {
	for _, cand := range movegen.PieceMoves(b, mover) {
		if cand.To == m.To {
			return true
		}
	}
	return false
}

// LegalMoves returns every legal move available to color c on b.
func LegalMoves(b *board.Board, c types.Color) []types.Move {
	var out []types.Move
	for _, m := range movegen.PseudoLegalMoves(b, c) {
		if ok, _ := IsLegal(b, c, m); ok {
			out = append(out, m)
		}
	}
	return out
}

// LegalMovesFrom returns every legal move originating at sq for whichever
// color currently occupies it, or nil if sq is empty or it is not that
// color's turn.
func LegalMovesFrom(b *board.Board, turn types.Color, sq types.Square) []types.Move {
	mover, ok := b.PieceAt(sq)
	if !ok || mover.Color != turn {
		return nil
	}
	var out []types.Move
	for _, m := range movegen.PieceMoves(b, mover) {
		if ok, _ := IsLegal(b, turn, m); ok {
			out = append(out, m)
		}
	}
	return out
}

// HasAnyLegalMove reports whether c has at least one legal move on b,
// used to detect checkmate/stalemate (spec.md §4.5 terminal detection).
func HasAnyLegalMove(b *board.Board, c types.Color) bool {
	for _, p := range b.Pieces() {
		if p.Color != c {
			continue
		}
		for _, m := range movegen.PieceMoves(b, p) {
			if ok, _ := IsLegal(b, c, m); ok {
				return true
			}
		}
	}
	return false
}
