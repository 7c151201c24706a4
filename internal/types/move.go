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

package types

// Move is a proposed or executed relocation of the piece on From to To.
// It carries no captured-piece information itself; callers that need it
// look up the occupant of To before applying the move (board.Board does
// this in MovePiece).
type Move struct {
	From Square
	To   Square
}

// NoMove represents the absence of a move.
var NoMove = Move{From: SqNone, To: SqNone}

// IsValid reports whether both endpoints are valid and distinct.
func (m Move) IsValid() bool {
	return m.From.IsValid() && m.To.IsValid() && m.From != m.To
}

// UCI returns the 4-character UCI encoding of the move: file letters
// 'a'..'i', rank digits where UCI rank = 9 - internal rank, i.e. rank 0
// is Red's baseline (spec.md §4.6, §6.2, GLOSSARY).
func (m Move) UCI() string {
	return SquareToUCI(m.From) + SquareToUCI(m.To)
}

// SquareToUCI renders a single square in UCI file/rank notation.
func SquareToUCI(sq Square) string {
	if !sq.IsValid() {
		return "--"
	}
	file := byte('a' + sq.File())
	rank := byte('0' + (9 - sq.Rank()))
	return string([]byte{file, rank})
}

// SquareFromUCI parses a two-character UCI square, or SqNone if it is
// malformed.
func SquareFromUCI(s string) Square {
	if len(s) != 2 {
		return SqNone
	}
	file := int(s[0] - 'a')
	uciRank := int(s[1] - '0')
	if file < 0 || file >= numFiles || uciRank < 0 || uciRank > 9 {
		return SqNone
	}
	return SquareOf(file, 9-uciRank)
}

// MoveFromUCI parses a 4-character UCI move string, or NoMove if it does
// not decode to two valid squares.
func MoveFromUCI(s string) Move {
	if len(s) != 4 {
		return NoMove
	}
	from := SquareFromUCI(s[0:2])
	to := SquareFromUCI(s[2:4])
	if from == SqNone || to == SqNone {
		return NoMove
	}
	return Move{From: from, To: to}
}
