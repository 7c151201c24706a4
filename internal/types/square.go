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

import "fmt"

// Square represents one intersection on the 9x10 Xiangqi board.
//
// File runs 0..8 ('a'..'i'), Rank runs 0..9 with rank 0 being Black's
// back row (top of the board) and rank 9 Red's back row (spec.md §3).
// This is the internal coordinate system; it is distinct from the UCI
// rank convention used on the wire (see Move.UCI).
type Square uint8

const (
	numFiles = 9
	numRanks = 10

	// SqNone represents an invalid / off-board square.
	SqNone Square = numFiles * numRanks
)

// SquareOf returns the square for the given file and rank, or SqNone if
// either coordinate is out of range.
func SquareOf(file, rank int) Square {
	if file < 0 || file >= numFiles || rank < 0 || rank >= numRanks {
		return SqNone
	}
	return Square(rank*numFiles + file)
}

// IsValid reports whether sq addresses a real board square.
func (sq Square) IsValid() bool {
	return sq < SqNone
}

// File returns the file (0..8) of the square.
func (sq Square) File() int {
	return int(sq) % numFiles
}

// Rank returns the rank (0..9) of the square.
func (sq Square) Rank() int {
	return int(sq) / numFiles
}

// InPalace reports whether the square lies within c's palace: files 3-5,
// and ranks 0-2 for Black or 7-9 for Red (spec.md §3, GLOSSARY).
func (sq Square) InPalace(c Color) bool {
	if !sq.IsValid() {
		return false
	}
	f := sq.File()
	if f < 3 || f > 5 {
		return false
	}
	r := sq.Rank()
	if c == Red {
		return r >= 7 && r <= 9
	}
	return r >= 0 && r <= 2
}

// CrossedRiver reports whether a piece of color c standing on sq has
// already crossed the river (rank 4/5 divide, spec.md §3, GLOSSARY).
func (sq Square) CrossedRiver(c Color) bool {
	r := sq.Rank()
	if c == Red {
		return r <= 4
	}
	return r >= 5
}

// String returns a debug representation "file,rank" (e.g. "4,7").
// This is not the UCI wire form - see Move.UCI for that.
func (sq Square) String() string {
	if !sq.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%d,%d", sq.File(), sq.Rank())
}
