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

// PieceType is a set of constants for the seven Xiangqi piece types
// (spec.md §3).
type PieceType int8

//noinspection GoVarAndConstTypeMayBeOmitted
const (
	PtNone   PieceType = 0
	King     PieceType = 1 // General
	Advisor  PieceType = 2
	Elephant PieceType = 3
	Horse    PieceType = 4
	Rook     PieceType = 5
	Cannon   PieceType = 6
	Pawn     PieceType = 7
	PtLength PieceType = 8
)

var pieceTypeToString = [PtLength]string{"None", "King", "Advisor", "Elephant", "Horse", "Rook", "Cannon", "Pawn"}

// Str returns a human-readable piece type name.
func (pt PieceType) Str() string {
	return pieceTypeToString[pt]
}

// FEN letters, uppercase form; caller lower-cases for Black (spec.md §6.1).
var pieceTypeToChar = string("-KABNRCP")

// Char returns the uppercase FEN letter for the piece type.
func (pt PieceType) Char() byte {
	return pieceTypeToChar[pt]
}

// PieceTypeFromChar returns the PieceType for the given uppercase FEN
// letter, or PtNone if c is not one of K,A,B,N,R,C,P.
func PieceTypeFromChar(c byte) PieceType {
	for pt := King; pt < PtLength; pt++ {
		if pieceTypeToChar[pt] == c {
			return pt
		}
	}
	return PtNone
}

// IsValid checks if pt is a valid piece type.
func (pt PieceType) IsValid() bool {
	return pt > PtNone && pt < PtLength
}
