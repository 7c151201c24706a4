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

// Kind combines a PieceType and a Color into a single comparable value,
// the way a FEN letter identifies both at once. It carries no board
// position or identity - see board.Piece for the identity-tracked entity.
type Kind int8

// NoKind represents an empty square.
const NoKind Kind = 0

// MakeKind builds a Kind from a PieceType and Color.
func MakeKind(pt PieceType, c Color) Kind {
	if pt == PtNone {
		return NoKind
	}
	return Kind(int(pt) + int(c)*8)
}

// Type returns the PieceType of the kind.
func (k Kind) Type() PieceType {
	return PieceType(int(k) % 8)
}

// Color returns the Color of the kind.
func (k Kind) Color() Color {
	return Color(int(k) / 8)
}

// Char returns the FEN character for the kind: uppercase for Red,
// lowercase for Black (spec.md §6.1).
func (k Kind) Char() byte {
	c := k.Type().Char()
	if k.Color() == Black {
		return c + ('a' - 'A')
	}
	return c
}

// KindFromChar returns the Kind for a FEN piece letter, or NoKind if c
// is not a recognized letter.
func KindFromChar(c byte) Kind {
	if c >= 'a' && c <= 'z' {
		pt := PieceTypeFromChar(c - ('a' - 'A'))
		if pt == PtNone {
			return NoKind
		}
		return MakeKind(pt, Black)
	}
	pt := PieceTypeFromChar(c)
	if pt == PtNone {
		return NoKind
	}
	return MakeKind(pt, Red)
}
