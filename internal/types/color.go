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

// Color represents constants for each Xiangqi side, Red and Black.
type Color uint8

// Constants for each color. Red moves first.
const (
	Red   Color = 0
	Black Color = 1
)

// Other returns the opposite color.
func (c Color) Other() Color {
	return c ^ 1
}

// IsValid checks if c represents a valid color.
func (c Color) IsValid() bool {
	return c < 2
}

// Str returns "w" for Red and "b" for Black, matching the FEN turn field
// (spec.md §6.1 — red is encoded as the conventional "white" side).
func (c Color) Str() string {
	switch c {
	case Red:
		return "w"
	case Black:
		return "b"
	default:
		panic(fmt.Sprintf("invalid color %d", c))
	}
}

// String returns a human-readable color name.
func (c Color) String() string {
	switch c {
	case Red:
		return "Red"
	case Black:
		return "Black"
	default:
		return "NoColor"
	}
}

// forwardDir is the rank delta a pawn of this color advances by, before
// and after crossing the river (always -1 for Red moving toward rank 0,
// +1 for Black moving toward rank 9).
var forwardDir = [2]int{-1, 1}

// Forward returns the rank delta this color's pawns advance by.
func (c Color) Forward() int {
	return forwardDir[c]
}

// BackRank returns the home rank (palace back row) for this color.
func (c Color) BackRank() int {
	if c == Red {
		return 9
	}
	return 0
}
