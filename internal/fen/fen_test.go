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

package fen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frankkopp/xiangqigo/internal/types"
)

func TestParseStartFen(t *testing.T) {
	pos, err := Parse(StartFen)
	require.NoError(t, err)
	assert.Equal(t, 32, pos.Board.Len())
	assert.Equal(t, types.Red, pos.Turn)

	king, ok := pos.Board.PieceAt(types.SquareOf(4, 9))
	require.True(t, ok)
	assert.Equal(t, types.King, king.Type)
	assert.Equal(t, types.Red, king.Color)

	blackKing, ok := pos.Board.PieceAt(types.SquareOf(4, 0))
	require.True(t, ok)
	assert.Equal(t, types.King, blackKing.Type)
	assert.Equal(t, types.Black, blackKing.Color)
}

func TestParseRejectsMalformedFen(t *testing.T) {
	_, err := Parse("not-a-fen")
	assert.Error(t, err)

	_, err = Parse("rnbakabnr/9/1c5c1/p1p1p1p1p/9/9/P1P1P1P1P/1C5C1/9 w - - 0 1")
	assert.Error(t, err, "9 rank segments instead of 10 must be rejected")
}

func TestSerializeRoundTrip(t *testing.T) {
	pos, err := Parse(StartFen)
	require.NoError(t, err)
	out := Serialize(pos.Board, pos.Turn, pos.HalfmoveClock, pos.FullmoveNum)
	assert.Equal(t, StartFen, out)
}

func TestSerializeThenParseIsStable(t *testing.T) {
	pos, err := Parse(StartFen)
	require.NoError(t, err)
	out := Serialize(pos.Board, pos.Turn, pos.HalfmoveClock, pos.FullmoveNum)
	pos2, err := Parse(out)
	require.NoError(t, err)
	assert.Equal(t, pos.Board.Len(), pos2.Board.Len())
	assert.Equal(t, Serialize(pos2.Board, pos2.Turn, pos2.HalfmoveClock, pos2.FullmoveNum), out)
}

// A horse moving from (1,9) to (2,7) (UCI b0 to c2) should keep its id
// across a reparse of the resulting FEN: the exact-square match in phase
// one of Reparse must find it immediately.
func TestReparsePreservesIdentityAcrossNonCapturingMove(t *testing.T) {
	pos, err := Parse(StartFen)
	require.NoError(t, err)

	horseSq := types.SquareOf(1, 9) // Red horse, back rank
	horse, ok := pos.Board.PieceAt(horseSq)
	require.True(t, ok)
	require.Equal(t, types.Horse, horse.Type)

	pos.Board.MovePiece(horse.ID, types.SquareOf(2, 7))
	movedFen := Serialize(pos.Board, pos.Turn, pos.HalfmoveClock, pos.FullmoveNum)

	reparsed, err := Reparse(pos.Board, movedFen)
	require.NoError(t, err)

	movedHorse, ok := reparsed.Board.PieceAt(types.SquareOf(2, 7))
	require.True(t, ok)
	assert.Equal(t, horse.ID, movedHorse.ID, "identity must survive a reparse of the same position")
}

// When a FEN is edited externally to relocate a piece of the same kind to
// a nearby empty square (simulating a hand-edited position), Reparse
// should match it to the previously nearest same-kind piece rather than
// minting a brand new id, per the nearest-same-kind rule.
func TestReparseNearestSameKindFallback(t *testing.T) {
	prev, err := Parse(StartFen)
	require.NoError(t, err)

	// Move the b2 cannon (file 1, rank 7) two files over to d2 externally,
	// leaving its old square empty, so Reparse sees no exact match.
	edited := "rnbakabnr/9/1c5c1/p1p1p1p1p/9/9/P1P1P1P1P/3C3C1/9/RNBAKABNR w - - 0 1"
	reparsed, err := Reparse(prev.Board, edited)
	require.NoError(t, err)

	relocatedCannon, ok := reparsed.Board.PieceAt(types.SquareOf(3, 7))
	require.True(t, ok)
	assert.Equal(t, types.Cannon, relocatedCannon.Type)

	originalCannon, ok := prev.Board.PieceAt(types.SquareOf(1, 7))
	require.True(t, ok)
	assert.Equal(t, originalCannon.ID, relocatedCannon.ID, "nearest same-kind piece should keep its id")
}
