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

package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frankkopp/xiangqigo/internal/types"
)

func TestPutAndPieceAt(t *testing.T) {
	b := NewEmpty()
	sq := types.SquareOf(4, 9)
	b.Put(1, types.King, types.Red, sq)

	p, ok := b.PieceAt(sq)
	require.True(t, ok)
	assert.Equal(t, 1, p.ID)
	assert.Equal(t, types.King, p.Type)
	assert.Equal(t, types.Red, p.Color)
	assert.Equal(t, sq, b.KingSquare(types.Red))
	assert.Equal(t, 1, b.Len())
}

func TestPieceAtEmptyOrInvalidSquare(t *testing.T) {
	b := NewEmpty()
	_, ok := b.PieceAt(types.SquareOf(0, 0))
	assert.False(t, ok)

	_, ok = b.PieceAt(types.SqNone)
	assert.False(t, ok)
}

func TestRemove(t *testing.T) {
	b := NewEmpty()
	sq := types.SquareOf(0, 0)
	b.Put(5, types.Rook, types.Black, sq)
	require.Equal(t, 1, b.Len())

	b.Remove(5)
	_, ok := b.PieceAt(sq)
	assert.False(t, ok)
	assert.Equal(t, 0, b.Len())

	// Removing an id that was already removed is a harmless no-op.
	b.Remove(5)
	assert.Equal(t, 0, b.Len())
}

func TestMovePieceNoCapture(t *testing.T) {
	b := NewEmpty()
	from, to := types.SquareOf(1, 9), types.SquareOf(2, 7)
	b.Put(3, types.Horse, types.Red, from)

	captured, hadCapture := b.MovePiece(3, to)
	assert.False(t, hadCapture)
	assert.Equal(t, Piece{}, captured)

	_, stillAtFrom := b.PieceAt(from)
	assert.False(t, stillAtFrom)
	p, ok := b.PieceAt(to)
	require.True(t, ok)
	assert.Equal(t, 3, p.ID)
	assert.Equal(t, to, p.Square)
}

func TestMovePieceWithCapture(t *testing.T) {
	b := NewEmpty()
	from, to := types.SquareOf(0, 3), types.SquareOf(0, 6)
	b.Put(1, types.Pawn, types.Red, from)
	b.Put(2, types.Pawn, types.Black, to)

	captured, hadCapture := b.MovePiece(1, to)
	require.True(t, hadCapture)
	assert.Equal(t, 2, captured.ID)

	_, destinationOccupied := b.PieceAt(to)
	require.True(t, destinationOccupied)
	p, _ := b.PieceAt(to)
	assert.Equal(t, 1, p.ID, "the moving piece, not the captured one, occupies the destination")
	assert.Equal(t, 1, b.Len())
}

func TestMovePieceUpdatesKingSquare(t *testing.T) {
	b := NewEmpty()
	from, to := types.SquareOf(4, 9), types.SquareOf(3, 9)
	b.Put(1, types.King, types.Red, from)

	b.MovePiece(1, to)
	assert.Equal(t, to, b.KingSquare(types.Red))
}

func TestKingSquareInvalidWhenCaptured(t *testing.T) {
	b := NewEmpty()
	assert.False(t, b.KingSquare(types.Red).IsValid(), "no king placed yet")

	sq := types.SquareOf(4, 9)
	b.Put(1, types.King, types.Red, sq)
	b.Remove(1)
	assert.False(t, b.KingSquare(types.Red).IsValid(), "removing the king must clear kingSq")
}

func TestMovePieceCapturingKingClearsKingSquare(t *testing.T) {
	b := NewEmpty()
	kingSq := types.SquareOf(4, 0)
	b.Put(1, types.King, types.Black, kingSq)
	b.Put(2, types.Rook, types.Red, types.SquareOf(4, 5))

	captured, hadCapture := b.MovePiece(2, kingSq)
	require.True(t, hadCapture)
	assert.Equal(t, types.King, captured.Type)
	assert.False(t, b.KingSquare(types.Black).IsValid(), "capturing the king through MovePiece must clear kingSq")
}

func TestPiecesSnapshotIsIndependent(t *testing.T) {
	b := NewEmpty()
	b.Put(1, types.Rook, types.Red, types.SquareOf(0, 9))
	b.Put(2, types.Rook, types.Black, types.SquareOf(8, 0))

	snapshot := b.Pieces()
	require.Len(t, snapshot, 2)

	b.Remove(1)
	assert.Equal(t, 1, b.Len())
	assert.Len(t, snapshot, 2, "mutating the board must not affect a previously taken snapshot")
}

func TestMaxID(t *testing.T) {
	b := NewEmpty()
	assert.Equal(t, 0, b.MaxID())

	b.Put(7, types.Advisor, types.Red, types.SquareOf(3, 9))
	b.Put(3, types.Advisor, types.Red, types.SquareOf(5, 9))
	assert.Equal(t, 7, b.MaxID())
}

func TestClone(t *testing.T) {
	b := NewEmpty()
	sq := types.SquareOf(4, 9)
	b.Put(1, types.King, types.Red, sq)

	clone := b.Clone()
	require.Equal(t, b.Len(), clone.Len())
	assert.Equal(t, sq, clone.KingSquare(types.Red))

	clone.MovePiece(1, types.SquareOf(3, 9))
	assert.Equal(t, sq, b.KingSquare(types.Red), "mutating the clone must not affect the original")
	assert.Equal(t, types.SquareOf(3, 9), clone.KingSquare(types.Red))
}
