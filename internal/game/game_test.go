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

package game

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frankkopp/xiangqigo/internal/fen"
	"github.com/frankkopp/xiangqigo/internal/types"
)

// erroringEngine simulates an engine that cannot answer IsMoveLegal
// (e.g. one that doesn't speak the "go legal" extension), so Move must
// fall back to the local validator rather than rejecting everything.
type erroringEngine struct{}

func (erroringEngine) IsMoveLegal(string, string) (bool, string, error) {
	return false, "", errors.New("engine: no legalmoves reply")
}

func (erroringEngine) Evaluate(string) (int, error) {
	return 0, errors.New("unused")
}

// Scenario A: legal opening move.
func TestOpeningCannonMove(t *testing.T) {
	c, err := New("", false, 0, nil)
	require.NoError(t, err)

	ok := c.Move(1, 7, 4, 7)
	assert.True(t, ok)
	assert.Equal(t, types.Black, c.Turn())
	assert.Equal(t, []MoveRecord{{UCI: "b2e2", Capture: false}}, c.MoveHistory())
}

// Scenario B: blocked horse leg rejects the move and leaves state intact.
func TestBlockedHorseLegLeavesBoardUnchanged(t *testing.T) {
	blockedFEN := "rnbakabnr/9/1c5c1/p1p1p1p1p/9/9/P1P1P1P1P/1C5C1/1P7/RNBAKABNR w - - 0 1"
	c, err := New(blockedFEN, false, 0, nil)
	require.NoError(t, err)

	before := c.FEN()
	ok := c.Move(1, 9, 2, 7)
	assert.False(t, ok, "leg square file1,rank8 is occupied by a red pawn")
	assert.Equal(t, before, c.FEN())
	assert.Empty(t, c.MoveHistory())
}

// Scenario D: undo restores the exact prior FEN and empties move history.
func TestUndoRestoresExactly(t *testing.T) {
	c, err := New("", false, 0, nil)
	require.NoError(t, err)
	f0 := c.FEN()

	require.True(t, c.Move(7, 7, 4, 7))
	require.NotEqual(t, f0, c.FEN())

	ok := c.Undo()
	assert.True(t, ok)
	assert.Equal(t, f0, c.FEN())
	assert.Equal(t, types.Red, c.Turn())
	assert.Empty(t, c.MoveHistory())
}

// Scenario E: a move that gives check sets the pending "check"
// notification, which is then drained exactly once.
func TestCheckNotificationFiredOnce(t *testing.T) {
	// Black rook slides from file0,rank3 onto file4,rank3, lining up an
	// open file straight to the red king at file4,rank9.
	checkingFEN := "3k5/9/9/r8/9/9/9/9/9/4K4 b - - 0 1"
	c, err := New(checkingFEN, false, 0, nil)
	require.NoError(t, err)

	require.True(t, c.Move(0, 3, 4, 3))
	assert.Equal(t, types.Red, c.Turn())
	assert.Equal(t, "check", c.ConsumeNotification())
	assert.Equal(t, "", c.ConsumeNotification())
}

func TestResetRestoresInitialFen(t *testing.T) {
	c, err := New("", false, 0, nil)
	require.NoError(t, err)
	f0 := c.FEN()

	require.True(t, c.Move(1, 7, 4, 7))
	c.Reset()

	assert.Equal(t, f0, c.FEN())
	assert.Empty(t, c.MoveHistory())
	assert.Len(t, c.FenHistory(), 1)
}

func TestListenerPanicIsolatesOtherListeners(t *testing.T) {
	c, err := New("", false, 0, nil)
	require.NoError(t, err)

	secondCalled := false
	c.OnStateChanged(func() { panic("boom") })
	c.OnStateChanged(func() { secondCalled = true })

	require.True(t, c.Move(1, 7, 4, 7))
	assert.True(t, secondCalled)
}

// When the engine errors on IsMoveLegal (spec.md §4.6 layer 2), a
// legal move must still be accepted via the local validator fallback
// (layer 3) rather than rejected outright.
func TestEngineErrorFallsBackToLocalValidator(t *testing.T) {
	c, err := New("", true, 0, erroringEngine{})
	require.NoError(t, err)

	ok := c.Move(1, 7, 4, 7)
	assert.True(t, ok, "a legal move must be accepted via the local validator when the engine cannot determine legality")
	assert.Equal(t, types.Black, c.Turn())
}

func TestLegalTargetsIsUIHintOnly(t *testing.T) {
	c, err := New(fen.StartFen, false, 0, nil)
	require.NoError(t, err)

	before := c.FEN()
	targets := c.LegalTargets(1, 9)
	assert.NotEmpty(t, targets)
	assert.Equal(t, before, c.FEN(), "LegalTargets must not mutate state")
	assert.Empty(t, c.MoveHistory())
}
