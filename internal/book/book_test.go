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

package book

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frankkopp/xiangqigo/internal/types"
)

// Scenario F: given [{m:"h2e2",c:3},{m:"b2e2",c:1}], draw=2 selects
// "h2e2" (cumulative 3 covers [0,3)); draw=3 selects "b2e2".
func TestSampleWeightedSelectionDeterminism(t *testing.T) {
	b := New()
	b.red = []Candidate{{Move: "h2e2", Count: 3}, {Move: "b2e2", Count: 1}}
	b.initialized = true

	move, err := b.Sample(types.Red, 2)
	require.NoError(t, err)
	assert.Equal(t, "h2e2", move)

	move, err = b.Sample(types.Red, 3)
	require.NoError(t, err)
	assert.Equal(t, "b2e2", move)
}

func TestSampleEmptyReturnsErrEmpty(t *testing.T) {
	b := New()
	_, err := b.Sample(types.Red, 0)
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestLoadSingleSideReflectsForBlack(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "book.json")
	writeJSON(t, path, `{"start":[{"move":"b2e2","count":5}]}`)

	b := New()
	require.NoError(t, b.Load(path))
	assert.True(t, b.Initialized())

	redMove, err := b.Sample(types.Red, 0)
	require.NoError(t, err)
	assert.Equal(t, "b2e2", redMove)

	blackMove, err := b.Sample(types.Black, 0)
	require.NoError(t, err)
	assert.Equal(t, "b7e7", blackMove)
}

func TestLoadDualSidePreferredOverSingleSide(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "book.json")
	writeJSON(t, path, `{"red":[{"move":"h2e2","count":1}],"black":[{"move":"h7e7","count":1}]}`)

	b := New()
	require.NoError(t, b.Load(path))

	redMove, err := b.Sample(types.Red, 0)
	require.NoError(t, err)
	assert.Equal(t, "h2e2", redMove)

	blackMove, err := b.Sample(types.Black, 0)
	require.NoError(t, err)
	assert.Equal(t, "h7e7", blackMove)
}

func writeJSON(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}
