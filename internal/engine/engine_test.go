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

package engine

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frankkopp/xiangqigo/config"
)

func writeExecutable(path, contents string) error {
	return os.WriteFile(path, []byte(contents), 0o755)
}

// fakeEngineScript is a minimal UCI-speaking stand-in used so the bridge
// can be exercised without a real xiangqi engine binary: it echoes the
// handshake and always answers "bestmove b2e2".
const fakeEngineScript = `#!/bin/sh
while IFS= read -r line; do
  case "$line" in
    uci) echo "id name fakeengine"; echo "uciok" ;;
    isready) echo "readyok" ;;
    setoption*) ;;
    position*) ;;
    "go "*) echo "bestmove b2e2" ;;
    ucinewgame) ;;
    quit) exit 0 ;;
  esac
done
`

// fakeLegalMovesEngineScript additionally answers the "go legal"
// extension with a real "legalmoves ..." line, used to exercise the
// success path of LegalMoves/IsMoveLegal distinctly from an engine that
// doesn't support the extension (fakeEngineScript above, which answers
// "go legal" the same as any other "go ..." with "bestmove b2e2").
const fakeLegalMovesEngineScript = `#!/bin/sh
while IFS= read -r line; do
  case "$line" in
    uci) echo "id name fakeengine"; echo "uciok" ;;
    isready) echo "readyok" ;;
    setoption*) ;;
    position*) ;;
    "go legal") echo "legalmoves b2e2 h2e2" ;;
    "go "*) echo "bestmove b2e2" ;;
    ucinewgame) ;;
    quit) exit 0 ;;
  esac
done
`

func newTestBridgeWithScript(t *testing.T, script string) *Bridge {
	t.Helper()
	path := t.TempDir() + "/fakeengine.sh"
	require.NoError(t, writeExecutable(path, script))
	b := New(config.EngineConfiguration{Path: path, StartupWait: 2000})
	require.NoError(t, b.Initialize(context.Background()))
	t.Cleanup(func() { _ = b.Dispose() })
	return b
}

func newTestBridge(t *testing.T) *Bridge {
	t.Helper()
	script := t.TempDir() + "/fakeengine.sh"
	require.NoError(t, writeExecutable(script, fakeEngineScript))
	b := New(config.EngineConfiguration{Path: script, StartupWait: 2000})
	require.NoError(t, b.Initialize(context.Background()))
	t.Cleanup(func() { _ = b.Dispose() })
	return b
}

func TestInitializeReachesReadyState(t *testing.T) {
	b := newTestBridge(t)
	assert.Equal(t, StateReady, b.State())
}

func TestBestMoveReturnsParsedMove(t *testing.T) {
	b := newTestBridge(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	m, err := b.BestMove(ctx, "startpos", 0)
	require.NoError(t, err)
	assert.Equal(t, "b2e2", m.UCI())
}

func TestBestMoveRejectsConcurrentRequest(t *testing.T) {
	b := newTestBridge(t)
	require.NoError(t, b.isRunning.Acquire(context.Background(), 1))
	defer b.isRunning.Release(1)

	_, err := b.BestMove(context.Background(), "startpos", 0)
	assert.ErrorIs(t, err, ErrBusy)
}

func TestLegalMovesReturnsParsedList(t *testing.T) {
	b := newTestBridgeWithScript(t, fakeLegalMovesEngineScript)

	moves, err := b.LegalMoves("startpos")
	require.NoError(t, err)
	assert.Equal(t, []string{"b2e2", "h2e2"}, moves)

	legal, _, err := b.IsMoveLegal("startpos", "b2e2")
	require.NoError(t, err)
	assert.True(t, legal)

	legal, reason, err := b.IsMoveLegal("startpos", "a0a1")
	require.NoError(t, err)
	assert.False(t, legal)
	assert.NotEmpty(t, reason)
}

// When the engine doesn't speak the "go legal" extension, LegalMoves
// must surface ErrLegalMovesUnsupported rather than an empty-but-valid
// list, so the dual-validation pipeline's caller falls back to the local
// validator instead of rejecting every move outright (spec.md §4.6).
func TestLegalMovesUnsupportedReturnsDistinctError(t *testing.T) {
	b := newTestBridge(t)

	moves, err := b.LegalMoves("startpos")
	assert.Nil(t, moves)
	assert.ErrorIs(t, err, ErrLegalMovesUnsupported)

	legal, _, err := b.IsMoveLegal("startpos", "b2e2")
	assert.False(t, legal)
	assert.ErrorIs(t, err, ErrLegalMovesUnsupported)
}

func TestParseBestMoveLine(t *testing.T) {
	uci, ok := parseBestMoveLine("bestmove b2e2")
	assert.True(t, ok)
	assert.Equal(t, "b2e2", uci)

	_, ok = parseBestMoveLine("info depth 1")
	assert.False(t, ok)
}

func TestParseScoreCp(t *testing.T) {
	cp, ok := parseScoreCp("info depth 4 score cp 37 nodes 100")
	assert.True(t, ok)
	assert.Equal(t, 37, cp)

	_, ok = parseScoreCp("bestmove b2e2")
	assert.False(t, ok)
}
