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

// Package engine is the client side of the UCI protocol: it spawns an
// external engine executable as a subprocess and talks to it over its
// stdin/stdout pipes, the reverse role of a UCI engine itself. It
// satisfies game.Engine for the controller's dual-validation pipeline
// and exposes the fuller best-move/analysis surface the AI driver needs.
package engine

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/op/go-logging"
	"golang.org/x/sync/semaphore"

	"github.com/frankkopp/xiangqigo/config"
	"github.com/frankkopp/xiangqigo/internal/types"
	"github.com/frankkopp/xiangqigo/xqlogging"
)

var log *logging.Logger

func init() {
	log = xqlogging.GetEngineLog()
}

// State is the engine bridge's lifecycle state machine (spec.md §6.2).
type State int

const (
	StateUninitialized State = iota
	StateInitializing
	StateReady
	StateThinking
	StateError
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	case StateThinking:
		return "thinking"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// ErrBusy is returned by best_move/analyze when a request is already
// outstanding; only one bestmove request may be in flight at a time
// (spec.md §6.2 "ai_busy").
var ErrBusy = errors.New("engine: a best_move/analyze request is already in flight")

// ErrNotReady is returned when an operation is attempted before
// Initialize has completed or after the bridge has entered StateError.
var ErrNotReady = errors.New("engine: bridge is not ready")

// ErrLegalMovesUnsupported is returned by LegalMoves when the engine's
// reply to "go legal" is not a "legalmoves ..." line, meaning this
// engine does not speak the extension and legality cannot be determined
// from it - distinct from "determined to be empty", so callers fall back
// to the local validator instead of treating silence as "no legal moves"
// (spec.md §4.6 layer 3).
var ErrLegalMovesUnsupported = errors.New("engine: no legalmoves reply to \"go legal\"")

// Bridge manages one external UCI-speaking engine subprocess. All public
// methods are safe for concurrent use except that only one of
// BestMove/Analyze may be outstanding at a time (enforced by isRunning).
type Bridge struct {
	mu    sync.Mutex
	state State

	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Scanner

	// isRunning guards the single outstanding best_move/analyze request,
	// mirroring the teacher's search.go isRunning/initSemaphore pattern.
	isRunning     *semaphore.Weighted
	initSemaphore *semaphore.Weighted

	cfg config.EngineConfiguration
}

// New constructs a Bridge for the executable at path. The subprocess is
// not started until Initialize is called.
func New(cfg config.EngineConfiguration) *Bridge {
	return &Bridge{
		state:         StateUninitialized,
		isRunning:     semaphore.NewWeighted(1),
		initSemaphore: semaphore.NewWeighted(1),
		cfg:           cfg,
	}
}

// Initialize spawns the engine subprocess, performs the "uci"/"uciok"
// handshake, sends the Threads/Hash/Skill Level options from the bridge's
// EngineConfiguration and waits for "isready"/"readyok"
// (spec.md §6.2 initialize()).
func (b *Bridge) Initialize(ctx context.Context) error {
	_ = b.initSemaphore.Acquire(context.Background(), 1)
	defer b.initSemaphore.Release(1)

	b.mu.Lock()
	b.state = StateInitializing
	b.mu.Unlock()

	cmd := exec.CommandContext(ctx, b.cfg.Path)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return b.fail(fmt.Errorf("engine: stdin pipe: %w", err))
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return b.fail(fmt.Errorf("engine: stdout pipe: %w", err))
	}
	if err := cmd.Start(); err != nil {
		return b.fail(fmt.Errorf("engine: start %s: %w", b.cfg.Path, err))
	}

	b.mu.Lock()
	b.cmd = cmd
	b.stdin = stdin
	b.stdout = bufio.NewScanner(stdout)
	b.mu.Unlock()

	if err := b.send("uci"); err != nil {
		return b.fail(err)
	}
	if err := b.waitFor("uciok", b.startupTimeout()); err != nil {
		return b.fail(err)
	}

	threads := b.cfg.Threads
	if threads <= 0 {
		threads = maxInt(1, runtime.NumCPU()/2)
	}
	hash := b.cfg.HashMB
	if hash <= 0 {
		hash = 128
	}
	if err := b.send(fmt.Sprintf("setoption name Threads value %d", threads)); err != nil {
		return b.fail(err)
	}
	if err := b.send(fmt.Sprintf("setoption name Hash value %d", hash)); err != nil {
		return b.fail(err)
	}
	if b.cfg.SkillLevel > 0 {
		if err := b.send(fmt.Sprintf("setoption name Skill Level value %d", b.cfg.SkillLevel)); err != nil {
			return b.fail(err)
		}
	}

	if err := b.send("isready"); err != nil {
		return b.fail(err)
	}
	if err := b.waitFor("readyok", b.startupTimeout()); err != nil {
		return b.fail(err)
	}

	b.mu.Lock()
	b.state = StateReady
	b.mu.Unlock()
	log.Infof("engine bridge ready: %s (threads=%d hash=%dMB)", b.cfg.Path, threads, hash)
	return nil
}

func (b *Bridge) startupTimeout() time.Duration {
	ms := b.cfg.StartupWait
	if ms <= 0 {
		ms = 3000
	}
	return time.Duration(ms) * time.Millisecond
}

// State reports the bridge's current lifecycle state.
func (b *Bridge) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *Bridge) fail(err error) error {
	b.mu.Lock()
	b.state = StateError
	b.mu.Unlock()
	log.Errorf("engine bridge failure: %v", err)
	return err
}

func (b *Bridge) send(line string) error {
	b.mu.Lock()
	stdin := b.stdin
	b.mu.Unlock()
	if stdin == nil {
		return ErrNotReady
	}
	log.Debugf("-> %s", line)
	_, err := io.WriteString(stdin, line+"\n")
	return err
}

// waitFor scans stdout lines until one equals or starts with token, or
// timeout elapses.
func (b *Bridge) waitFor(token string, timeout time.Duration) error {
	result := make(chan error, 1)
	go func() {
		b.mu.Lock()
		sc := b.stdout
		b.mu.Unlock()
		for sc != nil && sc.Scan() {
			line := strings.TrimSpace(sc.Text())
			log.Debugf("<- %s", line)
			if line == token || strings.HasPrefix(line, token) {
				result <- nil
				return
			}
		}
		result <- fmt.Errorf("engine: stream closed waiting for %q", token)
	}()
	select {
	case err := <-result:
		return err
	case <-time.After(timeout):
		return fmt.Errorf("engine: timed out waiting for %q", token)
	}
}

// readLine reads a single trimmed line from stdout, or an error if the
// stream closes first.
func (b *Bridge) readLine(timeout time.Duration) (string, error) {
	result := make(chan string, 1)
	errc := make(chan error, 1)
	go func() {
		b.mu.Lock()
		sc := b.stdout
		b.mu.Unlock()
		if sc == nil || !sc.Scan() {
			errc <- fmt.Errorf("engine: stream closed")
			return
		}
		result <- strings.TrimSpace(sc.Text())
	}()
	select {
	case line := <-result:
		log.Debugf("<- %s", line)
		return line, nil
	case err := <-errc:
		return "", err
	case <-time.After(timeout):
		return "", fmt.Errorf("engine: timed out reading reply")
	}
}

// SetPosition sends the "position fen ..." command (spec.md §6.2
// set_position).
func (b *Bridge) SetPosition(fenStr string) error {
	return b.send("position fen " + fenStr)
}

// BestMove requests the engine's best move for fenStr at the given
// difficulty (0..10, mapped onto move time), retrying up to three times
// if the engine returns an empty or "(none)" reply. Only one BestMove or
// Analyze call may be outstanding at a time.
func (b *Bridge) BestMove(ctx context.Context, fenStr string, difficulty int) (types.Move, error) {
	if !b.isRunning.TryAcquire(1) {
		return types.NoMove, ErrBusy
	}
	defer b.isRunning.Release(1)

	reqID := uuid.New().String()
	log.Debugf("[%s] best_move request: fen=%q difficulty=%d", reqID, fenStr, difficulty)
	defer log.Debugf("[%s] best_move request complete", reqID)

	b.mu.Lock()
	b.state = StateThinking
	b.mu.Unlock()
	defer func() {
		b.mu.Lock()
		if b.state == StateThinking {
			b.state = StateReady
		}
		b.mu.Unlock()
	}()

	if err := b.SetPosition(fenStr); err != nil {
		return types.NoMove, b.fail(err)
	}

	moveTime := b.moveTimeFor(difficulty)
	const maxAttempts = 3
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if err := b.send(fmt.Sprintf("go movetime %d", moveTime)); err != nil {
			return types.NoMove, b.fail(err)
		}
		line, err := b.readBestMoveLine(ctx, moveTime)
		if err != nil {
			return types.NoMove, b.fail(err)
		}
		uci, ok := parseBestMoveLine(line)
		if !ok || uci == "(none)" || uci == "" {
			lastErr = fmt.Errorf("engine: empty bestmove on attempt %d", attempt+1)
			continue
		}
		m := types.MoveFromUCI(uci)
		if !m.IsValid() {
			lastErr = fmt.Errorf("engine: malformed bestmove %q", uci)
			continue
		}
		return m, nil
	}
	return types.NoMove, fmt.Errorf("engine: no usable bestmove after %d attempts: %w", maxAttempts, lastErr)
}

// readBestMoveLine reads stdout until a line beginning with "bestmove"
// appears, bounded by the move time plus a grace window so a slow
// engine does not hang the driver forever.
func (b *Bridge) readBestMoveLine(ctx context.Context, moveTimeMs int) (string, error) {
	deadline := time.Duration(moveTimeMs+2000) * time.Millisecond
	for {
		select {
		case <-ctx.Done():
			_ = b.send("stop")
			return "", ctx.Err()
		default:
		}
		line, err := b.readLine(deadline)
		if err != nil {
			return "", err
		}
		if strings.HasPrefix(line, "bestmove") {
			return line, nil
		}
	}
}

func parseBestMoveLine(line string) (string, bool) {
	fields := strings.Fields(line)
	if len(fields) < 2 || fields[0] != "bestmove" {
		return "", false
	}
	return fields[1], true
}

// moveTimeFor maps a 0..10 difficulty onto a move-time budget in
// milliseconds, falling back to the configured default at 0.
func (b *Bridge) moveTimeFor(difficulty int) int {
	if difficulty <= 0 {
		if b.cfg.MoveTimeMs > 0 {
			return b.cfg.MoveTimeMs
		}
		return 1000
	}
	return 200 * difficulty
}

// Analyze runs a timed search (spec.md §6.2 analyze) and blocks until the
// engine's "bestmove" reply, returning the centipawn score from the last
// "info" line with a "score cp" field before it. The best move itself is
// discarded.
func (b *Bridge) Analyze(ctx context.Context, fenStr string, moveTimeMs int) (centipawns int, err error) {
	if !b.isRunning.TryAcquire(1) {
		return 0, ErrBusy
	}
	defer b.isRunning.Release(1)

	reqID := uuid.New().String()
	log.Debugf("[%s] analyze request: fen=%q movetime=%dms", reqID, fenStr, moveTimeMs)
	defer log.Debugf("[%s] analyze request complete", reqID)

	if err := b.SetPosition(fenStr); err != nil {
		return 0, b.fail(err)
	}
	if err := b.send(fmt.Sprintf("go movetime %d", moveTimeMs)); err != nil {
		return 0, b.fail(err)
	}

	deadline := time.Duration(moveTimeMs+2000) * time.Millisecond
	last := 0
	for {
		select {
		case <-ctx.Done():
			_ = b.send("stop")
			return last, ctx.Err()
		default:
		}
		line, err := b.readLine(deadline)
		if err != nil {
			return last, err
		}
		if cp, ok := parseScoreCp(line); ok {
			last = cp
		}
		if strings.HasPrefix(line, "bestmove") {
			return last, nil
		}
	}
}

func parseScoreCp(line string) (int, bool) {
	if !strings.HasPrefix(line, "info") {
		return 0, false
	}
	fields := strings.Fields(line)
	for i, f := range fields {
		if f == "cp" && i+1 < len(fields) {
			v, err := strconv.Atoi(fields[i+1])
			if err == nil {
				return v, true
			}
		}
	}
	return 0, false
}

// IsMoveLegal asks the engine whether uci is legal in fenStr by
// requesting the legal move list and checking membership (spec.md §4.6,
// satisfies game.Engine).
func (b *Bridge) IsMoveLegal(fenStr, uci string) (bool, string, error) {
	moves, err := b.LegalMoves(fenStr)
	if err != nil {
		return false, "", err
	}
	for _, m := range moves {
		if m == uci {
			return true, "", nil
		}
	}
	return false, "not in engine's legal move list", nil
}

// LegalMoves returns the UCI-encoded legal moves for fenStr (spec.md
// §6.2 legal_moves), sent as a synchronous "go perft 1"-style probe via
// the position/go-divide idiom: we set the position then ask for a
// depth-1 move list using the "go legal" extension most xiangqi engines
// expose. If the reply is not a "legalmoves ..." line, the engine does
// not support the extension and ErrLegalMovesUnsupported is returned so
// the caller falls back to the local validator instead of mistaking
// "unsupported" for "determined to be empty".
func (b *Bridge) LegalMoves(fenStr string) ([]string, error) {
	if err := b.SetPosition(fenStr); err != nil {
		return nil, b.fail(err)
	}
	if err := b.send("go legal"); err != nil {
		return nil, b.fail(err)
	}
	line, err := b.readLine(2 * time.Second)
	if err != nil {
		return nil, err
	}
	fields := strings.Fields(line)
	if len(fields) == 0 || fields[0] != "legalmoves" {
		return nil, ErrLegalMovesUnsupported
	}
	return fields[1:], nil
}

// Evaluate is a convenience wrapper around Analyze using the configured
// default move time, satisfying game.Engine.
func (b *Bridge) Evaluate(fenStr string) (int, error) {
	ms := b.cfg.MoveTimeMs
	if ms <= 0 {
		ms = 500
	}
	return b.Analyze(context.Background(), fenStr, ms)
}

// IsInCheck, IsCheckmate and IsStalemate query the engine's view of a
// position's terminal status (spec.md §6.2), used only when callers
// explicitly want the engine's opinion rather than the local validator's.
func (b *Bridge) IsInCheck(fenStr string) (bool, error) {
	return b.queryBool(fenStr, "check")
}

func (b *Bridge) IsCheckmate(fenStr string) (bool, error) {
	return b.queryBool(fenStr, "checkmate")
}

func (b *Bridge) IsStalemate(fenStr string) (bool, error) {
	return b.queryBool(fenStr, "stalemate")
}

func (b *Bridge) queryBool(fenStr, query string) (bool, error) {
	if err := b.SetPosition(fenStr); err != nil {
		return false, b.fail(err)
	}
	if err := b.send("query " + query); err != nil {
		return false, b.fail(err)
	}
	line, err := b.readLine(2 * time.Second)
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(line) == "true", nil
}

// Stop sends the UCI "stop" command, aborting any in-progress search
// (spec.md §6.2 stop()).
func (b *Bridge) Stop() error {
	return b.send("stop")
}

// Reset sends "ucinewgame" followed by "isready", clearing the engine's
// internal game history (spec.md §6.2 reset()). It does not wait for the
// "readyok" reply.
func (b *Bridge) Reset() error {
	if err := b.send("ucinewgame"); err != nil {
		return err
	}
	return b.send("isready")
}

// Info reports the bridge's current lifecycle state and configured
// executable path, for UI diagnostics (spec.md §6.2 info()).
func (b *Bridge) Info() map[string]string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return map[string]string{
		"state": b.state.String(),
		"path":  b.cfg.Path,
	}
}

// Dispose sends "quit" and waits for the subprocess to exit, releasing
// its pipes (spec.md §6.2 dispose()).
func (b *Bridge) Dispose() error {
	_ = b.send("quit")
	b.mu.Lock()
	cmd := b.cmd
	stdin := b.stdin
	b.state = StateUninitialized
	b.mu.Unlock()
	if stdin != nil {
		_ = stdin.Close()
	}
	if cmd == nil {
		return nil
	}
	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()
	select {
	case err := <-done:
		return err
	case <-time.After(2 * time.Second):
		_ = cmd.Process.Kill()
		return <-done
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
