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

// Package aidriver asynchronously orchestrates AI turns on top of
// internal/game.Controller: the opponent-response flow, the hint flow,
// the opening-book first move, and the red-AI-vs-black-AI self-play loop
// (spec.md §4.7). Each flow runs on its own goroutine; the controller
// itself is only ever mutated synchronously from within these goroutines,
// matching the single control-thread model of spec.md §5.
package aidriver

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/op/go-logging"

	"github.com/frankkopp/xiangqigo/config"
	"github.com/frankkopp/xiangqigo/internal/book"
	"github.com/frankkopp/xiangqigo/internal/engine"
	"github.com/frankkopp/xiangqigo/internal/game"
	"github.com/frankkopp/xiangqigo/internal/types"
	"github.com/frankkopp/xiangqigo/xqlogging"
)

var log *logging.Logger

func init() {
	log = xqlogging.GetGameLog()
}

// HintBusy is returned by Hint when a best_move/analyze request is
// already in flight (spec.md §4.7 "Hint", §6.2 ai_busy).
const HintBusy = "ai_busy"

// Engine is the subset of internal/engine.Bridge the driver needs: best
// move search and the legal-move query used by the emergency-move and
// terminal-detection fallback (spec.md §4.6, §4.7). engine.Bridge
// satisfies this; tests supply a fake.
type Engine interface {
	BestMove(ctx context.Context, fenStr string, difficulty int) (types.Move, error)
	LegalMoves(fenStr string) ([]string, error)
}

// Driver orchestrates AI turns for a single game.Controller/Engine pair.
type Driver struct {
	mu sync.Mutex

	ctrl *game.Controller
	eng  Engine
	book *book.Book
	cfg  config.AIConfiguration
	rng  *rand.Rand

	// humanColor is the side a human is assumed to play when AI is
	// enabled but self-play is off; the other side is AI-controlled.
	// Self-play overrides this and makes both sides AI-controlled.
	humanColor types.Color

	// running tracks whether an opponent-response goroutine is already
	// in flight for this driver, mirroring the engine bridge's own
	// one-outstanding-request rule (spec.md §6.2) at the driver level so
	// a rapid double-trigger cannot schedule two AI turns concurrently.
	running bool
}

// New constructs a Driver. humanColor is the side the driver assumes a
// human plays when self-play is off; pass types.Red for the common "AI
// plays Black" arrangement.
func New(ctrl *game.Controller, eng Engine, bk *book.Book, cfg config.AIConfiguration, humanColor types.Color) *Driver {
	return &Driver{
		ctrl:       ctrl,
		eng:        eng,
		book:       bk,
		cfg:        cfg,
		humanColor: humanColor,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// colorIsAI reports whether color is currently under engine control.
func (d *Driver) colorIsAI(color types.Color) bool {
	if !d.ctrl.AIEnabled() {
		return false
	}
	return d.ctrl.SelfPlay() || color != d.humanColor
}

// MaybeTriggerAITurn starts the opponent-response flow (spec.md §4.7
// "Opponent response") if the side to move is AI-controlled and the
// game is still in progress. It returns immediately; the move is played
// on a background goroutine after the configured presentation delay. A
// second call while one is already outstanding is a no-op.
func (d *Driver) MaybeTriggerAITurn(ctx context.Context) {
	d.mu.Lock()
	if d.running || d.ctrl.Status() != game.StatusPlaying || !d.colorIsAI(d.ctrl.Turn()) {
		d.mu.Unlock()
		return
	}
	d.running = true
	d.mu.Unlock()

	go func() {
		defer func() {
			d.mu.Lock()
			d.running = false
			d.mu.Unlock()
		}()
		d.runOpponentResponse(ctx)
	}()
}

// runOpponentResponse plays one AI turn and, if self-play is enabled and
// the game is still in progress, schedules the other side's turn
// (spec.md §4.7, §9 "Asynchronous self-play loop").
func (d *Driver) runOpponentResponse(ctx context.Context) {
	delay := time.Duration(d.cfg.ThinkDelayMs) * time.Millisecond
	if delay > 0 {
		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
	}

	color := d.ctrl.Turn()
	if !d.playAITurn(ctx, color) {
		return
	}

	if d.ctrl.SelfPlay() && d.ctrl.Status() == game.StatusPlaying {
		d.MaybeTriggerAITurn(ctx)
	}
}

// playAITurn requests a best move at the configured difficulty and
// applies it via the controller's normal dual-validation Move, retrying
// up to MoveRetries times on rejection before falling back to an
// engine-reported legal move, and finally to stalemate (spec.md §4.6
// "AI-move response parsing", §4.7 "Retry policy").
func (d *Driver) playAITurn(ctx context.Context, color types.Color) bool {
	retries := d.cfg.MoveRetries
	if retries <= 0 {
		retries = 3
	}

	for attempt := 0; attempt < retries; attempt++ {
		m, err := d.eng.BestMove(ctx, d.ctrl.FEN(), d.ctrl.AILevel())
		if err != nil {
			log.Warningf("aidriver: best_move attempt %d failed: %v", attempt+1, err)
			continue
		}
		if d.ctrl.Move(m.From.File(), m.From.Rank(), m.To.File(), m.To.Rank()) {
			return true
		}
		log.Debugf("aidriver: move %s rejected by controller on attempt %d", m.UCI(), attempt+1)
	}

	return d.playEmergencyMove(color)
}

// playEmergencyMove is the retry-exhausted fallback: ask the engine
// directly for the legal-move list and play the first one, or mark the
// game stalemate if none exist (spec.md §4.7 "Retry policy").
func (d *Driver) playEmergencyMove(color types.Color) bool {
	moves, err := d.eng.LegalMoves(d.ctrl.FEN())
	if err != nil || len(moves) == 0 {
		log.Warningf("aidriver: no legal moves available for %s after retries exhausted, marking stalemate", color)
		d.ctrl.MarkNoMovesAvailable()
		return false
	}
	return d.ctrl.PlayUCIMove(moves[0], color)
}

// Hint temporarily enables the engine at difficulty, requests a best
// move for the current position, restores the prior enabled/difficulty
// state, and records the decoded move as the controller's last hint
// (spec.md §4.7 "Hint"). Returns the UCI string, HintBusy if a search is
// already in flight, or an error.
func (d *Driver) Hint(ctx context.Context, difficulty int) (string, error) {
	prevEnabled := d.ctrl.AIEnabled()
	prevLevel := d.ctrl.AILevel()

	d.ctrl.SetAIEnabled(true)
	d.ctrl.SetAILevel(difficulty)
	defer func() {
		d.ctrl.SetAIEnabled(prevEnabled)
		d.ctrl.SetAILevel(prevLevel)
	}()

	m, err := d.eng.BestMove(ctx, d.ctrl.FEN(), difficulty)
	if err != nil {
		if errors.Is(err, engine.ErrBusy) {
			return HintBusy, nil
		}
		return "", err
	}
	d.ctrl.SetLastHint(m)
	return m.UCI(), nil
}

// MaybePlayOpeningBookFirstMove plays a weighted-sampled first move from
// the opening book when the controller is freshly initialized with "AI
// moves first" enabled and no moves have yet been played (spec.md §4.7
// "Opening-book first move", §6.3). It is a no-op otherwise. Returns
// true if a move was played.
func (d *Driver) MaybePlayOpeningBookFirstMove() bool {
	if !d.ctrl.AIEnabled() || !d.cfg.AIMovesFirst || len(d.ctrl.MoveHistory()) != 0 {
		return false
	}
	if !d.book.Initialized() {
		if err := d.book.Load(d.cfg.BookPath); err != nil {
			log.Errorf("aidriver: could not load opening book %q: %v", d.cfg.BookPath, err)
			return false
		}
	}

	color := d.ctrl.Turn()
	if !d.colorIsAI(color) {
		color = color.Other()
	}
	d.mu.Lock()
	draw := d.rng.Intn(1 << 30)
	d.mu.Unlock()

	uci, err := d.book.Sample(color, draw)
	if err != nil {
		log.Warningf("aidriver: opening book sample failed for %s: %v", color, err)
		return false
	}
	return d.ctrl.PlayUCIMove(uci, color)
}
