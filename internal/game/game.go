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

// Package game implements the single-threaded Controller that owns the
// live board, move/FEN history, turn timing and notification surface
// described in spec.md §4.5. All mutation happens on one goroutine; the
// engine bridge is the only collaborator that may suspend the caller
// (spec.md §5).
package game

import (
	"fmt"
	"time"

	"github.com/op/go-logging"

	myLogging "github.com/frankkopp/xiangqigo/xqlogging"

	"github.com/frankkopp/xiangqigo/internal/board"
	"github.com/frankkopp/xiangqigo/internal/check"
	"github.com/frankkopp/xiangqigo/internal/fen"
	"github.com/frankkopp/xiangqigo/internal/movegen"
	"github.com/frankkopp/xiangqigo/internal/types"
	"github.com/frankkopp/xiangqigo/internal/validate"
)

var log *logging.Logger

func init() {
	log = myLogging.GetGameLog()
}

// Status is the terminal/non-terminal classification of a position.
type Status string

// Status values (spec.md §7 "Terminal").
const (
	StatusPlaying    Status = "playing"
	StatusRedWins    Status = "red_wins"
	StatusBlackWins  Status = "black_wins"
	StatusStalemate  Status = "stalemate"
	StatusCheckmate  Status = "checkmate"
)

// MoveRecord is one entry of the controller's move history: the UCI
// string with a trailing capture marker, 'x' for capture or '-' for a
// quiet move (spec.md §6.4).
type MoveRecord struct {
	UCI     string
	Capture bool
}

// String renders the record the way the observable move-history surface
// does: UCI followed by the capture marker.
func (r MoveRecord) String() string {
	if r.Capture {
		return r.UCI + "x"
	}
	return r.UCI + "-"
}

// Engine is the subset of the external engine capability (spec.md §6.2)
// the controller depends on directly. internal/engine.Bridge satisfies
// this interface; tests may supply a fake.
type Engine interface {
	IsMoveLegal(fenStr, uci string) (legal bool, reason string, err error)
	Evaluate(fenStr string) (centipawns int, err error)
}

// Listener is called once, synchronously, after every successful state
// mutation (move, undo, reset). A panicking listener is isolated: it
// does not suppress the remaining listeners (spec.md §4.5).
type Listener func()

// Controller is the authoritative game state machine. Zero value is not
// usable; construct with New.
type Controller struct {
	b      *board.Board
	turn   types.Color
	status Status

	moveHistory []MoveRecord
	fenHistory  []string

	lastMove types.Move
	lastHint types.Move

	totalMillis   [2]int64
	lastElapsedMs int64
	moveStart     time.Time

	pendingNotification string
	listeners            []Listener

	engine    Engine
	aiEnabled bool
	aiLevel   int
	selfPlay  bool
}

// New creates a Controller from initialFEN (or the standard starting
// position if empty), wired to an optional engine. New neither starts
// nor initializes the engine and never blocks on it; initialization is
// the caller's responsibility (cmd/xiangqigo initializes the bridge
// before calling New).
func New(initialFEN string, aiEnabled bool, aiLevel int, eng Engine) (*Controller, error) {
	if initialFEN == "" {
		initialFEN = fen.StartFen
	}
	pos, err := fen.Parse(initialFEN)
	if err != nil {
		return nil, fmt.Errorf("game: New: %w", err)
	}
	c := &Controller{
		b:           pos.Board,
		turn:        pos.Turn,
		status:      StatusPlaying,
		fenHistory:  []string{initialFEN},
		lastMove:    types.NoMove,
		lastHint:    types.NoMove,
		moveStart:   time.Now(),
		engine:      eng,
		aiEnabled:   aiEnabled,
		aiLevel:     aiLevel,
	}
	return c, nil
}

// currentFEN renders the live board/turn into a FEN string. Halfmove and
// fullmove counters are not semantically enforced (spec.md §6.1): the
// halfmove field is always written as 0 and the fullmove field as the
// number of recorded moves plus one.
func (c *Controller) currentFEN() string {
	return fen.Serialize(c.b, c.turn, 0, len(c.moveHistory)+1)
}

// Move validates and, if accepted, applies the move from (fx,fy) to
// (tx,ty), following the step order in spec.md §4.5. On any failure the
// board is left completely unchanged.
func (c *Controller) Move(fx, fy, tx, ty int) bool {
	from := types.SquareOf(fx, fy)
	to := types.SquareOf(tx, ty)
	if !from.IsValid() || !to.IsValid() || from == to {
		return false
	}

	mover, ok := c.b.PieceAt(from)
	if !ok || mover.Color != c.turn {
		return false
	}
	if target, occupied := c.b.PieceAt(to); occupied && target.Color == c.turn {
		return false
	}

	m := types.Move{From: from, To: to}
	if !basicSanityCheck(m) {
		return false
	}

	if !c.validateMove(m) {
		return false
	}

	c.applyAcceptedMove(mover, m)
	return true
}

// basicSanityCheck is the distance sanity bound of layer 1 of the
// dual-validation pipeline (spec.md §4.6). The layer's other checks
// (non-identity endpoints, no capture of own color) are done in Move.
func basicSanityCheck(m types.Move) bool {
	df := m.From.File() - m.To.File()
	if df < 0 {
		df = -df
	}
	dr := m.From.Rank() - m.To.Rank()
	if dr < 0 {
		dr = -dr
	}
	return df+dr <= 18
}

// validateMove runs layers 2 and 3 of the dual-validation pipeline: ask
// the engine if one is wired, falling back to the local validator if the
// engine is absent or errors (spec.md §4.6).
func (c *Controller) validateMove(m types.Move) bool {
	if c.engine != nil {
		legal, reason, err := c.engine.IsMoveLegal(c.currentFEN(), m.UCI())
		if err == nil {
			if !legal {
				log.Debugf("engine rejected %s: %s", m.UCI(), reason)
			}
			return legal
		}
		log.Warningf("engine validation failed (%v), falling back to local validator", err)
	}
	ok, reason := validate.IsLegal(c.b, c.turn, m)
	if !ok {
		log.Debugf("local validator rejected %s: %s", m.UCI(), reason)
	}
	return ok
}

// applyAcceptedMove performs the ordered mutation sequence guaranteed by
// spec.md §5: board mutation, history append, turn flip, timer rollover,
// terminal-status update, check notification, listener fan-out.
func (c *Controller) applyAcceptedMove(mover board.Piece, m types.Move) {
	now := time.Now()
	c.lastElapsedMs = now.Sub(c.moveStart).Milliseconds()
	c.totalMillis[c.turn] += c.lastElapsedMs

	_, captured := c.b.MovePiece(mover.ID, m.To)

	c.moveHistory = append(c.moveHistory, MoveRecord{UCI: m.UCI(), Capture: captured})
	c.turn = c.turn.Other()
	c.fenHistory = append(c.fenHistory, c.currentFEN())
	c.lastMove = m
	c.lastHint = types.NoMove
	c.moveStart = now

	c.updateTerminalStatus()

	c.pendingNotification = ""
	if c.status == StatusPlaying && check.InCheck(c.b, c.turn) {
		c.pendingNotification = "check"
	}

	c.fanOut()
}

// updateTerminalStatus recomputes c.status after a mutation: a missing
// king ends the game by capture; otherwise an absence of legal moves for
// the side now to move is checkmate (if in check) or stalemate.
func (c *Controller) updateTerminalStatus() {
	if !c.b.KingSquare(c.turn).IsValid() {
		if c.turn == types.Red {
			c.status = StatusBlackWins
		} else {
			c.status = StatusRedWins
		}
		return
	}
	if !validate.HasAnyLegalMove(c.b, c.turn) {
		if check.InCheck(c.b, c.turn) {
			c.status = StatusCheckmate
		} else {
			c.status = StatusStalemate
		}
		return
	}
	c.status = StatusPlaying
}

func (c *Controller) fanOut() {
	for _, l := range c.listeners {
		c.safeNotify(l)
	}
}

func (c *Controller) safeNotify(l Listener) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("listener panicked: %v", r)
		}
	}()
	l()
}

// Undo reverts the last move, requiring at least two FEN history entries
// (the initial position plus one played move). Piece ids after undo are
// re-derived by an identity-preserving reparse against the board as it
// stood before the pop, per spec.md §4.5 and §9.
func (c *Controller) Undo() bool {
	if len(c.fenHistory) < 2 {
		return false
	}
	c.fenHistory = c.fenHistory[:len(c.fenHistory)-1]
	priorFEN := c.fenHistory[len(c.fenHistory)-1]

	reparsed, err := fen.Reparse(c.b, priorFEN)
	if err != nil {
		log.Errorf("undo: reparse of prior FEN failed: %v", err)
		return false
	}

	c.b = reparsed.Board
	c.turn = reparsed.Turn
	if len(c.moveHistory) > 0 {
		c.moveHistory = c.moveHistory[:len(c.moveHistory)-1]
	}
	c.lastHint = types.NoMove
	if len(c.moveHistory) > 0 {
		last := c.moveHistory[len(c.moveHistory)-1]
		c.lastMove = types.MoveFromUCI(last.UCI)
	} else {
		c.lastMove = types.NoMove
	}
	c.status = StatusPlaying
	c.updateTerminalStatus()
	c.pendingNotification = ""
	c.moveStart = time.Now()

	c.fanOut()
	return true
}

// Reset restores the initial position the controller was constructed
// with, clearing all histories back to their single starting entry.
func (c *Controller) Reset() {
	initialFEN := c.fenHistory[0]
	pos, err := fen.Parse(initialFEN)
	if err != nil {
		log.Errorf("reset: re-parsing initial FEN failed: %v", err)
		return
	}
	c.b = pos.Board
	c.turn = pos.Turn
	c.status = StatusPlaying
	c.moveHistory = nil
	c.fenHistory = []string{initialFEN}
	c.lastMove = types.NoMove
	c.lastHint = types.NoMove
	c.totalMillis = [2]int64{}
	c.lastElapsedMs = 0
	c.moveStart = time.Now()
	c.pendingNotification = ""
	c.fanOut()
}

// LegalTargets returns the pseudo-legal destinations for the piece on
// (x,y), per spec.md §4.2. It does not consult the engine and (per
// spec.md §9 design note) does not filter moves that leave the mover's
// own king in check - it is a UI hint, not a legality oracle.
func (c *Controller) LegalTargets(x, y int) []types.Square {
	sq := types.SquareOf(x, y)
	p, ok := c.b.PieceAt(sq)
	if !ok || p.Color != c.turn {
		return nil
	}
	var targets []types.Square
	for _, m := range movegen.PieceMoves(c.b, p) {
		targets = append(targets, m.To)
	}
	return targets
}

// PlayUCIMove forces the move encoded by uci to be played as asColor,
// setting the turn to asColor first. It checks only that the from-square
// holds a piece of asColor; the current-turn ownership check and the
// validation pipeline are skipped. internal/aidriver uses it for the
// opening-book first move (spec.md §4.7), which may need to play the AI
// color's move before turn bookkeeping would otherwise allow, and for the
// emergency move taken from the engine's legal-move list.
func (c *Controller) PlayUCIMove(uci string, asColor types.Color) bool {
	m := types.MoveFromUCI(uci)
	if !m.IsValid() {
		return false
	}
	mover, ok := c.b.PieceAt(m.From)
	if !ok || mover.Color != asColor {
		return false
	}
	c.turn = asColor
	c.applyAcceptedMove(mover, m)
	return true
}

// Evaluate delegates to the engine and returns a centipawn score,
// positive meaning Red is ahead (spec.md §4.5, §6.2).
func (c *Controller) Evaluate() (int, error) {
	if c.engine == nil {
		return 0, fmt.Errorf("game: no engine wired")
	}
	return c.engine.Evaluate(c.currentFEN())
}

// ConsumeNotification returns and clears the single pending-event slot.
// The only defined value today is "check" (spec.md §4.5).
func (c *Controller) ConsumeNotification() string {
	n := c.pendingNotification
	c.pendingNotification = ""
	return n
}

// OnStateChanged registers a listener invoked after every successful
// move, undo, or reset.
func (c *Controller) OnStateChanged(l Listener) {
	c.listeners = append(c.listeners, l)
}

// SetAIEnabled toggles whether the side(s) under AI control are driven by
// internal/aidriver.
func (c *Controller) SetAIEnabled(enabled bool) { c.aiEnabled = enabled }

// AIEnabled reports the current AI-enabled flag.
func (c *Controller) AIEnabled() bool { return c.aiEnabled }

// SetAILevel sets the configured AI difficulty.
func (c *Controller) SetAILevel(level int) { c.aiLevel = level }

// AILevel returns the configured AI difficulty.
func (c *Controller) AILevel() int { return c.aiLevel }

// ToggleSelfPlay flips whether both sides are AI-controlled.
func (c *Controller) ToggleSelfPlay() { c.selfPlay = !c.selfPlay }

// SelfPlay reports whether self-play is currently enabled.
func (c *Controller) SelfPlay() bool { return c.selfPlay }

// FEN returns the controller's current position as a FEN string.
func (c *Controller) FEN() string { return c.currentFEN() }

// Turn returns the side to move.
func (c *Controller) Turn() types.Color { return c.turn }

// Status returns the current terminal/non-terminal classification.
func (c *Controller) Status() Status { return c.status }

// LastMove returns the most recently applied move, or types.NoMove.
func (c *Controller) LastMove() types.Move { return c.lastMove }

// LastHint returns the most recently computed hint move, or types.NoMove.
func (c *Controller) LastHint() types.Move { return c.lastHint }

// SetLastHint records h as the last hint shown, for observable-state
// surfacing by internal/aidriver's Hint flow, and fans the change out to
// listeners the same way a move or undo does (spec.md §4.7 "Hint").
func (c *Controller) SetLastHint(h types.Move) {
	c.lastHint = h
	c.fanOut()
}

// MarkNoMovesAvailable sets status to stalemate directly, bypassing the
// normal move-driven terminal check. internal/aidriver calls this when
// the AI retry policy is exhausted and the engine's own legal-move query
// also comes back empty (spec.md §4.7 "Retry policy").
func (c *Controller) MarkNoMovesAvailable() {
	if c.status != StatusPlaying {
		return
	}
	c.status = StatusStalemate
	c.fanOut()
}

// MoveHistory returns a copy of the move-record history.
func (c *Controller) MoveHistory() []MoveRecord {
	out := make([]MoveRecord, len(c.moveHistory))
	copy(out, c.moveHistory)
	return out
}

// FenHistory returns a copy of the FEN history.
func (c *Controller) FenHistory() []string {
	out := make([]string, len(c.fenHistory))
	copy(out, c.fenHistory)
	return out
}

// Stats is the per-side timing snapshot returned by GetStats.
type Stats struct {
	TotalMillis       [2]int64
	LastMoveElapsedMs int64
}

// GetStats returns the per-side accumulated time and the elapsed time of
// the last completed move (spec.md §4.5, §6.4).
func (c *Controller) GetStats() Stats {
	return Stats{TotalMillis: c.totalMillis, LastMoveElapsedMs: c.lastElapsedMs}
}

// Pieces returns a snapshot of every live piece for presentation layers.
func (c *Controller) Pieces() []board.Piece {
	return c.b.Pieces()
}

// Board exposes the live board for read-only inspection by collaborators.
// Mutating the returned board bypasses the controller's invariants and
// must not be done.
func (c *Controller) Board() *board.Board { return c.b }
