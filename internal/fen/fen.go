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

// Package fen parses and serializes the Xiangqi FEN dialect described in
// spec.md §6.1, and implements the identity-preserving reparse of §4.1
// that keeps board.Piece ids stable across re-parses for UI animation
// continuity.
package fen

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/frankkopp/xiangqigo/internal/board"
	"github.com/frankkopp/xiangqigo/internal/types"
)

// StartFen is the standard Xiangqi starting position (spec.md §6.1).
const StartFen = "rnbakabnr/9/1c5c1/p1p1p1p1p/9/9/P1P1P1P1P/1C5C1/9/RNBAKABNR w - - 0 1"

var positionFieldRe = regexp.MustCompile(`^[1-9pPaAbBnNrRcCkK/]+$`)

// Position is the parsed state of a FEN string: the board and the
// bookkeeping fields that are tracked but not semantically enforced by
// the core (spec.md §6.1).
type Position struct {
	Board         *board.Board
	Turn          types.Color
	HalfmoveClock int
	FullmoveNum   int
}

// Parse reads a FEN string into a fresh Board with freshly assigned,
// monotonically increasing piece ids starting at 1 (id 0 is reserved to
// mean "empty square" - see board.Board).
func Parse(fenStr string) (*Position, error) {
	b := board.NewEmpty()
	nextID := 1
	turn, halfmove, fullmove, err := parseInto(b, fenStr, func() int {
		id := nextID
		nextID++
		return id
	})
	if err != nil {
		return nil, err
	}
	return &Position{Board: b, Turn: turn, HalfmoveClock: halfmove, FullmoveNum: fullmove}, nil
}

// reparseCandidate is a piece carried over from the previous board,
// tracked during Reparse's two-phase identity-matching pass.
type reparseCandidate struct {
	id      int
	pt      types.PieceType
	c       types.Color
	sq      types.Square
	claimed bool
}

// Reparse parses fenStr into a fresh Board whose piece ids are assigned
// by matching against prev according to the two-phase rule in spec.md
// §4.1: exact-square match first, then nearest-same-kind, then a fresh
// id (the piece's 1-based parse index if that id is free, otherwise the
// next unused id above prev's maximum).
func Reparse(prev *board.Board, fenStr string) (*Position, error) {
	var pool []*reparseCandidate
	for _, p := range prev.Pieces() {
		pool = append(pool, &reparseCandidate{id: p.ID, pt: p.Type, c: p.Color, sq: p.Square})
	}

	nextFreshID := prev.MaxID() + 1
	usedIDs := make(map[int]bool)

	// Pass 1: parse raw (type,color,square) tuples without assigning ids.
	type parsed struct {
		pt types.PieceType
		c  types.Color
		sq types.Square
	}
	var raw []parsed
	b := board.NewEmpty()
	turn, halfmove, fullmove, err := parseRaw(fenStr, func(pt types.PieceType, c types.Color, sq types.Square) {
		raw = append(raw, parsed{pt: pt, c: c, sq: sq})
	})
	if err != nil {
		return nil, err
	}

	assign := func(pIdx int) int {
		r := raw[pIdx]
		// Phase 1: exact square match among unclaimed candidates.
		for _, cand := range pool {
			if !cand.claimed && cand.pt == r.pt && cand.c == r.c && cand.sq == r.sq {
				cand.claimed = true
				usedIDs[cand.id] = true
				return cand.id
			}
		}
		// Phase 2: nearest same (type,color) by Manhattan distance, tie
		// broken by lowest id.
		best := -1
		bestDist := 1 << 30
		for _, cand := range pool {
			if cand.claimed || cand.pt != r.pt || cand.c != r.c {
				continue
			}
			d := abs(cand.sq.File()-r.sq.File()) + abs(cand.sq.Rank()-r.sq.Rank())
			if d < bestDist || (d == bestDist && (best == -1 || cand.id < pool[best].id)) {
				bestDist = d
				best = indexOf(pool, cand)
			}
		}
		if best != -1 {
			pool[best].claimed = true
			usedIDs[pool[best].id] = true
			return pool[best].id
		}
		// Phase 3: fresh id. Try the cardinal index first; if taken, fall
		// back to the monotonically increasing counter.
		candidateID := pIdx + 1
		if !usedIDs[candidateID] && !idStillLiveElsewhere(pool, candidateID) {
			usedIDs[candidateID] = true
			return candidateID
		}
		for usedIDs[nextFreshID] {
			nextFreshID++
		}
		id := nextFreshID
		nextFreshID++
		usedIDs[id] = true
		return id
	}

	for i, r := range raw {
		id := assign(i)
		b.Put(id, r.pt, r.c, r.sq)
	}

	return &Position{Board: b, Turn: turn, HalfmoveClock: halfmove, FullmoveNum: fullmove}, nil
}

func idStillLiveElsewhere(pool []*reparseCandidate, id int) bool {
	for _, cand := range pool {
		if !cand.claimed && cand.id == id {
			return true
		}
	}
	return false
}

func indexOf(pool []*reparseCandidate, target *reparseCandidate) int {
	for i, c := range pool {
		if c == target {
			return i
		}
	}
	return -1
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Serialize renders b/turn/halfmove/fullmove back into a FEN string.
// Castling and en-passant fields are always "-" (spec.md §6.1).
func Serialize(b *board.Board, turn types.Color, halfmove, fullmove int) string {
	var ranks [10]string
	for r := 0; r < 10; r++ {
		var sb strings.Builder
		empties := 0
		for f := 0; f < 9; f++ {
			sq := types.SquareOf(f, r)
			p, ok := b.PieceAt(sq)
			if !ok {
				empties++
				continue
			}
			if empties > 0 {
				sb.WriteString(strconv.Itoa(empties))
				empties = 0
			}
			sb.WriteByte(types.MakeKind(p.Type, p.Color).Char())
		}
		if empties > 0 {
			sb.WriteString(strconv.Itoa(empties))
		}
		ranks[r] = sb.String()
	}
	position := strings.Join(ranks[:], "/")
	return fmt.Sprintf("%s %s - - %d %d", position, turn.Str(), halfmove, fullmove)
}

// parseInto parses fenStr directly into board b, assigning each piece a
// fresh id via nextID().
func parseInto(b *board.Board, fenStr string, nextID func() int) (turn types.Color, halfmove, fullmove int, err error) {
	_, halfmove, fullmove, err = parseRaw(fenStr, func(pt types.PieceType, c types.Color, sq types.Square) {
		b.Put(nextID(), pt, c, sq)
	})
	if err != nil {
		return
	}
	turn = parseTurnField(fenStr)
	return
}

// parseRaw walks the FEN position field and invokes emit(type,color,square)
// for every piece encountered, rank 0 (Black's back row) first, matching
// the board's internal coordinate convention (spec.md §3).
func parseRaw(fenStr string, emit func(types.PieceType, types.Color, types.Square)) (turn types.Color, halfmove, fullmove int, err error) {
	fenStr = strings.TrimSpace(fenStr)
	fields := strings.Fields(fenStr)
	if len(fields) == 0 {
		return 0, 0, 0, errors.New("fen must not be empty")
	}
	if !positionFieldRe.MatchString(fields[0]) {
		return 0, 0, 0, errors.New("fen position field contains invalid characters")
	}

	rankSegs := strings.Split(fields[0], "/")
	if len(rankSegs) != 10 {
		return 0, 0, 0, fmt.Errorf("fen position field must have 10 ranks, got %d", len(rankSegs))
	}

	for r, seg := range rankSegs {
		f := 0
		for _, ch := range seg {
			if ch >= '1' && ch <= '9' {
				f += int(ch - '0')
				continue
			}
			kind := types.KindFromChar(byte(ch))
			if kind == types.NoKind {
				return 0, 0, 0, fmt.Errorf("invalid piece character %q", ch)
			}
			if f >= 9 {
				return 0, 0, 0, fmt.Errorf("rank %d overflows 9 files", r)
			}
			emit(kind.Type(), kind.Color(), types.SquareOf(f, r))
			f++
		}
		if f != 9 {
			return 0, 0, 0, fmt.Errorf("rank %d does not sum to 9 files, got %d", r, f)
		}
	}

	turn = parseTurnField(fenStr)
	halfmove, fullmove = 0, 1
	if len(fields) >= 5 {
		if v, e := strconv.Atoi(fields[4]); e == nil {
			halfmove = v
		}
	}
	if len(fields) >= 6 {
		if v, e := strconv.Atoi(fields[5]); e == nil {
			fullmove = v
		}
	}
	return turn, halfmove, fullmove, nil
}

func parseTurnField(fenStr string) types.Color {
	fields := strings.Fields(strings.TrimSpace(fenStr))
	if len(fields) >= 2 && fields[1] == "b" {
		return types.Black
	}
	return types.Red
}
