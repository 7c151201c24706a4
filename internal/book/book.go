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

// Package book loads a bundled opening-book asset and performs
// count-weighted first-move sampling for the AI driver (spec.md §4.7,
// §6.3). Two JSON shapes are supported: a single-side table reflected
// vertically for black, or a direct dual-side table.
package book

import (
	"encoding/json"
	"errors"
	"os"
	"sync"

	"github.com/op/go-logging"

	"github.com/frankkopp/xiangqigo/internal/types"
	"github.com/frankkopp/xiangqigo/xqlogging"
)

var log *logging.Logger

func init() {
	log = xqlogging.GetLog()
}

// ErrEmpty is returned by Sample when the requested side has no
// candidates.
var ErrEmpty = errors.New("book: no candidates for requested side")

// Candidate is one weighted opening move.
type Candidate struct {
	Move  string `json:"move"`
	Count int    `json:"count"`
}

// singleSideFile is the `{"start": [...]}` shape (spec.md §6.3).
type singleSideFile struct {
	Start []Candidate `json:"start"`
}

// dualSideFile is the `{"red": [...], "black": [...]}` shape.
type dualSideFile struct {
	Red   []Candidate `json:"red"`
	Black []Candidate `json:"black"`
}

// Book holds the per-side weighted candidate tables once loaded.
type Book struct {
	mu          sync.RWMutex
	red         []Candidate
	black       []Candidate
	initialized bool
}

// New returns an empty, uninitialized Book.
func New() *Book {
	return &Book{}
}

// Load reads path and populates the book's per-side tables. Dual-side
// shape is preferred; if absent, the single-side table is used for red
// and reflected vertically for black (spec.md §6.3).
func (b *Book) Load(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Errorf("book: could not read %q: %v", path, err)
		return err
	}

	var dual dualSideFile
	if err := json.Unmarshal(raw, &dual); err == nil && (len(dual.Red) > 0 || len(dual.Black) > 0) {
		b.mu.Lock()
		b.red = dual.Red
		b.black = dual.Black
		b.initialized = true
		b.mu.Unlock()
		log.Infof("book: loaded dual-side table from %q (red=%d black=%d)", path, len(dual.Red), len(dual.Black))
		return nil
	}

	var single singleSideFile
	if err := json.Unmarshal(raw, &single); err != nil {
		log.Errorf("book: %q is neither dual-side nor single-side JSON: %v", path, err)
		return err
	}
	b.mu.Lock()
	b.red = single.Start
	b.black = reflectVertically(single.Start)
	b.initialized = true
	b.mu.Unlock()
	log.Infof("book: loaded single-side table from %q (%d candidates, reflected for black)", path, len(single.Start))
	return nil
}

// Initialized reports whether Load has successfully populated the book.
func (b *Book) Initialized() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.initialized
}

// reflectVertically mirrors a single-side (red) candidate list for
// black by reflecting both move endpoints' ranks (r -> 9-r), per spec.md
// §6.3's "reflected vertically" rule.
func reflectVertically(cands []Candidate) []Candidate {
	out := make([]Candidate, 0, len(cands))
	for _, c := range cands {
		m := types.MoveFromUCI(c.Move)
		if !m.IsValid() {
			continue
		}
		from := types.SquareOf(m.From.File(), 9-m.From.Rank())
		to := types.SquareOf(m.To.File(), 9-m.To.Rank())
		out = append(out, Candidate{Move: types.Move{From: from, To: to}.UCI(), Count: c.Count})
	}
	return out
}

// Sample performs count-weighted selection over color's candidate table
// using draw as the uniform random value in [0, Σcount) (spec.md §4.7,
// §8 Scenario F). Callers supply draw so the RNG source - and its seed,
// for deterministic tests - stays entirely outside this package.
func (b *Book) Sample(color types.Color, draw int) (string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	cands := b.red
	if color == types.Black {
		cands = b.black
	}
	if len(cands) == 0 {
		return "", ErrEmpty
	}

	total := 0
	for _, c := range cands {
		total += c.Count
	}
	if total <= 0 {
		return "", ErrEmpty
	}
	if draw < 0 {
		draw = 0
	}
	draw %= total

	cumulative := 0
	for _, c := range cands {
		cumulative += c.Count
		if draw < cumulative {
			return c.Move, nil
		}
	}
	return cands[len(cands)-1].Move, nil
}
