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

package config

// AIConfiguration holds the defaults for the asynchronous AI driver
// (spec.md §4.7).
type AIConfiguration struct {
	DefaultDifficulty int // higher=stronger; the engine bridge maps it onto move time (200ms per level); 0 is replaced by 5 in Setup
	SelfPlay          bool
	AIMovesFirst      bool
	BookPath          string
	MoveRetries       int
	ThinkDelayMs      int // presentation delay before requesting best_move
}

func setupAIDefaults() {
	if Settings.AI.DefaultDifficulty == 0 {
		Settings.AI.DefaultDifficulty = 5
	}
	if Settings.AI.BookPath == "" {
		Settings.AI.BookPath = "./assets/book.json"
	}
	if Settings.AI.MoveRetries == 0 {
		Settings.AI.MoveRetries = 3
	}
	if Settings.AI.ThinkDelayMs == 0 {
		Settings.AI.ThinkDelayMs = 250
	}
}
