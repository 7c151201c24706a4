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

// EngineConfiguration holds the knobs the controller sends to the external
// UCI engine at initialization time (spec.md §4.6).
type EngineConfiguration struct {
	Path        string // path to the external engine executable
	Threads     int    // search threads; 0 means max(1, ncpu/2)
	HashMB      int
	SkillLevel  int
	Depth       int
	MoveTimeMs  int
	StartupWait int // milliseconds to wait for each of "uciok" and "readyok" during initialize()
}

func setupEngineDefaults() {
	if Settings.Engine.Path == "" {
		Settings.Engine.Path = "./engine/xiangqi-engine"
	}
	if Settings.Engine.HashMB == 0 {
		Settings.Engine.HashMB = 128
	}
	if Settings.Engine.Depth == 0 {
		Settings.Engine.Depth = 12
	}
	if Settings.Engine.MoveTimeMs == 0 {
		Settings.Engine.MoveTimeMs = 1000
	}
	if Settings.Engine.StartupWait == 0 {
		Settings.Engine.StartupWait = 3000
	}
	// Threads and SkillLevel keep their zero values here. At Initialize()
	// the engine bridge resolves Threads 0 to max(1, ncpu/2); SkillLevel 0
	// means no "Skill Level" option is sent to the engine.
}
