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

// Command xiangqigo is a minimal console driver for internal/game's
// Controller: it owns the one control thread the spec requires (spec.md
// §5), reads move/undo/hint/reset commands from stdin, and prints the
// observable state surface after every mutation. Rendering a board and
// taking richer input is presentation's job (spec.md §1 "out of scope");
// this is the thinnest possible stand-in.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/frankkopp/xiangqigo/config"
	"github.com/frankkopp/xiangqigo/internal/aidriver"
	"github.com/frankkopp/xiangqigo/internal/book"
	"github.com/frankkopp/xiangqigo/internal/engine"
	"github.com/frankkopp/xiangqigo/internal/game"
	"github.com/frankkopp/xiangqigo/internal/types"
	"github.com/frankkopp/xiangqigo/xqlogging"
)

func main() {
	configFile := flag.String("config", "./config.toml", "path to configuration settings file")
	aiFlag := flag.Bool("ai", false, "enable the AI driver and dual-validation engine bridge")
	enginePath := flag.String("engine", "", "path to an external UCI-speaking engine executable (overrides config.toml)")
	startFen := flag.String("fen", "", "starting FEN (empty uses the standard Xiangqi start position)")
	aiLevel := flag.Int("ai-level", 0, "AI difficulty (0 uses the configured default)")
	selfPlay := flag.Bool("selfplay", false, "have both sides played by the engine")
	aiMovesFirst := flag.Bool("ai-first", false, "let the AI play the opening move from the book")
	humanIsBlack := flag.Bool("human-black", false, "human plays Black instead of the default Red")
	flag.Parse()

	config.ConfFile = *configFile
	config.Setup()
	if *enginePath != "" {
		config.Settings.Engine.Path = *enginePath
	}
	config.Settings.AI.SelfPlay = *selfPlay
	config.Settings.AI.AIMovesFirst = *aiMovesFirst
	if *aiLevel > 0 {
		config.Settings.AI.DefaultDifficulty = *aiLevel
	}

	log := xqlogging.GetLog()

	humanColor := types.Red
	if *humanIsBlack {
		humanColor = types.Black
	}

	var gameEngine game.Engine
	var driverEngine aidriver.Engine
	aiEnabled := *aiFlag
	if aiEnabled {
		bridge := engine.New(config.Settings.Engine)
		if err := bridge.Initialize(context.Background()); err != nil {
			log.Warningf("engine unavailable (%v); falling back to the local validator with AI disabled", err)
			aiEnabled = false
		} else {
			defer bridge.Dispose()
			gameEngine = bridge
			driverEngine = bridge
		}
	}

	ctrl, err := game.New(*startFen, aiEnabled, config.Settings.AI.DefaultDifficulty, gameEngine)
	if err != nil {
		fmt.Fprintln(os.Stderr, "could not start game:", err)
		os.Exit(1)
	}

	ctrl.OnStateChanged(func() {
		fmt.Println(ctrl.FEN())
		if n := ctrl.ConsumeNotification(); n != "" {
			fmt.Println("notice:", n)
		}
		if ctrl.Status() != game.StatusPlaying {
			fmt.Println("status:", ctrl.Status())
		}
	})

	var driver *aidriver.Driver
	if aiEnabled {
		driver = aidriver.New(ctrl, driverEngine, book.New(), config.Settings.AI, humanColor)
		if *selfPlay {
			ctrl.ToggleSelfPlay()
		}
		driver.MaybePlayOpeningBookFirstMove()
		driver.MaybeTriggerAITurn(context.Background())
	}

	fmt.Println(ctrl.FEN())
	runLoop(ctrl, driver)
}

// runLoop reads one command per line: "move fx fy tx ty", "undo",
// "reset", "hint", or "quit". This is the control thread spec.md §5
// describes: every command below runs to completion before the next
// line is read.
func runLoop(ctrl *game.Controller, driver *aidriver.Driver) {
	ctx := context.Background()
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "quit", "exit":
			return
		case "reset":
			ctrl.Reset()
		case "undo":
			if !ctrl.Undo() {
				fmt.Println("undo: nothing to undo")
			}
		case "hint":
			if driver == nil {
				fmt.Println("hint: no engine configured")
				continue
			}
			uci, err := driver.Hint(ctx, ctrl.AILevel())
			if err != nil {
				fmt.Println("hint:", err)
				continue
			}
			fmt.Println("hint:", uci)
		case "move":
			coords, err := parseCoords(fields[1:])
			if err != nil {
				fmt.Println("move:", err)
				continue
			}
			if !ctrl.Move(coords[0], coords[1], coords[2], coords[3]) {
				fmt.Println("move: rejected")
				continue
			}
			if driver != nil {
				driver.MaybeTriggerAITurn(ctx)
			}
		default:
			fmt.Println("unrecognized command:", fields[0])
		}
	}
}

func parseCoords(fields []string) ([4]int, error) {
	var out [4]int
	if len(fields) != 4 {
		return out, fmt.Errorf("expected 4 coordinates fx fy tx ty, got %d", len(fields))
	}
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return out, fmt.Errorf("coordinate %q is not an integer", f)
		}
		out[i] = v
	}
	return out, nil
}
