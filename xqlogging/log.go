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

// Package xqlogging is a helper for the "github.com/op/go-logging" package
// to reduce the lines of code within each go file to one line. The
// functions return Logger instances which are configured with the
// necessary backends and formatters.
package xqlogging

import (
	"log"
	"os"

	"github.com/op/go-logging"

	"github.com/frankkopp/xiangqigo/config"
)

var (
	standardLog *logging.Logger
	gameLog     *logging.Logger
	engineLog   *logging.Logger
	testLog     *logging.Logger

	standardFormat = logging.MustStringFormatter(`%{time:15:04:05.000} %{shortpkg:-8.8s}:%{shortfile:-14.14s} %{level:-7.7s}:  %{message}`)
)

func init() {
	standardLog = logging.MustGetLogger("standard")
	gameLog = logging.MustGetLogger("game")
	engineLog = logging.MustGetLogger("engine")
	testLog = logging.MustGetLogger("test")
}

func backendFor(l *logging.Logger, level int) *logging.Logger {
	backend1 := logging.NewLogBackend(os.Stdout, "", log.Lmsgprefix)
	backend1Formatter := logging.NewBackendFormatter(backend1, standardFormat)
	leveled := logging.AddModuleLevel(backend1Formatter)
	leveled.SetLevel(logging.Level(level), "")
	l.SetBackend(leveled)
	return l
}

// GetLog returns the standard Logger preconfigured with an os.Stdout
// backend and the package's standard format (time, package, file, level).
func GetLog() *logging.Logger {
	return backendFor(standardLog, config.LogLevel)
}

// GetGameLog returns the Logger used by the game controller and AI
// driver for turn, history and notification tracing.
func GetGameLog() *logging.Logger {
	return backendFor(gameLog, config.LogLevel)
}

// GetEngineLog returns the Logger used by the UCI engine bridge for
// subprocess lifecycle and protocol tracing.
func GetEngineLog() *logging.Logger {
	return backendFor(engineLog, config.EngineLogLevel)
}

// GetTestLog returns the Logger used by package tests.
func GetTestLog() *logging.Logger {
	return backendFor(testLog, config.TestLogLevel)
}
