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

// Package config holds globally available configuration variables which
// are either set by defaults, read from a config file or set by command
// line options.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// globally available config values.
var (
	// ConfFile holds the path to the used config file (relative to working directory).
	ConfFile = "./config.toml"

	// LogLevel is the general log level, used by the standard and game loggers.
	LogLevel = 4

	// EngineLogLevel is the log level for the engine bridge traffic.
	EngineLogLevel = 4

	// TestLogLevel is the log level used by package tests.
	TestLogLevel = 4

	// Settings is the global configuration read in from file.
	Settings conf

	initialized = false
)

type conf struct {
	Engine EngineConfiguration
	AI     AIConfiguration
}

// Setup reads the configuration file and applies defaults to Engine and
// AI settings. Safe to call more than once; only the first call has effect.
func Setup() {
	if initialized {
		return
	}
	if _, err := os.Stat(ConfFile); err == nil {
		if _, err := toml.DecodeFile(ConfFile, &Settings); err != nil {
			fmt.Println("config file could not be parsed, using defaults:", err)
		}
	}
	setupEngineDefaults()
	setupAIDefaults()
	initialized = true
}
