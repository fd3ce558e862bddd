// Copyright 2020 ConsenSys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package logger provides the shared zerolog logger used across the prover
// kernel. Hot paths log at debug level only.
package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

var logger zerolog.Logger

func init() {
	logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(zerolog.InfoLevel).
		With().Timestamp().Logger()
}

// Logger returns the shared logger.
func Logger() *zerolog.Logger {
	return &logger
}

// SetOutput changes the writer the shared logger writes to.
func SetOutput(w io.Writer) {
	logger = logger.Output(w)
}

// Set replaces the shared logger.
func Set(l zerolog.Logger) {
	logger = l
}

// Disable silences the shared logger.
func Disable() {
	logger = zerolog.Nop()
}
