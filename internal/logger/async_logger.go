// Copyright 2025 Google LLC
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

package logger

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// AsyncLogger decouples the caller from the cost of a rotating file write:
// Write hands the line off to a bounded channel and returns immediately,
// while a single background goroutine drains it into the lumberjack
// logger. A caller that outruns the drain goroutine gets a dropped
// message and a warning on stderr rather than a blocked write.
type AsyncLogger struct {
	lj    *lumberjack.Logger
	lines chan []byte
	done  chan struct{}
}

// NewAsyncLogger starts the drain goroutine and returns a logger ready to
// accept writes. bufSize bounds how many pending lines can queue before
// Write starts dropping them.
func NewAsyncLogger(lj *lumberjack.Logger, bufSize int) *AsyncLogger {
	a := &AsyncLogger{
		lj:    lj,
		lines: make(chan []byte, bufSize),
		done:  make(chan struct{}),
	}
	go a.drain()
	return a
}

func (a *AsyncLogger) drain() {
	defer close(a.done)
	for line := range a.lines {
		a.lj.Write(line)
	}
}

// Write implements io.Writer. It never blocks on a full buffer; instead it
// drops the line and logs a warning to stderr.
func (a *AsyncLogger) Write(p []byte) (int, error) {
	select {
	case a.lines <- bytes.Clone(p):
	default:
		fmt.Fprintln(os.Stderr, "asynclogger: log buffer is full, dropping message.")
	}
	return len(p), nil
}

// Close drains any queued lines, stops the background goroutine, and
// closes the underlying lumberjack logger.
func (a *AsyncLogger) Close() error {
	close(a.lines)
	<-a.done
	return a.lj.Close()
}
