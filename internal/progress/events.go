// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package progress

import (
	"strconv"
	"time"
)

const (
	// JustStarted is shown for a running worker that has not printed a complete line yet.
	JustStarted = "just started"
	exitedWith  = "exited with "
)

// WorkerStatus is the state of one worker at a poll tick.
type WorkerStatus struct {
	User     string        // Username the worker fetches
	Running  bool          // False once the process has exited (or never started)
	ExitCode int           // Valid when Running is false
	LastLine string        // Last complete output line
	HasLine  bool          // Whether the worker has printed at least one complete line
	Elapsed  time.Duration // Time since the worker was started
	Err      error         // Start or wait error, if any
}

// Line returns the text shown for the worker on a poll line.
func (ws WorkerStatus) Line() string {
	if !ws.Running {
		return exitedWith + strconv.Itoa(ws.ExitCode)
	}

	if !ws.HasLine {
		return JustStarted
	}

	return ws.LastLine
}

// Succeeded reports whether the worker exited with code 0.
func (ws WorkerStatus) Succeeded() bool {
	return !ws.Running && ws.ExitCode == 0 && ws.Err == nil
}

// Snapshot is everything the poller observed on one tick.
type Snapshot struct {
	Tick    int            // 1-based tick number
	Time    time.Time      // When the tick fired
	Workers []WorkerStatus // One entry per user, in user order
}

// Done reports whether every worker has exited.
func (s Snapshot) Done() bool {
	for _, w := range s.Workers {
		if w.Running {
			return false
		}
	}

	return true
}

// Running returns how many workers are still running.
func (s Snapshot) Running() int {
	n := 0

	for _, w := range s.Workers {
		if w.Running {
			n++
		}
	}

	return n
}
