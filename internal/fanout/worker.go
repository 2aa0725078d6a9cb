// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package fanout

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/ghuser-io/fetchusers/internal/progress"
	"github.com/ghuser-io/fetchusers/internal/teereader"
)

const (
	// notExited is the exit code reported until the process has exited.
	notExited = -1
	// drainGrace bounds how long we wait for the output pipe to reach EOF after
	// the shell exited. A grandchild that inherited the pipe can keep it open.
	drainGrace = 2 * time.Second
	// maxLastLineLength truncates the last line shown on poll lines.
	maxLastLineLength = 200
)

// Worker tracks one long-running process started for one user.
type Worker struct {
	User string

	step     Step
	mu       sync.Mutex
	cmd      *exec.Cmd
	out      *teereader.LastLineTeeReader
	exited   chan struct{}
	exitCode int
	err      error
	started  time.Time
	ended    time.Time
}

// NewWorker creates an unstarted worker for user.
func NewWorker(user string, step Step) *Worker {
	return &Worker{
		User:     user,
		step:     step,
		exited:   make(chan struct{}),
		exitCode: notExited,
	}
}

// Start launches the process with stdout and stderr combined into one pipe
// that is drained in the background. Start does not wait for the process.
// When the process cannot be started the worker is marked as exited with
// code -1 and the error is returned.
func (w *Worker) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.started = time.Now()

	cmd, err := w.step.Command(ctx, w.User)
	if err != nil {
		return w.failLocked(err)
	}

	pr, pw, err := os.Pipe()
	if err != nil {
		return w.failLocked(errors.Join(ErrFailedToCreatePipe, err))
	}

	cmd.Stdout = pw
	cmd.Stderr = pw
	w.out = teereader.NewLastLineTeeReader(pr)

	if err := cmd.Start(); err != nil {
		_ = pw.Close()
		_ = pr.Close()

		return w.failLocked(errors.Join(ErrCouldNotStartProcess, err))
	}

	// The child has its own copy of the write end.
	_ = pw.Close()

	w.cmd = cmd
	drained := teereader.Drain(w.out)

	go w.wait(ctx, pr, drained)

	return nil
}

func (w *Worker) failLocked(err error) error {
	w.err = err
	w.ended = time.Now()
	close(w.exited)

	return err
}

func (w *Worker) wait(ctx context.Context, pr *os.File, drained <-chan struct{}) {
	waitErr := w.cmd.Wait()

	select {
	case <-drained:
	case <-time.After(drainGrace):
		_ = pr.Close()
		<-drained
	}

	_ = pr.Close()

	w.mu.Lock()
	defer w.mu.Unlock()

	w.ended = time.Now()

	if w.cmd.ProcessState != nil {
		w.exitCode = w.cmd.ProcessState.ExitCode()
	}

	var exitErr *exec.ExitError
	if waitErr != nil && !errors.As(waitErr, &exitErr) {
		w.err = waitErr
	}

	if ctx.Err() != nil && w.exitCode != 0 {
		w.err = errors.Join(w.err, ErrCancelled, ctx.Err())
	}

	close(w.exited)
}

// Poll reports the exit code without blocking. exited is false while the
// process is still running.
func (w *Worker) Poll() (exitCode int, exited bool) {
	select {
	case <-w.exited:
	default:
		return notExited, false
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	return w.exitCode, true
}

// Wait blocks until the process has exited and its output is drained.
func (w *Worker) Wait() {
	<-w.exited
}

// Pid returns the process id, or 0 when the process never started.
func (w *Worker) Pid() int {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.cmd == nil || w.cmd.Process == nil {
		return 0
	}

	return w.cmd.Process.Pid
}

// LastLine returns the last complete line of output, ignoring a trailing
// partial line.
func (w *Worker) LastLine() string {
	if out := w.output(); out != nil {
		return out.GetLastLine(maxLastLineLength)
	}

	return ""
}

// Output returns a copy of everything the process has written so far.
func (w *Worker) Output() []byte {
	if out := w.output(); out != nil {
		return out.GetFullBufferBytes()
	}

	return nil
}

func (w *Worker) output() *teereader.LastLineTeeReader {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.out
}

// Status returns the worker state for a poll tick.
func (w *Worker) Status() progress.WorkerStatus {
	code, exited := w.Poll()

	w.mu.Lock()
	ws := progress.WorkerStatus{
		User:     w.User,
		Running:  !exited,
		ExitCode: code,
		Err:      w.err,
		Elapsed:  time.Since(w.started),
	}

	if exited {
		ws.Elapsed = w.ended.Sub(w.started)
	}

	out := w.out
	w.mu.Unlock()

	if out != nil {
		ws.HasLine = out.HasCompleteLine()
		ws.LastLine = out.GetLastLine(maxLastLineLength)
	}

	return ws
}

// Result returns the outcome of the worker. It should be called after the worker exited.
func (w *Worker) Result() *Result {
	code, exited := w.Poll()

	w.mu.Lock()
	res := &Result{
		Label:    w.User,
		ExitCode: code,
		Error:    w.err,
		Status:   StatusFailed,
		Duration: w.ended.Sub(w.started),
	}
	w.mu.Unlock()

	res.Output = w.Output()

	if exited && code == 0 && res.Error == nil {
		res.Status = StatusSuccess
	}

	return res
}
