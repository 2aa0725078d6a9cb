// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package fanout

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/ghuser-io/fetchusers/internal/progress"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestWorker_LastCompleteLine(t *testing.T) {
	defer goleak.VerifyNone(t)
	skipOnWindows(t)

	dir := t.TempDir()
	step := Step{CommandLine: writeScript(t, dir, "worker.sh", workerScript), WorkingDirectory: dir}

	w := NewWorker("alice", step)
	require.NoError(t, w.Start(testContext(t)))
	w.Wait()

	code, exited := w.Poll()
	assert.True(t, exited)
	assert.Equal(t, 0, code)
	assert.Equal(t, "done alice", w.LastLine())
	assert.Equal(t, "fetching alice\ndone alice\npartial", string(w.Output()))

	ws := w.Status()
	assert.False(t, ws.Running)
	assert.Equal(t, "exited with 0", ws.Line())

	res := w.Result()
	assert.Equal(t, StatusSuccess, res.Status)
	assert.Equal(t, "alice", res.Label)
}

func TestWorker_CombinedOutputAndExitCode(t *testing.T) {
	defer goleak.VerifyNone(t)
	skipOnWindows(t)

	dir := t.TempDir()
	step := Step{CommandLine: writeScript(t, dir, "worker.sh", workerScript), WorkingDirectory: dir}

	w := NewWorker("bad", step)
	require.NoError(t, w.Start(testContext(t)))
	w.Wait()

	res := w.Result()
	assert.Equal(t, 3, res.ExitCode)
	assert.Equal(t, StatusFailed, res.Status)
	require.NoError(t, res.Error)
	assert.Equal(t, "fetching bad\nuser not found\n", string(res.Output))
	assert.Equal(t, "exited with 3", w.Status().Line())
}

func TestWorker_JustStartedUntilFirstLine(t *testing.T) {
	defer goleak.VerifyNone(t)
	skipOnWindows(t)

	ctx, cancel := context.WithCancel(testContext(t))
	defer cancel()

	w := NewWorker("alice", Step{CommandLine: `printf "no newline yet"; sleep 30; true`})
	require.NoError(t, w.Start(ctx))

	code, exited := w.Poll()
	assert.False(t, exited)
	assert.Equal(t, notExited, code)

	ws := w.Status()
	assert.True(t, ws.Running)
	assert.Equal(t, progress.JustStarted, ws.Line())

	cancel()
	w.Wait()

	res := w.Result()
	assert.Equal(t, StatusFailed, res.Status)
	require.ErrorIs(t, res.Error, ErrCancelled)
	require.ErrorIs(t, res.Error, context.Canceled)
}

func TestWorker_StartFailure(t *testing.T) {
	defer goleak.VerifyNone(t)
	skipOnWindows(t)

	step := Step{CommandLine: "true", WorkingDirectory: filepath.Join(t.TempDir(), "missing")}
	w := NewWorker("alice", step)

	err := w.Start(testContext(t))
	require.ErrorIs(t, err, ErrCouldNotStartProcess)

	code, exited := w.Poll()
	assert.True(t, exited)
	assert.Equal(t, -1, code)
	assert.Equal(t, "exited with -1", w.Status().Line())
	assert.Empty(t, w.LastLine())
	assert.Zero(t, w.Pid())

	res := w.Result()
	assert.Equal(t, StatusFailed, res.Status)
	require.ErrorIs(t, res.Error, ErrCouldNotStartProcess)
}

func TestWorker_DisabledStep(t *testing.T) {
	w := NewWorker("alice", Step{})
	require.ErrorIs(t, w.Start(context.Background()), ErrStepDisabled)

	_, exited := w.Poll()
	assert.True(t, exited)
}
