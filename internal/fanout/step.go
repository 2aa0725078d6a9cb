// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package fanout

import (
	"bytes"
	"context"
	"errors"
	"io"
	"maps"
	"os"
	"os/exec"
	"runtime"
	"slices"
	"time"

	"github.com/ghuser-io/fetchusers/internal/ctxlog"
)

const (
	goosWindows = "windows"
	binSh       = "/bin/sh"
	// shellArgv0 becomes $0 inside the shell so that "$@" holds exactly the positional args.
	shellArgv0         = "fetchusers"
	commandSwitchUnix  = "-c"
	commandSwitchWin   = "/C"
	windowsShellEnvVar = "COMSPEC"
	windowsShellFall   = "cmd.exe"
)

// Step is a shell command line run with some positional arguments appended.
// The zero value is a disabled step.
type Step struct {
	// Label names the step in results and logs.
	Label string
	// CommandLine is handed to the shell verbatim. It may contain shell syntax.
	CommandLine string
	// Args are appended after the per-call positional arguments.
	Args []string
	// Env is added to the inherited environment.
	Env map[string]string
	// WorkingDirectory is the directory the command runs in. Empty means the current directory.
	WorkingDirectory string
	// Stdout, when set, receives a copy of the output of a synchronous run.
	Stdout io.Writer
}

// Enabled reports whether the step has something to run.
func (s Step) Enabled() bool {
	return s.CommandLine != ""
}

// Command builds the process for the step. The positional values come first,
// followed by s.Args, and reach the command line as "$@" rather than being
// interpolated into it.
func (s Step) Command(ctx context.Context, positional ...string) (*exec.Cmd, error) {
	if !s.Enabled() {
		return nil, ErrStepDisabled
	}

	args := slices.Concat(positional, s.Args)

	var cmd *exec.Cmd

	switch runtime.GOOS {
	case goosWindows:
		cmd = exec.CommandContext(ctx, windowsShell(), slices.Concat([]string{commandSwitchWin, s.CommandLine}, args)...)
	default:
		cmd = exec.CommandContext(ctx, binSh, slices.Concat(
			[]string{commandSwitchUnix, s.CommandLine + ` "$@"`, shellArgv0}, args)...)
	}

	cmd.Dir = s.WorkingDirectory
	cmd.Env = s.environ()
	configureProcessGroup(cmd)

	return cmd, nil
}

func (s Step) environ() []string {
	env := os.Environ()
	for _, k := range slices.Sorted(maps.Keys(s.Env)) {
		env = append(env, k+"="+s.Env[k])
	}

	return env
}

func windowsShell() string {
	if sh := os.Getenv(windowsShellEnvVar); sh != "" {
		return sh
	}

	return windowsShellFall
}

// RunStep runs the step to completion with args as its positional parameters.
// Combined output is captured in the result. A step that exits non-zero is not
// an error of RunStep: the exit code and status say so.
func RunStep(ctx context.Context, step Step, args ...string) *Result {
	label := step.Label
	if label == "" {
		label = step.CommandLine
	}

	logger := ctxlog.Logger(ctx).With("step", label, "args", args)

	res := &Result{
		Label:    label,
		ExitCode: -1,
		Status:   StatusFailed,
	}

	cmd, err := step.Command(ctx, args...)
	if err != nil {
		res.Error = err
		return res
	}

	var buf bytes.Buffer

	var out io.Writer = &buf
	if step.Stdout != nil {
		out = io.MultiWriter(&buf, step.Stdout)
	}

	cmd.Stdout = out
	cmd.Stderr = out

	start := time.Now()

	logger.Debug("running step")

	if err := cmd.Start(); err != nil {
		res.Error = errors.Join(ErrCouldNotStartProcess, err)
		return res
	}

	waitErr := cmd.Wait()
	res.Duration = time.Since(start)
	res.Output = buf.Bytes()

	if cmd.ProcessState != nil {
		res.ExitCode = cmd.ProcessState.ExitCode()
	}

	var exitErr *exec.ExitError
	if waitErr != nil && !errors.As(waitErr, &exitErr) {
		res.Error = waitErr
	}

	if ctx.Err() != nil && res.ExitCode != 0 {
		res.Error = errors.Join(res.Error, ErrCancelled, ctx.Err())
	}

	if res.ExitCode == 0 && res.Error == nil {
		res.Status = StatusSuccess
	}

	logger.Debug("step finished", "exitCode", res.ExitCode, "output", string(res.Output))

	return res
}
