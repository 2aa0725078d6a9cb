// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package fanout

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepCommand_PositionalArgs(t *testing.T) {
	skipOnWindows(t)

	s := Step{
		CommandLine: "./fetchUserDetailsAndContribs.js",
		Args:        []string{"--nospin"},
		Env:         map[string]string{"B": "2", "A": "1"},
	}

	cmd, err := s.Command(context.Background(), "octocat")
	require.NoError(t, err)
	assert.Equal(t, []string{
		binSh, "-c", `./fetchUserDetailsAndContribs.js "$@"`, shellArgv0, "octocat", "--nospin",
	}, cmd.Args)
	assert.Equal(t, []string{"A=1", "B=2"}, cmd.Env[len(cmd.Env)-2:])
}

func TestStepCommand_Disabled(t *testing.T) {
	s := Step{}
	assert.False(t, s.Enabled())

	_, err := s.Command(context.Background())
	require.ErrorIs(t, err, ErrStepDisabled)
}

func TestRunStep_Success(t *testing.T) {
	skipOnWindows(t)

	var echo bytes.Buffer

	s := Step{Label: "echo", CommandLine: "echo", Args: []string{"world"}, Stdout: &echo}
	res := RunStep(testContext(t), s, "hello")

	require.NoError(t, res.Error)
	assert.Equal(t, StatusSuccess, res.Status)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "hello world\n", string(res.Output))
	assert.Equal(t, "hello world\n", echo.String())
	assert.Equal(t, "echo", res.Label)
}

func TestRunStep_Failure(t *testing.T) {
	skipOnWindows(t)

	s := Step{CommandLine: `echo oops >&2; exit 4; true`}
	res := RunStep(testContext(t), s)

	require.NoError(t, res.Error)
	assert.Equal(t, StatusFailed, res.Status)
	assert.Equal(t, 4, res.ExitCode)
	assert.Equal(t, "oops\n", string(res.Output))
}

func TestRunStep_NotFound(t *testing.T) {
	skipOnWindows(t)

	s := Step{CommandLine: "./does-not-exist.js", WorkingDirectory: t.TempDir()}
	res := RunStep(testContext(t), s, "octocat")

	assert.Equal(t, StatusFailed, res.Status)
	assert.Equal(t, 127, res.ExitCode)
}

func TestRunStep_BadWorkingDirectory(t *testing.T) {
	skipOnWindows(t)

	s := Step{CommandLine: "true", WorkingDirectory: filepath.Join(t.TempDir(), "missing")}
	res := RunStep(testContext(t), s)

	require.ErrorIs(t, res.Error, ErrCouldNotStartProcess)
	assert.Equal(t, -1, res.ExitCode)
	assert.Equal(t, StatusFailed, res.Status)
}

func TestRunStep_UsernameIsNotInterpolated(t *testing.T) {
	skipOnWindows(t)

	dir := t.TempDir()
	user := "$(touch pwned)"

	s := Step{CommandLine: "echo", WorkingDirectory: dir}
	res := RunStep(testContext(t), s, user)

	require.Equal(t, StatusSuccess, res.Status)
	assert.Equal(t, user+"\n", string(res.Output))
	assert.NoFileExists(t, filepath.Join(dir, "pwned"))

	_, err := os.Stat(filepath.Join(dir, "pwned"))
	assert.True(t, os.IsNotExist(err))
}
