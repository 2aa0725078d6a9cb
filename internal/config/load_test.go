// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/prashantv/gostub"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dummyFsWithFiles(fs afero.Fs, fileNames []string, contents []string) {
	for i := range fileNames {
		_ = afero.WriteFile(fs, fileNames[i], []byte(contents[i]), 0644)
	}
}

func stubFs(t *testing.T, fileNames []string, contents []string) {
	t.Helper()

	fs := afero.NewMemMapFs()
	dummyFsWithFiles(fs, fileNames, contents)

	stubs := gostub.Stub(&FsFactory, func() afero.Fs {
		return fs
	})
	t.Cleanup(stubs.Reset)
}

func TestLoad_EmptySourceIsDefault(t *testing.T) {
	cfg, err := Load(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_YAML(t *testing.T) {
	content := `
poll_interval: 2s
worker:
  command_line: node fetch.js
  args: ["--verbose"]
  working_directory: /srv/ghuser
post_step:
  command_line: ""
`
	stubFs(t, []string{"/cfg/fetchusers.yaml"}, []string{content})

	cfg, err := Load(context.Background(), "/cfg/fetchusers.yaml")
	require.NoError(t, err)

	assert.Equal(t, 2*time.Second, cfg.PollInterval)
	assert.Equal(t, Default().PreStep, cfg.PreStep, "absent steps keep their defaults")
	assert.Equal(t, StepConfig{
		CommandLine:      "node fetch.js",
		Args:             []string{"--verbose"},
		WorkingDirectory: "/srv/ghuser",
	}, cfg.Worker)
	assert.False(t, cfg.ToPipeline().Post.Enabled())
	assert.Equal(t, "node", cfg.ToPipeline().Worker.Label)
}

func TestLoad_YAMLUnknownField(t *testing.T) {
	stubFs(t, []string{"fetchusers.yml"}, []string{"workers:\n  command_line: x\n"})

	_, err := Load(context.Background(), "fetchusers.yml")
	require.ErrorIs(t, err, ErrParseConfigFile)
}

func TestLoad_YAMLBadInterval(t *testing.T) {
	stubFs(t, []string{"fetchusers.yaml"}, []string{"poll_interval: soon\n"})

	_, err := Load(context.Background(), "fetchusers.yaml")
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoad_HCL(t *testing.T) {
	t.Setenv("FETCHUSERS_TEST_TOKEN", "s3cret")

	content := `
poll_interval = "250ms"

pre_step {
  label        = "register"
  command_line = "./addUser.js"
}

worker {
  command_line = "./fetchUserDetailsAndContribs.js"
  args         = ["--nospin"]
  env = {
    GITHUB_TOKEN = env.FETCHUSERS_TEST_TOKEN
    MODE         = upper("fast")
  }
}
`
	stubFs(t, []string{"fetchusers.hcl"}, []string{content})

	cfg, err := Load(context.Background(), "fetchusers.hcl")
	require.NoError(t, err)

	assert.Equal(t, 250*time.Millisecond, cfg.PollInterval)
	assert.Equal(t, "register", cfg.ToPipeline().Pre.Label)
	assert.Equal(t, map[string]string{"GITHUB_TOKEN": "s3cret", "MODE": "FAST"}, cfg.Worker.Env)
	assert.Equal(t, Default().PostStep, cfg.PostStep)
}

func TestLoad_HCLSyntaxError(t *testing.T) {
	stubFs(t, []string{"fetchusers.hcl"}, []string{"worker {\n  command_line = \n"})

	_, err := Load(context.Background(), "fetchusers.hcl")
	require.ErrorIs(t, err, ErrParseConfigFile)

	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	assert.NotEmpty(t, merr.WrappedErrors())
}

func TestLoad_HCLUnknownBlock(t *testing.T) {
	stubFs(t, []string{"fetchusers.hcl"}, []string{"workflow \"x\" {}\n"})

	_, err := Load(context.Background(), "fetchusers.hcl")
	require.ErrorIs(t, err, ErrParseConfigFile)
}

func TestLoad_UnknownFormat(t *testing.T) {
	stubFs(t, []string{"fetchusers.json"}, []string{"{}"})

	_, err := Load(context.Background(), "fetchusers.json")
	require.ErrorIs(t, err, ErrUnknownFormat)
}

func TestLoad_ViaGetter(t *testing.T) {
	// Nothing on the stubbed filesystem, so the source goes through go-getter.
	stubFs(t, nil, nil)

	dir := t.TempDir()
	path := filepath.Join(dir, "remote.yaml")
	require.NoError(t, os.WriteFile(path, []byte("poll_interval: 3s\n"), 0o644))

	cfg, err := Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, cfg.PollInterval)
}

func TestLoad_GetterFails(t *testing.T) {
	stubFs(t, nil, nil)

	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "missing", "fetchusers.yaml"))
	require.ErrorIs(t, err, ErrGetConfigFile)
}

func Test_splitFileNameFromGetterURL(t *testing.T) {
	testCases := []struct {
		url      string
		wantURL  string
		wantFile string
	}{
		{
			url:      "git::https://github.com/ghuser-io/config//fetchusers.hcl",
			wantURL:  "git::https://github.com/ghuser-io/config",
			wantFile: "fetchusers.hcl",
		},
		{
			url:      "git::https://github.com/ghuser-io/config//conf/fetchusers.yaml?ref=v1",
			wantURL:  "git::https://github.com/ghuser-io/config//conf?ref=v1",
			wantFile: "fetchusers.yaml",
		},
		{
			url: "https://example.com/fetchusers.yaml",
		},
		{
			url: "git::https://github.com/ghuser-io/config//",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.url, func(t *testing.T) {
			gotURL, gotFile := splitFileNameFromGetterURL(tc.url)
			assert.Equal(t, tc.wantURL, gotURL)
			assert.Equal(t, tc.wantFile, gotFile)
		})
	}
}
