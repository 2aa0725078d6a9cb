// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package fanout

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"github.com/ghuser-io/fetchusers/internal/ctxlog"
	"github.com/ghuser-io/fetchusers/internal/progress"
	"github.com/stretchr/testify/require"
)

// workerScript prints two complete lines and an unterminated one.
// The user "bad" fails with exit code 3 after writing to stderr.
const workerScript = `#!/bin/sh
echo "fetching $1"
case "$1" in
  bad)
    echo "user not found" >&2
    exit 3
    ;;
esac
echo "done $1"
printf "partial"
`

func skipOnWindows(t *testing.T) {
	t.Helper()

	if runtime.GOOS == goosWindows {
		t.Skip("shell scripts are not supported on Windows")
	}
}

func testContext(t *testing.T) context.Context {
	t.Helper()

	ctxlog.LevelVar.Set(slog.LevelDebug)

	return ctxlog.New(t.Context(), ctxlog.DefaultLogger)
}

// writeScript writes an executable script into dir and returns its name
// relative to dir, prefixed with ./ like the real steps are.
func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o755))

	return "./" + name
}

type recordingReporter struct {
	mu        sync.Mutex
	snapshots []progress.Snapshot
	closed    bool
}

func (r *recordingReporter) Report(s progress.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.snapshots = append(r.snapshots, s)
}

func (r *recordingReporter) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.closed = true
}

func (r *recordingReporter) all() []progress.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]progress.Snapshot(nil), r.snapshots...)
}
