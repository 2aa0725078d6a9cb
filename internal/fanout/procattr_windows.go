// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

//go:build windows

package fanout

import "os/exec"

// configureProcessGroup is a no-op on Windows: cancellation kills the shell process only.
func configureProcessGroup(_ *exec.Cmd) {}
