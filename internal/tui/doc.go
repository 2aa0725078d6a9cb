// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package tui provides a live terminal view of a fetch run. It shows one row
// per user with a spinner while the worker runs, then ✓ or ✗ with the exit
// code, next to the worker's last complete output line.
//
// The view is fed by the same poll snapshots as the plain text output, so it
// refreshes on every poll tick. Quitting the view does not stop the workers.
package tui
