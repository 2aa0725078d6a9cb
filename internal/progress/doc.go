// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package progress describes what the poller sees on every tick and who gets told.
//
// A Snapshot holds one WorkerStatus per user, in user order. Reporters turn
// snapshots into output: TextReporter prints the classic `----` block with one
// `[user] line` row per worker, ChannelReporter hands snapshots to another
// goroutine (the TUI), and NullReporter drops them.
package progress
