// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package teereader captures a worker's combined output while it runs.
//
// LastLineTeeReader keeps every byte read and remembers the last complete
// line. The trailing partial line is tracked separately because workers often
// have not flushed it yet. Drain pumps a reader in the background so a child
// process never blocks on a full pipe while the poller is asleep.
package teereader
