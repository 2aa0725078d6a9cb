// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package color wraps strings in ANSI escape codes for the poll output, the
// failure summary and the pretty log handler.
//
// Colour is decided once at start-up: NO_COLOR wins, then FORCE_COLOR, then
// whether stdout is a terminal (golang.org/x/term).
package color
