// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package ctxlog carries a *slog.Logger in a context.Context.
//
// The default logger uses PrettyHandler and writes to stderr so that it never
// interleaves with the poll lines on stdout. The level comes from the
// FETCHUSERS_LOG_LEVEL environment variable (DEBUG, INFO, WARN, ERROR) and
// defaults to WARN.
package ctxlog
