// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package signalbroker subscribes to the signals that should stop a run.
// By default it listens for SIGINT, SIGTERM and SIGQUIT.
//
// Watch implements the double-signal policy: the first signal of a kind is
// logged and ignored so workers get a chance to finish, the second one cancels
// the run context, which kills every worker still running.
package signalbroker

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ghuser-io/fetchusers/internal/ctxlog"
)

var termSignals = []os.Signal{
	syscall.SIGINT,
	syscall.SIGTERM,
	syscall.SIGQUIT,
}

// New returns a channel notified of sigs, or of the termination signals when sigs is empty.
func New(ctx context.Context, sigs ...os.Signal) chan os.Signal {
	ch := make(chan os.Signal, 1)

	if len(sigs) == 0 {
		sigs = termSignals
	}

	ctxlog.Debug(ctx, "creating signal broker", "signals", sigs)
	signal.Notify(ch, sigs...)

	return ch
}
