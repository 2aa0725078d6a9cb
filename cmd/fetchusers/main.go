// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main contains the fetchusers command-line interface (CLI).
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/ghuser-io/fetchusers"
	"github.com/ghuser-io/fetchusers/internal/ctxlog"
	"github.com/ghuser-io/fetchusers/internal/signalbroker"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	ctx = ctxlog.New(ctx, ctxlog.DefaultLogger)
	defer cancel()

	sigCh := signalbroker.New(ctx)

	go signalbroker.Watch(ctx, sigCh, cancel)

	rootCmd := newRootCmd(os.Stdout, os.Stderr)
	rootCmd.Version = fmt.Sprintf("%s (commit: %s)", fetchusers.Version, fetchusers.Commit)

	err := rootCmd.Run(ctx, os.Args) // Err is handled by cli framework

	if ctx.Err() != nil {
		ctxlog.Logger(ctx).Error("command terminated due to cancellation", "error", ctx.Err())
		os.Exit(1)
	}

	if err != nil {
		ctxlog.Logger(ctx).Error("command execution failed", "error", err)
		os.Exit(1)
	}

	ctxlog.Logger(ctx).Info("command completed successfully")
}
