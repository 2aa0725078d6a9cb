// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package signalbroker

import (
	"context"
	"os"
	"os/signal"

	"github.com/ghuser-io/fetchusers/internal/ctxlog"
)

// Watch reads sigCh until it is closed or the same signal arrives twice.
// On the second signal it stops notification, closes sigCh and calls cancel.
func Watch(ctx context.Context, sigCh chan os.Signal, cancel context.CancelFunc) {
	seen := make(map[os.Signal]struct{})

	for sig := range sigCh {
		if _, ok := seen[sig]; ok {
			ctxlog.Warn(ctx, "received second signal, cancelling run", "signal", sig.String())
			signal.Stop(sigCh)
			close(sigCh)
			cancel()

			return
		}

		ctxlog.Warn(ctx, "received signal, send it again to kill running workers", "signal", sig.String())

		seen[sig] = struct{}{}
	}
}
