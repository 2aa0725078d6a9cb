// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package progress

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/ghuser-io/fetchusers/internal/color"
)

// Separator is printed before every poll block and every failure dump.
const Separator = "----"

// Reporter receives a Snapshot on every poll tick.
type Reporter interface {
	// Report must not block the poller for long.
	Report(Snapshot)
	// Close signals that no more snapshots will be sent.
	Close()
}

// Listener consumes snapshots forwarded by a ChannelReporter.
type Listener interface {
	OnSnapshot(Snapshot)
}

// NullReporter drops every snapshot.
type NullReporter struct{}

// Report implements Reporter.
func (NullReporter) Report(Snapshot) {}

// Close implements Reporter.
func (NullReporter) Close() {}

// TextReporter prints each snapshot as a `----` line followed by `[user] line` rows.
type TextReporter struct {
	w  io.Writer
	mu sync.Mutex
}

// NewTextReporter creates a TextReporter writing to w.
func NewTextReporter(w io.Writer) *TextReporter {
	return &TextReporter{w: w}
}

// Report implements Reporter.
func (tr *TextReporter) Report(s Snapshot) {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	fmt.Fprintln(tr.w, Separator) //nolint:errcheck

	for _, ws := range s.Workers {
		fmt.Fprintf(tr.w, "[%s] %s\n", ws.User, paintLine(ws)) //nolint:errcheck
	}
}

// Close implements Reporter.
func (tr *TextReporter) Close() {}

func paintLine(ws WorkerStatus) string {
	switch {
	case ws.Running:
		return ws.Line()
	case ws.Succeeded():
		return color.Colorize(ws.Line(), color.FgGreen)
	default:
		return color.Colorize(ws.Line(), color.FgRed)
	}
}

// ChannelReporter forwards snapshots over a buffered channel.
// Report never blocks: when the buffer is full the snapshot is dropped,
// the next tick carries fresher state anyway.
type ChannelReporter struct {
	ch     chan Snapshot
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
}

// NewChannelReporter creates a ChannelReporter with the given buffer size.
func NewChannelReporter(ctx context.Context, bufferSize int) *ChannelReporter {
	reporterCtx, cancel := context.WithCancel(ctx)

	return &ChannelReporter{
		ch:     make(chan Snapshot, bufferSize),
		ctx:    reporterCtx,
		cancel: cancel,
	}
}

// Report implements Reporter.
func (cr *ChannelReporter) Report(s Snapshot) {
	cr.mu.RLock()
	defer cr.mu.RUnlock()

	if cr.closed {
		return
	}

	select {
	case cr.ch <- s:
	case <-cr.ctx.Done():
	default:
	}
}

// Close implements Reporter. It waits for a listener started with Listen to drain the channel.
func (cr *ChannelReporter) Close() {
	cr.mu.Lock()

	if cr.closed {
		cr.mu.Unlock()
		return
	}

	cr.closed = true
	close(cr.ch)
	cr.mu.Unlock()

	cr.wg.Wait()
	cr.cancel()
}

// Listen forwards snapshots to l from a new goroutine until Close is called
// or the parent context is cancelled.
func (cr *ChannelReporter) Listen(l Listener) {
	cr.wg.Add(1)

	go func() {
		defer cr.wg.Done()

		for {
			select {
			case s, ok := <-cr.ch:
				if !ok {
					return
				}

				l.OnSnapshot(s)
			case <-cr.ctx.Done():
				return
			}
		}
	}()
}

// Snapshots exposes the channel for callers that do not use Listen.
func (cr *ChannelReporter) Snapshots() <-chan Snapshot {
	return cr.ch
}
