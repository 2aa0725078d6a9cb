// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package fanout

import (
	"context"
	"time"

	"github.com/ghuser-io/fetchusers/internal/ctxlog"
	"github.com/ghuser-io/fetchusers/internal/progress"
)

// DefaultPollInterval is the time between two poll ticks.
const DefaultPollInterval = 5 * time.Second

// TickerFactory returns a channel delivering ticks every d and a function
// that stops it.
type TickerFactory func(d time.Duration) (<-chan time.Time, func())

func defaultTicker(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}

// Pool starts one worker per user at once and polls them until all have exited.
type Pool struct {
	step     Step
	users    []string
	interval time.Duration
	reporter progress.Reporter
	ticker   TickerFactory
}

// PoolOption configures a Pool.
type PoolOption func(*Pool)

// WithInterval sets the poll interval. Non-positive values are ignored.
func WithInterval(d time.Duration) PoolOption {
	return func(p *Pool) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithReporter sets the reporter that receives a snapshot per tick.
func WithReporter(r progress.Reporter) PoolOption {
	return func(p *Pool) {
		if r != nil {
			p.reporter = r
		}
	}
}

// WithTickerFactory replaces time.NewTicker, mainly for tests.
func WithTickerFactory(f TickerFactory) PoolOption {
	return func(p *Pool) {
		if f != nil {
			p.ticker = f
		}
	}
}

// NewPool creates a pool running step once per user.
func NewPool(step Step, users []string, opts ...PoolOption) *Pool {
	p := &Pool{
		step:     step,
		users:    users,
		interval: DefaultPollInterval,
		reporter: progress.NullReporter{},
		ticker:   defaultTicker,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Run starts every worker and then reports a snapshot on each tick. It returns
// after the first tick on which every worker has exited, with one result per
// user in user order.
//
// When ctx is cancelled the running processes are killed; Run waits for them,
// reports a final snapshot and returns.
func (p *Pool) Run(ctx context.Context) Results {
	logger := ctxlog.Logger(ctx).With("runnableType", "Pool", "step", p.step.Label)

	workers := make([]*Worker, 0, len(p.users))

	for _, u := range p.users {
		w := NewWorker(u, p.step)
		if err := w.Start(ctx); err != nil {
			logger.Error("could not start worker", "user", u, "error", err)
		} else {
			logger.Debug("worker started", "user", u, "pid", w.Pid())
		}

		workers = append(workers, w)
	}

	ticks, stop := p.ticker(p.interval)
	defer stop()

	for tick := 1; ; tick++ {
		select {
		case <-ctx.Done():
			logger.Warn("run cancelled, waiting for workers to exit", "error", ctx.Err())

			for _, w := range workers {
				w.Wait()
			}

			p.reporter.Report(snapshot(tick, time.Now(), workers))

			return results(workers)

		case now := <-ticks:
			snap := snapshot(tick, now, workers)
			p.reporter.Report(snap)

			if snap.Done() {
				logger.Debug("all workers exited", "ticks", tick)
				return results(workers)
			}
		}
	}
}

func snapshot(tick int, now time.Time, workers []*Worker) progress.Snapshot {
	s := progress.Snapshot{
		Tick:    tick,
		Time:    now,
		Workers: make([]progress.WorkerStatus, 0, len(workers)),
	}

	for _, w := range workers {
		s.Workers = append(s.Workers, w.Status())
	}

	return s
}

func results(workers []*Worker) Results {
	res := make(Results, 0, len(workers))
	for _, w := range workers {
		res = append(res, w.Result())
	}

	return res
}
