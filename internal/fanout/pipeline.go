// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package fanout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ghuser-io/fetchusers/internal/ctxlog"
	"github.com/ghuser-io/fetchusers/internal/progress"
)

const (
	preStepLabel  = "pre-step"
	workerLabel   = "fetch"
	postStepLabel = "post-step"
)

// Pipeline is a complete run: pre-step per user, workers, then the post-step.
type Pipeline struct {
	Pre      Step              // Run once per user, sequentially. Optional.
	Worker   Step              // Run once per user, all at once.
	Post     Step              // Run once when every worker succeeded. Optional.
	Interval time.Duration     // Poll interval, DefaultPollInterval when zero.
	Reporter progress.Reporter // Receives poll snapshots, NullReporter when nil.
	Ticker   TickerFactory     // time.NewTicker when nil.
}

// Run executes the pipeline for users.
//
// A failing pre-step is logged and does not stop the run. When any worker
// exits non-zero the post-step is skipped and a *FailedError is returned.
// When the post-step fails the error wraps ErrPostStepFailed.
func (p *Pipeline) Run(ctx context.Context, users []string) (Results, error) {
	logger := ctxlog.Logger(ctx)

	var res Results

	if p.Pre.Enabled() {
		pre := p.runPre(ctx, users)
		res = append(res, pre)
	}

	if err := ctx.Err(); err != nil {
		return res, errors.Join(ErrCancelled, err)
	}

	if !p.Worker.Enabled() {
		return res, ErrStepDisabled
	}

	pool := NewPool(p.Worker, users,
		WithInterval(p.Interval),
		WithReporter(p.Reporter),
		WithTickerFactory(p.Ticker),
	)

	workers := pool.Run(ctx)
	res = append(res, batch(labelOr(p.Worker, workerLabel), workers))

	if err := ctx.Err(); err != nil {
		return res, errors.Join(ErrCancelled, err)
	}

	if failed := workers.Failed(); len(failed) > 0 {
		if p.Post.Enabled() {
			res = append(res, &Result{
				Label:  labelOr(p.Post, postStepLabel),
				Status: StatusSkipped,
				Error:  ErrSkippedAfterFailure,
			})
		}

		return res, NewFailedError(failed)
	}

	if !p.Post.Enabled() {
		logger.Debug("no post-step configured")
		return res, nil
	}

	post := RunStep(ctx, p.Post)
	post.Label = labelOr(p.Post, postStepLabel)
	res = append(res, post)

	if post.Status != StatusSuccess {
		if post.Error != nil {
			return res, errors.Join(ErrPostStepFailed, post.Error)
		}

		return res, fmt.Errorf("%w: exit code %d", ErrPostStepFailed, post.ExitCode)
	}

	return res, nil
}

func (p *Pipeline) runPre(ctx context.Context, users []string) *Result {
	logger := ctxlog.Logger(ctx).With("step", labelOr(p.Pre, preStepLabel))

	children := make(Results, 0, len(users))

	for _, u := range users {
		if ctx.Err() != nil {
			break
		}

		r := RunStep(ctx, p.Pre, u)
		r.Label = u

		if r.Status != StatusSuccess {
			logger.Warn("pre-step failed, continuing", "user", u, "exitCode", r.ExitCode, "error", r.Error)
		}

		logger.Debug("pre-step finished", "user", u, "output", string(r.Output))

		children = append(children, r)
	}

	return batch(labelOr(p.Pre, preStepLabel), children)
}

func labelOr(s Step, def string) string {
	if s.Label != "" {
		return s.Label
	}

	return def
}
