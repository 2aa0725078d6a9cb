// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ghuser-io/fetchusers/internal/fanout"
	"github.com/ghuser-io/fetchusers/internal/progress"
)

const snapshotBufferSize = 16

// Runner runs a pipeline behind the TUI.
type Runner struct {
	model   *Model
	program *tea.Program
}

// programListener forwards snapshots to the program.
type programListener struct {
	program *tea.Program
}

// OnSnapshot implements progress.Listener.
func (l programListener) OnSnapshot(s progress.Snapshot) {
	l.program.Send(SnapshotMsg{Snapshot: s})
}

// NewRunner creates a runner showing a row per user. Without options the
// program uses the alternate screen.
func NewRunner(users []string, opts ...tea.ProgramOption) *Runner {
	model := NewModel(users)

	if len(opts) == 0 {
		opts = []tea.ProgramOption{tea.WithAltScreen()}
	}

	return &Runner{
		model:   model,
		program: tea.NewProgram(model, opts...),
	}
}

// Run executes the pipeline while the TUI is shown. The pipeline's reporter
// is replaced for the run. The view closes by itself when the pipeline
// returns; if the user closes it first, Run still waits for the pipeline.
func (r *Runner) Run(ctx context.Context, pipeline *fanout.Pipeline, users []string) (fanout.Results, error) {
	reporter := progress.NewChannelReporter(ctx, snapshotBufferSize)
	reporter.Listen(programListener{program: r.program})

	p := *pipeline
	p.Reporter = reporter

	type outcome struct {
		results fanout.Results
		err     error
	}

	resultChan := make(chan outcome, 1)

	go func() {
		res, err := p.Run(ctx, users)
		resultChan <- outcome{results: res, err: err}
	}()

	tuiDone := make(chan error, 1)

	go func() {
		_, err := r.program.Run()
		tuiDone <- err
	}()

	var (
		out    outcome
		tuiErr error
	)

	select {
	case out = <-resultChan:
		reporter.Close()
		r.program.Send(CompletedMsg{Results: out.results, Err: out.err})

		tuiErr = <-tuiDone

	case tuiErr = <-tuiDone:
		out = <-resultChan
		reporter.Close()

	case <-ctx.Done():
		r.program.Quit()

		tuiErr = <-tuiDone
		out = <-resultChan

		reporter.Close()
	}

	if out.err != nil {
		return out.results, out.err
	}

	return out.results, tuiErr
}

// Model returns the model driven by the runner.
func (r *Runner) Model() *Model {
	return r.model
}
