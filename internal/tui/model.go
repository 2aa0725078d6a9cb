// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/ghuser-io/fetchusers/internal/fanout"
	"github.com/ghuser-io/fetchusers/internal/progress"
)

// RowStatus is the state of one user row.
type RowStatus int

const (
	StatusPending RowStatus = iota
	StatusRunning
	StatusSuccess
	StatusFailed
)

// String returns a string representation of the row status.
func (s RowStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusRunning:
		return "running"
	case StatusSuccess:
		return "success"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Row is what the view shows for one user.
type Row struct {
	User     string
	Status   RowStatus
	ExitCode int
	LastLine string
	Elapsed  time.Duration
}

// Model is the bubbletea model of a run.
type Model struct {
	rows      []Row
	index     map[string]int
	tick      int
	lastPoll  time.Time
	spinner   spinner.Model
	width     int
	height    int
	quitting  bool
	completed bool
	results   fanout.Results
	err       error
	styles    *Styles
}

// Styles contains all the styling for the TUI.
type Styles struct {
	Title   lipgloss.Style
	User    lipgloss.Style
	Pending lipgloss.Style
	Running lipgloss.Style
	Success lipgloss.Style
	Failed  lipgloss.Style
	Output  lipgloss.Style
	Help    lipgloss.Style
}

// NewStyles creates the default styling for the TUI.
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12")).
			MarginBottom(1),
		User: lipgloss.NewStyle().
			Bold(true),
		Pending: lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")),
		Running: lipgloss.NewStyle().
			Foreground(lipgloss.Color("11")).
			Bold(true),
		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")),
		Failed: lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")),
		Output: lipgloss.NewStyle().
			Foreground(lipgloss.Color("7")).
			Italic(true),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")).
			MarginTop(1),
	}
}

// NewModel creates a model with one pending row per user.
func NewModel(users []string) *Model {
	m := &Model{
		rows:   make([]Row, 0, len(users)),
		index:  make(map[string]int, len(users)),
		styles: NewStyles(),
	}

	m.spinner = spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(m.styles.Running),
	)

	for _, u := range users {
		m.index[u] = len(m.rows)
		m.rows = append(m.rows, Row{User: u, Status: StatusPending})
	}

	return m
}

// Rows returns a copy of the current rows.
func (m *Model) Rows() []Row {
	out := make([]Row, len(m.rows))
	copy(out, m.rows)

	return out
}

// applySnapshot updates the rows from a poll tick.
func (m *Model) applySnapshot(s progress.Snapshot) {
	m.tick = s.Tick
	m.lastPoll = s.Time

	for _, ws := range s.Workers {
		i, ok := m.index[ws.User]
		if !ok {
			m.index[ws.User] = len(m.rows)
			i = len(m.rows)
			m.rows = append(m.rows, Row{User: ws.User})
		}

		m.rows[i] = rowFromStatus(ws)
	}
}

func rowFromStatus(ws progress.WorkerStatus) Row {
	r := Row{
		User:     ws.User,
		Status:   StatusRunning,
		ExitCode: ws.ExitCode,
		LastLine: ws.Line(),
		Elapsed:  ws.Elapsed,
	}

	if !ws.Running {
		r.Status = StatusFailed
		if ws.Succeeded() {
			r.Status = StatusSuccess
		}

		// Keep showing what the worker printed last rather than "exited with N",
		// the icon and exit code already say that.
		r.LastLine = ws.LastLine
	}

	return r
}
