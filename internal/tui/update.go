// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/ghuser-io/fetchusers/internal/fanout"
	"github.com/ghuser-io/fetchusers/internal/progress"
)

const (
	durationRounding = 100 * time.Millisecond
	minLineWidth     = 20
	ellipsis         = "..."
)

// SnapshotMsg carries a poll tick into the program.
type SnapshotMsg struct {
	Snapshot progress.Snapshot
}

// CompletedMsg is sent when the pipeline has returned.
type CompletedMsg struct {
	Results fanout.Results
	Err     error
}

// Init implements bubbletea.Model.Init.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update implements bubbletea.Model.Update.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}

		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd

		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd

	case SnapshotMsg:
		m.applySnapshot(msg.Snapshot)
		return m, nil

	case CompletedMsg:
		m.completed = true
		m.results = msg.Results
		m.err = msg.Err

		return m, tea.Quit
	}

	return m, nil
}

// View implements bubbletea.Model.View.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("ghuser.io: fetching users"))
	b.WriteString("\n")

	userWidth := 0
	for _, r := range m.rows {
		userWidth = max(userWidth, len(r.User))
	}

	for _, r := range m.rows {
		m.renderRow(&b, r, userWidth)
	}

	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")

	if !m.completed && !m.quitting {
		b.WriteString(m.styles.Help.Render("'q' to close this view, the workers keep running"))
		b.WriteString("\n")
	}

	return b.String()
}

func (m *Model) renderRow(b *strings.Builder, r Row, userWidth int) {
	var icon, user string

	switch r.Status {
	case StatusPending:
		icon = m.styles.Pending.Render("·")
		user = m.styles.Pending.Render(pad(r.User, userWidth))
	case StatusRunning:
		icon = m.spinner.View()
		user = m.styles.User.Render(pad(r.User, userWidth))
	case StatusSuccess:
		icon = m.styles.Success.Render("✓")
		user = m.styles.Success.Render(pad(r.User, userWidth))
	default:
		icon = m.styles.Failed.Render("✗")
		user = m.styles.Failed.Render(pad(r.User, userWidth))
	}

	fmt.Fprintf(b, "%s %s", icon, user)

	if r.Status != StatusPending {
		fmt.Fprintf(b, " %s", m.styles.Output.Render(fmt.Sprintf("(%v)", r.Elapsed.Round(durationRounding))))
	}

	if r.Status == StatusFailed {
		fmt.Fprintf(b, " %s", m.styles.Failed.Render(fmt.Sprintf("exit %d", r.ExitCode)))
	}

	if line := m.truncate(r.LastLine, userWidth); line != "" {
		fmt.Fprintf(b, "  %s", m.styles.Output.Render(line))
	}

	b.WriteString("\n")
}

func (m *Model) renderStatus() string {
	running, failed := 0, 0

	for _, r := range m.rows {
		switch r.Status {
		case StatusRunning:
			running++
		case StatusFailed:
			failed++
		}
	}

	switch {
	case m.completed && (m.err != nil || m.results.HasError()):
		return m.styles.Failed.Render(fmt.Sprintf("finished with errors, %d of %d workers failed", failed, len(m.rows)))
	case m.completed:
		return m.styles.Success.Render(fmt.Sprintf("finished, %d users fetched", len(m.rows)))
	case m.tick == 0:
		return m.styles.Pending.Render("registering users...")
	default:
		return m.styles.Running.Render(fmt.Sprintf("poll %d at %s, %d of %d running",
			m.tick, m.lastPoll.Format(time.TimeOnly), running, len(m.rows)))
	}
}

// truncate shortens the output line to what fits next to the user column.
func (m *Model) truncate(s string, userWidth int) string {
	if m.width == 0 {
		return s
	}

	avail := max(m.width-userWidth-24, minLineWidth) //nolint:mnd // icon, timing and exit code

	if len(s) <= avail {
		return s
	}

	return s[:avail-len(ellipsis)] + ellipsis
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}

	return s + strings.Repeat(" ", width-len(s))
}
