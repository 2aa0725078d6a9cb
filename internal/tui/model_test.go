// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ghuser-io/fetchusers/internal/fanout"
	"github.com/ghuser-io/fetchusers/internal/progress"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewModel(t *testing.T) {
	m := NewModel([]string{"alice", "bob"})

	rows := m.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, "alice", rows[0].User)
	assert.Equal(t, StatusPending, rows[0].Status)
	assert.Equal(t, "bob", rows[1].User)
	assert.Contains(t, m.View(), "registering users")
}

func TestModel_SnapshotMsg(t *testing.T) {
	m := NewModel([]string{"alice", "bob", "carol"})

	_, cmd := m.Update(SnapshotMsg{Snapshot: progress.Snapshot{
		Tick: 2,
		Time: time.Now(),
		Workers: []progress.WorkerStatus{
			{User: "alice", Running: true, LastLine: "fetching repos", HasLine: true, Elapsed: time.Second},
			{User: "bob", Running: false, ExitCode: 0, LastLine: "done"},
			{User: "carol", Running: false, ExitCode: 3, LastLine: "user not found"},
		},
	}})
	assert.Nil(t, cmd)

	rows := m.Rows()
	assert.Equal(t, StatusRunning, rows[0].Status)
	assert.Equal(t, "fetching repos", rows[0].LastLine)
	assert.Equal(t, StatusSuccess, rows[1].Status)
	assert.Equal(t, "done", rows[1].LastLine)
	assert.Equal(t, StatusFailed, rows[2].Status)
	assert.Equal(t, 3, rows[2].ExitCode)

	view := m.View()
	assert.Contains(t, view, "poll 2")
	assert.Contains(t, view, "1 of 3 running")
	assert.Contains(t, view, "exit 3")
	assert.Contains(t, view, "fetching repos")
}

func TestModel_JustStarted(t *testing.T) {
	m := NewModel([]string{"alice"})
	m.Update(SnapshotMsg{Snapshot: progress.Snapshot{
		Tick:    1,
		Workers: []progress.WorkerStatus{{User: "alice", Running: true}},
	}})

	assert.Equal(t, progress.JustStarted, m.Rows()[0].LastLine)
}

func TestModel_UnknownUserIsAppended(t *testing.T) {
	m := NewModel(nil)
	m.Update(SnapshotMsg{Snapshot: progress.Snapshot{
		Tick:    1,
		Workers: []progress.WorkerStatus{{User: "dave", Running: true}},
	}})

	require.Len(t, m.Rows(), 1)
	assert.Equal(t, "dave", m.Rows()[0].User)
}

func TestModel_CompletedQuits(t *testing.T) {
	testCases := []struct {
		name     string
		msg      CompletedMsg
		wantText string
	}{
		{
			name:     "success",
			msg:      CompletedMsg{Results: fanout.Results{{Label: "fetch", Status: fanout.StatusSuccess}}},
			wantText: "finished, 1 users fetched",
		},
		{
			name:     "failure",
			msg:      CompletedMsg{Err: errors.New("boom")},
			wantText: "finished with errors",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := NewModel([]string{"alice"})

			_, cmd := m.Update(tc.msg)
			require.NotNil(t, cmd)
			assert.Equal(t, tea.QuitMsg{}, cmd())
			assert.Contains(t, m.View(), tc.wantText)
			assert.NotContains(t, m.View(), "'q' to close")
		})
	}
}

func TestModel_KeyQuit(t *testing.T) {
	for _, key := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune{'q'}},
		{Type: tea.KeyCtrlC},
	} {
		m := NewModel([]string{"alice"})

		_, cmd := m.Update(key)
		require.NotNil(t, cmd, key.String())
		assert.Equal(t, tea.QuitMsg{}, cmd())
		assert.True(t, m.quitting)
	}

	m := NewModel(nil)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	assert.Nil(t, cmd)
	assert.False(t, m.quitting)
}

func TestModel_TruncatesToWidth(t *testing.T) {
	m := NewModel([]string{"alice"})
	m.Update(tea.WindowSizeMsg{Width: 40, Height: 20})
	m.Update(SnapshotMsg{Snapshot: progress.Snapshot{
		Tick:    1,
		Workers: []progress.WorkerStatus{{User: "alice", Running: true, HasLine: true, LastLine: strings.Repeat("x", 200)}},
	}})

	view := m.View()
	assert.Contains(t, view, ellipsis)
	assert.NotContains(t, view, strings.Repeat("x", 100))
}

func TestRowStatusString(t *testing.T) {
	assert.Equal(t, "pending", StatusPending.String())
	assert.Equal(t, "running", StatusRunning.String())
	assert.Equal(t, "success", StatusSuccess.String())
	assert.Equal(t, "failed", StatusFailed.String())
	assert.Equal(t, "unknown", RowStatus(9).String())
}
