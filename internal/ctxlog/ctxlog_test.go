// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package ctxlog

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogger(t *testing.T) {
	tests := []struct {
		name          string
		setupContext  func() context.Context
		expectDefault bool
	}{
		{
			name: "context with logger",
			setupContext: func() context.Context {
				return New(context.Background(), slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
			},
			expectDefault: false,
		},
		{
			name:          "context without logger",
			setupContext:  context.Background,
			expectDefault: true,
		},
		{
			name: "context with nil logger passed to New",
			setupContext: func() context.Context {
				return New(context.Background(), nil)
			},
			expectDefault: true,
		},
		{
			name: "context with wrong type value",
			setupContext: func() context.Context {
				return context.WithValue(context.Background(), loggerKey{}, "not a logger")
			},
			expectDefault: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := Logger(tt.setupContext())
			assert.NotNil(t, logger)

			if tt.expectDefault {
				assert.Same(t, DefaultLogger, logger)
			} else {
				assert.NotSame(t, DefaultLogger, logger)
			}
		})
	}
}

func TestLoggingFunctions(t *testing.T) {
	var buf bytes.Buffer

	ctx := New(context.Background(), slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})))

	tests := []struct {
		name     string
		logFunc  func(context.Context, string, ...any)
		expected string
	}{
		{name: "debug", logFunc: Debug, expected: "DEBUG"},
		{name: "info", logFunc: Info, expected: "INFO"},
		{name: "warn", logFunc: Warn, expected: "WARN"},
		{name: "error", logFunc: Error, expected: "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.logFunc(ctx, "worker started", "user", "octocat")

			out := buf.String()
			assert.Contains(t, out, tt.expected)
			assert.Contains(t, out, "worker started")
			assert.Contains(t, out, "user=octocat")
		})
	}
}

func TestLogLevelFromEnv(t *testing.T) {
	tests := []struct {
		envValue string
		want     slog.Level
	}{
		{envValue: "DEBUG", want: slog.LevelDebug},
		{envValue: "info", want: slog.LevelInfo},
		{envValue: "WARN", want: slog.LevelWarn},
		{envValue: "ERROR", want: slog.LevelError},
		{envValue: "nonsense", want: slog.LevelWarn},
		{envValue: "", want: slog.LevelWarn},
	}

	for _, tt := range tests {
		t.Run("level "+tt.envValue, func(t *testing.T) {
			t.Setenv(logLevelEnvVar, tt.envValue)
			assert.Equal(t, tt.want, logLevelFromEnv())
		})
	}
}

func TestNewForTUI(t *testing.T) {
	var buf bytes.Buffer

	prev := LevelVar.Level()
	defer LevelVar.Set(prev)

	LevelVar.Set(slog.LevelInfo)

	ctx := NewForTUI(context.Background(), &buf)
	Info(ctx, "buffered while the TUI runs", "users", 3)

	assert.Contains(t, buf.String(), "buffered while the TUI runs")
	assert.Contains(t, buf.String(), "INFO:")
}
