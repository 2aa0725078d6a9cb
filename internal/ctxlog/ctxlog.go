// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package ctxlog

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

const logLevelEnvVar = "FETCHUSERS_LOG_LEVEL"

type loggerKey struct{}

// LevelVar is shared by every logger created in this package.
var LevelVar = &slog.LevelVar{}

// DefaultLogger is used when the context carries no logger.
var DefaultLogger = slog.New(NewPrettyHandler(&slog.HandlerOptions{
	Level: LevelVar,
},
	WithAutoColour(),
	WithDestinationWriter(os.Stderr),
))

func init() {
	LevelVar.Set(logLevelFromEnv())
}

// New returns a copy of ctx carrying logger. A nil logger means DefaultLogger.
func New(ctx context.Context, logger *slog.Logger) context.Context {
	if logger == nil {
		logger = DefaultLogger
	}

	return context.WithValue(ctx, loggerKey{}, logger)
}

// NewForTUI returns a context whose logger writes plain text to w.
// The TUI owns the terminal while it runs, so log lines are buffered and flushed afterwards.
func NewForTUI(ctx context.Context, w io.Writer) context.Context {
	return New(ctx, slog.New(NewPrettyHandler(&slog.HandlerOptions{
		Level: LevelVar,
	},
		WithDestinationWriter(w),
	)))
}

// Logger returns the logger stored in ctx, or DefaultLogger.
func Logger(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(loggerKey{}).(*slog.Logger)
	if !ok || logger == nil {
		return DefaultLogger
	}

	return logger
}

// Debug logs at debug level using the logger in ctx.
func Debug(ctx context.Context, msg string, args ...any) {
	Logger(ctx).Debug(msg, args...)
}

// Info logs at info level using the logger in ctx.
func Info(ctx context.Context, msg string, args ...any) {
	Logger(ctx).Info(msg, args...)
}

// Warn logs at warn level using the logger in ctx.
func Warn(ctx context.Context, msg string, args ...any) {
	Logger(ctx).Warn(msg, args...)
}

// Error logs at error level using the logger in ctx.
func Error(ctx context.Context, msg string, args ...any) {
	Logger(ctx).Error(msg, args...)
}

func logLevelFromEnv() slog.Level {
	switch strings.ToUpper(strings.TrimSpace(os.Getenv(logLevelEnvVar))) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
