// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package ctxlog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/TylerBrock/colorjson"
	"github.com/ghuser-io/fetchusers/internal/color"
)

var (
	// ErrMarshalAttribute is returned when an error occurs while marshaling an attribute.
	ErrMarshalAttribute = errors.New("error when marshaling attribute")
	// ErrIoWrite is returned when an error occurs while writing to the output.
	ErrIoWrite = errors.New("error when writing to output")
)

const (
	// TimeFormat is the format used for timestamps in log messages.
	TimeFormat = "[15:04:05.000]"

	jsonIndent = 2
)

var _ slog.Handler = (*PrettyHandler)(nil)

// PrettyHandler renders records as `[time] LEVEL: message {attrs}`.
// Attributes are rendered by an inner JSON handler and re-printed with colorjson.
type PrettyHandler struct {
	h                slog.Handler
	r                func([]string, slog.Attr) slog.Attr
	b                *bytes.Buffer
	m                *sync.Mutex
	writer           io.Writer
	colour           bool
	outputEmptyAttrs bool
}

// Option configures a PrettyHandler.
type Option func(h *PrettyHandler)

// WithDestinationWriter sets where rendered records are written. Defaults to os.Stderr.
func WithDestinationWriter(writer io.Writer) Option {
	return func(h *PrettyHandler) {
		h.writer = writer
	}
}

// WithColour forces ANSI colour on.
func WithColour() Option {
	return func(h *PrettyHandler) {
		h.colour = true
	}
}

// WithAutoColour enables colour when the color package does.
func WithAutoColour() Option {
	return func(h *PrettyHandler) {
		h.colour = color.Enabled()
	}
}

// WithOutputEmptyAttrs prints `{}` for records without attributes.
func WithOutputEmptyAttrs() Option {
	return func(h *PrettyHandler) {
		h.outputEmptyAttrs = true
	}
}

// NewPrettyHandler creates a PrettyHandler. A nil handlerOptions is allowed.
func NewPrettyHandler(handlerOptions *slog.HandlerOptions, options ...Option) *PrettyHandler {
	if handlerOptions == nil {
		handlerOptions = &slog.HandlerOptions{}
	}

	buf := &bytes.Buffer{}
	handler := &PrettyHandler{
		b: buf,
		h: slog.NewJSONHandler(buf, &slog.HandlerOptions{
			Level:       handlerOptions.Level,
			AddSource:   handlerOptions.AddSource,
			ReplaceAttr: suppressDefaults(handlerOptions.ReplaceAttr),
		}),
		r:      handlerOptions.ReplaceAttr,
		m:      &sync.Mutex{},
		writer: os.Stderr,
	}

	for _, opt := range options {
		opt(handler)
	}

	return handler
}

// Enabled implements slog.Handler.
func (h *PrettyHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.h.Enabled(ctx, level)
}

// WithAttrs implements slog.Handler.
func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := h.clone()
	c.h = h.h.WithAttrs(attrs)

	return c
}

// WithGroup implements slog.Handler.
func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	c := h.clone()
	c.h = h.h.WithGroup(name)

	return c
}

func (h *PrettyHandler) clone() *PrettyHandler {
	return &PrettyHandler{
		h:                h.h,
		r:                h.r,
		b:                h.b,
		m:                h.m,
		writer:           h.writer,
		colour:           h.colour,
		outputEmptyAttrs: h.outputEmptyAttrs,
	}
}

// Handle implements slog.Handler.
func (h *PrettyHandler) Handle(ctx context.Context, r slog.Record) error {
	level := h.replaced(slog.LevelKey, slog.AnyValue(r.Level))
	if level != "" {
		level = h.paint(level+":", levelColour(r.Level))
	}

	timestamp := h.replaced(slog.TimeKey, slog.StringValue(r.Time.Format(TimeFormat)))
	if timestamp != "" {
		timestamp = h.paint(timestamp, color.FgWhite)
	}

	msg := h.replaced(slog.MessageKey, slog.StringValue(r.Message))
	if msg != "" {
		msg = h.paint(msg, color.FgHiWhite)
	}

	attrs, err := h.computeAttrs(ctx, r)
	if err != nil {
		return err
	}

	var attrsAsBytes []byte

	if h.outputEmptyAttrs || len(attrs) > 0 {
		f := colorjson.NewFormatter()
		f.Indent = jsonIndent
		f.DisabledColor = !h.colour

		attrsAsBytes, err = f.Marshal(attrs)
		if err != nil {
			return errors.Join(ErrMarshalAttribute, err)
		}
	}

	out := strings.Builder{}

	for _, part := range []string{timestamp, level, msg} {
		if part == "" {
			continue
		}

		out.WriteString(part)
		out.WriteString(" ")
	}

	out.Write(attrsAsBytes)
	out.WriteString("\n")

	if _, err := io.WriteString(h.writer, out.String()); err != nil {
		return errors.Join(ErrIoWrite, err)
	}

	return nil
}

// replaced applies the ReplaceAttr hook to a built-in attribute. An empty
// result means the attribute was dropped.
func (h *PrettyHandler) replaced(key string, value slog.Value) string {
	a := slog.Attr{Key: key, Value: value}
	if h.r != nil {
		a = h.r([]string{}, a)
	}

	if a.Equal(slog.Attr{}) {
		return ""
	}

	return a.Value.String()
}

func (h *PrettyHandler) paint(s string, c color.Code) string {
	if !h.colour {
		return s
	}

	return color.ControlString(c) + s + color.ControlString(color.Reset)
}

func levelColour(l slog.Level) color.Code {
	switch {
	case l <= slog.LevelDebug:
		return color.FgWhite
	case l <= slog.LevelInfo:
		return color.FgCyan
	case l < slog.LevelWarn:
		return color.FgBlue
	case l < slog.LevelError:
		return color.FgYellow
	case l <= slog.LevelError+1:
		return color.FgRed
	default:
		return color.FgHiMagenta
	}
}

func (h *PrettyHandler) computeAttrs(ctx context.Context, r slog.Record) (map[string]any, error) {
	h.m.Lock()
	defer func() {
		h.b.Reset()
		h.m.Unlock()
	}()

	if err := h.h.Handle(ctx, r); err != nil {
		return nil, fmt.Errorf("error when calling inner handler's Handle: %w", err)
	}

	var attrs map[string]any

	if err := json.Unmarshal(h.b.Bytes(), &attrs); err != nil {
		return nil, fmt.Errorf("error when unmarshaling inner handler's Handle result: %w", err)
	}

	return attrs, nil
}

func suppressDefaults(next func([]string, slog.Attr) slog.Attr) func([]string, slog.Attr) slog.Attr {
	return func(groups []string, a slog.Attr) slog.Attr {
		if a.Key == slog.TimeKey ||
			a.Key == slog.LevelKey ||
			a.Key == slog.MessageKey {
			return slog.Attr{}
		}

		if next == nil {
			return a
		}

		return next(groups, a)
	}
}
