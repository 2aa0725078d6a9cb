// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package prompt reads usernames interactively when none are given as arguments.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/peterh/liner"
)

// Prompt is printed before every line.
const Prompt = "username> "

// ErrAborted is returned when the user presses Ctrl+C.
var ErrAborted = errors.New("username entry aborted")

// LineReader is the part of *liner.State that ReadUsers needs.
type LineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

// Run reads usernames from the terminal using liner.
func Run(ctx context.Context, out io.Writer) ([]string, error) {
	line := liner.NewLiner()

	defer func() {
		_ = line.Close()
	}()

	line.SetCtrlCAborts(true)

	return ReadUsers(ctx, line, out)
}

// ReadUsers prompts until an empty line or EOF. A line may hold several
// whitespace separated usernames. Duplicates are kept; the caller dedupes.
func ReadUsers(ctx context.Context, in LineReader, out io.Writer) ([]string, error) {
	fmt.Fprintln(out, "Enter GitHub usernames, empty line or Ctrl+D to start, Ctrl+C to abort.") //nolint:errcheck

	var users []string

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		input, err := in.Prompt(Prompt)

		switch {
		case errors.Is(err, io.EOF):
			return users, nil
		case errors.Is(err, liner.ErrPromptAborted):
			return nil, ErrAborted
		case err != nil:
			return nil, fmt.Errorf("error reading line: %w", err)
		}

		fields := strings.Fields(input)
		if len(fields) == 0 {
			return users, nil
		}

		in.AppendHistory(input)

		users = append(users, fields...)
	}
}
