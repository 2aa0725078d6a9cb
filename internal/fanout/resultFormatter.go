// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package fanout

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ghuser-io/fetchusers/internal/color"
	"github.com/ghuser-io/fetchusers/internal/progress"
)

// OutputOptions controls what WriteText includes.
type OutputOptions struct {
	IncludeOutput      bool // Show captured output of failed results
	ShowSuccessDetails bool // Also show output of successful results
}

// DefaultOutputOptions returns the options used when nil is passed.
func DefaultOutputOptions() *OutputOptions {
	return &OutputOptions{
		IncludeOutput:      true,
		ShowSuccessDetails: false,
	}
}

// WriteText writes a summary tree of the results to w.
func (r Results) WriteText(w io.Writer, options *OutputOptions) error {
	if options == nil {
		options = DefaultOutputOptions()
	}

	for _, res := range r {
		if err := writeResultWithIndent(w, res, "", options); err != nil {
			return err
		}
	}

	return nil
}

// WriteFailures writes the output of every failed result in the form
//
//	----
//	USER failed with N:
//	<full output>
func WriteFailures(w io.Writer, failed Results) error {
	for _, r := range failed {
		if _, err := fmt.Fprintf(w, "%s\n%s:\n", progress.Separator, failureMessage(r)); err != nil {
			return err
		}

		out := r.Output
		if len(out) > 0 && out[len(out)-1] != '\n' {
			out = append(out[:len(out):len(out)], '\n')
		}

		if _, err := w.Write(out); err != nil {
			return err
		}
	}

	return nil
}

func writeResultWithIndent(w io.Writer, r *Result, indent string, options *OutputOptions) error {
	var statusStr, labelPrefix string

	switch r.Status {
	case StatusSkipped:
		statusStr = color.Colorize("~", color.FgYellow)
		labelPrefix = color.ControlString(color.Bold, color.FgYellow)
	case StatusFailed:
		statusStr = color.Colorize("✗", color.FgRed)
		labelPrefix = color.ControlString(color.Bold, color.FgRed)
	case StatusSuccess:
		statusStr = color.Colorize("✓", color.FgGreen)
		labelPrefix = color.ControlString(color.Bold, color.FgGreen)
	default:
		statusStr = color.Colorize("?", color.FgWhite)
	}

	label := r.Label
	if label == "" {
		label = "[unnamed]"
	}

	if !color.Enabled() {
		labelPrefix = ""
	}

	reset := ""
	if labelPrefix != "" {
		reset = color.ControlString(color.Reset)
	}

	if _, err := fmt.Fprintf(w, "%s%s %s%s%s", indent, statusStr, labelPrefix, label, reset); err != nil {
		return err
	}

	if r.ExitCode != 0 && len(r.Children) == 0 {
		fmt.Fprintf(w, " (exit code: %d)", r.ExitCode) // nolint:errcheck
	}

	fmt.Fprintln(w) // nolint:errcheck

	if r.Error != nil && !errors.Is(r.Error, ErrResultChildrenHasError) {
		errColor := color.FgRed
		if r.Status == StatusSkipped {
			errColor = color.FgYellow
		}

		fmt.Fprintf(w, "%s  %s %s\n", indent, color.Colorize("➜ Error:", errColor), r.Error.Error()) // nolint:errcheck
	}

	showDetails := (r.Status == StatusFailed || options.ShowSuccessDetails) && len(r.Children) == 0

	if showDetails && options.IncludeOutput && len(r.Output) > 0 {
		fmt.Fprintf(w, "%s  ➜ Output:\n", indent)                    // nolint:errcheck
		fmt.Fprintf(w, "%s", formatOutput(r.Output, indent+"     ")) // nolint:errcheck
	}

	for _, child := range r.Children {
		if err := writeResultWithIndent(w, child, indent+"  ", options); err != nil {
			return err
		}
	}

	return nil
}

// formatOutput indents every non-empty line of output.
func formatOutput(output []byte, indent string) string {
	sb := strings.Builder{}
	lines := strings.Split(strings.TrimRight(string(output), "\n"), "\n")
	sb.Grow(len(output) + len(lines)*len(indent))

	for _, line := range lines {
		if line == "" {
			sb.WriteString("\n")
			continue
		}

		sb.WriteString(indent)
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	return sb.String()
}
