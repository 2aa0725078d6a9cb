// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package color

import (
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// Code is a single SGR parameter.
type Code int

const (
	// NoColor is the environment variable that disables color output.
	NoColor = "NO_COLOR"
	// ForceColor is the environment variable that forces color output.
	ForceColor = "FORCE_COLOR"

	escPrefix = "\033["
	escSuffix = "m"
	escReset  = "\033[0m"
	growSlack = 16
)

// Text attributes.
const (
	Reset Code = 0
	Bold  Code = 1
	Faint Code = 2
)

// Foreground colours.
const (
	FgRed Code = iota + 31
	FgGreen
	FgYellow
	FgBlue
	FgMagenta
	FgCyan
	FgWhite
)

// High intensity foreground colours.
const (
	FgHiRed Code = iota + 91
	FgHiGreen
	FgHiYellow
	FgHiBlue
	FgHiMagenta
	FgHiCyan
	FgHiWhite
)

var enabled = isColorCapable()

// Enabled reports whether escape codes are emitted.
func Enabled() bool {
	return enabled
}

// SetEnabled overrides terminal detection, e.g. when output is redirected to a buffer for the TUI.
func SetEnabled(v bool) {
	enabled = v
}

// ControlString returns the raw escape sequence for the given codes, regardless of Enabled.
func ControlString(codes ...Code) string {
	sb := strings.Builder{}
	sb.Grow(len(escPrefix) + len(escSuffix) + growSlack)
	writeSequence(&sb, codes)

	return sb.String()
}

// Colorize wraps str in the given codes followed by a reset.
func Colorize(str string, codes ...Code) string {
	if !enabled {
		return str
	}

	return wrap(str, true, codes)
}

// ColorizeNoReset is like Colorize but leaves the attributes active after str.
func ColorizeNoReset(str string, codes ...Code) string {
	if !enabled {
		return str
	}

	return wrap(str, false, codes)
}

func wrap(str string, reset bool, codes []Code) string {
	sb := strings.Builder{}
	sb.Grow(len(str) + len(escPrefix) + len(escSuffix) + len(escReset) + growSlack)
	writeSequence(&sb, codes)
	sb.WriteString(str)

	if reset {
		sb.WriteString(escReset)
	}

	return sb.String()
}

func writeSequence(sb *strings.Builder, codes []Code) {
	sb.WriteString(escPrefix)

	for i, c := range codes {
		if i > 0 {
			sb.WriteByte(';')
		}

		sb.WriteString(strconv.Itoa(int(c)))
	}

	sb.WriteString(escSuffix)
}

func isColorCapable() bool {
	if os.Getenv(NoColor) != "" {
		return false
	}

	if os.Getenv(ForceColor) != "" {
		return true
	}

	return term.IsTerminal(int(os.Stdout.Fd()))
}
