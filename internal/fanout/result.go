// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package fanout

import (
	"slices"
	"time"
)

// ResultStatus is the outcome of a step, worker or batch.
type ResultStatus int

const (
	// StatusSuccess means the process exited 0.
	StatusSuccess ResultStatus = iota
	// StatusFailed means the process exited non-zero or could not run.
	StatusFailed
	// StatusSkipped means the step did not run.
	StatusSkipped
)

// String implements fmt.Stringer.
func (s ResultStatus) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusFailed:
		return "failed"
	case StatusSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Result is the outcome of one process, or of a batch of them when Children is set.
type Result struct {
	Label    string        // Username for workers, step label otherwise
	ExitCode int           // -1 when the process never exited normally
	Error    error         // Launch or cancellation error, not set for a plain non-zero exit
	Output   []byte        // Combined stdout and stderr
	Status   ResultStatus  // Outcome
	Duration time.Duration // Wall time of the process
	Children Results       // Per-user results of a batch
}

// Results is a slice of Result pointers.
type Results []*Result

// HasError reports whether any result, or any child, failed.
func (r Results) HasError() bool {
	for v := range slices.Values(r) {
		if v.Status == StatusFailed || v.Error != nil && v.Status != StatusSkipped {
			return true
		}

		if v.Children.HasError() {
			return true
		}
	}

	return false
}

// Failed returns the top-level results that did not succeed, in order.
func (r Results) Failed() Results {
	var failed Results

	for v := range slices.Values(r) {
		if v.Status == StatusFailed {
			failed = append(failed, v)
		}
	}

	return failed
}

// batch wraps per-user results into a single labelled result.
func batch(label string, children Results) *Result {
	res := &Result{
		Label:    label,
		Status:   StatusSuccess,
		Children: children,
	}

	for _, c := range children {
		res.Duration = max(res.Duration, c.Duration)
	}

	if children.HasError() {
		res.Status = StatusFailed
		res.Error = ErrResultChildrenHasError
		res.ExitCode = -1
	}

	return res
}
