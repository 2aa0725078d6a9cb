// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package fanout

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
)

var (
	// ErrStepDisabled is returned when a step without a command line is asked to build a command.
	ErrStepDisabled = errors.New("step has no command line")
	// ErrCouldNotStartProcess is returned when the process could not be started.
	ErrCouldNotStartProcess = errors.New("could not start process")
	// ErrFailedToCreatePipe is returned when the output pipe could not be created.
	ErrFailedToCreatePipe = errors.New("failed to create pipe")
	// ErrCancelled is joined into the results of workers killed because the run was cancelled.
	ErrCancelled = errors.New("run cancelled")
	// ErrWorkersFailed is the sentinel wrapped by *FailedError.
	ErrWorkersFailed = errors.New("one or more workers failed")
	// ErrPostStepFailed is returned when the post-step exits non-zero.
	ErrPostStepFailed = errors.New("post-step failed")
	// ErrSkippedAfterFailure marks the post-step result when it did not run because a worker failed.
	ErrSkippedAfterFailure = errors.New("skipped because a worker failed")
	// ErrResultChildrenHasError marks a batch result whose children failed.
	ErrResultChildrenHasError = errors.New("result has children with errors")
)

// FailedError is returned by Pipeline.Run when at least one worker exited non-zero.
// It keeps the failed results so the caller can dump their output.
type FailedError struct {
	Failed Results
	merr   *multierror.Error
}

// NewFailedError builds a FailedError from the failed worker results.
func NewFailedError(failed Results) *FailedError {
	var merr *multierror.Error

	for _, r := range failed {
		merr = multierror.Append(merr, errors.New(failureMessage(r)))
	}

	if merr != nil {
		merr.ErrorFormat = formatFailures
	}

	return &FailedError{
		Failed: failed,
		merr:   merr,
	}
}

// Error implements the error interface.
func (e *FailedError) Error() string {
	if e.merr == nil {
		return ErrWorkersFailed.Error()
	}

	return e.merr.Error()
}

// Unwrap allows errors.Is(err, ErrWorkersFailed) and access to the per-user errors.
func (e *FailedError) Unwrap() []error {
	if e.merr == nil {
		return []error{ErrWorkersFailed}
	}

	return []error{ErrWorkersFailed, e.merr}
}

// Users returns the usernames of the failed workers in run order.
func (e *FailedError) Users() []string {
	users := make([]string, 0, len(e.Failed))
	for _, r := range e.Failed {
		users = append(users, r.Label)
	}

	return users
}

func failureMessage(r *Result) string {
	return r.Label + " failed with " + strconv.Itoa(r.ExitCode)
}

func formatFailures(errs []error) string {
	msgs := make([]string, 0, len(errs))
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}

	noun := "workers"
	if len(errs) == 1 {
		noun = "worker"
	}

	return fmt.Sprintf("%d %s failed: %s", len(errs), noun, strings.Join(msgs, "; "))
}
