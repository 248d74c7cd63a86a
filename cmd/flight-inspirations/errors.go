// Copyright 2026 The Flight Inspirations Authors
// SPDX-License-Identifier: Apache-2.0

package main

import "fmt"

// errorCategory classifies command failures for the exit code.
type errorCategory string

const (
	// categoryValidation means the user supplied bad flags or
	// configuration. Exits 2.
	categoryValidation errorCategory = "validation"

	// categoryInternal means an I/O or upstream failure. Exits 1.
	categoryInternal errorCategory = "internal"
)

// commandError wraps an error with its category. main uses ExitCode to
// pick the process exit status.
type commandError struct {
	category errorCategory
	err      error
	hint     string
}

func (e *commandError) Error() string {
	if e.hint == "" {
		return e.err.Error()
	}
	return e.err.Error() + "\n  hint: " + e.hint
}

func (e *commandError) Unwrap() error { return e.err }

// ExitCode returns the process exit status for the category.
func (e *commandError) ExitCode() int {
	if e.category == categoryValidation {
		return 2
	}
	return 1
}

// withHint attaches a remediation line shown under the message.
func (e *commandError) withHint(hint string) *commandError {
	e.hint = hint
	return e
}

func validation(format string, args ...any) *commandError {
	return &commandError{category: categoryValidation, err: fmt.Errorf(format, args...)}
}

func internal(format string, args ...any) *commandError {
	return &commandError{category: categoryInternal, err: fmt.Errorf(format, args...)}
}
