// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	// ExitSuccess: unlocked, or the command succeeded.
	ExitSuccess = 0
	// ExitGeneralError: startup failure, or a failed check.
	ExitGeneralError = 1
	// ExitUsageError: invalid command usage or arguments.
	ExitUsageError = 2
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ErrUsage marks errors caused by bad command-line usage.
var ErrUsage = errors.New("usage error")

// UsageError describes a bad argument.
type UsageError struct {
	Arg    string
	Reason string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("%s: %s", e.Arg, e.Reason)
}

// Is lets errors.Is(err, ErrUsage) match any UsageError.
func (e *UsageError) Is(target error) bool {
	return target == ErrUsage
}

// CommandError represents a failed subcommand with context.
type CommandError struct {
	Command string
	Action  string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s %s failed: %v", e.Command, e.Action, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// ExitCode maps an error to the process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrUsage):
		return ExitUsageError
	default:
		return ExitGeneralError
	}
}
