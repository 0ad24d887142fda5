// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"errors"
	"fmt"
	"strconv"
)

const (
	// ExitSuccess is the exit code of a successful child.
	ExitSuccess ExitCode = 0
	// ExitFailure is the generic failure code used when no better code is known.
	ExitFailure ExitCode = 1
	// ExitCannotExecute is the POSIX shell code for a program that exists but
	// could not be executed (permission denied, not executable).
	ExitCannotExecute ExitCode = 126
	// ExitNotFound is the POSIX shell code for a program that could not be found.
	ExitNotFound ExitCode = 127
)

// ErrInvalidExitCode is the sentinel error wrapped by InvalidExitCodeError.
var ErrInvalidExitCode = errors.New("invalid exit code")

type (
	// ExitCode represents a process exit status code.
	// Exit codes are in the range 0-255 on POSIX systems. Windows reports a
	// 32-bit status, so NTSTATUS values such as 0xC0000005 are kept as is.
	// The zero value (0) means success.
	ExitCode int

	// InvalidExitCodeError is returned when an ExitCode is outside the
	// range the host platform can report.
	InvalidExitCodeError struct {
		Value ExitCode
	}
)

// Error implements the error interface.
func (e *InvalidExitCodeError) Error() string {
	return fmt.Sprintf("invalid exit code %d (must be in range %s)", e.Value, exitCodeRange)
}

// Unwrap returns ErrInvalidExitCode so callers can use errors.Is for programmatic detection.
func (e *InvalidExitCodeError) Unwrap() error { return ErrInvalidExitCode }

// IsValid returns whether the ExitCode is in the platform's valid range,
// and a list of validation errors if it is not.
func (c ExitCode) IsValid() (bool, []error) {
	if !exitCodeInRange(c) {
		return false, []error{&InvalidExitCodeError{Value: c}}
	}
	return true, nil
}

// Validate returns an *InvalidExitCodeError when the code is out of range.
func (c ExitCode) Validate() error {
	if ok, errs := c.IsValid(); !ok {
		return errs[0]
	}
	return nil
}

// IsSuccess returns true if the exit code indicates successful execution.
func (c ExitCode) IsSuccess() bool { return c == ExitSuccess }

// String returns the decimal string representation of the ExitCode.
func (c ExitCode) String() string { return strconv.Itoa(int(c)) }
