// SPDX-License-Identifier: MPL-2.0

package runtime

// Result is the outcome of running a child process.
//
// A non-zero ExitCode with a nil Error is a normal non-zero exit of the
// child. A non-nil Error means the child could not be launched or waited on;
// ExitCode then holds the code the caller should exit with.
type Result struct {
	// ExitCode is the exit code of the child (or of the launch failure).
	ExitCode ExitCode
	// Error contains the launch failure, if any.
	Error error
}

// NewErrorResult creates a Result with the given exit code and error.
func NewErrorResult(code ExitCode, err error) *Result {
	return &Result{ExitCode: code, Error: err}
}

// NewSuccessResult creates a Result with exit code 0 and no error.
func NewSuccessResult() *Result {
	return &Result{}
}

// NewExitCodeResult creates a Result with the given exit code and no error.
// Use this for non-zero exits that represent normal process termination
// rather than launch failures.
func NewExitCodeResult(code ExitCode) *Result {
	return &Result{ExitCode: code}
}

// Success returns true if the child ran and exited with code 0.
func (r *Result) Success() bool {
	return r.ExitCode.IsSuccess() && r.Error == nil
}

// LaunchFailed returns true if the child could not be started.
func (r *Result) LaunchFailed() bool {
	return r.Error != nil
}
