// SPDX-License-Identifier: MPL-2.0

//go:build unix

package runtime

import (
	"os/exec"
	"syscall"
)

// posixExitCodes reports whether exit statuses are limited to a byte.
const posixExitCodes = true

const exitCodeRange = "0-255"

func exitCodeInRange(c ExitCode) bool {
	return c >= 0 && c <= 255
}

// signalExitCode reports the shell-style code (128 + signal number) for a
// child killed by a signal.
func signalExitCode(exitErr *exec.ExitError) (ExitCode, bool) {
	status, ok := exitErr.Sys().(syscall.WaitStatus)
	if !ok || !status.Signaled() {
		return 0, false
	}
	return ExitCode(128 + int(status.Signal())), true
}
