// SPDX-License-Identifier: MPL-2.0

//go:build !unix

package runtime

import (
	"math"
	"os/exec"
)

// posixExitCodes reports whether exit statuses are limited to a byte.
const posixExitCodes = false

const exitCodeRange = "of a 32-bit status"

// exitCodeInRange accepts any 32-bit status. ExitError.ExitCode converts the
// unsigned status to int, which is negative for NTSTATUS codes on 32-bit
// builds.
func exitCodeInRange(c ExitCode) bool {
	return int64(c) >= math.MinInt32 && int64(c) <= math.MaxUint32
}

// signalExitCode always reports false: only unix children die by signal.
func signalExitCode(_ *exec.ExitError) (ExitCode, bool) {
	return 0, false
}
