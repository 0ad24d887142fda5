// SPDX-License-Identifier: MPL-2.0

package platform

import "runtime"

// OS name constants for runtime.GOOS comparisons.
// Centralizes the string literals to avoid scattered magic strings.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
)

// ShellRoutingDefault reports whether children spawned on goos should be
// routed through the command shell. Only Windows needs it: its .bat and .cmd
// launchers cannot be executed without cmd.exe.
func ShellRoutingDefault(goos string) bool {
	return goos == Windows
}

// HostShellRouting returns ShellRoutingDefault for the running platform.
func HostShellRouting() bool {
	return ShellRoutingDefault(runtime.GOOS)
}
