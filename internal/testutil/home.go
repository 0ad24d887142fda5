// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"runtime"
	"testing"
)

// homeVars lists the variables consulted when locating the user's home and
// configuration directories.
var homeVars = []string{"HOME", "USERPROFILE", "XDG_CONFIG_HOME", "APPDATA"}

// HomeEnv returns environment entries pointing every home and config
// directory variable at dir. Append the result to a child's environment to
// keep it away from the real user configuration.
func HomeEnv(dir string) []string {
	env := make([]string, 0, len(homeVars))
	for _, name := range homeVars {
		env = append(env, name+"="+dir)
	}
	return env
}

// SetHomeDir points the platform's home variable at dir for the duration of
// the test. It cannot be used in parallel tests.
func SetHomeDir(t testing.TB, dir string) {
	t.Helper()

	switch runtime.GOOS {
	case "windows":
		t.Setenv("USERPROFILE", dir)
	default:
		t.Setenv("HOME", dir)
	}
	t.Setenv("XDG_CONFIG_HOME", dir)
}
