// SPDX-License-Identifier: MPL-2.0

package config

// configDirOverride, when set, is returned by ConfigDir as is.
var configDirOverride string

// OverrideConfigDir makes ConfigDir return dir and returns a function that
// restores the previous directory, suitable for t.Cleanup. Not safe for
// parallel tests.
func OverrideConfigDir(dir string) (restore func()) {
	prev := configDirOverride
	configDirOverride = dir
	return func() { configDirOverride = prev }
}
