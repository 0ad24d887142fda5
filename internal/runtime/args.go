// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"path/filepath"
	"strings"
)

// NormalizeExecutable lexically cleans an executable path: redundant
// separators and "." / ".." segments are resolved without touching the
// filesystem.
//
// A leading "./" is kept when the cleaned path is still relative and stays
// below the starting directory. Dropping it would turn "./prog" into "prog",
// which os/exec resolves through PATH instead of the working directory.
func NormalizeExecutable(path string) string {
	if path == "" {
		return path
	}

	cleaned := filepath.Clean(path)
	if !hasCurrentDirPrefix(path) || filepath.IsAbs(cleaned) {
		return cleaned
	}
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return cleaned
	}
	return "." + string(filepath.Separator) + cleaned
}

// hasCurrentDirPrefix reports whether path starts with "./" (or ".\" where
// backslash is a separator).
func hasCurrentDirPrefix(path string) bool {
	if len(path) < 2 || path[0] != '.' {
		return false
	}
	return path[1] == '/' || path[1] == filepath.Separator
}

// NormalizeArgs returns a copy of args whose first element has been passed
// through NormalizeExecutable. The input slice is not modified.
func NormalizeArgs(args []string) []string {
	if len(args) == 0 {
		return nil
	}
	normalized := make([]string, len(args))
	copy(normalized, args)
	normalized[0] = NormalizeExecutable(normalized[0])
	return normalized
}

// FormatCommandLine joins args with single spaces. The result is meant for
// display and is not shell-safe.
func FormatCommandLine(args []string) string {
	return strings.Join(args, " ")
}
