// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"
	"strings"

	cueerrors "cuelang.org/go/cue/errors"
)

// DefaultMaxFileSize bounds the size of CUE documents read from disk (1 MiB).
const DefaultMaxFileSize int64 = 1 << 20

// ValidationError is one CUE failure located in a file.
type ValidationError struct {
	// FilePath is the file being validated.
	FilePath string
	// CUEPath is the JSON path to the invalid value (e.g. "env.allow[0]").
	CUEPath string
	// Message is the CUE error message without the path.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.CUEPath == "" {
		return fmt.Sprintf("%s: %s", e.FilePath, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.FilePath, e.CUEPath, e.Message)
}

// FormatError turns a CUE error into "<file>: <path>: <message>" lines.
// A single failure is returned as a *ValidationError. Several failures are
// folded into one error listing each of them. Non-CUE errors are prefixed
// with the file path and wrapped.
func FormatError(err error, filePath string) error {
	if err == nil {
		return nil
	}

	list := cueerrors.Errors(err)
	if len(list) == 0 {
		return fmt.Errorf("%s: %w", filePath, err)
	}

	found := make([]*ValidationError, 0, len(list))
	for _, e := range list {
		path := formatPath(cueerrors.Path(e))
		msg := e.Error()
		if path != "" {
			msg = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(msg, path), ":"))
		}
		found = append(found, &ValidationError{FilePath: filePath, CUEPath: path, Message: msg})
	}

	if len(found) == 1 {
		return found[0]
	}

	lines := make([]string, len(found))
	for i, v := range found {
		if v.CUEPath == "" {
			lines[i] = v.Message
		} else {
			lines[i] = v.CUEPath + ": " + v.Message
		}
	}
	return fmt.Errorf("%s: validation failed:\n  %s", filePath, strings.Join(lines, "\n  "))
}

// formatPath renders a CUE selector path in JSON-path notation: numeric
// selectors after the first become indexes, so ["env", "allow", "0"] is
// "env.allow[0]".
func formatPath(path []string) string {
	var b strings.Builder
	for i, part := range path {
		switch {
		case i > 0 && isIndex(part):
			b.WriteString("[" + part + "]")
		case i > 0:
			b.WriteString("." + part)
		default:
			b.WriteString(part)
		}
	}
	return b.String()
}

func isIndex(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// CheckFileSize rejects data larger than maxSize bytes.
func CheckFileSize(data []byte, maxSize int64, filename string) error {
	if size := int64(len(data)); size > maxSize {
		return fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes", filename, size, maxSize)
	}
	return nil
}
