// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/fang"
)

func TestGetVersionString(t *testing.T) {
	// Not parallel: subtests mutate package-level Version/Commit/BuildDate vars.

	t.Run("ldflags version takes priority", func(t *testing.T) {
		origVersion, origCommit, origBuildDate := Version, Commit, BuildDate
		t.Cleanup(func() {
			Version, Commit, BuildDate = origVersion, origCommit, origBuildDate
		})

		Version = "v1.2.3"
		Commit = "abc1234"
		BuildDate = "2025-06-15T10:00:00Z"

		got := getVersionString()
		want := "v1.2.3 (commit: abc1234, built: 2025-06-15T10:00:00Z)"
		if got != want {
			t.Errorf("getVersionString() = %q, want %q", got, want)
		}
	})

	t.Run("fallback to dev", func(t *testing.T) {
		origVersion := Version
		t.Cleanup(func() { Version = origVersion })

		Version = "dev"
		if got := getVersionString(); got != "dev (built from source)" {
			t.Errorf("getVersionString() = %q", got)
		}
	})
}

func TestVersionCommand(t *testing.T) {
	cli := newTestCLI(t, nil, nil)
	if err := cli.execute("version"); err != nil {
		t.Fatalf("version error = %v", err)
	}
	if !strings.HasPrefix(cli.stdout.String(), "procrun ") {
		t.Errorf("version output = %q", cli.stdout.String())
	}
}

func TestErrorHandler_SkipsExitErrors(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	errorHandler(&buf, fang.Styles{}, &ExitError{Code: 3})
	if buf.Len() != 0 {
		t.Errorf("ExitError should not be printed, got %q", buf.String())
	}

	errorHandler(&buf, fang.Styles{}, errors.New("plain failure"))
	if !strings.Contains(buf.String(), "plain failure") {
		t.Errorf("other errors should be printed, got %q", buf.String())
	}
}

func TestExitError(t *testing.T) {
	t.Parallel()

	cause := errors.New("cause")
	if got := (&ExitError{Code: 2, Err: cause}).Error(); got != "cause" {
		t.Errorf("Error() = %q", got)
	}
	if got := (&ExitError{Code: 2}).Error(); got != "exit status 2" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(&ExitError{Code: 1, Err: cause}, cause) {
		t.Error("ExitError should unwrap to its cause")
	}
}
