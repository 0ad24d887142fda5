// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	goruntime "runtime"
	"strings"
	"testing"
	"unicode/utf8"

	"procrun-cli/internal/issue"

	"github.com/charmbracelet/log"
)

// newTestRunner returns a runner wired to a mock spawner and buffers.
func newTestRunner(spawner Spawner, env EnvBuilder) (*Runner, *bytes.Buffer) {
	var stdout bytes.Buffer
	return &Runner{
		Spawner: spawner,
		Env:     env,
		Stdin:   strings.NewReader(""),
		Stdout:  &stdout,
		Stderr:  &bytes.Buffer{},
		Logger:  log.New(&bytes.Buffer{}),
	}, &stdout
}

func requireIssue(t *testing.T, err error, want issue.Id) {
	t.Helper()

	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		t.Fatalf("error %v is not an *issue.ActionableError", err)
	}
	if ae.Issue != want {
		t.Errorf("issue id = %d, want %d", ae.Issue, want)
	}
}

func TestRunner_EchoesNormalizedCommand(t *testing.T) {
	t.Parallel()

	sep := string(filepath.Separator)
	tests := []struct {
		name     string
		args     []string
		wantEcho string
		wantArg0 string
	}{
		{"parent segment", []string{"a/../prog", "x", "y"}, "prog x y\n", "prog"},
		{"dot prefix", []string{"./prog", "a", "b"}, "." + sep + "prog a b\n", "." + sep + "prog"},
		{"no arguments", []string{"prog"}, "prog\n", "prog"},
		{"space in argument not quoted", []string{"prog", "has space"}, "prog has space\n", "prog"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			spawner := &MockSpawner{}
			r, stdout := newTestRunner(spawner, &MockEnvBuilder{})

			result := r.Run(context.Background(), Request{Args: tt.args})
			if !result.Success() {
				t.Fatalf("Run() = %+v, want success", result)
			}
			if stdout.String() != tt.wantEcho {
				t.Errorf("echo = %q, want %q", stdout.String(), tt.wantEcho)
			}
			req, ok := spawner.LastRequest()
			if !ok {
				t.Fatal("spawner was not called")
			}
			if req.Args[0] != tt.wantArg0 {
				t.Errorf("spawned Args[0] = %q, want %q", req.Args[0], tt.wantArg0)
			}
		})
	}
}

func TestRunner_Quiet(t *testing.T) {
	t.Parallel()

	spawner := &MockSpawner{}
	r, stdout := newTestRunner(spawner, &MockEnvBuilder{})

	result := r.Run(context.Background(), Request{Args: []string{"prog", "x"}, Quiet: true})
	if !result.Success() {
		t.Fatalf("Run() = %+v, want success", result)
	}
	if stdout.Len() != 0 {
		t.Errorf("quiet run wrote %q", stdout.String())
	}
	if len(spawner.Requests) != 1 {
		t.Errorf("spawner called %d times, want 1", len(spawner.Requests))
	}
}

func TestRunner_DoesNotModifyArgs(t *testing.T) {
	t.Parallel()

	args := []string{"a/../prog", "x"}
	r, _ := newTestRunner(&MockSpawner{}, &MockEnvBuilder{})
	r.Run(context.Background(), Request{Args: args})

	if args[0] != "a/../prog" {
		t.Errorf("caller args modified: %v", args)
	}
}

func TestRunner_PassesSpawnSettings(t *testing.T) {
	t.Parallel()

	for _, shell := range []bool{false, true} {
		spawner := &MockSpawner{}
		r, _ := newTestRunner(spawner, &MockEnvBuilder{Env: map[string]string{"B": "2", "A": "1"}})
		r.Shell = shell

		dir := t.TempDir()
		r.Run(context.Background(), Request{Args: []string{"prog"}, Dir: dir})

		req, ok := spawner.LastRequest()
		if !ok {
			t.Fatal("spawner was not called")
		}
		if req.Shell != shell {
			t.Errorf("Shell = %v, want %v", req.Shell, shell)
		}
		if req.Dir != dir {
			t.Errorf("Dir = %q, want %q", req.Dir, dir)
		}
		if strings.Join(req.Env, ",") != "A=1,B=2" {
			t.Errorf("Env = %v, want sorted [A=1 B=2]", req.Env)
		}
		if req.Stdout == nil || req.Stderr == nil || req.Stdin == nil {
			t.Error("stdio should be forwarded to the spawner")
		}
	}
}

func TestRunner_EmptyEnvironmentStaysEmpty(t *testing.T) {
	t.Parallel()

	spawner := &MockSpawner{}
	r, _ := newTestRunner(spawner, &MockEnvBuilder{Env: map[string]string{}})
	r.Run(context.Background(), Request{Args: []string{"prog"}})

	req, _ := spawner.LastRequest()
	if req.Env == nil {
		t.Error("Env must be non-nil so the child does not inherit the parent environment")
	}
}

func TestRunner_NonZeroExit(t *testing.T) {
	t.Parallel()

	r, _ := newTestRunner(&MockSpawner{Code: 3}, &MockEnvBuilder{})

	result := r.Run(context.Background(), Request{Args: []string{"prog"}})
	if result.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", result.ExitCode)
	}
	if result.Error != nil {
		t.Errorf("Error = %v, want nil for a normal non-zero exit", result.Error)
	}
	if result.Success() {
		t.Error("Success() = true for exit code 3")
	}
}

func TestRunner_EmptyArgs(t *testing.T) {
	t.Parallel()

	spawner := &MockSpawner{}
	r, stdout := newTestRunner(spawner, &MockEnvBuilder{})

	result := r.Run(context.Background(), Request{})
	if !errors.Is(result.Error, ErrNoCommand) {
		t.Errorf("Error = %v, want ErrNoCommand", result.Error)
	}
	if result.ExitCode != ExitFailure {
		t.Errorf("ExitCode = %d, want %d", result.ExitCode, ExitFailure)
	}
	if stdout.Len() != 0 || len(spawner.Requests) != 0 {
		t.Error("nothing should be echoed or spawned for an empty command")
	}
}

func TestRunner_LaunchFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		shell    bool
		wantCode ExitCode
		wantID   issue.Id
	}{
		{"not found in PATH", exec.ErrNotFound, false, ExitNotFound, issue.ProgramNotFoundId},
		{"missing file", &fs.PathError{Op: "fork/exec", Path: "./prog", Err: fs.ErrNotExist}, false, ExitNotFound, issue.ProgramNotFoundId},
		{"shell missing", exec.ErrNotFound, true, ExitNotFound, issue.ShellNotFoundId},
		{"permission", &fs.PathError{Op: "fork/exec", Path: "./prog", Err: fs.ErrPermission}, false, ExitCannotExecute, issue.PermissionDeniedId},
		{"other", errors.New("exec format error"), false, ExitFailure, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r, _ := newTestRunner(&MockSpawner{Code: ExitFailure, Err: tt.err}, &MockEnvBuilder{})
			r.Shell = tt.shell

			result := r.Run(context.Background(), Request{Args: []string{"prog"}, Quiet: true})
			if !result.LaunchFailed() {
				t.Fatalf("LaunchFailed() = false, result %+v", result)
			}
			if result.ExitCode != tt.wantCode {
				t.Errorf("ExitCode = %d, want %d", result.ExitCode, tt.wantCode)
			}
			if !errors.Is(result.Error, tt.err) {
				t.Errorf("Error should wrap the spawn error: %v", result.Error)
			}
			requireIssue(t, result.Error, tt.wantID)
		})
	}
}

func TestRunner_EnvBuildError(t *testing.T) {
	t.Parallel()

	cause := errors.New("bad env file")
	spawner := &MockSpawner{}
	r, _ := newTestRunner(spawner, &MockEnvBuilder{Err: cause})

	result := r.Run(context.Background(), Request{Args: []string{"prog"}})
	if result.ExitCode != ExitFailure || !errors.Is(result.Error, cause) {
		t.Errorf("Run() = %+v, want code 1 wrapping %v", result, cause)
	}
	requireIssue(t, result.Error, issue.EnvFileInvalidId)
	if len(spawner.Requests) != 0 {
		t.Error("spawner should not be called when the environment cannot be built")
	}
}

func TestRunner_InvalidWorkDir(t *testing.T) {
	t.Parallel()

	spawner := &MockSpawner{}
	r, _ := newTestRunner(spawner, &MockEnvBuilder{})
	dir := filepath.Join(t.TempDir(), "missing")

	result := r.Run(context.Background(), Request{Args: []string{"prog"}, Dir: dir})
	if result.ExitCode != ExitFailure || !errors.Is(result.Error, fs.ErrNotExist) {
		t.Errorf("Run() = %+v, want code 1 wrapping fs.ErrNotExist", result)
	}
	requireIssue(t, result.Error, issue.WorkDirInvalidId)
	if len(spawner.Requests) != 0 {
		t.Error("spawner should not be called with a missing working directory")
	}
}

func TestRunner_ZeroValueDefaults(t *testing.T) {
	t.Parallel()

	r := &Runner{}
	if r.spawner() == nil || r.envBuilder() == nil || r.logger() == nil {
		t.Error("zero-value Runner should fall back to defaults")
	}
	if r.stdin() != os.Stdin || r.stdout() != os.Stdout || r.stderr() != os.Stderr {
		t.Error("zero-value Runner should use the process stdio")
	}
}

func TestLaunchExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want ExitCode
	}{
		{exec.ErrNotFound, ExitNotFound},
		{&exec.Error{Name: "prog", Err: exec.ErrNotFound}, ExitNotFound},
		{fs.ErrNotExist, ExitNotFound},
		{fs.ErrPermission, ExitCannotExecute},
		{errors.New("other"), ExitFailure},
	}

	for _, tt := range tests {
		if got := LaunchExitCode(tt.err); got != tt.want {
			t.Errorf("LaunchExitCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

// The tests below spawn the test binary itself as the child; see TestMain.

func newHostRunner(spawner Spawner, stdout *bytes.Buffer) *Runner {
	return &Runner{
		Spawner: spawner,
		Env:     NewDefaultEnvBuilder(),
		Stdin:   strings.NewReader(""),
		Stdout:  stdout,
		Stderr:  &bytes.Buffer{},
		Logger:  log.New(&bytes.Buffer{}),
	}
}

func TestRunner_ExecExitCodes(t *testing.T) {
	t.Parallel()

	exe := helperBinary(t)
	for _, tc := range []struct {
		exit string
		want ExitCode
	}{
		{"0", ExitSuccess},
		{"3", 3},
	} {
		var stdout bytes.Buffer
		r := newHostRunner(NewExecSpawner(), &stdout)

		result := r.Run(context.Background(), Request{
			Args:     []string{exe},
			Quiet:    true,
			MergeEnv: map[string]string{helperExitEnv: tc.exit},
		})
		if result.Error != nil {
			t.Fatalf("Run() error = %v", result.Error)
		}
		if result.ExitCode != tc.want {
			t.Errorf("exit %s: ExitCode = %d, want %d", tc.exit, result.ExitCode, tc.want)
		}
	}
}

func TestRunner_ExecEnvironmentAndDir(t *testing.T) {
	t.Parallel()

	exe := helperBinary(t)
	dir := t.TempDir()

	var stdout bytes.Buffer
	r := newHostRunner(NewExecSpawner(), &stdout)
	result := r.Run(context.Background(), Request{
		Args:  []string{exe},
		Quiet: true,
		MergeEnv: map[string]string{
			helperPrintEnvEnv: "PROCRUN_TEST_VALUE",
			"PROCRUN_TEST_VALUE": "merged",
		},
	})
	if !result.Success() {
		t.Fatalf("Run() = %+v", result)
	}
	if stdout.String() != "merged" {
		t.Errorf("child saw %q, want %q", stdout.String(), "merged")
	}

	stdout.Reset()
	result = r.Run(context.Background(), Request{
		Args:     []string{exe},
		Quiet:    true,
		Dir:      dir,
		MergeEnv: map[string]string{helperPwdEnv: "1"},
	})
	if !result.Success() {
		t.Fatalf("Run() = %+v", result)
	}
	want, err := filepath.EvalSymlinks(dir)
	if err != nil {
		t.Fatal(err)
	}
	got, err := filepath.EvalSymlinks(stdout.String())
	if err != nil {
		t.Fatalf("EvalSymlinks(%q) error = %v", stdout.String(), err)
	}
	if got != want {
		t.Errorf("child cwd = %q, want %q", got, want)
	}
}

func TestRunner_ExecEchoPrecedesChildOutput(t *testing.T) {
	t.Parallel()

	exe := helperBinary(t)
	var stdout bytes.Buffer
	r := newHostRunner(NewExecSpawner(), &stdout)

	result := r.Run(context.Background(), Request{
		Args:     []string{exe, "x"},
		MergeEnv: map[string]string{helperArgsEnv: "1"},
	})
	if !result.Success() {
		t.Fatalf("Run() = %+v", result)
	}
	want := filepath.Clean(exe) + " x\nx"
	if stdout.String() != want {
		t.Errorf("output = %q, want %q", stdout.String(), want)
	}
}

func TestRunner_ExecMissingProgram(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer
	r := newHostRunner(NewExecSpawner(), &stdout)

	result := r.Run(context.Background(), Request{Args: []string{"procrun-definitely-missing-program"}, Quiet: true})
	if result.ExitCode != ExitNotFound {
		t.Errorf("ExitCode = %d, want %d", result.ExitCode, ExitNotFound)
	}
	requireIssue(t, result.Error, issue.ProgramNotFoundId)

	result = r.Run(context.Background(), Request{
		Args:  []string{"./procrun-definitely-missing-program"},
		Dir:   t.TempDir(),
		Quiet: true,
	})
	if result.ExitCode != ExitNotFound {
		t.Errorf("ExitCode = %d, want %d for a missing relative path", result.ExitCode, ExitNotFound)
	}
}

func TestRunner_ExecPermissionDenied(t *testing.T) {
	t.Parallel()

	if goruntime.GOOS == "windows" {
		t.Skip("skipping: Windows has no execute permission bit")
	}

	path := writeTempFile(t, t.TempDir(), "not-executable", "#!/bin/sh\nexit 0\n")

	var stdout bytes.Buffer
	r := newHostRunner(NewExecSpawner(), &stdout)
	result := r.Run(context.Background(), Request{Args: []string{path}, Quiet: true})

	if result.ExitCode != ExitCannotExecute {
		t.Errorf("ExitCode = %d, want %d (error %v)", result.ExitCode, ExitCannotExecute, result.Error)
	}
	requireIssue(t, result.Error, issue.PermissionDeniedId)
}

// awkwardArgs are arguments a shell must not reinterpret: quoting
// characters, expansions, globs and bytes that have no POSIX quoted form.
var awkwardArgs = []struct {
	name string
	arg  string
}{
	{"space", "a b"},
	{"expansion", "$HOME"},
	{"single quotes", "'q'"},
	{"glob", "*"},
	{"tab", "tab\there"},
	{"newline", "line\nbreak"},
	{"control byte", "ctl\x01"},
	{"invalid utf-8", "\xff\xfe"},
	{"empty", ""},
}

func TestRunner_ExecThroughShell(t *testing.T) {
	t.Parallel()

	if goruntime.GOOS == "windows" {
		t.Skip("skipping: POSIX shell routing test")
	}

	exe := helperBinary(t)
	for _, tt := range awkwardArgs {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var stdout bytes.Buffer
			r := newHostRunner(NewExecSpawner(), &stdout)
			r.Shell = true

			result := r.Run(context.Background(), Request{
				Args:     []string{exe, "first", tt.arg},
				Quiet:    true,
				MergeEnv: map[string]string{helperArgsEnv: "1", helperExitEnv: "4"},
			})
			if result.Error != nil {
				t.Fatalf("Run() error = %v", result.Error)
			}
			if result.ExitCode != 4 {
				t.Errorf("ExitCode = %d, want 4", result.ExitCode)
			}
			if want := "first|" + tt.arg; stdout.String() != want {
				t.Errorf("shell saw args %q, want %q", stdout.String(), want)
			}
		})
	}
}

func TestRunner_VirtualSpawner(t *testing.T) {
	t.Parallel()

	exe := helperBinary(t)
	for _, tt := range awkwardArgs {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if goruntime.GOOS == "windows" && !utf8.ValidString(tt.arg) {
				t.Skip("skipping: Windows arguments are UTF-16")
			}

			var stdout bytes.Buffer
			r := newHostRunner(NewVirtualSpawner(), &stdout)

			result := r.Run(context.Background(), Request{
				Args:     []string{exe, "first", tt.arg},
				Quiet:    true,
				MergeEnv: map[string]string{helperArgsEnv: "1", helperExitEnv: "6"},
			})
			if result.Error != nil {
				t.Fatalf("Run() error = %v", result.Error)
			}
			if result.ExitCode != 6 {
				t.Errorf("ExitCode = %d, want 6", result.ExitCode)
			}
			if want := "first|" + tt.arg; stdout.String() != want {
				t.Errorf("interpreter passed args %q, want %q", stdout.String(), want)
			}
		})
	}
}

func TestRunner_ExecWindowsStatusCode(t *testing.T) {
	t.Parallel()

	if goruntime.GOOS != "windows" {
		t.Skip("skipping: 32-bit exit statuses are Windows-only")
	}

	exe := helperBinary(t)
	var stdout bytes.Buffer
	r := newHostRunner(NewExecSpawner(), &stdout)

	result := r.Run(context.Background(), Request{
		Args:     []string{exe},
		Quiet:    true,
		MergeEnv: map[string]string{helperExitEnv: "3221225477"},
	})
	if result.Error != nil {
		t.Fatalf("Run() error = %v, want a plain non-zero exit", result.Error)
	}
	if result.ExitCode != ExitCode(accessViolation) {
		t.Errorf("ExitCode = %d, want %d", result.ExitCode, accessViolation)
	}
}
