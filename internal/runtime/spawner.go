// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// posixShell is the interpreter used when shell routing is forced on a
// platform other than Windows.
const posixShell = "/bin/sh"

type (
	// SpawnRequest holds everything a Spawner needs to start a child.
	SpawnRequest struct {
		// Args is the normalized argument list; Args[0] is the executable.
		Args []string
		// Dir is the working directory. Empty means the current directory.
		Dir string
		// Env is the complete child environment as "KEY=VALUE" entries.
		// It is never nil when built by Runner, so an empty environment
		// stays empty instead of falling back to the parent's.
		Env []string
		// Shell routes the spawn through a command interpreter.
		Shell bool
		// Stdin, Stdout and Stderr are handed to the child unchanged.
		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
	}

	// Spawner starts a child process and waits for it.
	//
	// A nil error with a non-zero code is a normal non-zero exit. A non-nil
	// error means the child could not be launched or waited on.
	Spawner interface {
		Spawn(ctx context.Context, req SpawnRequest) (ExitCode, error)
	}

	// ExecSpawner runs children on the host with os/exec.
	ExecSpawner struct{}

	// MockSpawner is a test double that records the request it receives.
	MockSpawner struct {
		// Code is returned from Spawn.
		Code ExitCode
		// Err is returned from Spawn.
		Err error
		// Requests holds every request passed to Spawn, in order.
		Requests []SpawnRequest
	}
)

// NewExecSpawner creates a host process spawner.
func NewExecSpawner() *ExecSpawner {
	return &ExecSpawner{}
}

// Spawn runs the child and blocks until it exits.
//
// Cancellation of ctx does not kill the child. An interrupt reaches the child
// through its process group, and the caller keeps waiting for its real exit
// status.
func (s *ExecSpawner) Spawn(ctx context.Context, req SpawnRequest) (ExitCode, error) {
	if len(req.Args) == 0 {
		return ExitFailure, ErrNoCommand
	}
	ctx = context.WithoutCancel(ctx)

	var cmd *exec.Cmd
	if req.Shell {
		var err error
		if cmd, err = shellCommand(ctx, req); err != nil {
			return ExitFailure, err
		}
	} else {
		// #nosec G204 -- running the user's command is the purpose of procrun.
		cmd = exec.CommandContext(ctx, req.Args[0], req.Args[1:]...)
	}

	cmd.Dir = req.Dir
	cmd.Env = req.Env
	cmd.Stdin = req.Stdin
	cmd.Stdout = req.Stdout
	cmd.Stderr = req.Stderr

	return exitCodeFromError(cmd.Run())
}

// Spawn records the request and returns the configured outcome.
func (m *MockSpawner) Spawn(_ context.Context, req SpawnRequest) (ExitCode, error) {
	m.Requests = append(m.Requests, req)
	return m.Code, m.Err
}

// LastRequest returns the most recent request, or false if Spawn was never called.
func (m *MockSpawner) LastRequest() (SpawnRequest, bool) {
	if len(m.Requests) == 0 {
		return SpawnRequest{}, false
	}
	return m.Requests[len(m.Requests)-1], true
}

// exitCodeFromError maps the error returned by exec.Cmd.Run to an exit code.
// An *exec.ExitError is a normal exit and yields a nil error; anything else
// is a launch failure.
func exitCodeFromError(err error) (ExitCode, error) {
	if err == nil {
		return ExitSuccess, nil
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return ExitFailure, err
	}

	if sig, ok := signalExitCode(exitErr); ok {
		return sig, nil
	}

	code := ExitCode(exitErr.ExitCode())
	if validateErr := code.Validate(); validateErr != nil {
		return ExitFailure, fmt.Errorf("child exited abnormally: %w", validateErr)
	}
	return code, nil
}

// forwardAllParams is a shell program that runs its positional parameters as
// one simple command. Arguments travel as parameters, never as source text,
// so any byte sequence reaches the child unchanged.
const forwardAllParams = `"$@"`

// lookupEnvEntry finds name in "KEY=VALUE" entries. fold selects
// case-insensitive matching, as Windows does.
func lookupEnvEntry(env []string, name string, fold bool) (string, bool) {
	for i := len(env) - 1; i >= 0; i-- {
		idx := findEnvSeparator(env[i])
		if idx == -1 {
			continue
		}
		key := env[i][:idx]
		if key == name || (fold && strings.EqualFold(key, name)) {
			return env[i][idx+1:], true
		}
	}
	return "", false
}
