// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// VirtualSpawner runs children through the embedded mvdan/sh interpreter.
// The argument list is handed to the interpreter as positional parameters of
// the program "$@", so the program is always interpreter-routed and
// SpawnRequest.Shell has no further effect. It works the same on every
// platform and needs no host shell.
type VirtualSpawner struct{}

// NewVirtualSpawner creates an interpreter-backed spawner.
func NewVirtualSpawner() *VirtualSpawner {
	return &VirtualSpawner{}
}

// Spawn interprets the command and blocks until it finishes.
func (s *VirtualSpawner) Spawn(ctx context.Context, req SpawnRequest) (ExitCode, error) {
	if len(req.Args) == 0 {
		return ExitFailure, ErrNoCommand
	}

	prog, err := syntax.NewParser().Parse(strings.NewReader(forwardAllParams), req.Args[0])
	if err != nil {
		return ExitFailure, fmt.Errorf("failed to parse command: %w", err)
	}

	opts := []interp.RunnerOption{
		interp.Env(expand.ListEnviron(req.Env...)),
		interp.StdIO(req.Stdin, req.Stdout, req.Stderr),
		interp.Params(append([]string{"--"}, req.Args...)...),
	}
	if req.Dir != "" {
		opts = append(opts, interp.Dir(req.Dir))
	}

	runner, err := interp.New(opts...)
	if err != nil {
		return ExitFailure, fmt.Errorf("failed to create interpreter: %w", err)
	}

	// As with ExecSpawner, cancellation must not kill the child.
	if err := runner.Run(context.WithoutCancel(ctx), prog); err != nil {
		var exitStatus interp.ExitStatus
		if errors.As(err, &exitStatus) {
			return ExitCode(exitStatus), nil
		}
		return ExitFailure, fmt.Errorf("virtual shell execution failed: %w", err)
	}

	return ExitSuccess, nil
}
