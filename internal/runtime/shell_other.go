// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package runtime

import (
	"context"
	"os/exec"
)

// shellCommand routes the argument list through /bin/sh -c '"$@"'. The
// arguments become the shell's positional parameters ($0 is "sh").
func shellCommand(ctx context.Context, req SpawnRequest) (*exec.Cmd, error) {
	shellArgs := make([]string, 0, len(req.Args)+3)
	shellArgs = append(shellArgs, "-c", forwardAllParams, "sh")
	shellArgs = append(shellArgs, req.Args...)
	// #nosec G204 -- the program text is fixed; user arguments are parameters.
	return exec.CommandContext(ctx, posixShell, shellArgs...), nil
}
