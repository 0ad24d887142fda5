// SPDX-License-Identifier: MPL-2.0

//go:build windows

package runtime

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"syscall"
)

// defaultComspec is used when COMSPEC is absent from the child environment.
const defaultComspec = "cmd.exe"

// shellCommand routes the argument list through cmd.exe so .bat and .cmd
// launchers run. The command line is passed verbatim through
// SysProcAttr.CmdLine; /s makes cmd strip only the outer quotes.
func shellCommand(ctx context.Context, req SpawnRequest) (*exec.Cmd, error) {
	comspec, ok := lookupEnvEntry(req.Env, "COMSPEC", true)
	if !ok || comspec == "" {
		comspec = defaultComspec
	}

	escaped := make([]string, len(req.Args))
	for i, arg := range req.Args {
		escaped[i] = syscall.EscapeArg(arg)
	}

	cmd := exec.CommandContext(ctx, comspec)
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CmdLine: fmt.Sprintf(`%s /d /s /c "%s"`, syscall.EscapeArg(comspec), strings.Join(escaped, " ")),
	}
	return cmd, nil
}
