// SPDX-License-Identifier: MPL-2.0

// Package runtime builds child process environments and runs child processes.
//
// MakeEnv overlays override entries on a copy of a base environment. The
// EnvBuilder interface layers the sources procrun knows about (the inherited
// host environment, configured variables, dotenv files and explicit
// overrides) on top of MakeEnv.
//
// Runner normalizes the executable path, echoes the invocation, builds the
// environment and hands a SpawnRequest to a Spawner. Two spawners exist:
//   - ExecSpawner: runs the program on the host with os/exec, optionally
//     routed through cmd.exe (Windows) or /bin/sh
//   - VirtualSpawner: runs the program through the embedded mvdan/sh interpreter
//
// The outcome is returned as a Result. Nothing in this package terminates
// the calling process; the CLI entry point decides what to do with the code.
package runtime
