// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"

	"procrun-cli/internal/issue"
	"procrun-cli/pkg/platform"

	"github.com/charmbracelet/log"
)

// ErrNoCommand is returned when a request has an empty argument list.
var ErrNoCommand = errors.New("no command to run")

type (
	// Request describes one child process invocation.
	Request struct {
		// Args is the command: Args[0] is the executable path, the rest are
		// its arguments. Args[0] is normalized before use; the slice itself
		// is never modified.
		Args []string
		// Quiet suppresses the echoed command line.
		Quiet bool
		// Dir is the working directory of the child. Empty means the
		// current directory.
		Dir string
		// BaseEnv replaces the inherited host environment as the base when
		// non-nil. An empty non-nil map yields a child with only overrides.
		BaseEnv map[string]string
		// MergeEnv entries override every other environment source.
		MergeEnv map[string]string
		// EnvFiles are dotenv files applied before MergeEnv, in order.
		EnvFiles []string
	}

	// Runner runs child processes synchronously and reports their outcome.
	// The zero value is usable: nil fields fall back to the production
	// defaults described on each field.
	Runner struct {
		// Spawner starts the child. Defaults to an ExecSpawner.
		Spawner Spawner
		// Env builds the child environment. Defaults to a DefaultEnvBuilder
		// over os.Environ.
		Env EnvBuilder
		// Shell routes children through the command shell. NewRunner sets
		// it from platform.HostShellRouting; the zero value disables it.
		Shell bool
		// Stdin is inherited by the child. Defaults to os.Stdin.
		Stdin io.Reader
		// Stdout receives the echoed command line and is inherited by the
		// child. Defaults to os.Stdout.
		Stdout io.Writer
		// Stderr is inherited by the child. Defaults to os.Stderr.
		Stderr io.Writer
		// Logger receives debug records about spawning. Defaults to log.Default().
		Logger *log.Logger
	}
)

// NewRunner creates a Runner with production defaults and shell routing
// enabled only where the host platform needs it.
func NewRunner() *Runner {
	return &Runner{
		Spawner: NewExecSpawner(),
		Env:     NewDefaultEnvBuilder(),
		Shell:   platform.HostShellRouting(),
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Logger:  log.Default(),
	}
}

// Run runs req and blocks until the child exits.
//
// The returned Result carries the child's exit code. Launch failures
// (missing executable, bad working directory, unreadable env file) are
// reported through Result.Error with a non-zero code. Run never exits the
// calling process.
func (r *Runner) Run(ctx context.Context, req Request) *Result {
	if len(req.Args) == 0 {
		return NewErrorResult(ExitFailure, ErrNoCommand)
	}

	args := NormalizeArgs(req.Args)
	if !req.Quiet {
		fmt.Fprintln(r.stdout(), FormatCommandLine(args))
	}

	env, err := r.envBuilder().Build(req)
	if err != nil {
		return NewErrorResult(ExitFailure, contextError("build child environment", "", issue.EnvFileInvalidId, err,
			"Check that every --env-file exists, or mark it optional with a trailing '?'",
			"Check the env file syntax: one KEY=VALUE per line, '#' for comments"))
	}

	if err := validateWorkDir(req.Dir); err != nil {
		return NewErrorResult(ExitFailure, contextError("use working directory", req.Dir, issue.WorkDirInvalidId, err,
			"Check that the directory exists and is accessible"))
	}

	spawnReq := SpawnRequest{
		Args:   args,
		Dir:    req.Dir,
		Env:    EnvToSlice(env),
		Shell:  r.Shell,
		Stdin:  r.stdin(),
		Stdout: r.stdout(),
		Stderr: r.stderr(),
	}

	logger := r.logger()
	logger.Debug("spawning child", "args", args, "dir", req.Dir, "shell", r.Shell, "env", len(spawnReq.Env))

	code, err := r.spawner().Spawn(ctx, spawnReq)
	if err != nil {
		logger.Debug("launch failed", "program", args[0], "error", err)
		return launchFailure(args[0], r.Shell, err)
	}

	if !code.IsSuccess() {
		logger.Debug("child exited", "program", args[0], "code", code)
		return NewExitCodeResult(code)
	}
	return NewSuccessResult()
}

func (r *Runner) spawner() Spawner {
	if r.Spawner != nil {
		return r.Spawner
	}
	return NewExecSpawner()
}

func (r *Runner) envBuilder() EnvBuilder {
	if r.Env != nil {
		return r.Env
	}
	return NewDefaultEnvBuilder()
}

func (r *Runner) stdin() io.Reader {
	if r.Stdin != nil {
		return r.Stdin
	}
	return os.Stdin
}

func (r *Runner) stdout() io.Writer {
	if r.Stdout != nil {
		return r.Stdout
	}
	return os.Stdout
}

func (r *Runner) stderr() io.Writer {
	if r.Stderr != nil {
		return r.Stderr
	}
	return os.Stderr
}

func (r *Runner) logger() *log.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return log.Default()
}

// LaunchExitCode picks the exit code reported for a launch failure,
// following POSIX shell conventions.
func LaunchExitCode(err error) ExitCode {
	switch {
	case errors.Is(err, exec.ErrNotFound), errors.Is(err, fs.ErrNotExist):
		return ExitNotFound
	case errors.Is(err, fs.ErrPermission):
		return ExitCannotExecute
	default:
		return ExitFailure
	}
}

// launchFailure wraps a spawn error with user-facing context and picks the
// exit code. With shell routing on, a missing program is reported by the
// shell as exit code 127, so a "not found" launch error means the shell
// itself is missing.
func launchFailure(program string, shell bool, err error) *Result {
	code := LaunchExitCode(err)

	var (
		id          issue.Id
		suggestions []string
	)
	switch {
	case code == ExitNotFound && shell:
		id = issue.ShellNotFoundId
		suggestions = []string{"Disable shell routing with --shell never, or use --virtual"}
	case code == ExitNotFound:
		id = issue.ProgramNotFoundId
		suggestions = []string{
			"Check that the program exists and the path is spelled correctly",
			"Use an explicit './' prefix for programs in the working directory",
		}
	case code == ExitCannotExecute:
		id = issue.PermissionDeniedId
		suggestions = []string{"Check the file permissions (is the program executable?)"}
	}

	return NewErrorResult(code, contextError("run program", program, id, err, suggestions...))
}

// contextError builds an *issue.ActionableError for a failed operation.
func contextError(operation, resource string, id issue.Id, err error, suggestions ...string) error {
	return issue.NewErrorContext().
		WithOperation(operation).
		WithResource(resource).
		WithIssue(id).
		WithSuggestions(suggestions...).
		Wrap(err).
		BuildError()
}
