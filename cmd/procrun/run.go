// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"strings"

	"procrun-cli/internal/config"
	"procrun-cli/internal/runtime"

	"github.com/spf13/cobra"
)

// ErrInvalidEnvAssignment is returned for -e values without a '=' separator.
var ErrInvalidEnvAssignment = errors.New("invalid environment assignment")

// launchOptions holds the flags shared by `run` and `env`.
type launchOptions struct {
	quiet    bool
	dir      string
	env      []string
	envFiles []string
	cleanEnv bool
	shell    string
	virtual  bool
}

func (o *launchOptions) addEnvFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&o.env, "env", "e", nil, "set a child environment variable (KEY=VALUE, repeatable)")
	cmd.Flags().StringArrayVar(&o.envFiles, "env-file", nil, "load variables from a dotenv file (repeatable, suffix '?' for optional)")
	cmd.Flags().BoolVar(&o.cleanEnv, "clean-env", false, "start from an empty environment instead of the inherited one")
}

func newRunCommand(app *App) *cobra.Command {
	var opts launchOptions

	runCmd := &cobra.Command{
		Use:   "run [flags] [--] <program> [args...]",
		Short: "Run a program and exit with its exit code",
		Long: `Run a program as a child process and wait for it.

The command line is echoed to stdout before the program starts (unless
--quiet). The child inherits the current environment with the -e and
--env-file overrides applied. procrun exits with the child's exit code.`,
		Example: `  procrun run -- go test ./...
  procrun run -q -e GOOS=linux -- go build .
  procrun run -C ./web --env-file .env? -- ./scripts/serve.sh`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProgram(cmd, app, &opts, args)
		},
	}
	// Flags after the program name belong to the program.
	runCmd.Flags().SetInterspersed(false)

	runCmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "do not echo the command line")
	runCmd.Flags().StringVarP(&opts.dir, "dir", "C", "", "working directory of the child")
	runCmd.Flags().StringVar(&opts.shell, "shell", "", "shell routing: auto, always or never (default from config)")
	runCmd.Flags().BoolVar(&opts.virtual, "virtual", false, "run through the embedded shell interpreter")
	opts.addEnvFlags(runCmd)

	return runCmd
}

func runProgram(cmd *cobra.Command, app *App, opts *launchOptions, args []string) error {
	app.warnConfigError()

	req, err := app.newRequest(opts, args)
	if err != nil {
		return err
	}
	runner, err := app.newRunner(opts)
	if err != nil {
		return err
	}

	result := runner.Run(cmd.Context(), req)

	if result.Error != nil {
		app.printError(result.Error)
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return &ExitError{Code: result.ExitCode, Err: result.Error}
	}
	if !result.Success() {
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return &ExitError{Code: result.ExitCode}
	}
	return nil
}

// newRequest translates flags and positional args into a runtime.Request.
func (a *App) newRequest(opts *launchOptions, args []string) (runtime.Request, error) {
	merge, err := parseEnvAssignments(opts.env)
	if err != nil {
		return runtime.Request{}, err
	}

	req := runtime.Request{
		Args:     args,
		Quiet:    opts.quiet || a.cfg.Quiet,
		Dir:      opts.dir,
		MergeEnv: merge,
		EnvFiles: opts.envFiles,
	}
	if opts.cleanEnv {
		req.BaseEnv = map[string]string{}
	}
	return req, nil
}

// newRunner builds a runner from flags layered over the configuration.
func (a *App) newRunner(opts *launchOptions) (*runtime.Runner, error) {
	mode := a.cfg.Shell
	if opts.shell != "" {
		mode = config.ShellMode(opts.shell)
	}
	if ok, errs := mode.IsValid(); !ok {
		return nil, errors.Join(errs...)
	}

	var spawner runtime.Spawner = runtime.NewExecSpawner()
	if opts.virtual || a.cfg.Spawner == config.SpawnerVirtual {
		spawner = runtime.NewVirtualSpawner()
	}

	return &runtime.Runner{
		Spawner: spawner,
		Env:     a.newEnvBuilder(),
		Shell:   mode.Resolve(a.HostShell()),
		Stdin:   a.stdin,
		Stdout:  a.stdout,
		Stderr:  a.stderr,
		Logger:  a.logger,
	}, nil
}

func (a *App) newEnvBuilder() *runtime.DefaultEnvBuilder {
	return &runtime.DefaultEnvBuilder{
		Environ: a.Environ,
		Inherit: runtime.InheritPolicy{
			Mode:  runtime.EnvInheritMode(a.cfg.Env.Inherit),
			Allow: a.cfg.Env.Allow,
			Deny:  a.cfg.Env.Deny,
		},
		Vars: a.cfg.Env.Vars,
	}
}

// parseEnvAssignments parses KEY=VALUE pairs. Later assignments win.
func parseEnvAssignments(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	env := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("%w %q (expected KEY=VALUE)", ErrInvalidEnvAssignment, pair)
		}
		env[key] = value
	}
	return env, nil
}
