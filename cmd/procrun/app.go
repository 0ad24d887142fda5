// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"

	"procrun-cli/internal/config"
	"procrun-cli/pkg/platform"

	"github.com/charmbracelet/log"
)

type (
	// App wires CLI services and shared dependencies. It is the composition root for
	// the CLI layer: every Cobra command handler receives an App reference and reads
	// configuration, streams and the host environment through it.
	App struct {
		Config ConfigProvider
		// Environ snapshots the host environment for the runner's base.
		Environ func() []string
		// HostShell reports whether the host needs shell routing ("auto" mode).
		HostShell func() bool

		stdin  io.Reader
		stdout io.Writer
		stderr io.Writer
		logger *log.Logger

		// Global flag values.
		verbose    bool
		configPath string

		// Loaded once per invocation by the root command.
		cfg     *config.Config
		cfgPath string
		cfgErr  error
	}

	// Dependencies defines the injection points for building an App. Nil fields are
	// replaced with production defaults by NewApp. Tests supply buffers, a fixed
	// environment and config sources to isolate a single command.
	Dependencies struct {
		Config    ConfigProvider
		Environ   func() []string
		HostShell func() bool
		Stdin     io.Reader
		Stdout    io.Writer
		Stderr    io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	// This abstraction enables testing with custom config sources or mock implementations.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, string, error)
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) (*App, error) {
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Environ == nil {
		deps.Environ = os.Environ
	}
	if deps.HostShell == nil {
		deps.HostShell = platform.HostShellRouting
	}
	if deps.Stdin == nil {
		deps.Stdin = os.Stdin
	}
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}

	return &App{
		Config:    deps.Config,
		Environ:   deps.Environ,
		HostShell: deps.HostShell,
		stdin:     deps.Stdin,
		stdout:    deps.Stdout,
		stderr:    deps.Stderr,
		logger:    newLogger(deps.Stderr, false),
		cfg:       config.DefaultConfig(),
	}, nil
}

// loadConfig loads the configuration for this invocation and sets up the
// logger. A load failure is kept in cfgErr and the defaults stay in effect,
// so `run` can still work with a broken config file.
func (a *App) loadConfig(ctx context.Context) {
	cfg, path, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: a.configPath})
	if err != nil {
		a.cfgErr = err
		cfg = config.DefaultConfig()
	}
	a.cfg, a.cfgPath = cfg, path

	a.logger = newLogger(a.stderr, a.isVerbose())
	a.logger.Debug("configuration loaded", "path", path, "error", err)
}

// warnConfigError surfaces a configuration load failure without aborting.
func (a *App) warnConfigError() {
	if a.cfgErr == nil {
		return
	}
	a.printDiagnostic(WarningStyle.Render("Warning: "), a.cfgErr)
	a.cfgErr = nil
}

// isVerbose reports whether the --verbose flag or ui.verbose is set.
func (a *App) isVerbose() bool {
	return a.verbose || (a.cfg != nil && a.cfg.UI.Verbose)
}

// newLogger creates the CLI logger on w. Debug records are only emitted in
// verbose mode.
func newLogger(w io.Writer, verbose bool) *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Prefix: "procrun",
		Level:  level,
	})
}
