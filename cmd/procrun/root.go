// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the procrun command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "procrun",
		Short: "Run a program with an overlaid environment and forward its exit code",
		Long: TitleStyle.Render("procrun") + SubtitleStyle.Render(" - run a program, forward its exit code") + `

procrun echoes a command line, starts it with the inherited environment
plus your overrides, waits for it, and exits with its exit code. It is
meant for build scripts and CI steps that should fail when a tool fails.

` + SubtitleStyle.Render("Examples:") + `
  procrun run -- go vet ./...          Echo and run, exit with its code
  procrun run -q -e CGO_ENABLED=0 -- go build
  procrun env --env-file .env          Preview the child environment
  procrun config show                  Show current configuration`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			app.loadConfig(cmd.Context())
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&app.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&app.configPath, "config", "", "config file (default is $HOME/.config/procrun/config.cue)")

	rootCmd.AddCommand(newRunCommand(app))
	rootCmd.AddCommand(newEnvCommand(app))
	rootCmd.AddCommand(newConfigCommand(app))
	rootCmd.AddCommand(newVersionCommand(app))

	return rootCmd
}

func newVersionCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(app.stdout, "procrun "+getVersionString())
		},
	}
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute builds the App and runs the command tree. It is called by
// main.main() and is the only place that terminates the process with a
// child's exit code.
func Execute() {
	app, err := NewApp(Dependencies{})
	if err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+err.Error())
		os.Exit(1)
	}

	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(errorHandler),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(1)
	}
}

// errorHandler prints errors through fang, except ExitErrors: those are
// either a child's own exit status or a failure already reported by the
// command.
func errorHandler(w io.Writer, styles fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}

// sortedKeys returns the keys of m in ascending order.
func sortedKeys(m map[string]string) []string {
	keys := maps.Keys(m)
	slices.Sort(keys)
	return keys
}
