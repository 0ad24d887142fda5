// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"procrun-cli/internal/config"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `procrun config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage procrun configuration",
		Long: `Manage procrun configuration.

Configuration is stored in:
  - Linux: ~/.config/procrun/config.cue
  - macOS: ~/Library/Application Support/procrun/config.cue
  - Windows: %APPDATA%\procrun\config.cue

Every key can be overridden with a PROCRUN_* environment variable,
for example PROCRUN_ENV_INHERIT=none.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(app)
		},
	})

	var format string
	dumpCmd := &cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE or TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.cfgErr != nil {
				app.printError(app.cfgErr)
				return &ExitError{Code: 1, Err: app.cfgErr}
			}
			out, err := config.Encode(app.cfg, format)
			if err != nil {
				return err
			}
			_, err = app.stdout.Write(out)
			return err
		},
	}
	dumpCmd.Flags().StringVar(&format, "format", config.FormatCUE, "output format: cue or toml")
	cfgCmd.AddCommand(dumpCmd)

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, created, err := config.CreateDefaultConfig("")
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintf(app.stdout, "%s Created %s\n", SuccessStyle.Render("✓"), path)
			} else {
				fmt.Fprintf(app.stdout, "%s %s already exists\n", SubtitleStyle.Render("•"), path)
			}
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.cfgPath != "" {
				fmt.Fprintln(app.stdout, app.cfgPath)
				return nil
			}
			path, err := config.DefaultConfigPath("")
			if err != nil {
				return err
			}
			fmt.Fprintln(app.stdout, path)
			return nil
		},
	})

	return cfgCmd
}

func showConfig(app *App) error {
	if app.cfgErr != nil {
		app.printError(app.cfgErr)
		return &ExitError{Code: 1, Err: app.cfgErr}
	}
	cfg := app.cfg

	keyStyle := KeyStyle
	valueStyle := SuccessStyle
	w := app.stdout

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)
	if app.cfgPath != "" {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), app.cfgPath)
	} else {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("quiet"), valueStyle.Render(fmt.Sprint(cfg.Quiet)))
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("shell"), valueStyle.Render(string(cfg.Shell)))
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("spawner"), valueStyle.Render(string(cfg.Spawner)))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("env"))
	fmt.Fprintf(w, "  inherit: %s\n", valueStyle.Render(string(cfg.Env.Inherit)))
	fmt.Fprintf(w, "  allow: %s\n", listOrNone(cfg.Env.Allow))
	fmt.Fprintf(w, "  deny: %s\n", listOrNone(cfg.Env.Deny))
	fmt.Fprintf(w, "  vars:\n")
	if len(cfg.Env.Vars) == 0 {
		fmt.Fprintf(w, "    %s\n", SubtitleStyle.Render("(none configured)"))
	}
	for _, k := range sortedKeys(cfg.Env.Vars) {
		fmt.Fprintf(w, "    %s=%s\n", k, valueStyle.Render(cfg.Env.Vars[k]))
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("ui"))
	fmt.Fprintf(w, "  verbose: %s\n", valueStyle.Render(fmt.Sprint(cfg.UI.Verbose)))
	fmt.Fprintf(w, "  color_scheme: %s\n", valueStyle.Render(string(cfg.UI.ColorScheme)))

	return nil
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return SubtitleStyle.Render("(none)")
	}
	return SuccessStyle.Render(strings.Join(items, ", "))
}
