// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"procrun-cli/internal/runtime"

	"github.com/spf13/cobra"
)

func newEnvCommand(app *App) *cobra.Command {
	var opts launchOptions

	envCmd := &cobra.Command{
		Use:   "env",
		Short: "Print the environment a child would receive",
		Long: `Print the effective child environment as sorted KEY=VALUE lines.

Accepts the same environment flags as 'procrun run', so it shows exactly
what the child would see.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app.warnConfigError()

			req, err := app.newRequest(&opts, nil)
			if err != nil {
				return err
			}
			env, err := app.newEnvBuilder().Build(req)
			if err != nil {
				return err
			}
			for _, entry := range runtime.EnvToSlice(env) {
				fmt.Fprintln(app.stdout, entry)
			}
			return nil
		},
	}
	opts.addEnvFlags(envCmd)

	return envCmd
}
