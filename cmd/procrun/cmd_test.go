// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"procrun-cli/internal/config"
)

type testCLI struct {
	app    *App
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

// fixedConfig returns a provider that always yields cfg from path, or err.
func fixedConfig(cfg *config.Config, path string, err error) config.ProviderFunc {
	return func(context.Context, config.LoadOptions) (*config.Config, string, error) {
		if err != nil {
			return nil, "", err
		}
		return cfg, path, nil
	}
}

// newTestCLI builds an App over buffers, the given host environment and
// configuration. A nil cfg means defaults with a dark color scheme.
func newTestCLI(t *testing.T, environ []string, cfg *config.Config) *testCLI {
	t.Helper()

	if cfg == nil {
		cfg = config.DefaultConfig()
		cfg.UI.ColorScheme = config.ColorSchemeDark
	}

	var stdout, stderr bytes.Buffer
	app, err := NewApp(Dependencies{
		Config:    fixedConfig(cfg, "", nil),
		Environ:   func() []string { return environ },
		HostShell: func() bool { return false },
		Stdin:     strings.NewReader(""),
		Stdout:    &stdout,
		Stderr:    &stderr,
	})
	if err != nil {
		t.Fatalf("NewApp() error = %v", err)
	}
	return &testCLI{app: app, stdout: &stdout, stderr: &stderr}
}

func (c *testCLI) execute(args ...string) error {
	root := NewRootCommand(c.app)
	root.SetArgs(args)
	root.SetOut(c.stdout)
	root.SetErr(c.stderr)
	root.SilenceUsage = true
	root.SilenceErrors = true
	return root.ExecuteContext(context.Background())
}
