// SPDX-License-Identifier: MPL-2.0

package config

import "context"

type (
	// LoadOptions selects where configuration is read from. The zero value
	// means the platform config directory.
	LoadOptions struct {
		// ConfigFilePath is a config file given with --config. It must exist.
		ConfigFilePath string
		// ConfigDirPath replaces the platform config directory.
		ConfigDirPath string
	}

	// Provider loads the effective configuration and reports the file it
	// came from ("" when only defaults and PROCRUN_* variables apply).
	Provider interface {
		Load(ctx context.Context, opts LoadOptions) (*Config, string, error)
	}

	// ProviderFunc adapts a plain function to Provider.
	ProviderFunc func(ctx context.Context, opts LoadOptions) (*Config, string, error)
)

// Load calls f.
func (f ProviderFunc) Load(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	return f(ctx, opts)
}

// NewProvider returns the provider backed by config.cue and PROCRUN_*
// environment variables.
func NewProvider() Provider {
	return ProviderFunc(loadWithOptions)
}
