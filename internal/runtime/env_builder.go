// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"golang.org/x/exp/maps"
)

type (
	// EnvBuilder builds the effective environment for a Request.
	//
	// This interface enables:
	//   - Testability: the runner can be tested with a fixed environment
	//   - Determinism: the host environment is an injected snapshot, never
	//     read implicitly by the runner itself
	EnvBuilder interface {
		Build(req Request) (map[string]string, error)
	}

	// DefaultEnvBuilder layers environment sources with the following
	// precedence (higher number wins):
	//
	//  1. Base: Request.BaseEnv when non-nil, otherwise the host snapshot
	//     returned by Environ and filtered by Inherit
	//  2. Vars (static variables from configuration)
	//  3. Request.EnvFiles, in order
	//  4. Request.MergeEnv (highest priority)
	//
	// Layers 2-4 are collected into one override map and applied with MakeEnv,
	// so no base key is ever removed.
	DefaultEnvBuilder struct {
		// Environ returns the host environment as "KEY=VALUE" strings.
		// When nil, os.Environ() is used.
		Environ func() []string
		// Inherit filters the host snapshot. It does not apply to Request.BaseEnv.
		Inherit InheritPolicy
		// Vars are static override variables, usually from configuration.
		Vars map[string]string
		// Cwd resolves relative env file paths. When empty, os.Getwd() is used.
		Cwd string
	}

	// MockEnvBuilder is a test helper that returns a fixed environment map.
	// It can be used to test the runner in isolation without real env building.
	MockEnvBuilder struct {
		// Env is the environment map to return from Build
		Env map[string]string
		// Err is the error to return from Build (if non-nil)
		Err error
	}
)

// NewDefaultEnvBuilder creates a DefaultEnvBuilder that inherits the whole
// host environment.
func NewDefaultEnvBuilder() *DefaultEnvBuilder {
	return &DefaultEnvBuilder{}
}

// Build constructs the effective environment for req.
func (b *DefaultEnvBuilder) Build(req Request) (map[string]string, error) {
	base := req.BaseEnv
	if base == nil {
		base = HostEnv(b.Environ, b.Inherit)
	}

	overrides := make(map[string]string, len(b.Vars)+len(req.MergeEnv))
	maps.Copy(overrides, b.Vars)

	for _, path := range req.EnvFiles {
		if err := LoadEnvFileFromCwd(overrides, path, b.Cwd); err != nil {
			return nil, err
		}
	}

	maps.Copy(overrides, req.MergeEnv)

	return MakeEnv(base, overrides), nil
}

// Build returns the mock environment or error.
func (m *MockEnvBuilder) Build(_ Request) (map[string]string, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Env == nil {
		return make(map[string]string), nil
	}
	// Return a copy to prevent mutations
	return maps.Clone(m.Env), nil
}
