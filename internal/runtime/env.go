// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

const (
	// EnvInheritAll copies every host variable not on the deny list.
	EnvInheritAll EnvInheritMode = "all"
	// EnvInheritNone starts from an empty base.
	EnvInheritNone EnvInheritMode = "none"
	// EnvInheritAllow copies only host variables on the allow list.
	EnvInheritAllow EnvInheritMode = "allow"
)

// ErrInvalidEnvInheritMode is the sentinel error wrapped by InvalidEnvInheritModeError.
var ErrInvalidEnvInheritMode = errors.New("invalid env inherit mode")

type (
	// EnvInheritMode selects which host variables make up the base environment.
	EnvInheritMode string

	// InvalidEnvInheritModeError is returned when an EnvInheritMode value is not recognized.
	InvalidEnvInheritModeError struct {
		Value EnvInheritMode
	}

	// InheritPolicy filters the host environment snapshot before it becomes
	// the base of the effective environment.
	InheritPolicy struct {
		// Mode is the inherit mode. The zero value behaves as EnvInheritAll.
		Mode EnvInheritMode
		// Allow lists the names kept when Mode is EnvInheritAllow.
		Allow []string
		// Deny lists names that are never inherited, whatever the mode.
		Deny []string
	}
)

// Error implements the error interface.
func (e *InvalidEnvInheritModeError) Error() string {
	return fmt.Sprintf("invalid env inherit mode %q (expected all, none or allow)", e.Value)
}

// Unwrap returns ErrInvalidEnvInheritMode for errors.Is() compatibility.
func (e *InvalidEnvInheritModeError) Unwrap() error { return ErrInvalidEnvInheritMode }

// IsValid returns whether the mode is one of the known values.
// The zero value is valid and means EnvInheritAll.
func (m EnvInheritMode) IsValid() (bool, []error) {
	switch m {
	case "", EnvInheritAll, EnvInheritNone, EnvInheritAllow:
		return true, nil
	default:
		return false, []error{&InvalidEnvInheritModeError{Value: m}}
	}
}

// MakeEnv returns a new environment equal to base with every entry of
// overrides set on top. No key is removed and neither input is modified.
// Nil inputs behave as empty maps.
func MakeEnv(base, overrides map[string]string) map[string]string {
	env := make(map[string]string, len(base)+len(overrides))
	maps.Copy(env, base)
	maps.Copy(env, overrides)
	return env
}

// EnvFromSlice converts "KEY=VALUE" entries, as returned by os.Environ, into
// a map. Entries without a separator are skipped. When a key repeats, the
// last entry wins, matching how the OS resolves duplicates.
func EnvFromSlice(environ []string) map[string]string {
	env := make(map[string]string, len(environ))
	for _, entry := range environ {
		idx := findEnvSeparator(entry)
		if idx == -1 {
			continue
		}
		env[entry[:idx]] = entry[idx+1:]
	}
	return env
}

// EnvToSlice converts an environment map to "KEY=VALUE" entries sorted by
// entry, so the spawned child sees a deterministic order.
func EnvToSlice(env map[string]string) []string {
	result := make([]string, 0, len(env))
	for k, v := range env {
		result = append(result, k+"="+v)
	}
	slices.Sort(result)
	return result
}

// HostEnv snapshots environ and applies the inherit policy to it.
// A nil environ means os.Environ.
func HostEnv(environ func() []string, policy InheritPolicy) map[string]string {
	if policy.Mode == EnvInheritNone {
		return make(map[string]string)
	}
	if environ == nil {
		environ = os.Environ
	}

	env := EnvFromSlice(environ())

	if policy.Mode == EnvInheritAllow {
		allowed := make(map[string]string, len(policy.Allow))
		for _, name := range policy.Allow {
			if v, ok := env[name]; ok {
				allowed[name] = v
			}
		}
		env = allowed
	}

	for _, name := range policy.Deny {
		delete(env, name)
	}

	return env
}

// findEnvSeparator returns the index of the '=' separating name and value.
// The search starts at index 1 because Windows keeps per-drive working
// directories in variables whose names begin with '=' (e.g. "=C:=C:\\src").
func findEnvSeparator(e string) int {
	for i := 1; i < len(e); i++ {
		if e[i] == '=' {
			return i
		}
	}
	return -1
}

// validateWorkDir validates that a working directory exists and is accessible.
// This provides a better error message than letting exec fail with a cryptic error.
func validateWorkDir(dir string) error {
	if dir == "" {
		return nil
	}

	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("directory does not exist: %s: %w", dir, err)
		}
		if os.IsPermission(err) {
			return fmt.Errorf("permission denied: %s: %w", dir, err)
		}
		return fmt.Errorf("cannot access directory: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("not a directory: %s", dir)
	}

	return nil
}
