// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
)

const (
	// ShellAuto routes children through the shell only where the host needs it.
	ShellAuto ShellMode = "auto"
	// ShellAlways always routes children through the shell.
	ShellAlways ShellMode = "always"
	// ShellNever runs children directly.
	ShellNever ShellMode = "never"

	// SpawnerExec starts host processes.
	SpawnerExec SpawnerKind = "exec"
	// SpawnerVirtual runs children in the embedded mvdan/sh interpreter.
	SpawnerVirtual SpawnerKind = "virtual"

	// InheritAll inherits every host variable not denied.
	// Defined locally to avoid coupling config to internal/runtime.
	InheritAll InheritMode = "all"
	// InheritNone starts children from an empty base environment.
	InheritNone InheritMode = "none"
	// InheritAllow inherits only allowed host variables.
	InheritAllow InheritMode = "allow"

	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"
)

var (
	// ErrInvalidShellMode is returned when a ShellMode value is not recognized.
	ErrInvalidShellMode = errors.New("invalid shell mode")
	// ErrInvalidSpawnerKind is returned when a SpawnerKind value is not recognized.
	ErrInvalidSpawnerKind = errors.New("invalid spawner")
	// ErrInvalidInheritMode is returned when an InheritMode value is not recognized.
	ErrInvalidInheritMode = errors.New("invalid env inherit mode")
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ShellMode selects when children are routed through the command shell.
	ShellMode string

	// InvalidShellModeError is returned when a ShellMode value is not recognized.
	// It wraps ErrInvalidShellMode for errors.Is() compatibility.
	InvalidShellModeError struct {
		Value ShellMode
	}

	// SpawnerKind selects how children are started.
	SpawnerKind string

	// InvalidSpawnerKindError is returned when a SpawnerKind value is not recognized.
	InvalidSpawnerKindError struct {
		Value SpawnerKind
	}

	// InheritMode selects which host variables children inherit.
	InheritMode string

	// InvalidInheritModeError is returned when an InheritMode value is not recognized.
	InvalidInheritModeError struct {
		Value InheritMode
	}

	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// Quiet suppresses the echoed command line.
		Quiet bool `json:"quiet" mapstructure:"quiet" toml:"quiet"`
		// Shell selects shell routing.
		Shell ShellMode `json:"shell" mapstructure:"shell" toml:"shell"`
		// Spawner selects how children are started.
		Spawner SpawnerKind `json:"spawner" mapstructure:"spawner" toml:"spawner"`
		// Env configures the child environment.
		Env EnvConfig `json:"env" mapstructure:"env" toml:"env"`
		// UI configures the user interface.
		UI UIConfig `json:"ui" mapstructure:"ui" toml:"ui"`
	}

	// EnvConfig configures how the child environment is built.
	EnvConfig struct {
		Inherit InheritMode       `json:"inherit" mapstructure:"inherit" toml:"inherit"`
		Allow   []string          `json:"allow" mapstructure:"allow" toml:"allow"`
		Deny    []string          `json:"deny" mapstructure:"deny" toml:"deny"`
		Vars    map[string]string `json:"vars" mapstructure:"vars" toml:"vars"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// Verbose enables debug logging and detailed error output.
		Verbose bool `json:"verbose" mapstructure:"verbose" toml:"verbose"`
		// ColorScheme sets the color scheme.
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme" toml:"color_scheme"`
	}
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Shell:   ShellAuto,
		Spawner: SpawnerExec,
		Env: EnvConfig{
			Inherit: InheritAll,
			Allow:   []string{},
			Deny:    []string{},
			Vars:    map[string]string{},
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
		},
	}
}

// Validate returns an *InvalidConfigError collecting every invalid field,
// or nil. Environment variable overrides bypass the CUE schema, so loaded
// configs are checked again here.
func (c *Config) Validate() error {
	var errs []error
	for _, check := range []func() (bool, []error){
		c.Shell.IsValid,
		c.Spawner.IsValid,
		c.Env.Inherit.IsValid,
		c.UI.ColorScheme.IsValid,
	} {
		if ok, fieldErrs := check(); !ok {
			errs = append(errs, fieldErrs...)
		}
	}
	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %v", errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// Error implements the error interface.
func (e *InvalidShellModeError) Error() string {
	return fmt.Sprintf("invalid shell mode %q (expected auto, always or never)", e.Value)
}

// Unwrap returns ErrInvalidShellMode for errors.Is() compatibility.
func (e *InvalidShellModeError) Unwrap() error { return ErrInvalidShellMode }

// IsValid returns whether the ShellMode is one of the defined modes.
// The zero value ("") is valid and treated as "auto".
func (m ShellMode) IsValid() (bool, []error) {
	switch m {
	case "", ShellAuto, ShellAlways, ShellNever:
		return true, nil
	default:
		return false, []error{&InvalidShellModeError{Value: m}}
	}
}

// Resolve turns the mode into a routing decision. hostDefault is used for
// ShellAuto and the zero value.
func (m ShellMode) Resolve(hostDefault bool) bool {
	switch m {
	case ShellAlways:
		return true
	case ShellNever:
		return false
	default:
		return hostDefault
	}
}

// Error implements the error interface.
func (e *InvalidSpawnerKindError) Error() string {
	return fmt.Sprintf("invalid spawner %q (expected exec or virtual)", e.Value)
}

// Unwrap returns ErrInvalidSpawnerKind for errors.Is() compatibility.
func (e *InvalidSpawnerKindError) Unwrap() error { return ErrInvalidSpawnerKind }

// IsValid returns whether the SpawnerKind is one of the defined kinds.
// The zero value ("") is valid and treated as "exec".
func (k SpawnerKind) IsValid() (bool, []error) {
	switch k {
	case "", SpawnerExec, SpawnerVirtual:
		return true, nil
	default:
		return false, []error{&InvalidSpawnerKindError{Value: k}}
	}
}

// Error implements the error interface.
func (e *InvalidInheritModeError) Error() string {
	return fmt.Sprintf("invalid env inherit mode %q (expected all, none or allow)", e.Value)
}

// Unwrap returns ErrInvalidInheritMode for errors.Is() compatibility.
func (e *InvalidInheritModeError) Unwrap() error { return ErrInvalidInheritMode }

// IsValid returns whether the InheritMode is one of the defined modes.
func (m InheritMode) IsValid() (bool, []error) {
	switch m {
	case "", InheritAll, InheritNone, InheritAllow:
		return true, nil
	default:
		return false, []error{&InvalidInheritModeError{Value: m}}
	}
}

// Error implements the error interface.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (expected auto, dark or light)", e.Value)
}

// Unwrap returns ErrInvalidColorScheme for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// IsValid returns whether the ColorScheme is one of the defined schemes.
func (c ColorScheme) IsValid() (bool, []error) {
	switch c {
	case "", ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: c}}
	}
}
