// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"procrun-cli/internal/issue"
	"procrun-cli/pkg/cueutil"
	"procrun-cli/pkg/platform"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

const (
	// AppName is the application name.
	AppName = "procrun"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// EnvPrefix prefixes environment variables that override config keys
	// (e.g. PROCRUN_ENV_INHERIT for env.inherit).
	EnvPrefix = "PROCRUN"

	// FormatCUE renders a config as CUE.
	FormatCUE = "cue"
	// FormatTOML renders a config as TOML.
	FormatTOML = "toml"
)

var (
	// ErrUnknownFormat is returned by Encode for formats other than cue and toml.
	ErrUnknownFormat = errors.New("unknown config format")
	// ErrEnvVarsOverride is returned when PROCRUN_ENV_VARS is set. A flat
	// string cannot carry a name/value table, so the variable is refused
	// instead of being ignored.
	ErrEnvVarsOverride = errors.New(EnvPrefix + "_ENV_VARS is not supported")
)

// envVarsOverride is the environment variable that would map onto env.vars.
const envVarsOverride = EnvPrefix + "_ENV_VARS"

//go:embed config_schema.cue
var configSchema string

// ConfigDir returns the procrun configuration directory using platform-specific
// conventions: Windows uses %APPDATA%, macOS uses ~/Library/Application Support,
// and Linux/others use $XDG_CONFIG_HOME (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string

	switch runtime.GOOS {
	case platform.Windows:
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case platform.Darwin:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default:
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// DefaultConfigPath returns the path of config.cue inside dir, or inside
// ConfigDir when dir is empty.
func DefaultConfigPath(dir string) (string, error) {
	if dir == "" {
		var err error
		if dir, err = ConfigDir(); err != nil {
			return "", err
		}
	}
	return filepath.Join(dir, ConfigFileName+"."+ConfigFileExt), nil
}

// ResolvePath returns the config file Load would read, or "" when no file
// exists and defaults apply. An explicit ConfigFilePath must exist.
func ResolvePath(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithIssue(issue.ConfigLoadFailedId).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Use 'procrun config show' to see the default configuration").
				Wrap(fmt.Errorf("config file not found: %s: %w", opts.ConfigFilePath, fs.ErrNotExist)).
				BuildError()
		}
		return opts.ConfigFilePath, nil
	}

	path, err := DefaultConfigPath(opts.ConfigDirPath)
	if err != nil {
		return "", err
	}
	if !fileExists(path) {
		return "", nil
	}
	return path, nil
}

// loadWithOptions performs option-driven config loading without touching
// package-level state other than the test directory override.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("quiet", defaults.Quiet)
	v.SetDefault("shell", defaults.Shell)
	v.SetDefault("spawner", defaults.Spawner)
	v.SetDefault("env.inherit", defaults.Env.Inherit)
	v.SetDefault("env.allow", defaults.Env.Allow)
	v.SetDefault("env.deny", defaults.Env.Deny)
	v.SetDefault("ui.verbose", defaults.UI.Verbose)
	v.SetDefault("ui.color_scheme", defaults.UI.ColorScheme)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if _, set := os.LookupEnv(envVarsOverride); set {
		return nil, "", issue.NewErrorContext().
			WithOperation("load configuration").
			WithResource(envVarsOverride).
			WithIssue(issue.ConfigLoadFailedId).
			WithSuggestion("Unset " + envVarsOverride).
			WithSuggestion("Set variables in env.vars of config.cue, or pass -e KEY=VALUE to 'procrun run'").
			Wrap(ErrEnvVarsOverride).
			BuildError()
	}

	path, err := ResolvePath(opts)
	if err != nil {
		return nil, "", err
	}

	// Viper folds map keys to lower case, so env.vars is kept out of it and
	// taken straight from the decoded file.
	vars := map[string]string{}
	if path != "" {
		fileVars, err := loadCUEIntoViper(v, path)
		if err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(path).
				WithIssue(issue.ConfigLoadFailedId).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the configuration values match the expected schema").
				WithSuggestion("Run 'procrun config show' to compare with the defaults").
				Wrap(err).
				BuildError()
		}
		vars = fileVars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.Env.Vars = vars

	if err := cfg.Validate(); err != nil {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(path).
			WithIssue(issue.ConfigLoadFailedId).
			WithSuggestion("Check " + EnvPrefix + "_* environment variables for typos").
			Wrap(err).
			BuildError()
	}

	return &cfg, path, nil
}

// loadCUEIntoViper validates a CUE file against the #Config schema and
// merges it into v. It returns the env.vars table with its keys untouched.
func loadCUEIntoViper(v *viper.Viper, path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	configMap, err := cueutil.DecodeMap(configSchema, "#Config", data, path)
	if err != nil {
		return nil, err
	}

	vars := map[string]string{}
	if env, ok := configMap["env"].(map[string]any); ok {
		if raw, ok := env["vars"].(map[string]any); ok {
			for k, val := range raw {
				vars[k] = fmt.Sprint(val)
			}
		}
		delete(env, "vars")
	}

	if err := v.MergeConfigMap(configMap); err != nil {
		return nil, fmt.Errorf("failed to merge config: %w", err)
	}
	return vars, nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// CreateDefaultConfig writes a default config file to dir (ConfigDir when
// empty) unless one already exists. It returns the file path and whether
// the file was created.
func CreateDefaultConfig(dir string) (string, bool, error) {
	cfgPath, err := DefaultConfigPath(dir)
	if err != nil {
		return "", false, err
	}

	if err := os.MkdirAll(filepath.Dir(cfgPath), 0o755); err != nil {
		return "", false, fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(cfgPath); err == nil {
		return cfgPath, false, nil
	}

	if err := os.WriteFile(cfgPath, []byte(GenerateCUE(DefaultConfig())), 0o644); err != nil {
		return "", false, fmt.Errorf("failed to write config file: %w", err)
	}

	return cfgPath, true, nil
}

// Encode renders cfg in the given format (FormatCUE or FormatTOML).
func Encode(cfg *Config, format string) ([]byte, error) {
	switch format {
	case FormatCUE, "":
		return []byte(GenerateCUE(cfg)), nil
	case FormatTOML:
		out, err := toml.Marshal(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to encode config as TOML: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w %q (expected %s or %s)", ErrUnknownFormat, format, FormatCUE, FormatTOML)
	}
}

// GenerateCUE generates a CUE representation of the configuration
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// procrun configuration file\n\n")

	fmt.Fprintf(&sb, "quiet:   %v\n", cfg.Quiet)
	fmt.Fprintf(&sb, "shell:   %q\n", cfg.Shell)
	fmt.Fprintf(&sb, "spawner: %q\n", cfg.Spawner)

	sb.WriteString("\nenv: {\n")
	fmt.Fprintf(&sb, "\tinherit: %q\n", cfg.Env.Inherit)
	fmt.Fprintf(&sb, "\tallow: %s\n", cueStringList(cfg.Env.Allow))
	fmt.Fprintf(&sb, "\tdeny: %s\n", cueStringList(cfg.Env.Deny))
	if len(cfg.Env.Vars) == 0 {
		sb.WriteString("\tvars: {}\n")
	} else {
		sb.WriteString("\tvars: {\n")
		for _, k := range sortedKeys(cfg.Env.Vars) {
			fmt.Fprintf(&sb, "\t\t%q: %q\n", k, cfg.Env.Vars[k])
		}
		sb.WriteString("\t}\n")
	}
	sb.WriteString("}\n")

	sb.WriteString("\nui: {\n")
	fmt.Fprintf(&sb, "\tverbose:      %v\n", cfg.UI.Verbose)
	fmt.Fprintf(&sb, "\tcolor_scheme: %q\n", cfg.UI.ColorScheme)
	sb.WriteString("}\n")

	return sb.String()
}

func cueStringList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

// sortedKeys returns the keys of m in ascending order.
func sortedKeys(m map[string]string) []string {
	keys := maps.Keys(m)
	slices.Sort(keys)
	return keys
}
