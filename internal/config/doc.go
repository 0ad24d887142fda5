// SPDX-License-Identifier: MPL-2.0

// Package config handles procrun configuration using Viper with CUE as the file format.
//
// Configuration is loaded from config.cue in the platform config directory
// ($XDG_CONFIG_HOME/procrun on Linux, ~/Library/Application Support/procrun on
// macOS, %APPDATA%\procrun on Windows) or from an explicit file. The file is
// validated against the embedded config_schema.cue before being merged over
// the defaults, and PROCRUN_* environment variables override both.
package config
