// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for procrun.
//
// This package implements the Cobra command hierarchy: the root command,
// `run` and `env` for launching children and previewing their environment,
// and `config` for inspecting and initializing the configuration file.
package cmd
