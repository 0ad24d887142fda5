// SPDX-License-Identifier: MPL-2.0

// Package cueutil validates user-supplied CUE documents against an embedded
// schema definition and reports failures with JSON-path style locations
// (e.g. "env.vars.FOO: conflicting values").
//
//	//go:embed config_schema.cue
//	var schema string
//
//	values, err := cueutil.DecodeMap(schema, "#Config", data, "config.cue")
package cueutil
