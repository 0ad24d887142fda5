// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// DecodeMap validates data against the definition in schema and decodes the
// unified value into a generic map.
//
// Validation is not concrete: fields the document leaves out stay open so
// the caller can fill them from its own defaults.
func DecodeMap(schema, definition string, data []byte, filename string) (map[string]any, error) {
	if err := CheckFileSize(data, DefaultMaxFileSize, filename); err != nil {
		return nil, err
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(schema)
	if err := schemaValue.Err(); err != nil {
		return nil, fmt.Errorf("internal error: failed to compile schema: %w", err)
	}
	def := schemaValue.LookupPath(cue.ParsePath(definition))
	if err := def.Err(); err != nil {
		return nil, fmt.Errorf("internal error: schema has no %s definition: %w", definition, err)
	}

	userValue := ctx.CompileBytes(data, cue.Filename(filename))
	if err := userValue.Err(); err != nil {
		return nil, FormatError(err, filename)
	}

	unified := def.Unify(userValue)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return nil, FormatError(err, filename)
	}

	var out map[string]any
	if err := unified.Decode(&out); err != nil {
		return nil, FormatError(err, filename)
	}
	return out, nil
}
