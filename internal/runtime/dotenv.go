// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// optionalEnvFileSuffix marks an env file whose absence is not an error.
const optionalEnvFileSuffix = "?"

// ErrInvalidEnvFile is wrapped by every dotenv parse error.
var ErrInvalidEnvFile = errors.New("invalid env file")

// LoadEnvFileFromCwd loads a dotenv file and merges its contents into env.
// Relative paths are resolved against cwd; when cwd is empty, os.Getwd() is
// used. Files suffixed with '?' are optional: a missing optional file is
// skipped. Later files override earlier ones for the same keys.
func LoadEnvFileFromCwd(env map[string]string, path, cwd string) error {
	path, optional := strings.CutSuffix(path, optionalEnvFileSuffix)

	fullPath := filepath.FromSlash(path)
	if !filepath.IsAbs(fullPath) {
		if cwd == "" {
			wd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get current working directory: %w", err)
			}
			cwd = wd
		}
		fullPath = filepath.Join(cwd, fullPath)
	}

	content, err := os.ReadFile(fullPath)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read env file '%s': %w", path, err)
	}

	return ParseEnvFile(env, content, path)
}

// ParseEnvFile parses dotenv format content and merges it into env.
// Supported format:
//   - Lines starting with # are comments
//   - Empty lines are ignored
//   - KEY=value (unquoted, " #" starts an inline comment)
//   - KEY="value" (double-quoted, escape sequences: \n, \r, \t, \\, \", \$)
//   - KEY='value' (single-quoted, literal - no escape processing)
//   - export KEY=value (export prefix is optional and ignored)
//   - KEY= (empty value)
//
// The filename parameter is used for error messages. On error, entries from
// lines before the failing one have already been merged.
func ParseEnvFile(env map[string]string, content []byte, filename string) error {
	for i, line := range strings.Split(string(content), "\n") {
		key, value, skip, err := parseEnvLine(line)
		if err != nil {
			return fmt.Errorf("%s:%d: %w: %w", filename, i+1, ErrInvalidEnvFile, err)
		}
		if skip {
			continue
		}
		env[key] = value
	}
	return nil
}

// parseEnvLine parses a single dotenv line. skip is true for blank and
// comment lines.
func parseEnvLine(line string) (key, value string, skip bool, err error) {
	line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
	if line == "" || strings.HasPrefix(line, "#") {
		return "", "", true, nil
	}

	line = strings.TrimSpace(strings.TrimPrefix(line, "export "))

	key, raw, found := strings.Cut(line, "=")
	if !found {
		return "", "", false, errors.New("invalid format (missing '=')")
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return "", "", false, errors.New("empty variable name")
	}

	value, err = parseEnvValue(raw)
	if err != nil {
		return "", "", false, err
	}
	return key, value, false, nil
}

// parseEnvValue parses a dotenv value, handling quoting and escape sequences.
func parseEnvValue(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}

	switch quote := value[0]; quote {
	case '"', '\'':
		if len(value) < 2 || value[len(value)-1] != quote {
			if quote == '"' {
				return "", errors.New("unterminated double quote")
			}
			return "", errors.New("unterminated single quote")
		}
		inner := value[1 : len(value)-1]
		if quote == '\'' {
			return inner, nil
		}
		return unescapeDoubleQuoted(inner), nil
	}

	if idx := strings.Index(value, " #"); idx != -1 {
		value = strings.TrimSpace(value[:idx])
	}
	return value, nil
}

// doubleQuoteEscapes maps the character after a backslash to its replacement.
var doubleQuoteEscapes = map[byte]byte{
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
	'\\': '\\',
	'"':  '"',
	'$':  '$',
}

// unescapeDoubleQuoted processes escape sequences in a double-quoted value.
// Unknown escapes are kept verbatim, backslash included.
func unescapeDoubleQuoted(value string) string {
	var b strings.Builder
	b.Grow(len(value))

	for i := 0; i < len(value); i++ {
		c := value[i]
		if c != '\\' || i+1 >= len(value) {
			b.WriteByte(c)
			continue
		}
		next := value[i+1]
		if repl, ok := doubleQuoteEscapes[next]; ok {
			b.WriteByte(repl)
		} else {
			b.WriteByte('\\')
			b.WriteByte(next)
		}
		i++
	}

	return b.String()
}
