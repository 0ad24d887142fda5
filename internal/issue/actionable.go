// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

type (
	// ActionableError is an error with context for user-facing error messages.
	//
	// Use the ErrorContext builder for convenient construction:
	//
	//	err := issue.NewErrorContext().
	//		WithOperation("run program").
	//		WithResource("./build.sh").
	//		WithSuggestion("Check the file permissions").
	//		Wrap(originalErr).
	//		BuildError()
	ActionableError struct {
		// Operation describes what was being attempted (e.g., "load configuration").
		Operation string
		// Resource identifies the file, path or program involved (optional).
		Resource string
		// Suggestions are hints on how to fix the issue (optional).
		Suggestions []string
		// Issue points at the catalog entry with extended guidance (optional).
		Issue Id
		// Cause is the underlying error (optional).
		Cause error
	}

	// ErrorContext is a fluent builder for ActionableError.
	ErrorContext struct {
		err ActionableError
	}
)

// NewErrorContext creates a new ErrorContext builder.
func NewErrorContext() *ErrorContext {
	return &ErrorContext{}
}

// WrapWithOperation wraps an error with operation context.
// It returns nil when err is nil.
func WrapWithOperation(err error, operation string) *ActionableError {
	if err == nil {
		return nil
	}
	return &ActionableError{Operation: operation, Cause: err}
}

// Error returns "failed to <operation>[: <resource>][: <cause>]".
func (e *ActionableError) Error() string {
	parts := []string{"failed to " + e.Operation}
	if e.Resource != "" {
		parts = append(parts, e.Resource)
	}
	if e.Cause != nil {
		parts = append(parts, e.Cause.Error())
	}
	return strings.Join(parts, ": ")
}

// Unwrap returns the underlying cause error for use with errors.Is/As.
func (e *ActionableError) Unwrap() error {
	return e.Cause
}

// Format returns the error message followed by bulleted suggestions.
// When verbose is true, the numbered cause chain is appended as well.
func (e *ActionableError) Format(verbose bool) string {
	var msg strings.Builder
	msg.WriteString(e.Error())

	if len(e.Suggestions) > 0 {
		msg.WriteString("\n")
		for _, suggestion := range e.Suggestions {
			msg.WriteString("\n  • ")
			msg.WriteString(suggestion)
		}
	}

	if verbose && e.Cause != nil {
		msg.WriteString("\n\nError chain:")
		depth := 1
		for err := e.Cause; err != nil; err = errors.Unwrap(err) {
			fmt.Fprintf(&msg, "\n  %d. %s", depth, err.Error())
			depth++
		}
	}

	return msg.String()
}

// HasSuggestions returns true if the error has any suggestions.
func (e *ActionableError) HasSuggestions() bool {
	return len(e.Suggestions) > 0
}

// WithOperation sets the operation being performed, as a verb phrase.
func (c *ErrorContext) WithOperation(op string) *ErrorContext {
	c.err.Operation = op
	return c
}

// WithResource sets the resource involved.
func (c *ErrorContext) WithResource(res string) *ErrorContext {
	c.err.Resource = res
	return c
}

// WithSuggestion adds a suggestion. Empty suggestions are ignored.
func (c *ErrorContext) WithSuggestion(sug string) *ErrorContext {
	if sug != "" {
		c.err.Suggestions = append(c.err.Suggestions, sug)
	}
	return c
}

// WithSuggestions adds multiple suggestions at once.
func (c *ErrorContext) WithSuggestions(sugs ...string) *ErrorContext {
	for _, sug := range sugs {
		c.WithSuggestion(sug)
	}
	return c
}

// WithIssue links the error to a catalog entry.
func (c *ErrorContext) WithIssue(id Id) *ErrorContext {
	c.err.Issue = id
	return c
}

// Wrap sets the underlying cause.
func (c *ErrorContext) Wrap(err error) *ErrorContext {
	c.err.Cause = err
	return c
}

// Build creates an ActionableError from the context.
// Returns nil if no operation is set (operation is required).
func (c *ErrorContext) Build() *ActionableError {
	if c.err.Operation == "" {
		return nil
	}
	ae := c.err
	ae.Suggestions = slices.Clone(c.err.Suggestions)
	return &ae
}

// BuildError is Build returning the error interface, so that a missing
// operation yields an untyped nil rather than a typed nil pointer.
func (c *ErrorContext) BuildError() error {
	if ae := c.Build(); ae != nil {
		return ae
	}
	return nil
}
