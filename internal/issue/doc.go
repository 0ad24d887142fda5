// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError records what procrun was doing, which resource was
// involved and how the user can fix it. The Issue catalog adds longer
// Markdown guidance, rendered with glamour in verbose mode.
package issue
