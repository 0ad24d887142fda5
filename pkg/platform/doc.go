// SPDX-License-Identifier: MPL-2.0

// Package platform centralizes host platform detection.
//
// It holds the GOOS name constants used across procrun and the policy that
// decides whether child processes are routed through a command shell.
package platform
