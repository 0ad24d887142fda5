// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helpers that isolate tests from the user's home
// and configuration directories.
package testutil
