// SPDX-License-Identifier: MPL-2.0

// Command procrun runs a program with an overlaid environment and exits with
// the program's exit code.
package main

import cmd "procrun-cli/cmd/procrun"

func main() {
	cmd.Execute()
}
