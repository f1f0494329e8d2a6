// Copyright (c) 2026 Keymaster Team
// lssh - SSH host selection and config distribution
// This source code is licensed under the MIT license found in the LICENSE file.

// Command-line entrypoint for lssh.
//
// Usage:
//
//	lssh [ssh options] [user@]substring [substring...]
//
// See --help for the remaining flags and subcommands.
package main

import (
	"os"

	"github.com/toeirei/lssh/ui/cli"
)

func main() {
	os.Exit(cli.ExitCode(cli.Execute()))
}
