// Package main provides the prestige CLI.
package main

import (
	"os"

	"github.com/roach88/prestige/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		// Command errors already printed their own output.
		os.Exit(cli.GetExitCode(err))
	}
}
