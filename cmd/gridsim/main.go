// Package main implements gridsim, a development grid coordinator for gfnprobe.
// It plays the grid client's role over HTTP so managed runs can be exercised
// without a volunteer-computing client installed.
package main

import (
	"os"

	"github.com/concave-dev/gfnprobe/cmd/gridsim/commands"
)

func main() {
	commands.SetupCommands()

	if err := commands.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
