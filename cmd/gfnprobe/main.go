// Package main implements gfnprobe, the generalized Fermat number
// probable-prime tester.
package main

import (
	"os"

	"github.com/concave-dev/gfnprobe/cmd/gfnprobe/commands"
)

func main() {
	if err := commands.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
