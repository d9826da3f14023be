package main

import (
	"os"

	"github.com/hartex/hartex/internal/cli"
)

// Set via ldflags at build time.
var version = "dev"

func main() {
	if err := cli.NewRootCmd(version, cli.Deps{}).Execute(); err != nil {
		os.Exit(1)
	}
}
