// Package main is the entry point for the statehub CLI.
//
// statehub manages replicated storage states across AWS and Azure regions
// and attaches Kubernetes clusters to them.
//
// For detailed usage information, run:
//
//	statehub --help
package main

import (
	"fmt"
	"os"

	"github.com/imamik/statehub/cmd/statehub/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
