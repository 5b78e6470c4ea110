// Package main is the entry point for the quest CLI.
package main

import (
	"fmt"
	"os"

	"github.com/stefanpenner/quest/pkg/cli"
)

// version is set at build time using -ldflags.
var version = "dev"

func main() {
	if err := cli.NewRootCommand(version).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
