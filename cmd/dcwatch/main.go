package main

import (
	"os"

	"github.com/dcwatch/dcwatch/cmd/dcwatch/commands"
)

// main is the entry point for the dcwatch CLI.
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
