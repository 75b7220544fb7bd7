// Package main provides the entry point for the bmadhub CLI.
package main

import (
	"fmt"
	"os"

	"github.com/bmad-ai/bmadhub/cmd/bmadhub/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
