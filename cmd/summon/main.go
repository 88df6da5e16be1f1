// Package main is the entry point for the summon CLI.
package main

import (
	"os"

	"github.com/runger/summon/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
