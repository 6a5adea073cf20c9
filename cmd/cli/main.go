// Package main is the entry point for the estimator CLI.
package main

import (
	"os"

	"github.com/Simplici0/interior-estimator/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
