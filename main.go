// main is the entry point for the svnplot CLI.
package main

import (
	"github.com/huangsam/svnplot/cmd"
	"github.com/huangsam/svnplot/internal/contract"
)

func main() {
	if err := cmd.Execute(); err != nil {
		contract.LogFatal("Command failed", err)
	}
}
