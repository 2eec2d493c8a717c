// ABOUTME: Entry point for the licensecalc CLI
// ABOUTME: Command-line client for license sizing and CI budget checks

package main

import (
	"fmt"
	"os"

	"github.com/ulix1808/AppdyLicCalc/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
