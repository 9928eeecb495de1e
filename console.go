package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/mononoke-scm/testharness/fixtures"
)

func printReady(format string, args ...interface{}) {
	fmt.Println(color.GreenString(format, args...))
}

func printWarning(format string, args ...interface{}) {
	fmt.Println(color.YellowString(format, args...))
}

func printError(format string, args ...interface{}) {
	fmt.Fprintln(os.Stderr, color.RedString(format, args...))
}

func printResults(results fixtures.Results) {
	fmt.Println()
	if results.OK() {
		fmt.Println(color.GreenString("configured %d repositories", len(results.Steps)))
		return
	}
	for _, step := range results.Failures {
		fmt.Println(color.RedString("  FAILED: %s", step))
	}
	fmt.Println(color.RedString("%d of %d repositories failed", len(results.Failures), len(results.Steps)))
}
