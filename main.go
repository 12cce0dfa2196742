// main is the entry point for the plugcheck CLI.
package main

import (
	"fmt"
	"os"

	"github.com/plugcheck/plugcheck/cmd"
	"github.com/plugcheck/plugcheck/internal/history"
)

func main() {
	defer history.CloseHistory()

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		history.CloseHistory()
		os.Exit(1)
	}
}
