// Command polypuzzle builds, solves, and fits polyomino-cover puzzles
// from the command line.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rybkr/polypuzzle/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "polypuzzle",
	Short: "Generate, solve, and fit polyomino-cover puzzles",
}

// cliLog is the logger every subcommand uses for phase-level Debug
// progress and start/end Info entries; final human-readable puzzle
// output still goes to stdout via writeJSON, never through the logger.
var cliLog = logging.Default()

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
