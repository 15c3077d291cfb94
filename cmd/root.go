package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// rootCmd is the base command all subcommands attach to in their init().
var rootCmd = &cobra.Command{
	Use:   "csvstream",
	Short: "A streaming, chunk-invariant DSV/CSV parser and toolkit",
	Long: `csvstream parses delimiter-separated data as a stream of byte chunks,
handling quoting, escaping, embedded separators/newlines, and UTF-8/UTF-16
input without requiring the whole file in memory.`,
}

// Execute runs the root command, exiting the process on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
