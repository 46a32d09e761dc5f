// Package cli implements the marksweep commands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "marksweep",
	Short: "Clean up a browser bookmark export",
	Long: `marksweep reads a browser bookmark export (Netscape HTML, the format
every browser's "export bookmarks" produces), finds what accumulated over
the years, and helps clean it up:

  - duplicate bookmarks pointing at the same URL
  - folders whose names suggest they should be one folder
  - links that no longer resolve

The export file is never modified; cleaned documents are written to a new
file with -o.`,
	SilenceUsage: true,
}

// Execute runs the command tree.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
