package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marksweep/marksweep/internal/document"
	"github.com/marksweep/marksweep/internal/dupes"
)

var dupesCmd = &cobra.Command{
	Use:   "dupes <file.html>",
	Short: "List bookmarks sharing the same normalized URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := loadDocument(args[0])
		if err != nil {
			return err
		}

		groups := dupes.Groups(document.Flatten(doc.Root))
		if len(groups) == 0 {
			fmt.Println("No duplicates found.")
			return nil
		}

		for _, g := range groups {
			fmt.Printf("%s (%d)\n", g.Key, len(g.Bookmarks))
			for i, fb := range g.Bookmarks {
				marker := " "
				if i == 0 {
					marker = "*" // default keep
				}
				if fb.Path != "" {
					fmt.Printf("  %s %s  [%s]  %s\n", marker, fb.Title, fb.Path, fb.URL)
				} else {
					fmt.Printf("  %s %s  %s\n", marker, fb.Title, fb.URL)
				}
			}
		}
		fmt.Printf("\n%d duplicate groups\n", len(groups))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dupesCmd)
}
