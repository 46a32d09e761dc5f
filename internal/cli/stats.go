package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marksweep/marksweep/internal/document"
)

var statsCmd = &cobra.Command{
	Use:   "stats <file.html>",
	Short: "Show folder and bookmark counts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := loadDocument(args[0])
		if err != nil {
			return err
		}

		stats := document.Stats(doc.Root)
		total := stats[document.RootID]
		fmt.Printf("%s: %d bookmarks, %d folders\n", doc.Meta.FileName, total.Bookmarks, total.Folders)

		for _, n := range doc.Root.Children {
			if !n.IsFolder() {
				continue
			}
			s := stats[n.ID]
			fmt.Printf("  %-30s %4d bookmarks, %3d folders\n", n.Title, s.Bookmarks, s.Folders)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
