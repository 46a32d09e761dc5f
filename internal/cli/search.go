package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marksweep/marksweep/internal/document"
	"github.com/marksweep/marksweep/internal/search"
)

var searchCmd = &cobra.Command{
	Use:   "search <file.html> <query>...",
	Short: "Fuzzy-search bookmark titles",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := loadDocument(args[0])
		if err != nil {
			return err
		}

		query := strings.Join(args[1:], " ")
		results := search.Fuzzy(document.Flatten(doc.Root), query)
		if len(results) == 0 {
			fmt.Printf("No bookmarks found for '%s'\n", query)
			return nil
		}

		for _, r := range results {
			if r.Bookmark.Path != "" {
				fmt.Printf("%s  [%s]\n    %s\n", r.Bookmark.Title, r.Bookmark.Path, r.Bookmark.URL)
			} else {
				fmt.Printf("%s\n    %s\n", r.Bookmark.Title, r.Bookmark.URL)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
}
