package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marksweep/marksweep/internal/document"
	"github.com/marksweep/marksweep/internal/similarity"
)

var suggestAll bool

var suggestCmd = &cobra.Command{
	Use:   "suggest <file.html>",
	Short: "Propose folder merges based on name similarity",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := loadDocument(args[0])
		if err != nil {
			return err
		}

		suggestions := similarity.Suggest(doc.Root)
		if !suggestAll {
			cfg := loadConfig()
			dismissed := make(similarity.Dismissals, len(cfg.DismissedSuggestions))
			for _, id := range cfg.DismissedSuggestions {
				dismissed[id] = true
			}
			suggestions = dismissed.Filter(suggestions)
		}

		if len(suggestions) == 0 {
			fmt.Println("No merge suggestions.")
			return nil
		}

		for _, s := range suggestions {
			target := document.Find(doc.Root, s.TargetID)
			fmt.Printf("%.2f  merge into %q (%s)\n", s.Score, target.Title, s.TargetID)
			for _, src := range s.Sources {
				folder := document.Find(doc.Root, src.FolderID)
				fmt.Printf("        <- %q (%s, score %.2f)\n", folder.Title, src.FolderID, src.Score)
			}
			fmt.Printf("        id: %s\n", s.ID)
		}
		return nil
	},
}

func init() {
	suggestCmd.Flags().BoolVar(&suggestAll, "all", false, "include dismissed suggestions")
	rootCmd.AddCommand(suggestCmd)
}
