package cli

import (
	"fmt"
	"os"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/marksweep/marksweep/internal/document"
	"github.com/marksweep/marksweep/internal/exporter"
)

var (
	exportOut       string
	exportClipboard bool
)

var exportCmd = &cobra.Command{
	Use:   "export <file.html>",
	Short: "Re-export a bookmark file (round-trips through the parser)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := loadDocument(args[0])
		if err != nil {
			return err
		}

		html := exporter.Export(doc)
		stats := document.Stats(doc.Root)[document.RootID]

		if exportClipboard {
			if err := clipboard.WriteAll(html); err != nil {
				return fmt.Errorf("copying to clipboard: %w", err)
			}
			fmt.Printf("Copied %d bookmarks, %d folders to clipboard\n", stats.Bookmarks, stats.Folders)
			return nil
		}

		if exportOut == "" {
			fmt.Print(html)
			return nil
		}
		if err := os.WriteFile(exportOut, []byte(html), 0644); err != nil {
			return err
		}
		fmt.Printf("Exported %d bookmarks, %d folders to %s\n", stats.Bookmarks, stats.Folders, exportOut)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "output", "o", "", "output file (default stdout)")
	exportCmd.Flags().BoolVar(&exportClipboard, "clipboard", false, "copy the export to the clipboard")
	rootCmd.AddCommand(exportCmd)
}
