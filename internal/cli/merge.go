package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marksweep/marksweep/internal/document"
	"github.com/marksweep/marksweep/internal/exporter"
)

var (
	mergeTarget  string
	mergeSources []string
	mergeOut     string
)

var mergeCmd = &cobra.Command{
	Use:   "merge <file.html> --target <id> --sources <id,id,...> -o <out.html>",
	Short: "Merge source folders into a target folder and write the result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := loadDocument(args[0])
		if err != nil {
			return err
		}

		newRoot, merged := document.MergeFoldersInto(doc.Root, mergeSources, mergeTarget)
		if merged == 0 {
			return fmt.Errorf("nothing merged: check the target and source ids (marksweep suggest prints them)")
		}
		doc.Replace(newRoot)

		if err := os.WriteFile(mergeOut, []byte(exporter.Export(doc)), 0644); err != nil {
			return err
		}
		fmt.Printf("Merged %d folders into %s, wrote %s\n", merged, mergeTarget, mergeOut)
		return nil
	},
}

func init() {
	mergeCmd.Flags().StringVar(&mergeTarget, "target", "", "target folder id")
	mergeCmd.Flags().StringSliceVar(&mergeSources, "sources", nil, "source folder ids")
	mergeCmd.Flags().StringVarP(&mergeOut, "output", "o", "", "output file")
	_ = mergeCmd.MarkFlagRequired("target")
	_ = mergeCmd.MarkFlagRequired("sources")
	_ = mergeCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(mergeCmd)
}
