package cli

import (
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/marksweep/marksweep/internal/document"
	"github.com/marksweep/marksweep/internal/prober"
	"github.com/marksweep/marksweep/internal/scanner"
	"github.com/marksweep/marksweep/internal/tui"
)

var (
	scanTimeoutMs int
	scanPlain     bool
)

var scanCmd = &cobra.Command{
	Use:   "scan <file.html>",
	Short: "Check every bookmark URL for liveness",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := loadDocument(args[0])
		if err != nil {
			return err
		}
		snapshot := document.Flatten(doc.Root)
		if len(snapshot) == 0 {
			fmt.Println("Nothing to scan.")
			return nil
		}

		cfg := loadConfig()
		timeoutMs := cfg.ProbeTimeoutMs
		if cmd.Flags().Changed("timeout") {
			timeoutMs = scanTimeoutMs
		}
		opts := scanner.Options{
			Timeout:     time.Duration(timeoutMs) * time.Millisecond,
			SkipDomains: cfg.SkipDomains,
		}

		// The net/http transport logs unsolicited-response noise during
		// bulk probing; silence it for the duration of the scan.
		originalOutput := log.Writer()
		log.SetOutput(io.Discard)
		defer log.SetOutput(originalOutput)

		orch := scanner.New(prober.New())

		if scanPlain {
			return runPlainScan(orch, snapshot, opts)
		}
		return runScanView(orch, snapshot, opts)
	},
}

func runScanView(orch *scanner.Orchestrator, snapshot []document.FlatBookmark, opts scanner.Options) error {
	updates := make(chan scanner.Progress, 16)
	orch.Start(snapshot, opts, func(p scanner.Progress) {
		updates <- p
	})
	go func() {
		orch.Wait()
		close(updates)
	}()

	view := tui.NewScanView(updates, orch.Stop)
	finalModel, err := tea.NewProgram(view).Run()
	if err != nil {
		orch.Stop()
		orch.Wait()
		return err
	}
	orch.Wait()

	printScanReport(finalModel.(tui.ScanView).Final())
	return nil
}

func runPlainScan(orch *scanner.Orchestrator, snapshot []document.FlatBookmark, opts scanner.Options) error {
	done := make(chan scanner.Progress, 1)
	orch.Start(snapshot, opts, func(p scanner.Progress) {
		if p.State == scanner.StateRunning {
			fmt.Fprintf(os.Stderr, "\rScanning %d/%d", p.Scanned, p.Total)
			return
		}
		done <- p
	})
	orch.Wait()
	fmt.Fprintln(os.Stderr)

	printScanReport(<-done)
	return nil
}

func printScanReport(p scanner.Progress) {
	results := append([]scanner.Result{}, p.Results...)
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Status < results[j].Status // broken, error, ok
	})

	for _, r := range results {
		switch r.Status {
		case scanner.StatusBroken:
			fmt.Printf("broken  %d  %s\n", r.HTTPStatus, r.URL)
		case scanner.StatusError:
			fmt.Printf("error   %s  %s\n", r.Error, r.URL)
		}
	}

	fmt.Printf("\n%s: %d scanned of %d, %d ok, %d broken, %d errors\n",
		p.State, p.Scanned, p.Total, p.OK, p.Broken, p.Errored)
}

func init() {
	scanCmd.Flags().IntVar(&scanTimeoutMs, "timeout", 8000, "per-request timeout in milliseconds")
	scanCmd.Flags().BoolVar(&scanPlain, "plain", false, "line output instead of the progress view")
	rootCmd.AddCommand(scanCmd)
}
