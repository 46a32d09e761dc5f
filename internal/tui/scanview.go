// Package tui renders live scan progress.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/marksweep/marksweep/internal/scanner"
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("99")).
			Bold(true).
			MarginBottom(1)

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("35"))

	brokenStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203"))

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))
)

type progressMsg scanner.Progress

type streamClosedMsg struct{}

// ScanView is a minimal TUI showing a running scan: spinner, progress bar
// and live counters. It consumes the orchestrator's coalesced flushes from
// a channel and quits after the terminal flush arrives.
type ScanView struct {
	updates  <-chan scanner.Progress
	stop     func()
	spin     spinner.Model
	bar      progress.Model
	last     scanner.Progress
	stopping bool
	width    int
}

// NewScanView creates a scan view over the given progress stream. stop is
// invoked when the user aborts; the view still waits for the scan's final
// flush before quitting.
func NewScanView(updates <-chan scanner.Progress, stop func()) ScanView {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return ScanView{
		updates: updates,
		stop:    stop,
		spin:    sp,
		bar:     progress.New(progress.WithDefaultGradient()),
		width:   80,
	}
}

// Final returns the last progress the view received.
func (v ScanView) Final() scanner.Progress {
	return v.last
}

func (v ScanView) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		p, ok := <-v.updates
		if !ok {
			return streamClosedMsg{}
		}
		return progressMsg(p)
	}
}

// Init implements tea.Model.
func (v ScanView) Init() tea.Cmd {
	return tea.Batch(v.spin.Tick, v.waitForProgress())
}

// Update implements tea.Model.
func (v ScanView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.bar.Width = min(msg.Width-10, 60)
		return v, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			if !v.stopping {
				v.stopping = true
				v.stop()
			}
			return v, nil
		}

	case progressMsg:
		v.last = scanner.Progress(msg)
		if terminal(v.last.State) {
			return v, tea.Quit
		}
		return v, v.waitForProgress()

	case streamClosedMsg:
		return v, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		v.spin, cmd = v.spin.Update(msg)
		return v, cmd
	}

	return v, nil
}

// View implements tea.Model.
func (v ScanView) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("Scanning bookmarks"))
	b.WriteString("\n\n")

	p := v.last
	pct := 0.0
	if p.Total > 0 {
		pct = float64(p.Scanned) / float64(p.Total)
	}

	b.WriteString(fmt.Sprintf("%s %d/%d\n", v.spin.View(), p.Scanned, p.Total))
	b.WriteString(v.bar.ViewAs(pct))
	b.WriteString("\n\n")

	b.WriteString(okStyle.Render(fmt.Sprintf("ok %d", p.OK)))
	b.WriteString(dimStyle.Render("  ·  "))
	b.WriteString(brokenStyle.Render(fmt.Sprintf("broken %d", p.Broken)))
	b.WriteString(dimStyle.Render("  ·  "))
	b.WriteString(errStyle.Render(fmt.Sprintf("error %d", p.Errored)))
	b.WriteString("\n\n")

	if v.stopping {
		b.WriteString(dimStyle.Render("stopping..."))
	} else {
		b.WriteString(dimStyle.Render("q/Esc: stop"))
	}
	b.WriteString("\n")

	return b.String()
}

func terminal(s scanner.State) bool {
	return s == scanner.StateDone || s == scanner.StateStopped || s == scanner.StateError
}
