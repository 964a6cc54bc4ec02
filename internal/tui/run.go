package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/issuehound/issuehound/internal/types"
)

func Run(findings []types.Finding, rescanFunc func() ([]types.Finding, error)) error {
	m := NewModel(findings, rescanFunc)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}

// RunCached starts the browser on the previous run's findings without
// contacting the service; r still triggers a live rescan.
func RunCached(findings []types.Finding, rescanFunc func() ([]types.Finding, error), timestamp time.Time) error {
	m := NewModel(findings, rescanFunc)
	m.viewingCached = true
	m.cachedTimestamp = timestamp
	m.lastScanTime = timestamp
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
