// Package ui provides the terminal interface for the task sync handshake.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	syncpkg "oppla/internal/sync"
)

// StatusMsg delivers an orchestrator status transition to the UI.
type StatusMsg syncpkg.Status

// DoneMsg signals that the sync attempt finished, successfully or not.
type DoneMsg struct {
	Err error
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8BC34A"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#2196F3"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#e53935"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8BC34A"))
)

// SyncModel renders the sync handshake: a spinner while the browser
// round-trip is in flight, then the synced context (collapsible) or the
// failure reason.
type SyncModel struct {
	spinner  spinner.Model
	status   syncpkg.Status
	expanded bool
	done     bool
	err      error
}

// NewSyncModel creates the sync UI model.
func NewSyncModel() SyncModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#8BC34A"))
	return SyncModel{spinner: sp}
}

// Init starts the spinner.
func (m SyncModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles messages.
func (m SyncModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "e", "enter":
			m.expanded = !m.expanded
			return m, nil
		}

	case StatusMsg:
		m.status = syncpkg.Status(msg)
		return m, nil

	case DoneMsg:
		m.done = true
		m.err = msg.Err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the panel.
func (m SyncModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Oppla Task Sync"))
	b.WriteString("\n\n")

	if m.done {
		if m.err != nil {
			fmt.Fprintf(&b, "%s %s\n", errorStyle.Render("✗"), m.err)
		} else {
			b.WriteString(m.renderContext())
		}
		return b.String()
	}

	switch m.status.State {
	case syncpkg.StateAcquiringToken:
		fmt.Fprintf(&b, "%s Acquiring handoff token...\n", m.spinner.View())
	case syncpkg.StateListenerBound:
		fmt.Fprintf(&b, "%s Listening on port %d...\n", m.spinner.View(), m.status.Port)
	case syncpkg.StateAwaitingCallback:
		fmt.Fprintf(&b, "%s Waiting for the browser...\n", m.spinner.View())
		b.WriteString(mutedStyle.Render("  Pick a task in the Oppla tab that just opened.\n"))
		b.WriteString(mutedStyle.Render("  If nothing opened, visit:\n"))
		fmt.Fprintf(&b, "  %s\n", m.status.HandoffURL)
	default:
		fmt.Fprintf(&b, "%s Starting sync...\n", m.spinner.View())
	}

	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("q: cancel"))
	return b.String()
}

// renderContext shows the synced context, one line when collapsed and the
// full field list when expanded.
func (m SyncModel) renderContext() string {
	data := m.status.Data
	if data == nil {
		return successStyle.Render("✓ Sync complete") + "\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s Synced", successStyle.Render("✓"))
	if data.BigBet != "" {
		fmt.Fprintf(&b, " to %s", data.BigBet)
	}
	if data.HasTask() && data.WorkItem != "" {
		fmt.Fprintf(&b, " / %s", data.WorkItem)
	}
	b.WriteString("\n")

	if !m.expanded {
		b.WriteString(mutedStyle.Render("e: expand details\n"))
		return b.String()
	}

	writeRow := func(label, value string) {
		if value != "" {
			fmt.Fprintf(&b, "  %s %s\n", labelStyle.Render(label+":"), value)
		}
	}
	writeRow("Account", data.AccountName)
	writeRow("Product", data.ProductName)
	writeRow("Big Bet", data.BigBet)
	writeRow("Description", data.BigBetDescription)
	if data.HasTask() {
		writeRow("Work Item", data.WorkItem)
		writeRow("Details", data.WorkItemDescription)
	} else {
		b.WriteString(mutedStyle.Render("  Board-level sync, no specific work item.\n"))
	}
	writeRow("Synced At", data.SyncedAt.Format("2006-01-02 15:04:05"))
	return b.String()
}
