package models

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fenilsonani/tempclean/internal/cleaner"
	"github.com/fenilsonani/tempclean/internal/progress"
	"github.com/fenilsonani/tempclean/internal/ui/components"
	"github.com/fenilsonani/tempclean/internal/ui/styles"
)

// ViewState represents the current view in the app
type ViewState int

const (
	ViewPreviewing ViewState = iota
	ViewConfirmation
	ViewSweeping
	ViewSummary
	ViewHelp
)

// Sweeper runs one sweep. *cleaner.Cleaner satisfies it.
type Sweeper interface {
	Run(directory string, mode cleaner.Mode) (*cleaner.Report, error)
}

// AppModel is the root model for the interactive TUI
type AppModel struct {
	state         ViewState
	previousState ViewState // For back navigation from help

	sweeper      Sweeper
	progress     *progress.Reporter
	directory    string
	errorPreview int
	preview      *cleaner.Report

	scanView    *ScanViewModel
	confirmView *ConfirmViewModel
	cleanupView *CleanupViewModel
	summaryView *SummaryViewModel
	statusBar   *components.StatusBar

	width  int
	height int
	err    error
}

// NewAppModel creates a new app model. pr may be nil, in which case the
// sweeping view shows a spinner without per-entry progress.
func NewAppModel(sweeper Sweeper, pr *progress.Reporter, directory string, errorPreview int) *AppModel {
	return &AppModel{
		state:        ViewPreviewing,
		sweeper:      sweeper,
		progress:     pr,
		directory:    directory,
		errorPreview: errorPreview,
		statusBar:    components.NewStatusBar(),
	}
}

// State returns the current view
func (m *AppModel) State() ViewState {
	return m.state
}

// Err returns the error that stopped the flow, if any
func (m *AppModel) Err() error {
	return m.err
}

// Init initializes the model
func (m *AppModel) Init() tea.Cmd {
	// Count entries immediately, nothing is deleted before confirmation
	m.scanView = NewScanViewModel(m.sweeper, m.directory)
	return m.scanView.Init()
}

// Update handles messages
func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.state == ViewHelp {
			m.state = m.previousState
			return m, nil
		}
		switch msg.String() {
		case "ctrl+c", "q":
			// Deletion runs to completion once started
			if m.state != ViewSweeping {
				return m, tea.Quit
			}
		case "?":
			if m.state != ViewSweeping {
				m.previousState = m.state
				m.state = ViewHelp
				return m, nil
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case PreviewCompleteMsg:
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.preview = msg.Report
		m.statusBar.SetDirectory(msg.Report.Directory)
		m.statusBar.SetCounts(msg.Report.EntriesSeen, 0, 0)
		if msg.Report.EntriesSeen == 0 {
			m.summaryView = NewSummaryViewModel(msg.Report, nil, m.errorPreview)
			m.state = ViewSummary
			return m, nil
		}
		m.confirmView = NewConfirmViewModel(msg.Report, m.width, m.height)
		m.state = ViewConfirmation
		return m, nil

	case ConfirmedMsg:
		m.cleanupView = NewCleanupViewModel(m.sweeper, m.progress, m.preview.Directory, m.preview.EntriesSeen)
		m.state = ViewSweeping
		return m, m.cleanupView.Init()

	case SweepProgressMsg:
		if msg.Progress != nil {
			m.statusBar.SetCounts(msg.Progress.Visited, msg.Progress.Removed, msg.Progress.Failed)
		}

	case SweepCompleteMsg:
		if m.cleanupView != nil {
			m.cleanupView.Stop()
		}
		if msg.Report == nil {
			m.err = msg.Err
			return m, nil
		}
		m.statusBar.SetCounts(msg.Report.EntriesSeen, msg.Report.EntriesRemoved, len(msg.Report.Errors))
		m.summaryView = NewSummaryViewModel(msg.Report, msg.Err, m.errorPreview)
		m.state = ViewSummary
		return m, nil
	}

	return m.delegateUpdate(msg)
}

// delegateUpdate delegates the update to the current view
func (m *AppModel) delegateUpdate(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.state {
	case ViewPreviewing:
		if m.scanView != nil {
			m.scanView, cmd = m.scanView.Update(msg)
		}
	case ViewConfirmation:
		if m.confirmView != nil {
			m.confirmView, cmd = m.confirmView.Update(msg)
		}
	case ViewSweeping:
		if m.cleanupView != nil {
			m.cleanupView, cmd = m.cleanupView.Update(msg)
		}
	case ViewSummary:
		if m.summaryView != nil {
			m.summaryView, cmd = m.summaryView.Update(msg)
		}
	}

	return m, cmd
}

// View renders the current view
func (m *AppModel) View() string {
	if m.err != nil {
		return styles.FailedStyle.Render("Error: "+m.err.Error()) + "\n\n" +
			styles.HelpStyle.Render("Press q to quit.")
	}

	var body string
	switch m.state {
	case ViewPreviewing:
		if m.scanView != nil {
			body = m.scanView.View()
		}
	case ViewConfirmation:
		if m.confirmView != nil {
			body = m.confirmView.View()
		}
	case ViewSweeping:
		if m.cleanupView != nil {
			body = m.cleanupView.View()
		}
	case ViewSummary:
		if m.summaryView != nil {
			body = m.summaryView.View()
		}
	case ViewHelp:
		return m.renderHelp()
	}

	if body == "" {
		return "Loading..."
	}

	m.statusBar.SetView(m.viewName(m.state))
	m.statusBar.SetShortcuts(components.Shortcut{Key: "?", Desc: "help"}, components.Shortcut{Key: "q", Desc: "quit"})
	return body + "\n\n" + m.statusBar.Render(m.width)
}

func (m *AppModel) viewName(state ViewState) string {
	switch state {
	case ViewPreviewing:
		return "Preview"
	case ViewConfirmation:
		return "Confirm"
	case ViewSweeping:
		return "Sweeping"
	case ViewSummary:
		return "Summary"
	default:
		return "General"
	}
}

// renderHelp renders the help view with context-aware content
func (m *AppModel) renderHelp() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render(fmt.Sprintf("Help - %s", m.viewName(m.previousState))))
	b.WriteString("\n\n")

	switch m.previousState {
	case ViewPreviewing:
		b.WriteString(`Counting the entries of the temp directory. Nothing is deleted yet.

Actions:
  q       - Cancel and exit`)
	case ViewConfirmation:
		b.WriteString(`Review the preview and confirm the sweep.

Navigation:
  ←/→/h/l - Switch between buttons

Actions:
  enter   - Choose the highlighted button
  y       - Yes, delete everything listed
  n       - No, exit without deleting

Warning: Deleted entries cannot be recovered!`)
	case ViewSummary:
		b.WriteString(`The sweep is complete.

Actions:
  enter   - Exit application
  q       - Exit application

Entries that could not be removed are listed with their error.`)
	default:
		b.WriteString(`tempclean - Interactive Mode Help

This mode guides you through:
  1. Preview  - Count what is in the temp directory
  2. Confirm  - Decide whether to delete it all
  3. Sweep    - Delete every entry, recording failures
  4. Summary  - See what was removed and what was not`)
	}

	b.WriteString("\n\n")
	b.WriteString(styles.HelpStyle.Render("Press any key to close"))

	return b.String()
}

// PreviewCompleteMsg carries the result of the preview sweep
type PreviewCompleteMsg struct {
	Report *cleaner.Report
	Err    error
}

// ConfirmedMsg starts the execute sweep
type ConfirmedMsg struct{}

// SweepProgressMsg carries one progress snapshot from the engine
type SweepProgressMsg struct {
	Progress *progress.SweepProgress
}

// SweepCompleteMsg carries the result of the execute sweep. Report may be set
// together with Err when only the log artifact failed.
type SweepCompleteMsg struct {
	Report *cleaner.Report
	Err    error
}
