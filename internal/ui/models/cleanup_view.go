package models

import (
	"fmt"
	"strings"
	"time"

	bprogress "github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fenilsonani/tempclean/internal/cleaner"
	"github.com/fenilsonani/tempclean/internal/progress"
	"github.com/fenilsonani/tempclean/internal/ui/styles"
	uiutils "github.com/fenilsonani/tempclean/internal/ui/utils"
)

// CleanupViewModel runs the execute sweep and shows its progress
type CleanupViewModel struct {
	sweeper   Sweeper
	reporter  *progress.Reporter
	updates   <-chan *progress.SweepProgress
	directory string
	total     int
	spinner   spinner.Model
	progress  bprogress.Model
	latest    *progress.SweepProgress
	startTime time.Time
}

// NewCleanupViewModel creates a new cleanup view model. total is the preview
// count, used until the engine reports its own.
func NewCleanupViewModel(sweeper Sweeper, reporter *progress.Reporter, directory string, total int) *CleanupViewModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.SpinnerStyle

	return &CleanupViewModel{
		sweeper:   sweeper,
		reporter:  reporter,
		directory: directory,
		total:     total,
		spinner:   s,
		progress:  bprogress.New(bprogress.WithDefaultGradient()),
		startTime: time.Now(),
	}
}

// Init subscribes to progress and starts the sweep
func (m *CleanupViewModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick, m.performSweep}
	if m.reporter != nil {
		m.updates = m.reporter.Subscribe()
		cmds = append(cmds, waitForProgress(m.updates))
	}
	return tea.Batch(cmds...)
}

// Stop releases the progress subscription
func (m *CleanupViewModel) Stop() {
	if m.reporter != nil && m.updates != nil {
		m.reporter.Unsubscribe(m.updates)
		m.updates = nil
	}
}

// Update handles messages
func (m *CleanupViewModel) Update(msg tea.Msg) (*CleanupViewModel, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case SweepProgressMsg:
		m.latest = msg.Progress
		if m.updates != nil {
			return m, waitForProgress(m.updates)
		}
	}

	return m, nil
}

// Percent returns the visited fraction
func (m *CleanupViewModel) Percent() float64 {
	if m.latest != nil && m.latest.Total > 0 {
		return m.latest.Percent()
	}
	return 0
}

// View renders the cleanup view
func (m *CleanupViewModel) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("🗑️  Sweeping"))
	b.WriteString("\n\n")

	b.WriteString(m.spinner.View())
	b.WriteString(" Deleting entries... ")
	b.WriteString(styles.DimStyle.Render(fmt.Sprintf("(%s)", time.Since(m.startTime).Round(time.Second))))
	b.WriteString("\n\n")

	b.WriteString(m.progress.ViewAs(m.Percent()))
	b.WriteString("\n\n")

	visited, total, removed, failed := 0, m.total, 0, 0
	if m.latest != nil {
		visited, removed, failed = m.latest.Visited, m.latest.Removed, m.latest.Failed
		if m.latest.Total > 0 {
			total = m.latest.Total
		}
	}
	b.WriteString(fmt.Sprintf("Progress: %d/%d entries", visited, total))
	b.WriteString("  ")
	b.WriteString(styles.RemovedStyle.Render(fmt.Sprintf("%d removed", removed)))
	if failed > 0 {
		b.WriteString("  ")
		b.WriteString(styles.FailedStyle.Render(fmt.Sprintf("%d failed", failed)))
	}

	if m.latest != nil && m.latest.CurrentEntry != "" {
		b.WriteString("\n")
		b.WriteString(styles.DimStyle.Render("Current: "))
		b.WriteString(styles.FilePathStyle.Render(uiutils.TruncatePath(m.latest.CurrentEntry, 60)))
	}

	return b.String()
}

// performSweep runs the execute sweep
func (m *CleanupViewModel) performSweep() tea.Msg {
	report, err := m.sweeper.Run(m.directory, cleaner.ModeExecute)
	return SweepCompleteMsg{Report: report, Err: err}
}

// waitForProgress turns the next snapshot into a message. A closed channel
// ends the chain.
func waitForProgress(updates <-chan *progress.SweepProgress) tea.Cmd {
	return func() tea.Msg {
		p, ok := <-updates
		if !ok {
			return nil
		}
		return SweepProgressMsg{Progress: p}
	}
}
