package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fenilsonani/tempclean/internal/cleaner"
	"github.com/fenilsonani/tempclean/internal/ui/styles"
)

// ScanViewModel shows the preview count while it runs
type ScanViewModel struct {
	sweeper   Sweeper
	directory string
	spinner   spinner.Model
	startTime time.Time
}

// NewScanViewModel creates a new scan view model
func NewScanViewModel(sweeper Sweeper, directory string) *ScanViewModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.SpinnerStyle

	return &ScanViewModel{
		sweeper:   sweeper,
		directory: directory,
		spinner:   s,
		startTime: time.Now(),
	}
}

// Init initializes the scan view
func (m *ScanViewModel) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.performPreview,
	)
}

// Update handles messages
func (m *ScanViewModel) Update(msg tea.Msg) (*ScanViewModel, tea.Cmd) {
	if tick, ok := msg.(spinner.TickMsg); ok {
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(tick)
		return m, cmd
	}
	return m, nil
}

// View renders the scan view
func (m *ScanViewModel) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("🔍 Previewing Temp Directory"))
	b.WriteString("\n\n")

	b.WriteString(m.spinner.View())
	b.WriteString(" Counting entries... ")
	b.WriteString(styles.DimStyle.Render(fmt.Sprintf("(%s)", time.Since(m.startTime).Round(time.Second))))
	b.WriteString("\n\n")

	if m.directory != "" {
		b.WriteString(styles.DimStyle.Render("Directory: "))
		b.WriteString(styles.FilePathStyle.Render(m.directory))
		b.WriteString("\n")
	}

	return b.String()
}

// performPreview runs the non-destructive sweep
func (m *ScanViewModel) performPreview() tea.Msg {
	report, err := m.sweeper.Run(m.directory, cleaner.ModePreview)
	return PreviewCompleteMsg{Report: report, Err: err}
}
