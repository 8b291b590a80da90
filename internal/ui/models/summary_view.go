package models

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fenilsonani/tempclean/internal/cleaner"
	"github.com/fenilsonani/tempclean/internal/reporter"
	"github.com/fenilsonani/tempclean/internal/ui/styles"
	uiutils "github.com/fenilsonani/tempclean/internal/ui/utils"
)

// SummaryViewModel handles the summary/results view
type SummaryViewModel struct {
	report       *cleaner.Report
	err          error
	errorPreview int
}

// NewSummaryViewModel creates a new summary view model. err carries a log
// artifact failure that happened after the sweep.
func NewSummaryViewModel(report *cleaner.Report, err error, errorPreview int) *SummaryViewModel {
	return &SummaryViewModel{
		report:       report,
		err:          err,
		errorPreview: errorPreview,
	}
}

// Init initializes the summary view
func (m *SummaryViewModel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m *SummaryViewModel) Update(msg tea.Msg) (*SummaryViewModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "q", "enter":
			return m, tea.Quit
		}
	}
	return m, nil
}

// View renders the summary view
func (m *SummaryViewModel) View() string {
	var b strings.Builder
	r := m.report

	b.WriteString(styles.TitleStyle.Render("✨ Sweep Summary"))
	b.WriteString("\n\n")

	if r.DryRun() {
		if r.EntriesSeen == 0 {
			b.WriteString(styles.RemovedStyle.Render("✓ Nothing to clean, the directory is empty"))
		} else {
			b.WriteString(fmt.Sprintf("Found %d entries\n", r.EntriesSeen))
		}
		b.WriteString("\n\n")
		b.WriteString(styles.NoteStyle.Render(reporter.DryRunNote))
		b.WriteString("\n\n")
		b.WriteString(styles.HelpStyle.Render("Press q or enter to exit"))
		return b.String()
	}

	b.WriteString(styles.RemovedStyle.Render(fmt.Sprintf("✓ Removed %d of %d entries", r.EntriesRemoved, r.EntriesSeen)))
	b.WriteString("\n")
	b.WriteString(styles.BoldStyle.Render("Success rate: " + reporter.FormatRate(r.SuccessRate)))
	b.WriteString("\n")

	if r.EntriesSkipped > 0 {
		b.WriteString(styles.SkippedStyle.Render(fmt.Sprintf("⚠ Skipped %d entries of unknown kind", r.EntriesSkipped)))
		b.WriteString("\n")
	}

	if len(r.Errors) > 0 {
		b.WriteString("\n")
		b.WriteString(styles.FailedStyle.Render(fmt.Sprintf("✗ %d entries could not be removed", len(r.Errors))))
		b.WriteString("\n")

		shown, more := r.ErrorPreview(m.errorPreview)
		for _, e := range shown {
			b.WriteString(fmt.Sprintf("  %s %s\n",
				styles.FilePathStyle.Render(uiutils.TruncatePath(e.Path, 50)),
				styles.DimStyle.Render("-> "+e.Message)))
		}
		if more > 0 {
			b.WriteString(styles.DimStyle.Render(fmt.Sprintf("  ... and %d more", more)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	if r.LogFilePath != "" {
		b.WriteString(styles.DimStyle.Render("Log file: "))
		b.WriteString(styles.FilePathStyle.Render(r.LogFilePath))
		b.WriteString("\n")
	}

	var logErr *cleaner.LogWriteError
	if errors.As(m.err, &logErr) {
		b.WriteString(styles.SkippedStyle.Render("⚠ Sweep log not written: " + logErr.Err.Error()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.HelpStyle.Render("Press q or enter to exit"))

	return b.String()
}
