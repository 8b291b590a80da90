package models

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fenilsonani/tempclean/internal/cleaner"
	"github.com/fenilsonani/tempclean/internal/ui/styles"
	uiutils "github.com/fenilsonani/tempclean/internal/ui/utils"
)

// RiskLevel represents the risk level of a deletion operation
type RiskLevel int

const (
	RiskLow RiskLevel = iota
	RiskMedium
	RiskHigh
)

const (
	buttonYes = iota
	buttonCancel
)

// ConfirmViewModel handles the confirmation screen
type ConfirmViewModel struct {
	preview   *cleaner.Report
	cursor    int
	riskLevel RiskLevel
	width     int
	height    int
}

// NewConfirmViewModel creates a new confirm view model
func NewConfirmViewModel(preview *cleaner.Report, width, height int) *ConfirmViewModel {
	risk := CalculateRiskLevel(preview.EntriesSeen)
	cursor := buttonYes
	if risk == RiskHigh {
		cursor = buttonCancel
	}

	if width == 0 {
		width = 80
	}
	if height == 0 {
		height = 24
	}

	return &ConfirmViewModel{
		preview:   preview,
		cursor:    cursor,
		riskLevel: risk,
		width:     width,
		height:    height,
	}
}

// CalculateRiskLevel grades a sweep by how many entries it would delete
func CalculateRiskLevel(entries int) RiskLevel {
	switch {
	case entries > 500:
		return RiskHigh
	case entries >= 50:
		return RiskMedium
	default:
		return RiskLow
	}
}

// Init initializes the confirm view
func (m *ConfirmViewModel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m *ConfirmViewModel) Update(msg tea.Msg) (*ConfirmViewModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "left", "h":
			m.cursor = buttonYes
		case "right", "l":
			m.cursor = buttonCancel
		case "tab":
			m.cursor = (m.cursor + 1) % 2
		case "enter":
			if m.cursor == buttonYes {
				return m, confirm
			}
			return m, tea.Quit
		case "y":
			return m, confirm
		case "n", "esc":
			return m, tea.Quit
		}
	}

	return m, nil
}

func confirm() tea.Msg {
	return ConfirmedMsg{}
}

// View renders the confirmation view
func (m *ConfirmViewModel) View() string {
	var b strings.Builder

	if warning := uiutils.GetSizeWarningBanner(m.width, m.height); warning != "" {
		b.WriteString(warning)
	}

	b.WriteString(styles.TitleStyle.Render("⚠️  Confirm Sweep"))
	b.WriteString("\n\n")

	b.WriteString(styles.BoldStyle.Render(fmt.Sprintf("You are about to delete %d entries from", m.preview.EntriesSeen)))
	b.WriteString("\n")
	b.WriteString(styles.FilePathStyle.Render(uiutils.TruncatePath(m.preview.Directory, m.width-4)))
	b.WriteString("\n\n")
	b.WriteString(styles.DimStyle.Render("Directories are removed with everything inside them."))
	b.WriteString("\n\n")

	riskText, riskStyle, riskIcon := m.getRiskDisplay()
	b.WriteString(fmt.Sprintf("Risk Level: %s %s\n", riskIcon, riskStyle(riskText)))

	if m.riskLevel == RiskHigh {
		b.WriteString("\n")
		b.WriteString(styles.FailedStyle.Render("⚠️  HIGH RISK OPERATION ⚠️"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.SkippedStyle.Render("⚠️  This action cannot be undone!"))
	b.WriteString("\n\n")

	yesBtn := "[ Yes, delete ]"
	cancelBtn := "[ Cancel ]"
	if m.cursor == buttonYes {
		yesBtn = styles.ButtonFocusStyle.Render(yesBtn)
	} else {
		cancelBtn = styles.ButtonFocusStyle.Render(cancelBtn)
	}

	b.WriteString(fmt.Sprintf("%s  %s", yesBtn, cancelBtn))
	b.WriteString("\n\n")

	helpText := "y:confirm  n:cancel  ←/→:navigate"
	if m.width < 60 {
		helpText = "y:yes  n:no  ←/→"
	}
	b.WriteString(styles.HelpStyle.Render(helpText))

	return b.String()
}

// getRiskDisplay returns the display text, style render function, and icon for the current risk level
func (m *ConfirmViewModel) getRiskDisplay() (string, func(...string) string, string) {
	switch m.riskLevel {
	case RiskHigh:
		return "HIGH (more than 500 entries)", styles.FailedStyle.Render, "🔴"
	case RiskMedium:
		return "MEDIUM (50 or more entries)", styles.SkippedStyle.Render, "⚠️"
	default:
		return "LOW", styles.RemovedStyle.Render, "✓"
	}
}
