package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette
var (
	Accent  = lipgloss.Color("#0EA5E9")
	Muted   = lipgloss.Color("#94A3B8")
	Removed = lipgloss.Color("#22C55E")
	Skipped = lipgloss.Color("#EAB308")
	Failed  = lipgloss.Color("#F43F5E")
	Bar     = lipgloss.Color("#0F172A")
	BarText = lipgloss.Color("#E2E8F0")
)

// Layout
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Accent).
			MarginBottom(1)

	HelpStyle = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)

	DimStyle = lipgloss.NewStyle().
			Foreground(Muted)

	BoldStyle = lipgloss.NewStyle().
			Bold(true)

	FilePathStyle = lipgloss.NewStyle().
			Foreground(Accent)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(BarText).
			Background(Bar).
			Padding(0, 1)

	// ButtonFocusStyle marks the focused choice on the confirm screen
	ButtonFocusStyle = lipgloss.NewStyle().
				Foreground(Bar).
				Background(Accent).
				Bold(true)
)

// Sweep outcomes. Errors and warnings outside a sweep reuse these.
var (
	RemovedStyle = lipgloss.NewStyle().
			Foreground(Removed).
			Bold(true)

	SkippedStyle = lipgloss.NewStyle().
			Foreground(Skipped).
			Bold(true)

	FailedStyle = lipgloss.NewStyle().
			Foreground(Failed).
			Bold(true)

	NoteStyle = lipgloss.NewStyle().
			Foreground(Accent).
			Italic(true)
)

// PromptStyle frames the typed confirmation in the plain CLI
var PromptStyle = lipgloss.NewStyle().
	Foreground(Skipped).
	Bold(true).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Failed).
	Padding(0, 1)
