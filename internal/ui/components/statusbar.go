package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fenilsonani/tempclean/internal/ui/styles"
)

// Shortcut is a key hint shown on the right of the status bar
type Shortcut struct {
	Key  string
	Desc string
}

// StatusBar represents a status bar component that displays at the bottom of views
type StatusBar struct {
	viewName  string
	directory string
	seen      int
	removed   int
	failed    int
	shortcuts []Shortcut
}

// NewStatusBar creates a new status bar
func NewStatusBar() *StatusBar {
	return &StatusBar{}
}

// SetView sets the current view name
func (s *StatusBar) SetView(viewName string) {
	s.viewName = viewName
}

// SetDirectory sets the sweep target shown in the bar
func (s *StatusBar) SetDirectory(dir string) {
	s.directory = dir
}

// SetCounts sets the entry counters
func (s *StatusBar) SetCounts(seen, removed, failed int) {
	s.seen = seen
	s.removed = removed
	s.failed = failed
}

// SetShortcuts sets the shortcuts to display, in order
func (s *StatusBar) SetShortcuts(shortcuts ...Shortcut) {
	s.shortcuts = shortcuts
}

// Render renders the status bar with the given width
func (s *StatusBar) Render(width int) string {
	if width <= 0 {
		width = 80
	}

	var parts []string
	if s.viewName != "" {
		parts = append(parts, styles.BoldStyle.Render(s.viewName))
	}
	if s.directory != "" {
		parts = append(parts, s.directory)
	}
	if s.seen > 0 {
		counts := fmt.Sprintf("%d entries", s.seen)
		if s.removed > 0 || s.failed > 0 {
			counts += fmt.Sprintf(", %d removed", s.removed)
		}
		parts = append(parts, counts)
	}
	if s.failed > 0 {
		parts = append(parts, styles.FailedStyle.Render(fmt.Sprintf("%d failed", s.failed)))
	}
	leftSide := strings.Join(parts, " • ")

	var shortcutParts []string
	for _, sc := range s.shortcuts {
		shortcutParts = append(shortcutParts, fmt.Sprintf("%s:%s", styles.DimStyle.Render(sc.Key), sc.Desc))
	}
	rightSide := strings.Join(shortcutParts, " ")

	spacing := width - lipgloss.Width(leftSide) - lipgloss.Width(rightSide) - 2
	if spacing < 1 {
		// Hints are dropped before the counters
		rightSide = ""
		spacing = 1
	}

	return RenderSimple(leftSide+strings.Repeat(" ", spacing)+rightSide, width)
}

// RenderSimple renders a simple status bar with just a message
func RenderSimple(message string, width int) string {
	if width <= 0 {
		width = 80
	}

	return styles.StatusBarStyle.Width(width).Render(message)
}
