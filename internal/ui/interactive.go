package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fenilsonani/tempclean/internal/progress"
	"github.com/fenilsonani/tempclean/internal/ui/models"
)

// RunInteractive starts the interactive TUI mode. It returns the error that
// stopped the flow, such as a configuration error from the preview.
func RunInteractive(sweeper models.Sweeper, pr *progress.Reporter, directory string, errorPreview int) error {
	m := models.NewAppModel(sweeper, pr, directory, errorPreview)

	p := tea.NewProgram(m, tea.WithAltScreen())

	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("error running interactive mode: %w", err)
	}

	if app, ok := final.(*models.AppModel); ok && app.Err() != nil {
		return app.Err()
	}
	return nil
}
