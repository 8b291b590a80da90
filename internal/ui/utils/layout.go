package utils

import (
	"fmt"
	"path/filepath"

	"github.com/fenilsonani/tempclean/internal/ui/styles"
)

// Smallest terminal the confirm screen fits in without wrapping
const (
	MinTerminalWidth  = 80
	MinTerminalHeight = 24
)

// TruncatePath shortens path to maxWidth, keeping the entry name visible
func TruncatePath(path string, maxWidth int) string {
	if len(path) <= maxWidth {
		return path
	}
	if maxWidth < 10 {
		return "..."
	}

	dir, name := filepath.Split(path)
	if len(name) > maxWidth-4 {
		return "..." + name[len(name)-(maxWidth-4):]
	}

	room := maxWidth - len(name) - 3
	if room <= 0 {
		return "..." + name
	}
	return dir[:room] + "..." + name
}

// IsTerminalTooSmall checks if the terminal is below minimum recommended size
func IsTerminalTooSmall(width, height int) bool {
	return width < MinTerminalWidth || height < MinTerminalHeight
}

// GetSizeWarningBanner returns a banner asking for a larger terminal, or ""
// when the current one is big enough. Zero sizes mean no resize event yet.
func GetSizeWarningBanner(width, height int) string {
	if width == 0 && height == 0 {
		return ""
	}
	if !IsTerminalTooSmall(width, height) {
		return ""
	}

	size := fmt.Sprintf("%dx%d", width, height)
	want := fmt.Sprintf("%dx%d", MinTerminalWidth, MinTerminalHeight)
	return styles.SkippedStyle.Render("⚠️  Terminal too small for the sweep screen") +
		styles.DimStyle.Render(" ("+size+", want "+want+")") + "\n\n"
}
