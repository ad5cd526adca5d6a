package trackpanel

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/taplist/internal/ui/styles"
)

func headerStyle() lipgloss.Style {
	return styles.T().S().Title
}

func trackStyle() lipgloss.Style {
	return styles.T().S().Base
}

func playingStyle() lipgloss.Style {
	return styles.T().S().Playing
}

func cursorStyle() lipgloss.Style {
	return styles.T().S().Cursor
}
