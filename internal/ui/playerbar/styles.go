package playerbar

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/taplist/internal/ui/styles"
)

func barStyle() lipgloss.Style {
	return styles.PanelStyle(false)
}

func titleStyle() lipgloss.Style {
	return styles.T().S().Title
}

func infoStyle() lipgloss.Style {
	return styles.T().S().Muted
}

func timeStyle() lipgloss.Style {
	return styles.T().S().Subtle
}

func speedStyle() lipgloss.Style {
	return styles.T().S().Badge
}

func progressEmptyStyle() lipgloss.Style {
	return styles.T().S().Subtle
}
