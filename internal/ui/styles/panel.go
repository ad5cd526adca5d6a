package styles

import "github.com/charmbracelet/lipgloss"

// PanelStyle returns the rounded panel border, in the accent color when
// focused.
func PanelStyle(focused bool) lipgloss.Style {
	c := T().Border
	if focused {
		c = T().Primary
	}
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(c)
}
