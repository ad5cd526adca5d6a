package app

import (
	"strings"

	"github.com/llehouerou/taplist/internal/ui/headerbar"
	"github.com/llehouerou/taplist/internal/ui/overlay"
	"github.com/llehouerou/taplist/internal/ui/playerbar"
	"github.com/llehouerou/taplist/internal/ui/render"
	"github.com/llehouerou/taplist/internal/ui/styles"
)

// View renders the application UI.
func (m Model) View() string {
	if m.Width == 0 || m.Height == 0 {
		return ""
	}

	// The player bar appears and disappears with the phase.
	if m.Panel.Height() != m.panelHeight() {
		m.resize()
	}

	parts := make([]string, 0, 5)
	parts = append(parts, headerbar.Render(m.Header, m.Width), m.Panel.View())
	if bar := playerbar.Render(playerbar.NewState(m.svc), m.Width); bar != "" {
		parts = append(parts, bar)
	}
	parts = append(parts, m.statusLine(), m.Help.View(m.keys))

	view := fitLines(strings.Join(parts, "\n"), m.Height)

	if m.Prompt.Active() {
		view = overlay.Center(view, m.Prompt.View(), m.Width, m.Height)
	}
	return view
}

func (m Model) statusLine() string {
	if m.Status == "" {
		return ""
	}
	style := styles.T().S().Muted
	if m.Header.Failed {
		style = styles.T().S().Error
	}
	return " " + style.Render(render.Truncate(m.Status, max(m.Width-2, 0)))
}

// fitLines pads or cuts view to exactly n lines so the terminal never
// scrolls when a component grows.
func fitLines(view string, n int) string {
	lines := strings.Split(view, "\n")
	if len(lines) > n {
		lines = lines[:n]
	}
	for len(lines) < n {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}
