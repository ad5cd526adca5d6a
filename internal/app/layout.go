package app

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/taplist/internal/ui/headerbar"
	"github.com/llehouerou/taplist/internal/ui/layout"
	"github.com/llehouerou/taplist/internal/ui/playerbar"
)

// statusHeight is the single status line above the help.
const statusHeight = 1

// helpHeight returns the rows used by the help footer.
func (m Model) helpHeight() int {
	return lipgloss.Height(m.Help.View(m.keys))
}

// playerBarHeight returns the rows used by the player bar, 0 when hidden.
func (m Model) playerBarHeight() int {
	if m.svc.Phase().IsActive() {
		return playerbar.Height
	}
	return 0
}

func (m Model) chrome() layout.Chrome {
	return layout.Chrome{
		Header: headerbar.Height,
		Player: m.playerBarHeight(),
		Status: statusHeight,
		Help:   m.helpHeight(),
	}
}

// panelHeight returns the rows left for the track panel.
func (m Model) panelHeight() int {
	return m.chrome().Fill(m.Height)
}

// resize propagates the terminal size to the components.
func (m *Model) resize() {
	m.Panel.SetSize(m.Width, m.panelHeight())
}
