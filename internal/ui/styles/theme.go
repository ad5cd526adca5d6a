// Package styles holds the color palette and shared lipgloss styles.
package styles

import (
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Theme is a palette plus the styles derived from it.
type Theme struct {
	Primary   lipgloss.Color // accent: current track, progress, focus
	Secondary lipgloss.Color // warm end of the title gradient and the speed badge

	Text    lipgloss.Color
	Dim     lipgloss.Color
	Faint   lipgloss.Color
	Surface lipgloss.Color
	Select  lipgloss.Color
	Border  lipgloss.Color

	Loaded   lipgloss.Color
	Failed   lipgloss.Color
	Retrying lipgloss.Color

	once   sync.Once
	styles Styles
}

// Styles are the shared text styles. Panels own their layout styles.
type Styles struct {
	Base, Muted, Subtle, Title lipgloss.Style

	Playing lipgloss.Style
	Cursor  lipgloss.Style
	Badge   lipgloss.Style

	Success, Error, Warning lipgloss.Style
}

var theme = &Theme{
	Primary:   "#a78bfa",
	Secondary: "#f1a208",
	Text:      "#c0c0c0",
	Dim:       "#808080",
	Faint:     "#585858",
	Surface:   "#1a1a1a",
	Select:    "#303030",
	Border:    "#585858",
	Loaded:    "#42b883",
	Failed:    "#ff5555",
	Retrying:  "#f1a208",
}

// T returns the active theme.
func T() *Theme { return theme }

// S returns the styles for t, built on first use.
func (t *Theme) S() *Styles {
	t.once.Do(func() {
		fg := func(c lipgloss.Color) lipgloss.Style {
			return lipgloss.NewStyle().Foreground(c)
		}
		t.styles = Styles{
			Base:    fg(t.Text),
			Muted:   fg(t.Dim),
			Subtle:  fg(t.Faint),
			Title:   fg(t.Text).Bold(true),
			Playing: fg(t.Primary).Bold(true),
			Cursor:  fg(t.Text).Background(t.Select),
			Badge:   fg(t.Surface).Background(t.Secondary).Padding(0, 1),
			Success: fg(t.Loaded),
			Error:   fg(t.Failed),
			Warning: fg(t.Retrying),
		}
	})
	return &t.styles
}
