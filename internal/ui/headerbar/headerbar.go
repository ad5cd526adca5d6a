// Package headerbar renders the one-line header: app name, identifier and
// playlist fetch status.
package headerbar

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/taplist/internal/ui/render"
	"github.com/llehouerou/taplist/internal/ui/styles"
)

// Height is the fixed height of the header bar (single line).
const Height = 1

const appTitle = "taplist"

// Status describes the playlist fetch state shown on the right.
type Status struct {
	Source      string // identifier of the installed or requested playlist
	Tracks      int
	Loading     bool
	Attempt     int // last failed attempt, 0 before any failure
	MaxAttempts int
	Failed      bool
}

// Text returns the plain status text.
func (s Status) Text() string {
	switch {
	case s.Loading && s.Attempt > 0:
		return fmt.Sprintf("retrying %d/%d", s.Attempt+1, s.MaxAttempts)
	case s.Loading:
		return "loading…"
	case s.Failed:
		return "load failed"
	case s.Source == "":
		return "no playlist"
	default:
		return fmt.Sprintf("%d tracks", s.Tracks)
	}
}

func (s Status) style() lipgloss.Style {
	switch {
	case s.Loading && s.Attempt > 0:
		return styles.T().S().Warning
	case s.Loading:
		return styles.T().S().Muted
	case s.Failed:
		return styles.T().S().Error
	default:
		return styles.T().S().Success
	}
}

// Render returns the header bar string for the given width.
func Render(s Status, width int) string {
	if width < 20 {
		return ""
	}

	title := styles.Gradient(appTitle, lipgloss.NewStyle().Bold(true), styles.T().Primary, styles.T().Secondary)
	titleWidth := lipgloss.Width(appTitle)

	statusText := s.Text()
	statusWidth := lipgloss.Width(statusText)

	left := title
	if s.Source != "" {
		avail := width - titleWidth - statusWidth - 5
		if avail > 3 {
			left += styles.T().S().Subtle.Render(" · ") + styles.T().S().Base.Render(render.Truncate(s.Source, avail))
		}
	}

	return " " + render.Row(left, s.style().Render(statusText), width-2) + " "
}
