// Package overlay draws popups on top of the main view.
package overlay

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Place draws popup over base with its top-left corner at column x, row y.
// Every cell of the popup's bounding box replaces the base cell under it;
// rows and columns outside base are dropped. Styled text is cut on cell
// boundaries, so escape sequences stay intact.
func Place(base, popup string, x, y, width int) string {
	rows := strings.Split(base, "\n")
	block := strings.Split(popup, "\n")
	w := min(lipgloss.Width(popup), width-x)
	if w <= 0 || x < 0 || y < 0 {
		return base
	}

	for i, line := range block {
		r := y + i
		if r >= len(rows) {
			break
		}
		under := rows[r]
		if gap := width - ansi.StringWidth(under); gap > 0 {
			under += strings.Repeat(" ", gap)
		}
		cell := ansi.Truncate(line, w, "")
		if pad := w - ansi.StringWidth(cell); pad > 0 {
			cell += strings.Repeat(" ", pad)
		}
		rows[r] = ansi.Cut(under, 0, x) + cell + ansi.Cut(under, x+w, width)
	}
	return strings.Join(rows, "\n")
}

// Center places popup in the middle of a width by height base view.
func Center(base, popup string, width, height int) string {
	x := max((width-lipgloss.Width(popup))/2, 0)
	y := max((height-lipgloss.Height(popup))/2, 0)
	return Place(base, popup, x, y, width)
}
