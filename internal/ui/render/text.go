// Package render holds width-aware helpers for laying out plain text cells.
package render

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

// Ellipsis marks a cut title. It is one cell wide.
const Ellipsis = "…"

// Clean makes a listing string safe to draw: invalid UTF-8 and control
// characters are dropped and no-break spaces become plain spaces.
// Archive listings are user uploads and carry both.
func Clean(s string) string {
	if isClean(s) {
		return s
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r == utf8.RuneError:
			return -1
		case r == '\u00a0':
			return ' '
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, strings.ToValidUTF8(s, ""))
}

func isClean(s string) bool {
	for _, r := range s {
		if r == utf8.RuneError || r == '\u00a0' || unicode.IsControl(r) {
			return false
		}
	}
	return true
}

// Truncate cuts s to at most width cells, ending with Ellipsis when cut.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(Clean(s), width, Ellipsis)
}

// Pad right-fills s with spaces up to width cells.
func Pad(s string, width int) string {
	return runewidth.FillRight(s, width)
}

// Fit returns s cut or padded to exactly width cells.
func Fit(s string, width int) string {
	return Pad(Truncate(s, width), width)
}

// Row places left and right on one line of width cells. Styled input is
// measured by its visible width; right wins when both do not fit.
func Row(left, right string, width int) string {
	lw, rw := lipgloss.Width(left), lipgloss.Width(right)
	if lw+rw > width {
		if rw+1 >= width {
			return right
		}
		return ansi.Truncate(left, width-rw-1, Ellipsis) + " " + right
	}
	return left + strings.Repeat(" ", width-lw-rw) + right
}

// Rule is a horizontal line of width cells.
func Rule(width int) string {
	return strings.Repeat("─", max(width, 0))
}

// Blank is an empty line of width cells.
func Blank(width int) string {
	return strings.Repeat(" ", max(width, 0))
}
