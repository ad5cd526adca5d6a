package trackpanel

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/taplist/internal/icons"
	"github.com/llehouerou/taplist/internal/playlist"
	"github.com/llehouerou/taplist/internal/ui/cursor"
	"github.com/llehouerou/taplist/internal/ui/render"
	"github.com/llehouerou/taplist/internal/ui/styles"
)

// View renders the track panel.
func (m Model) View() string {
	if m.Width() == 0 || m.Height() == 0 {
		return ""
	}

	innerWidth := m.Inner().Width
	listHeight := m.ListHeight()

	content := m.renderHeader(innerWidth) + "\n" +
		render.Rule(innerWidth) + "\n" +
		m.renderTrackList(innerWidth, listHeight)

	return styles.PanelStyle(m.IsFocused()).
		Width(innerWidth).
		Render(content)
}

// renderHeader renders "Playlist (current/total)".
func (m Model) renderHeader(innerWidth int) string {
	text := fmt.Sprintf("Playlist (%d/%d)", m.playing+1, len(m.tracks))
	if len(m.tracks) == 0 {
		text = "Playlist (empty)"
	}
	return headerStyle().Render(render.Fit(text, innerWidth))
}

func (m Model) renderTrackList(innerWidth, listHeight int) string {
	lines := make([]string, 0, listHeight)
	start, end := m.cursor.Window(cursor.View{Len: len(m.tracks), Height: listHeight})
	for idx := start; idx < end; idx++ {
		lines = append(lines, m.renderTrackLine(m.tracks[idx], idx, innerWidth))
	}
	for len(lines) < listHeight {
		lines = append(lines, render.Blank(innerWidth))
	}
	return strings.Join(lines, "\n")
}

// renderTrackLine renders "▶ Tập 001          001.mp3": title on the left,
// source file name on the right.
func (m Model) renderTrackLine(track playlist.Track, idx, width int) string {
	marker := icons.Current()
	markerWidth := lipgloss.Width(marker) + 1
	prefix := strings.Repeat(" ", markerWidth)
	if idx == m.playing {
		prefix = marker + " "
	}

	contentWidth := max(width-markerWidth, 0)
	name := ""
	if track.HasNumber() {
		name = track.Name
	}
	nameWidth := min(lipgloss.Width(name), contentWidth/3)
	titleWidth := contentWidth - nameWidth

	line := prefix +
		render.Fit(track.Title, titleWidth) +
		render.Truncate(name, nameWidth)
	line = render.Pad(line, width)

	return m.trackStyle(idx).Render(line)
}

func (m Model) trackStyle(idx int) lipgloss.Style {
	isCursor := idx == m.cursor.Pos() && m.IsFocused()
	isPlaying := idx == m.playing

	switch {
	case isCursor && isPlaying:
		return cursorStyle().Inherit(playingStyle())
	case isCursor:
		return cursorStyle()
	case isPlaying:
		return playingStyle()
	default:
		return trackStyle()
	}
}
