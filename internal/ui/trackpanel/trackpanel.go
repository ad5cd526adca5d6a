// Package trackpanel renders the playlist as a scrollable track list.
package trackpanel

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/taplist/internal/keymap"
	"github.com/llehouerou/taplist/internal/playlist"
	"github.com/llehouerou/taplist/internal/ui"
	"github.com/llehouerou/taplist/internal/ui/cursor"
)

// SelectTrackMsg is sent when the user picks a track to play.
type SelectTrackMsg struct {
	Index int
}

// Model is the track list state.
type Model struct {
	ui.Base
	cursor  cursor.Cursor
	tracks  []playlist.Track
	playing int // -1 when nothing is selected for playback
}

// New creates an empty track panel.
func New() Model {
	return Model{
		cursor:  cursor.New(ui.ScrollMargin),
		playing: -1,
	}
}

// SetTracks installs a new playlist and moves the cursor to the playing track.
func (m *Model) SetTracks(tracks []playlist.Track, playing int) {
	m.tracks = tracks
	m.cursor.Reset()
	m.SetPlaying(playing)
	m.cursor.Jump(m.playing, m.view())
	m.cursor.Center(m.view())
}

// SetPlaying marks index as the playing track. The cursor follows only when
// it was on the previously playing track.
func (m *Model) SetPlaying(index int) {
	if index < 0 || index >= len(m.tracks) {
		m.playing = -1
		return
	}
	follow := m.cursor.Pos() == m.playing
	m.playing = index
	if follow {
		m.cursor.Jump(index, m.view())
	}
}

// SetSize sets the panel dimensions and keeps the cursor visible.
func (m *Model) SetSize(width, height int) {
	m.Base.SetSize(width, height)
	m.cursor.Follow(m.view())
}

func (m Model) view() cursor.View {
	return cursor.View{Len: len(m.tracks), Height: m.ListHeight()}
}

// Len returns the number of tracks shown.
func (m Model) Len() int {
	return len(m.tracks)
}

// Cursor returns the cursor position.
func (m Model) Cursor() int {
	return m.cursor.Pos()
}

// Playing returns the playing index, or -1.
func (m Model) Playing() int {
	return m.playing
}

// HandleAction applies a list action. It returns whether the action was
// consumed and, for ActionSelect, a command emitting SelectTrackMsg.
func (m *Model) HandleAction(action keymap.Action) (bool, tea.Cmd) {
	if m.cursor.Apply(action, m.view()) {
		return true, nil
	}

	switch action {
	case keymap.ActionSelect:
		if len(m.tracks) == 0 {
			return true, nil
		}
		index := m.cursor.Pos()
		return true, func() tea.Msg { return SelectTrackMsg{Index: index} }
	case keymap.ActionJumpPlaying:
		if m.playing >= 0 {
			m.cursor.Jump(m.playing, m.view())
			m.cursor.Center(m.view())
		}
		return true, nil
	}

	return false, nil
}
