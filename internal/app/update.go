package app

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/taplist/internal/archive"
	"github.com/llehouerou/taplist/internal/keymap"
	"github.com/llehouerou/taplist/internal/playback"
	"github.com/llehouerou/taplist/internal/ui/prompt"
	"github.com/llehouerou/taplist/internal/ui/trackpanel"
)

// Update handles messages and returns updated model and commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.Help.Width = msg.Width
		m.resize()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case PlaybackMessage:
		return m.handlePlaybackMsg(msg)

	case LoadDoneMsg:
		return m.handleLoadDone(msg)

	case trackpanel.SelectTrackMsg:
		if err := m.svc.SelectTrack(msg.Index); err != nil {
			m.Status = err.Error()
		}
		return m, nil

	case prompt.SubmitMsg:
		return m, m.requestLoad(msg.Identifier)

	case prompt.CancelMsg:
		return m, nil

	case StderrMsg:
		m.Status = msg.Line
		return m, WatchStderr()
	}

	// Cursor blink and other textinput internals
	if m.Prompt.Active() {
		var cmd tea.Cmd
		m.Prompt, cmd = m.Prompt.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) requestLoad(identifier string) tea.Cmd {
	m.requested = identifier
	return RequestLoadCmd(m.ctx, m.svc, identifier)
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.Prompt.Active() {
		if msg.Type == tea.KeyCtrlC {
			return m.quit()
		}
		var cmd tea.Cmd
		m.Prompt, cmd = m.Prompt.Update(msg)
		return m, cmd
	}

	action := m.keys.Resolve(msg)
	if action == "" {
		return m, nil
	}
	return m.handleAction(action)
}

func (m Model) handleAction(action keymap.Action) (tea.Model, tea.Cmd) {
	p := m.svc.Player()

	switch action {
	case keymap.ActionQuit:
		return m.quit()
	case keymap.ActionHelp:
		m.FullHelp = !m.FullHelp
		m.Help.ShowAll = m.FullHelp
		m.resize()
	case keymap.ActionOpen:
		initial := m.svc.SourceID()
		if initial == "" {
			initial = m.requested
		}
		return m, m.Prompt.Open(initial)
	case keymap.ActionReload:
		id := m.svc.SourceID()
		if id == "" {
			id = m.requested
		}
		if id != "" {
			return m, m.requestLoad(id)
		}
	case keymap.ActionPlayPause:
		m.svc.TogglePlayPause()
	case keymap.ActionNextTrack:
		m.reportNav(m.svc.Next())
	case keymap.ActionPrevTrack:
		m.reportNav(m.svc.Previous())
	case keymap.ActionSeekForward:
		m.svc.SeekBy(m.opts.SeekStep)
	case keymap.ActionSeekBack:
		m.svc.SeekBy(-m.opts.SeekStep)
	case keymap.ActionSpeedUp:
		m.svc.AdjustSpeed(m.opts.SpeedStep)
	case keymap.ActionSpeedDown:
		m.svc.AdjustSpeed(-m.opts.SpeedStep)
	case keymap.ActionSpeedReset:
		m.svc.SetSpeed(1)
	case keymap.ActionVolumeUp:
		p.SetVolume(p.Volume() + volumeStep)
	case keymap.ActionVolumeDown:
		p.SetVolume(p.Volume() - volumeStep)
	case keymap.ActionMute:
		p.SetMuted(!p.Muted())
	default:
		if _, cmd := m.Panel.HandleAction(action); cmd != nil {
			return m, cmd
		}
	}

	return m, nil
}

func (m *Model) reportNav(err error) {
	if errors.Is(err, playback.ErrEmptyPlaylist) {
		m.Status = "No playlist loaded"
	}
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.svc.Flush()
	return m, tea.Quit
}

func (m Model) handlePlaybackMsg(msg PlaybackMessage) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TickMsg:
		if m.svc.Phase() == playback.PhasePlaying {
			m.svc.Progress(m.svc.Player().Position())
		}
		return m, TickCmd()

	case TrackFinishedMsg:
		m.svc.Ended()
		return m, WatchTrackFinished(m.svc)

	case PlayerErrorMsg:
		m.svc.ReportPlayerError(msg.Err)
		return m, WatchPlayerErrors(m.svc)

	case ServiceClosedMsg:
		return m, nil
	}

	m.applyEvent(msg)
	return m, WatchServiceEvents(m.sub)
}

// applyEvent updates the view state from a controller event.
func (m *Model) applyEvent(msg PlaybackMessage) {
	switch msg := msg.(type) {
	case PlaylistChangedMsg:
		m.Panel.SetTracks(msg.Tracks, msg.Index)
		m.Header.Source = msg.SourceID
		m.Header.Tracks = len(msg.Tracks)
		m.Header.Loading = false
		m.Header.Failed = false
		m.Header.Attempt = 0
		m.Status = ""
		if len(msg.Tracks) == 0 {
			m.Status = fmt.Sprintf("No %q files in %s", m.opts.Format, msg.SourceID)
		}

	case TrackChangedMsg:
		m.Panel.SetPlaying(msg.Index)

	case LoadStartedMsg:
		m.Header.Source = msg.Identifier
		m.Header.Loading = true
		m.Header.Failed = false
		m.Header.Attempt = 0

	case FetchAttemptMsg:
		m.Header.Attempt = msg.Number
		if msg.Max > 0 {
			m.Header.MaxAttempts = msg.Max
		}
		m.Status = fmt.Sprintf("Attempt %d/%d failed: %v", msg.Number, msg.Max, msg.Err)

	case FetchFailedMsg:
		m.Header.Loading = false
		m.Header.Failed = true
		m.Header.Attempt = 0
		if src := m.svc.SourceID(); src != "" {
			m.Header.Source = src
			m.Header.Tracks = m.svc.Len()
		}
		m.Status = msg.Message

	case ServiceErrorMsg:
		m.Status = msg.Message

	case PhaseChangedMsg, SpeedChangedMsg:
		// Rendered from the controller on the next View.
	}
}

func (m Model) handleLoadDone(msg LoadDoneMsg) (tea.Model, tea.Cmd) {
	if errors.Is(msg.Err, archive.ErrEmptyIdentifier) {
		m.Status = "Enter an identifier"
	}
	if msg.Restore && msg.Err == nil && m.svc.SourceID() == "" && !m.Header.Loading && !m.Prompt.Active() {
		return m, m.Prompt.Open(m.requested)
	}
	return m, nil
}
