// Package app contains the bubbletea model of the TUI.
package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/taplist/internal/playback"
)

// PlaybackMessage is implemented by messages that come from the playback
// controller or the player.
type PlaybackMessage interface {
	tea.Msg
	playbackMessage()
}

// TickMsg is sent periodically to record progress and refresh the player bar.
type TickMsg time.Time

func (TickMsg) playbackMessage() {}

// PlaylistChangedMsg wraps playback.PlaylistChange.
type PlaylistChangedMsg playback.PlaylistChange

func (PlaylistChangedMsg) playbackMessage() {}

// TrackChangedMsg wraps playback.TrackChange.
type TrackChangedMsg playback.TrackChange

func (TrackChangedMsg) playbackMessage() {}

// PhaseChangedMsg wraps playback.PhaseChange.
type PhaseChangedMsg playback.PhaseChange

func (PhaseChangedMsg) playbackMessage() {}

// SpeedChangedMsg wraps playback.SpeedChange.
type SpeedChangedMsg playback.SpeedChange

func (SpeedChangedMsg) playbackMessage() {}

// LoadStartedMsg wraps playback.LoadStarted.
type LoadStartedMsg playback.LoadStarted

func (LoadStartedMsg) playbackMessage() {}

// FetchAttemptMsg wraps playback.FetchAttempt.
type FetchAttemptMsg playback.FetchAttempt

func (FetchAttemptMsg) playbackMessage() {}

// FetchFailedMsg wraps playback.FetchFailed.
type FetchFailedMsg playback.FetchFailed

func (FetchFailedMsg) playbackMessage() {}

// ServiceErrorMsg wraps playback.ErrorEvent.
type ServiceErrorMsg playback.ErrorEvent

func (ServiceErrorMsg) playbackMessage() {}

// ServiceClosedMsg is sent when the playback controller is closed.
type ServiceClosedMsg struct{}

func (ServiceClosedMsg) playbackMessage() {}

// TrackFinishedMsg is sent when the player reaches the end of a track.
type TrackFinishedMsg struct{}

func (TrackFinishedMsg) playbackMessage() {}

// PlayerErrorMsg is sent when the player fails to load or decode a track.
type PlayerErrorMsg struct {
	Err error
}

func (PlayerErrorMsg) playbackMessage() {}

// LoadDoneMsg is sent when a playlist request returns.
type LoadDoneMsg struct {
	Identifier string
	Restore    bool // true for the startup restore of the saved session
	Err        error
}

// StderrMsg carries a line captured from the audio backend.
type StderrMsg struct {
	Line string
}
