package playback

import (
	"time"

	"github.com/llehouerou/taplist/internal/playlist"
)

// PlaylistChange is emitted when a playlist is installed.
type PlaylistChange struct {
	SourceID string
	Tracks   []playlist.Track
	Index    int
}

// TrackChange is emitted when the current track changes.
//
// Emitted by:
//   - LoadPlaylist: the restored track of a non-empty playlist
//   - SelectTrack/Next/Previous: manual navigation
//   - Advance/Ended: a track finished and the next one starts
//
// NOT emitted by:
//   - TogglePlayPause: phase changes only emit PhaseChange
//   - Advance on an empty playlist
type TrackChange struct {
	Previous      *playlist.Track
	Current       *playlist.Track
	PreviousIndex int
	Index         int
	Reason        string
}

// PhaseChange is emitted when the playback phase changes.
type PhaseChange struct {
	Previous Phase
	Current  Phase
}

// SpeedChange is emitted when the playback speed changes.
type SpeedChange struct {
	Speed float64
}

// LoadStarted is emitted when a playlist request begins.
type LoadStarted struct {
	Identifier string
}

// FetchAttempt is emitted after each failed metadata request.
type FetchAttempt struct {
	Identifier string
	Number     int
	Max        int
	RetryIn    time.Duration
	Err        error
}

// FetchFailed is emitted when a playlist request fails for good. The
// previously installed playlist stays active.
type FetchFailed struct {
	Identifier string
	Message    string // user-facing
	Err        error
}

// ErrorEvent is emitted when a non-fatal error occurs.
type ErrorEvent struct {
	Operation string // e.g., "select track", "start playback"
	Message   string // user-facing
	Err       error
}
