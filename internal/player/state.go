package player

// State is where the player is in loading and playing a track.
//
// Play moves any state to Buffering while the file downloads and decodes,
// then to Playing, or to Stopped when loading fails. Pause and Resume swap
// Playing and Paused; a Pause during Buffering makes the track start
// paused. Stop returns to Stopped from anywhere.
type State int

const (
	Stopped State = iota
	Buffering
	Playing
	Paused
)

var stateNames = [...]string{"Stopped", "Buffering", "Playing", "Paused"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "Unknown"
	}
	return stateNames[s]
}

// HasTrack reports whether a track is loading or loaded.
func (s State) HasTrack() bool {
	return s != Stopped
}
