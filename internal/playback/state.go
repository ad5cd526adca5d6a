// internal/playback/state.go
package playback

// Phase is the controller's playback phase. It is what the UI shows; the
// player may briefly disagree while a track is buffering.
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePlaying
	PhasePaused
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "Idle"
	case PhasePlaying:
		return "Playing"
	case PhasePaused:
		return "Paused"
	default:
		return "Unknown"
	}
}

// IsActive returns true if a track is selected for playback.
func (p Phase) IsActive() bool {
	return p == PhasePlaying || p == PhasePaused
}

// Track change reasons, also used as metric labels.
const (
	ReasonRestore  = "restore"
	ReasonSelect   = "select"
	ReasonNext     = "next"
	ReasonPrevious = "previous"
	ReasonAdvance  = "advance"
)
