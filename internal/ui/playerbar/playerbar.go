// Package playerbar renders the one-line playback bar at the bottom.
package playerbar

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/llehouerou/taplist/internal/icons"
	"github.com/llehouerou/taplist/internal/playback"
	"github.com/llehouerou/taplist/internal/player"
	"github.com/llehouerou/taplist/internal/ui/render"
)

// Height is the total height of the player bar: top border + content + bottom border.
const Height = 3

// State holds everything needed to render the player bar.
type State struct {
	Playing   bool
	Paused    bool
	Buffering bool
	Title     string
	Source    string
	Index     int // 0-based
	Total     int
	Position  time.Duration
	Duration  time.Duration
	Speed     float64
	Volume    float64
	Muted     bool
	Buffered  int64 // bytes downloaded for the current track
}

// NewState constructs a State from the playback controller.
// Returns an empty State when no track is selected.
func NewState(svc playback.Service) State {
	track := svc.CurrentTrack()
	if track == nil || !svc.Phase().IsActive() {
		return State{}
	}

	p := svc.Player()
	return State{
		Playing:   svc.Phase() == playback.PhasePlaying,
		Paused:    svc.Phase() == playback.PhasePaused,
		Buffering: svc.Phase() == playback.PhasePlaying && p.State() == player.Buffering,
		Title:     track.Title,
		Source:    svc.SourceID(),
		Index:     svc.CurrentIndex(),
		Total:     svc.Len(),
		Position:  p.Position(),
		Duration:  p.Duration(),
		Speed:     svc.Speed(),
		Volume:    p.Volume(),
		Muted:     p.Muted(),
		Buffered:  p.Buffered(),
	}
}

const (
	gap         = "   "
	minBarWidth = 10
	minTitle    = 8
)

// Render returns the player bar string for the given width.
// Returns empty string when nothing is playing or paused.
func Render(s State, width int) string {
	if !s.Playing && !s.Paused {
		return ""
	}

	inner := max(width-6, 0) // border + padding
	symbol := s.symbol() + "  "
	tail := timeStyle().Render(s.clock()) + gap + renderRight(s)
	fixed := lipgloss.Width(symbol) + lipgloss.Width(tail) + 2*lipgloss.Width(gap)

	heading := fitHeading(s.title(), s.info(), inner-fixed-minBarWidth)
	bar := RenderProgressBar(s.Position, s.Duration, inner-fixed-lipgloss.Width(heading)-lipgloss.Width(gap))

	line := heading + gap + symbol + bar + gap + tail
	return barStyle().Padding(0, 2).Width(max(width-2, 0)).Render(line)
}

// fitHeading renders the title followed by the source info within room
// cells. Info is shortened first, then dropped, then the title is cut.
func fitHeading(title, info string, room int) string {
	tw := lipgloss.Width(title)
	gw := lipgloss.Width(gap)
	if info != "" && tw+gw < room {
		return titleStyle().Render(title) + gap + infoStyle().Render(render.Truncate(info, room-tw-gw))
	}
	return titleStyle().Render(render.Truncate(title, max(room, minTitle)))
}

func (s State) symbol() string {
	switch {
	case s.Buffering:
		return icons.Buffering()
	case s.Paused:
		return icons.Pause()
	}
	return icons.Play()
}

func (s State) title() string {
	if s.Title == "" {
		return "Unknown Track"
	}
	return s.Title
}

// info returns "source · n/total" with empty parts left out.
func (s State) info() string {
	var parts []string
	if s.Source != "" {
		parts = append(parts, s.Source)
	}
	if s.Total > 0 {
		parts = append(parts, fmt.Sprintf("%d/%d", s.Index+1, s.Total))
	}
	return strings.Join(parts, " · ")
}

func (s State) clock() string {
	return formatDuration(s.Position) + " / " + formatDuration(s.Duration)
}

// renderRight renders speed, volume and, while buffering, the download size.
func renderRight(s State) string {
	parts := []string{speedStyle().Render(FormatSpeed(s.Speed)), RenderVolume(s.Volume, s.Muted)}
	if s.Buffering {
		parts = append(parts, timeStyle().Render(humanize.Bytes(uint64(max(s.Buffered, 0)))))
	}
	return strings.Join(parts, " ")
}

// FormatSpeed renders a speed multiplier such as "1.25x" or "2x".
func FormatSpeed(speed float64) string {
	return strconv.FormatFloat(speed, 'f', -1, 64) + "x"
}

func formatDuration(d time.Duration) string {
	d = max(d, 0)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
