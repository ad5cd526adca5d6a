// Package icons provides the status symbols drawn by the player bar and the
// track list.
package icons

import "sync/atomic"

// Style names a symbol set in the config file.
type Style string

const (
	StyleNerd    Style = "nerd"
	StyleUnicode Style = "unicode"
	StyleNone    Style = "none"
)

// Set holds the symbols for one style.
type Set struct {
	Play      string
	Pause     string
	Buffering string
	Current   string // marks the playing track in the list
}

var sets = map[Style]Set{
	StyleNerd: {
		Play:      "\uf04b", // nf-fa-play
		Pause:     "\uf04c", // nf-fa-pause
		Buffering: "\uf110", // nf-fa-spinner
		Current:   "\uf001", // nf-fa-music
	},
	StyleUnicode: {Play: "▶", Pause: "⏸", Buffering: "…", Current: "▶"},
	StyleNone:    {Play: ">", Pause: "||", Buffering: "...", Current: ">"},
}

var active atomic.Pointer[Set]

func init() {
	Init(string(StyleUnicode))
}

// Init selects the symbol set and returns the style in effect. Unknown
// styles fall back to plain ASCII.
func Init(style string) Style {
	s := Style(style)
	set, ok := sets[s]
	if !ok {
		s, set = StyleNone, sets[StyleNone]
	}
	active.Store(&set)
	return s
}

// Active returns the selected symbol set.
func Active() Set { return *active.Load() }

func Play() string { return active.Load().Play }
func Pause() string { return active.Load().Pause }
func Buffering() string { return active.Load().Buffering }

// Current returns the marker of the playing track.
func Current() string { return active.Load().Current }
