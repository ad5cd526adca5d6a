package keymap

import (
	"slices"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Contexts are the help columns, left to right.
var Contexts = []string{"global", "playback", "list"}

// footer lists the actions shown in the one-line help.
var footer = []Action{
	ActionPlayPause, ActionNextTrack, ActionPrevTrack, ActionSpeedUp,
	ActionSpeedDown, ActionOpen, ActionHelp, ActionQuit,
}

// Map resolves key presses to actions. It implements help.KeyMap.
type Map struct {
	bindings []Binding
	byKey    map[string]Action
}

// New builds a Map. A key bound twice resolves to its later binding.
func New(bindings []Binding) *Map {
	m := &Map{bindings: bindings, byKey: make(map[string]Action)}
	for _, b := range bindings {
		for _, k := range b.Keys {
			m.byKey[k] = b.Action
		}
	}
	return m
}

// Default is New(Bindings).
func Default() *Map { return New(Bindings) }

// Resolve returns the action bound to msg, or "" when none is.
func (m *Map) Resolve(msg tea.KeyMsg) Action {
	return m.Lookup(msg.String())
}

// Lookup returns the action bound to a key name such as "ctrl+c".
func (m *Map) Lookup(k string) Action {
	return m.byKey[k]
}

// Keys returns every key bound to action, in binding order.
func (m *Map) Keys(action Action) []string {
	var out []string
	for _, b := range m.bindings {
		if b.Action == action {
			out = append(out, b.Keys...)
		}
	}
	return out
}

// InContext returns the bindings of one help column.
func (m *Map) InContext(context string) []Binding {
	var out []Binding
	for _, b := range m.bindings {
		if b.Context == context {
			out = append(out, b)
		}
	}
	return out
}

func (m *Map) ShortHelp() []key.Binding {
	out := make([]key.Binding, 0, len(footer))
	for _, b := range m.bindings {
		if slices.Contains(footer, b.Action) {
			out = append(out, b.help())
		}
	}
	slices.SortStableFunc(out, func(a, b key.Binding) int {
		return m.footerRank(a) - m.footerRank(b)
	})
	return out
}

func (m *Map) footerRank(b key.Binding) int {
	return slices.Index(footer, m.Lookup(b.Keys()[0]))
}

func (m *Map) FullHelp() [][]key.Binding {
	columns := make([][]key.Binding, 0, len(Contexts))
	for _, c := range Contexts {
		var col []key.Binding
		for _, b := range m.InContext(c) {
			col = append(col, b.help())
		}
		columns = append(columns, col)
	}
	return columns
}
