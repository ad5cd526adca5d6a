package keymap

import "github.com/charmbracelet/bubbles/key"

// Binding binds keys to an action. Context groups bindings into help
// columns.
type Binding struct {
	Action      Action
	Keys        []string
	Description string
	Context     string // "global", "playback", "list"
}

// Bindings is the default key map, in help order.
var Bindings = []Binding{
	// Global
	{ActionQuit, []string{"q", "ctrl+c"}, "Quit", "global"},
	{ActionHelp, []string{"?"}, "Toggle help", "global"},
	{ActionOpen, []string{"o", "/"}, "Open identifier", "global"},
	{ActionReload, []string{"R"}, "Reload playlist", "global"},

	// Playback
	{ActionPlayPause, []string{" "}, "Play/pause", "playback"},
	{ActionNextTrack, []string{"n", "pgdown"}, "Next track", "playback"},
	{ActionPrevTrack, []string{"p", "pgup"}, "Previous track", "playback"},
	{ActionSeekForward, []string{"right", "l"}, "Seek forward", "playback"},
	{ActionSeekBack, []string{"left", "h"}, "Seek back", "playback"},
	{ActionSpeedUp, []string{"+", "="}, "Faster", "playback"},
	{ActionSpeedDown, []string{"-"}, "Slower", "playback"},
	{ActionSpeedReset, []string{"0"}, "Normal speed", "playback"},
	{ActionVolumeUp, []string{"]"}, "Volume up", "playback"},
	{ActionVolumeDown, []string{"["}, "Volume down", "playback"},
	{ActionMute, []string{"m"}, "Mute", "playback"},

	// Track list
	{ActionMoveDown, []string{"j", "down"}, "Move down", "list"},
	{ActionMoveUp, []string{"k", "up"}, "Move up", "list"},
	{ActionJumpStart, []string{"g", "home"}, "First track", "list"},
	{ActionJumpEnd, []string{"G", "end"}, "Last track", "list"},
	{ActionPageDown, []string{"ctrl+d"}, "Half page down", "list"},
	{ActionPageUp, []string{"ctrl+u"}, "Half page up", "list"},
	{ActionSelect, []string{"enter"}, "Play track", "list"},
	{ActionJumpPlaying, []string{"c"}, "Go to playing", "list"},
}

func displayKey(k string) string {
	if k == " " {
		return "space"
	}
	return k
}

func (b Binding) help() key.Binding {
	return key.NewBinding(
		key.WithKeys(b.Keys...),
		key.WithHelp(displayKey(b.Keys[0]), b.Description),
	)
}
