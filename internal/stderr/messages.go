// Package stderr captures what the audio backend (ALSA under oto) prints
// on file descriptor 2, which would otherwise scribble over the TUI.
// Captured lines are logged and offered to the UI on Messages.
package stderr

import (
	"strings"

	"github.com/rs/zerolog"
)

// Messages carries captured lines. It is never closed and drops lines
// while full.
var Messages = make(chan string, 100)

func forward(logger zerolog.Logger, line string) {
	if line = strings.TrimSpace(line); line == "" {
		return
	}
	logger.Warn().Str("line", line).Msg("Audio backend wrote to stderr")
	select {
	case Messages <- line:
	default:
	}
}
