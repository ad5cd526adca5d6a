package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/taplist/internal/playback"
	"github.com/llehouerou/taplist/internal/stderr"
)

// tickInterval is how often progress is recorded while playing.
const tickInterval = 500 * time.Millisecond

// TickCmd returns a command that sends TickMsg after tickInterval.
func TickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// waitForChannel creates a command that waits for a value from a channel and converts it to a message.
// onResult receives the value and a boolean indicating if the channel is still open (false means channel closed).
func waitForChannel[T any](ch <-chan T, onResult func(T, bool) tea.Msg) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		result, ok := <-ch
		return onResult(result, ok)
	}
}

// WatchServiceEvents returns a command that waits for the next controller
// event and converts it to a tea.Msg. Load events are delivered before
// playlist events so a fast fetch never reads as finished before started.
func WatchServiceEvents(sub *playback.Subscription) tea.Cmd {
	if sub == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case e := <-sub.LoadStarted:
			return LoadStartedMsg(e)
		default:
		}
		select {
		case e := <-sub.FetchAttempted:
			return FetchAttemptMsg(e)
		default:
		}
		select {
		case e := <-sub.PlaylistChanged:
			return PlaylistChangedMsg(e)
		default:
		}

		select {
		case e := <-sub.PlaylistChanged:
			return PlaylistChangedMsg(e)
		case e := <-sub.TrackChanged:
			return TrackChangedMsg(e)
		case e := <-sub.PhaseChanged:
			return PhaseChangedMsg(e)
		case e := <-sub.SpeedChanged:
			return SpeedChangedMsg(e)
		case e := <-sub.LoadStarted:
			return LoadStartedMsg(e)
		case e := <-sub.FetchAttempted:
			return FetchAttemptMsg(e)
		case e := <-sub.FetchFailed:
			return FetchFailedMsg(e)
		case e := <-sub.Error:
			return ServiceErrorMsg(e)
		case <-sub.Done:
			return ServiceClosedMsg{}
		}
	}
}

// WatchTrackFinished waits for the player to reach the end of a track.
func WatchTrackFinished(svc playback.Service) tea.Cmd {
	return waitForChannel(svc.Player().FinishedChan(), func(_ struct{}, ok bool) tea.Msg {
		if !ok {
			return nil
		}
		return TrackFinishedMsg{}
	})
}

// WatchPlayerErrors waits for the next asynchronous player error.
func WatchPlayerErrors(svc playback.Service) tea.Cmd {
	return waitForChannel(svc.Player().Errors(), func(err error, ok bool) tea.Msg {
		if !ok {
			return nil
		}
		return PlayerErrorMsg{Err: err}
	})
}

// WatchStderr returns a command that waits for output captured from the audio backend.
func WatchStderr() tea.Cmd {
	return waitForChannel[string](stderr.Messages, func(line string, ok bool) tea.Msg {
		if !ok {
			return nil
		}
		return StderrMsg{Line: line}
	})
}

// RequestLoadCmd fetches identifier in the background. Progress arrives as
// controller events; LoadDoneMsg only reports the final result.
func RequestLoadCmd(ctx context.Context, svc playback.Service, identifier string) tea.Cmd {
	return func() tea.Msg {
		err := svc.RequestLoad(ctx, identifier)
		return LoadDoneMsg{Identifier: identifier, Err: err}
	}
}

// RestoreCmd reloads the playlist saved in the session.
func RestoreCmd(ctx context.Context, svc playback.Service) tea.Cmd {
	return func() tea.Msg {
		err := svc.Restore(ctx)
		return LoadDoneMsg{Restore: true, Err: err}
	}
}
