package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/llehouerou/taplist/internal/playback"
)

// trackExpire is how long a track notification stays on screen.
const trackExpire = 4 * time.Second

// Watcher turns playback events into desktop notifications. Track changes
// replace the previous track notification instead of stacking up.
type Watcher struct {
	notifier Notifier
	logger   zerolog.Logger

	sourceID string
	total    int
	lastID   uint32
}

// NewWatcher creates a Watcher that posts through n.
func NewWatcher(n Notifier, logger zerolog.Logger) *Watcher {
	return &Watcher{
		notifier: n,
		logger:   logger.With().Str("component", "notify").Logger(),
	}
}

// Run consumes sub until ctx is cancelled or the subscription closes.
func (w *Watcher) Run(ctx context.Context, sub *playback.Subscription) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-sub.Done:
			return nil
		case e := <-sub.PlaylistChanged:
			w.playlistChanged(e)
		case e := <-sub.TrackChanged:
			// The playlist event is sent first but select may pick either.
			w.drainPlaylists(sub)
			w.trackChanged(e)
		case e := <-sub.FetchFailed:
			w.send(Notification{
				Summary: "Playlist unavailable",
				Body:    e.Message,
				Urgency: Critical,
			}, false)
		}
	}
}

func (w *Watcher) playlistChanged(e playback.PlaylistChange) {
	w.sourceID = e.SourceID
	w.total = len(e.Tracks)
}

func (w *Watcher) drainPlaylists(sub *playback.Subscription) {
	for {
		select {
		case e := <-sub.PlaylistChanged:
			w.playlistChanged(e)
		default:
			return
		}
	}
}

func (w *Watcher) trackChanged(e playback.TrackChange) {
	if e.Current == nil {
		return
	}
	w.send(TrackNotification(e.Current.Title, w.sourceID, e.Index, w.total), true)
}

func (w *Watcher) send(n Notification, replace bool) {
	if replace {
		n.Replaces = w.lastID
	}
	id, err := w.notifier.Post(n)
	if err != nil {
		w.logger.Debug().Err(err).Str("summary", n.Summary).Msg("notification failed")
		return
	}
	if replace {
		w.lastID = id
	}
}

// TrackNotification builds the notification shown when a track starts.
func TrackNotification(title, sourceID string, index, total int) Notification {
	body := sourceID
	if total > 0 {
		body = fmt.Sprintf("%s (%d/%d)", sourceID, index+1, total)
	}
	return Notification{
		Summary: title,
		Body:    body,
		Icon:    "audio-x-generic",
		Expire:  trackExpire,
		Urgency: Low,
	}
}
