//go:build linux

package mpris

import (
	"errors"
	"time"

	"github.com/quarckster/go-mpris-server/pkg/types"

	"github.com/llehouerou/taplist/internal/playback"
)

// remote is the org.mpris.MediaPlayer2.Player object.
type remote struct {
	svc  playback.Service
	opts Options
}

// setPlaying toggles only when the phase differs from want.
func (r *remote) setPlaying(want bool) error {
	if (r.svc.Phase() == playback.PhasePlaying) != want {
		r.svc.TogglePlayPause()
	}
	return nil
}

func (r *remote) Play() error  { return r.setPlaying(true) }
func (r *remote) Pause() error { return r.setPlaying(false) }

// Stop pauses. The session keeps its position either way.
func (r *remote) Stop() error { return r.setPlaying(false) }

func (r *remote) PlayPause() error {
	r.svc.TogglePlayPause()
	return nil
}

func (r *remote) Next() error     { return quietEmpty(r.svc.Next()) }
func (r *remote) Previous() error { return quietEmpty(r.svc.Previous()) }

// quietEmpty drops ErrEmptyPlaylist: media keys pressed before a playlist
// loads are not bus errors.
func quietEmpty(err error) error {
	if errors.Is(err, playback.ErrEmptyPlaylist) {
		return nil
	}
	return err
}

func (r *remote) Seek(offset types.Microseconds) error {
	r.svc.SeekBy(time.Duration(offset) * time.Microsecond)
	return nil
}

// SetPosition ignores requests naming a track that is no longer current.
func (r *remote) SetPosition(id string, pos types.Microseconds) error {
	if r.svc.CurrentTrack() == nil || id != r.currentID() {
		return nil
	}
	r.svc.Seek(time.Duration(pos) * time.Microsecond)
	return nil
}

func (r *remote) currentID() string {
	return string(trackID(r.svc.SourceID(), r.svc.CurrentIndex()))
}

//nolint:revive // name fixed by the MPRIS interface
func (r *remote) OpenUri(string) error { return nil }

func (r *remote) PlaybackStatus() (types.PlaybackStatus, error) {
	switch r.svc.Phase() {
	case playback.PhasePlaying:
		return types.PlaybackStatusPlaying, nil
	case playback.PhasePaused:
		return types.PlaybackStatusPaused, nil
	default:
		return types.PlaybackStatusStopped, nil
	}
}

func (r *remote) Metadata() (types.Metadata, error) {
	t := r.svc.CurrentTrack()
	if t == nil {
		return types.Metadata{}, nil
	}
	return types.Metadata{
		TrackId:     trackID(r.svc.SourceID(), r.svc.CurrentIndex()),
		Length:      types.Microseconds(r.svc.Player().Duration().Microseconds()),
		Title:       t.Title,
		Album:       r.svc.SourceID(),
		TrackNumber: r.svc.CurrentIndex() + 1,
	}, nil
}

func (r *remote) Rate() (float64, error) { return r.svc.Speed(), nil }

// SetRate is clamped by the controller to its speed range.
func (r *remote) SetRate(rate float64) error {
	r.svc.SetSpeed(rate)
	return nil
}

func (r *remote) MinimumRate() (float64, error) { return r.opts.MinRate, nil }
func (r *remote) MaximumRate() (float64, error) { return r.opts.MaxRate, nil }

func (r *remote) Volume() (float64, error) { return r.svc.Player().Volume(), nil }

func (r *remote) SetVolume(v float64) error {
	r.svc.Player().SetVolume(v)
	return nil
}

func (r *remote) Position() (int64, error) {
	return r.svc.Player().Position().Microseconds(), nil
}

func (r *remote) loaded() (bool, error) { return r.svc.Len() > 0, nil }

func (r *remote) CanGoNext() (bool, error)     { return r.loaded() }
func (r *remote) CanGoPrevious() (bool, error) { return r.loaded() }
func (r *remote) CanPlay() (bool, error)       { return r.loaded() }
func (r *remote) CanPause() (bool, error)      { return r.loaded() }
func (r *remote) CanSeek() (bool, error)       { return r.loaded() }
func (r *remote) CanControl() (bool, error)    { return true, nil }

// LoopStatus is always Playlist: next and previous wrap around.
func (r *remote) LoopStatus() (types.LoopStatus, error) {
	return types.LoopStatusPlaylist, nil
}

func (r *remote) SetLoopStatus(types.LoopStatus) error { return nil }
