//go:build linux

package mpris

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/quarckster/go-mpris-server/pkg/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/taplist/internal/playback"
	"github.com/llehouerou/taplist/internal/player"
	"github.com/llehouerou/taplist/internal/playlist"
	"github.com/llehouerou/taplist/internal/state"
)

func newRemote(t *testing.T, n int) (*remote, *playback.Controller, *player.Mock) {
	t.Helper()

	mock := player.NewMock()
	store := state.NewStore(state.NewMemory(), zerolog.Nop())
	ctrl := playback.New(mock, store, nil, playback.DefaultConfig(), zerolog.Nop())
	t.Cleanup(func() { ctrl.Close() })

	if n > 0 {
		tracks := make([]playlist.Track, 0, n)
		for i := 1; i <= n; i++ {
			name := fmt.Sprintf("%d.mp3", i)
			tracks = append(tracks, playlist.NewTrack("https://dl.example/item/"+name, name))
		}
		ctrl.LoadPlaylist("truyen-audio", playlist.New(tracks...))
	}

	return &remote{svc: ctrl, opts: Options{MinRate: 0.25, MaxRate: 4}}, ctrl, mock
}

func TestTrackID(t *testing.T) {
	a := trackID("truyen-audio", 0)

	assert.True(t, strings.HasPrefix(string(a), "/org/mpris/MediaPlayer2/Track/"))
	assert.True(t, a.IsValid())
	assert.NotEqual(t, a, trackID("truyen-audio", 1))
	assert.NotEqual(t, a, trackID("other-item", 0))
	assert.Equal(t, a, trackID("truyen-audio", 0))
}

func TestPlaybackStatus(t *testing.T) {
	p, ctrl, _ := newRemote(t, 2)

	status, _ := p.PlaybackStatus()
	assert.Equal(t, types.PlaybackStatusPlaying, status)

	ctrl.TogglePlayPause()
	status, _ = p.PlaybackStatus()
	assert.Equal(t, types.PlaybackStatusPaused, status)

	empty, _, _ := newRemote(t, 0)
	status, _ = empty.PlaybackStatus()
	assert.Equal(t, types.PlaybackStatusStopped, status)
}

func TestRemote_EmptyPlaylist(t *testing.T) {
	p, _, _ := newRemote(t, 0)

	require.NoError(t, p.Next())
	require.NoError(t, p.Previous())

	canPlay, _ := p.CanPlay()
	assert.False(t, canPlay)
	canSeek, _ := p.CanSeek()
	assert.False(t, canSeek)

	meta, err := p.Metadata()
	require.NoError(t, err)
	assert.Empty(t, meta.Title)
}

func TestRemote_Controls(t *testing.T) {
	p, ctrl, _ := newRemote(t, 3)

	status, _ := p.PlaybackStatus()
	assert.Equal(t, types.PlaybackStatusPlaying, status)

	require.NoError(t, p.Play())
	assert.Equal(t, playback.PhasePlaying, ctrl.Phase(), "Play while playing is a no-op")

	require.NoError(t, p.Stop())
	assert.Equal(t, playback.PhasePaused, ctrl.Phase())

	require.NoError(t, p.Pause())
	assert.Equal(t, playback.PhasePaused, ctrl.Phase(), "Pause while paused is a no-op")

	require.NoError(t, p.PlayPause())
	assert.Equal(t, playback.PhasePlaying, ctrl.Phase())

	require.NoError(t, p.Previous())
	assert.Equal(t, 2, ctrl.CurrentIndex())
	require.NoError(t, p.Next())
	assert.Equal(t, 0, ctrl.CurrentIndex())
}

func TestRemote_Metadata(t *testing.T) {
	p, _, mock := newRemote(t, 3)
	mock.SetDuration(90 * time.Second)
	require.NoError(t, p.Next())

	meta, err := p.Metadata()
	require.NoError(t, err)

	assert.Equal(t, "Tập 002", meta.Title)
	assert.Equal(t, "truyen-audio", meta.Album)
	assert.Equal(t, 2, meta.TrackNumber)
	assert.Equal(t, types.Microseconds(90_000_000), meta.Length)
	assert.Equal(t, trackID("truyen-audio", 1), meta.TrackId)
}

func TestRemote_Rate(t *testing.T) {
	p, ctrl, _ := newRemote(t, 1)

	require.NoError(t, p.SetRate(10))
	assert.InDelta(t, 4.0, ctrl.Speed(), 1e-9)

	rate, _ := p.Rate()
	assert.InDelta(t, 4.0, rate, 1e-9)

	minRate, _ := p.MinimumRate()
	maxRate, _ := p.MaximumRate()
	assert.InDelta(t, 0.25, minRate, 1e-9)
	assert.InDelta(t, 4.0, maxRate, 1e-9)
}

func TestRemote_SetPosition(t *testing.T) {
	p, ctrl, mock := newRemote(t, 2)

	require.NoError(t, p.SetPosition("/org/mpris/MediaPlayer2/Track/stale", 5_000_000))
	assert.Empty(t, mock.SeekCalls(), "stale track id must be ignored")

	id := trackID("truyen-audio", ctrl.CurrentIndex())
	require.NoError(t, p.SetPosition(string(id), 5_000_000))
	assert.Equal(t, 5*time.Second, ctrl.Elapsed())
}
