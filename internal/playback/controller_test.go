package playback

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/taplist/internal/archive"
	"github.com/llehouerou/taplist/internal/loader"
	"github.com/llehouerou/taplist/internal/player"
	"github.com/llehouerou/taplist/internal/playlist"
	"github.com/llehouerou/taplist/internal/state"
)

const testSource = "truyen-audio"

type fixture struct {
	ctrl   *Controller
	player *player.Mock
	kv     *state.Memory
	sub    *Subscription
}

func newFixture(t *testing.T, fetch loader.FetchFunc) *fixture {
	t.Helper()

	if fetch == nil {
		fetch = func(context.Context, string) (playlist.Playlist, error) {
			return makePlaylist(3), nil
		}
	}

	f := &fixture{player: player.NewMock(), kv: state.NewMemory()}
	store := state.NewStore(f.kv, zerolog.Nop())
	f.ctrl = New(f.player, store, fetch, DefaultConfig(), zerolog.Nop())
	f.sub = f.ctrl.Subscribe()
	t.Cleanup(func() { f.ctrl.Close() })
	return f
}

func makePlaylist(n int) playlist.Playlist {
	tracks := make([]playlist.Track, 0, n)
	for i := 1; i <= n; i++ {
		name := fmt.Sprintf("%d.mp3", i)
		tracks = append(tracks, playlist.NewTrack("https://dl.example/item/"+name, name))
	}
	return playlist.New(tracks...)
}

func (f *fixture) stored(key string) string {
	return f.kv.Snapshot()[key]
}

func drain[T any](ch <-chan T) []T {
	var out []T
	for {
		select {
		case e := <-ch:
			out = append(out, e)
		default:
			return out
		}
	}
}

func TestSelectTrack_Wraps(t *testing.T) {
	tests := []struct {
		input int
		want  int
	}{
		{-1, 2},
		{3, 0},
		{1, 1},
		{7, 1},
		{-5, 1},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.input), func(t *testing.T) {
			f := newFixture(t, nil)
			f.ctrl.LoadPlaylist(testSource, makePlaylist(3))

			require.NoError(t, f.ctrl.SelectTrack(tt.input))

			assert.Equal(t, tt.want, f.ctrl.CurrentIndex())
			assert.Equal(t, fmt.Sprint(tt.want), f.stored(state.KeyTrackIndex))
			assert.Equal(t, "0", f.stored(state.KeyElapsed))
			assert.Equal(t, PhasePlaying, f.ctrl.Phase())

			call, ok := f.player.LastPlay()
			require.True(t, ok)
			assert.Equal(t, f.ctrl.CurrentTrack().URL, call.URL)
			assert.Equal(t, time.Duration(0), call.StartAt)
		})
	}
}

func TestSelectTrack_EmitsTrackChange(t *testing.T) {
	f := newFixture(t, nil)
	f.ctrl.LoadPlaylist(testSource, makePlaylist(3))
	drain(f.sub.TrackChanged)

	require.NoError(t, f.ctrl.SelectTrack(2))

	events := drain(f.sub.TrackChanged)
	require.Len(t, events, 1)
	e := events[0]
	assert.Equal(t, 0, e.PreviousIndex)
	assert.Equal(t, 2, e.Index)
	assert.Equal(t, "Tập 003", e.Current.Title)
	assert.Equal(t, "Tập 001", e.Previous.Title)
	assert.Equal(t, ReasonSelect, e.Reason)
}

func TestSelectTrack_EmptyPlaylist(t *testing.T) {
	f := newFixture(t, nil)

	err := f.ctrl.SelectTrack(0)

	assert.ErrorIs(t, err, ErrEmptyPlaylist)
	assert.Empty(t, f.player.PlayCalls())
	errs := drain(f.sub.Error)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "select track")
	assert.Empty(t, drain(f.sub.TrackChanged))
}

func TestNextPrevious(t *testing.T) {
	f := newFixture(t, nil)
	f.ctrl.LoadPlaylist(testSource, makePlaylist(3))

	require.NoError(t, f.ctrl.Previous())
	assert.Equal(t, 2, f.ctrl.CurrentIndex())

	require.NoError(t, f.ctrl.Next())
	assert.Equal(t, 0, f.ctrl.CurrentIndex())

	require.NoError(t, f.ctrl.Next())
	assert.Equal(t, 1, f.ctrl.CurrentIndex())
}

func TestAdvance_EmptyIsNoop(t *testing.T) {
	f := newFixture(t, nil)

	assert.NotPanics(t, f.ctrl.Advance)
	assert.NotPanics(t, f.ctrl.Ended)

	assert.Empty(t, f.player.PlayCalls())
	assert.Empty(t, drain(f.sub.Error))
	assert.Equal(t, PhaseIdle, f.ctrl.Phase())
}

func TestAdvance_SingleTrackRepeats(t *testing.T) {
	f := newFixture(t, nil)
	f.ctrl.LoadPlaylist(testSource, makePlaylist(1))
	f.ctrl.Progress(10 * time.Second)

	f.ctrl.Advance()

	assert.Equal(t, 0, f.ctrl.CurrentIndex())
	assert.Len(t, f.player.PlayCalls(), 2)
	call, _ := f.player.LastPlay()
	assert.Equal(t, time.Duration(0), call.StartAt)
}

func TestAdvance_WrapsAtEnd(t *testing.T) {
	f := newFixture(t, nil)
	f.ctrl.LoadPlaylist(testSource, makePlaylist(2))
	require.NoError(t, f.ctrl.SelectTrack(1))
	drain(f.sub.TrackChanged)

	f.ctrl.Ended()

	assert.Equal(t, 0, f.ctrl.CurrentIndex())
	events := drain(f.sub.TrackChanged)
	require.Len(t, events, 1)
	assert.Equal(t, ReasonAdvance, events[0].Reason)
}

func TestLoadPlaylist_ResumesSession(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, f.kv.Set(state.KeySourceID, testSource))
	require.NoError(t, f.kv.Set(state.KeyTrackIndex, "2"))
	require.NoError(t, f.kv.Set(state.KeyElapsed, "30.5"))
	require.NoError(t, f.kv.Set(state.KeySpeed, "1.5"))

	f.ctrl.LoadPlaylist(testSource, makePlaylist(3))

	assert.Equal(t, 2, f.ctrl.CurrentIndex())
	assert.Equal(t, 30500*time.Millisecond, f.ctrl.Elapsed())
	assert.Equal(t, 1.5, f.ctrl.Speed())
	assert.Equal(t, PhasePlaying, f.ctrl.Phase())

	call, ok := f.player.LastPlay()
	require.True(t, ok)
	assert.Equal(t, "https://dl.example/item/3.mp3", call.URL)
	assert.Equal(t, 30500*time.Millisecond, call.StartAt)
	assert.Equal(t, 1.5, call.Speed)

	pcs := drain(f.sub.PlaylistChanged)
	require.Len(t, pcs, 1)
	assert.Equal(t, 2, pcs[0].Index)
	assert.Len(t, pcs[0].Tracks, 3)
}

func TestLoadPlaylist_ClampsStoredIndex(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, f.kv.Set(state.KeySourceID, testSource))
	require.NoError(t, f.kv.Set(state.KeyTrackIndex, "10"))
	require.NoError(t, f.kv.Set(state.KeyElapsed, "42"))

	f.ctrl.LoadPlaylist(testSource, makePlaylist(3))

	assert.Equal(t, 2, f.ctrl.CurrentIndex())
	assert.Equal(t, time.Duration(0), f.ctrl.Elapsed())
	assert.Equal(t, "2", f.stored(state.KeyTrackIndex))
	assert.Equal(t, "0", f.stored(state.KeyElapsed))
}

func TestLoadPlaylist_CorruptElapsed(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, f.kv.Set(state.KeyTrackIndex, "1"))
	require.NoError(t, f.kv.Set(state.KeyElapsed, "abc"))

	f.ctrl.LoadPlaylist(testSource, makePlaylist(3))

	assert.Equal(t, 1, f.ctrl.CurrentIndex())
	assert.Equal(t, time.Duration(0), f.ctrl.Elapsed())
	assert.Empty(t, drain(f.sub.Error), "corrupt fields are never surfaced")
}

func TestLoadPlaylist_OtherSourceStartsOver(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, f.kv.Set(state.KeySourceID, "another-item"))
	require.NoError(t, f.kv.Set(state.KeyTrackIndex, "2"))
	require.NoError(t, f.kv.Set(state.KeyElapsed, "99"))
	require.NoError(t, f.kv.Set(state.KeySpeed, "2"))

	f.ctrl.LoadPlaylist(testSource, makePlaylist(3))

	assert.Equal(t, 0, f.ctrl.CurrentIndex())
	assert.Equal(t, time.Duration(0), f.ctrl.Elapsed())
	assert.Equal(t, 2.0, f.ctrl.Speed(), "speed is kept across items")
	assert.Equal(t, testSource, f.stored(state.KeySourceID))
}

func TestLoadPlaylist_Empty(t *testing.T) {
	f := newFixture(t, nil)
	f.ctrl.LoadPlaylist(testSource, makePlaylist(2))
	stops := f.player.StopCalls()

	f.ctrl.LoadPlaylist(testSource, playlist.New())

	assert.Equal(t, 0, f.ctrl.CurrentIndex())
	assert.Nil(t, f.ctrl.CurrentTrack())
	assert.Equal(t, PhaseIdle, f.ctrl.Phase())
	assert.Greater(t, f.player.StopCalls(), stops)

	phases := drain(f.sub.PhaseChanged)
	require.NotEmpty(t, phases)
	assert.Equal(t, PhaseIdle, phases[len(phases)-1].Current)
}

func TestTogglePlayPause(t *testing.T) {
	f := newFixture(t, nil)

	f.ctrl.TogglePlayPause()
	assert.Equal(t, PhaseIdle, f.ctrl.Phase(), "toggle on empty playlist is a no-op")

	f.ctrl.LoadPlaylist(testSource, makePlaylist(2))
	drain(f.sub.PhaseChanged)

	f.ctrl.TogglePlayPause()
	assert.Equal(t, PhasePaused, f.ctrl.Phase())
	assert.Equal(t, player.Paused, f.player.State())

	f.ctrl.TogglePlayPause()
	assert.Equal(t, PhasePlaying, f.ctrl.Phase())
	assert.Equal(t, player.Playing, f.player.State())

	phases := drain(f.sub.PhaseChanged)
	require.Len(t, phases, 2)
	assert.Equal(t, PhaseChange{Previous: PhasePlaying, Current: PhasePaused}, phases[0])
	assert.Equal(t, PhaseChange{Previous: PhasePaused, Current: PhasePlaying}, phases[1])
	assert.Len(t, drain(f.sub.TrackChanged), 1, "only the restore changed the track")
}

func TestTogglePlayPause_RestartsAfterPlayerError(t *testing.T) {
	f := newFixture(t, nil)
	f.ctrl.LoadPlaylist(testSource, makePlaylist(2))
	f.ctrl.Progress(0)
	f.player.SetState(player.Stopped)

	f.ctrl.ReportPlayerError(errors.New("404"))

	assert.Equal(t, PhasePaused, f.ctrl.Phase())
	errs := drain(f.sub.Error)
	require.Len(t, errs, 1)
	assert.Equal(t, "start playback", errs[0].Operation)

	plays := len(f.player.PlayCalls())
	f.ctrl.TogglePlayPause()

	assert.Equal(t, PhasePlaying, f.ctrl.Phase())
	assert.Len(t, f.player.PlayCalls(), plays+1)
}

func TestSetSpeed_Clamps(t *testing.T) {
	tests := []struct {
		input float64
		want  float64
	}{
		{1.25, 1.25},
		{10, 4},
		{0.1, 0.25},
		{-3, 1},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.input), func(t *testing.T) {
			f := newFixture(t, nil)

			got := f.ctrl.SetSpeed(tt.input)

			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want, f.ctrl.Speed())
			assert.Equal(t, tt.want, f.player.Speed())
			if tt.want != 1 {
				assert.Equal(t, fmt.Sprint(tt.want), f.stored(state.KeySpeed))
				events := drain(f.sub.SpeedChanged)
				require.Len(t, events, 1)
				assert.Equal(t, tt.want, events[0].Speed)
			}
		})
	}
}

func TestAdjustSpeed(t *testing.T) {
	f := newFixture(t, nil)

	f.ctrl.AdjustSpeed(0.25)
	f.ctrl.AdjustSpeed(0.25)

	assert.Equal(t, 1.5, f.ctrl.Speed())
}

func TestProgress_Throttled(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, nil)
		f.ctrl.LoadPlaylist(testSource, makePlaylist(2))

		time.Sleep(500 * time.Millisecond)
		f.ctrl.Progress(500 * time.Millisecond)
		assert.Equal(t, "0", f.stored(state.KeyElapsed), "too soon to save")
		assert.Equal(t, 500*time.Millisecond, f.ctrl.Elapsed())

		time.Sleep(500 * time.Millisecond)
		f.ctrl.Progress(time.Second)
		assert.Equal(t, "1", f.stored(state.KeyElapsed))

		time.Sleep(300 * time.Millisecond)
		f.ctrl.Progress(1300 * time.Millisecond)
		assert.Equal(t, "1", f.stored(state.KeyElapsed))

		f.ctrl.Flush()
		assert.Equal(t, "1.3", f.stored(state.KeyElapsed))
	})
}

func TestProgress_IgnoredWhenPaused(t *testing.T) {
	f := newFixture(t, nil)
	f.ctrl.LoadPlaylist(testSource, makePlaylist(2))
	f.ctrl.TogglePlayPause()

	f.ctrl.Progress(time.Minute)

	assert.Equal(t, time.Duration(0), f.ctrl.Elapsed())
}

func TestProgress_IgnoredWhileBuffering(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, nil)
		require.NoError(t, f.kv.Set(state.KeySourceID, testSource))
		require.NoError(t, f.kv.Set(state.KeyTrackIndex, "1"))
		require.NoError(t, f.kv.Set(state.KeyElapsed, "300"))

		f.ctrl.LoadPlaylist(testSource, makePlaylist(3))
		f.player.SetState(player.Buffering)
		f.player.SetPosition(0)

		for range 4 {
			time.Sleep(500 * time.Millisecond)
			f.ctrl.Progress(f.player.Position())
		}

		assert.Equal(t, 300*time.Second, f.ctrl.Elapsed())
		assert.Equal(t, "300", f.stored(state.KeyElapsed))

		f.ctrl.Flush()
		assert.Equal(t, "300", f.stored(state.KeyElapsed))

		f.player.SetState(player.Stopped)
		f.ctrl.ReportPlayerError(errors.New("download failed"))
		f.ctrl.TogglePlayPause()

		call, ok := f.player.LastPlay()
		require.True(t, ok)
		assert.Equal(t, 300*time.Second, call.StartAt, "retry resumes where the session left off")
	})
}

func TestSeekBy_WhileBufferingUsesRememberedPosition(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, f.kv.Set(state.KeySourceID, testSource))
	require.NoError(t, f.kv.Set(state.KeyElapsed, "300"))

	f.ctrl.LoadPlaylist(testSource, makePlaylist(2))
	f.player.SetState(player.Buffering)
	f.player.SetPosition(0)

	f.ctrl.SeekBy(10 * time.Second)

	assert.Equal(t, 310*time.Second, f.ctrl.Elapsed())
	assert.Equal(t, "310", f.stored(state.KeyElapsed))
	assert.Equal(t, []time.Duration{310 * time.Second}, f.player.SeekCalls())

	f.ctrl.Progress(0)
	assert.Equal(t, 310*time.Second, f.ctrl.Elapsed())
}

func TestNextPrevious_ConcurrentLoadPlaylist(t *testing.T) {
	f := newFixture(t, nil)
	f.ctrl.LoadPlaylist(testSource, makePlaylist(3))

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			f.ctrl.LoadPlaylist(testSource, makePlaylist(2+i%3))
		}()
		go func() {
			defer wg.Done()
			_ = f.ctrl.Next()
			_ = f.ctrl.Previous()
		}()
	}
	wg.Wait()

	idx := f.ctrl.CurrentIndex()
	assert.GreaterOrEqual(t, idx, 0)
	assert.Less(t, idx, f.ctrl.Len())
}

func TestSeek_SavesImmediately(t *testing.T) {
	f := newFixture(t, nil)
	f.ctrl.LoadPlaylist(testSource, makePlaylist(2))

	f.ctrl.Seek(95 * time.Second)

	assert.Equal(t, "95", f.stored(state.KeyElapsed))
	assert.Equal(t, []time.Duration{95 * time.Second}, f.player.SeekCalls())

	f.player.SetPosition(95 * time.Second)
	f.ctrl.SeekBy(-100 * time.Second)
	assert.Equal(t, "0", f.stored(state.KeyElapsed))
}

func TestSessionWriteFailureIsSilent(t *testing.T) {
	f := newFixture(t, nil)
	f.ctrl.LoadPlaylist(testSource, makePlaylist(3))
	f.kv.FailSet(state.KeyTrackIndex, errors.New("quota exceeded"))

	require.NoError(t, f.ctrl.SelectTrack(2))

	assert.Equal(t, 2, f.ctrl.CurrentIndex())
	assert.Equal(t, "0", f.stored(state.KeyElapsed))
	assert.Empty(t, drain(f.sub.Error))
}

func TestRequestLoad_EmptyIdentifier(t *testing.T) {
	called := false
	f := newFixture(t, func(context.Context, string) (playlist.Playlist, error) {
		called = true
		return playlist.Playlist{}, nil
	})

	err := f.ctrl.RequestLoad(context.Background(), "  ")

	assert.ErrorIs(t, err, archive.ErrEmptyIdentifier)
	assert.False(t, called)
	assert.Empty(t, drain(f.sub.LoadStarted))
	assert.Empty(t, drain(f.sub.FetchFailed))
}

func TestRequestLoad_Success(t *testing.T) {
	f := newFixture(t, nil)

	require.NoError(t, f.ctrl.RequestLoad(context.Background(), " "+testSource+" "))

	assert.Equal(t, testSource, f.ctrl.SourceID())
	assert.Equal(t, testSource, f.stored(state.KeySourceID))
	assert.Equal(t, 3, f.ctrl.Len())
	assert.Len(t, drain(f.sub.LoadStarted), 1)
}

func TestRequestLoad_FailureKeepsPlaylist(t *testing.T) {
	fail := false
	f := newFixture(t, func(_ context.Context, id string) (playlist.Playlist, error) {
		if fail {
			return playlist.Playlist{}, &archive.MalformedResponseError{Identifier: id, Err: errors.New("missing files")}
		}
		return makePlaylist(3), nil
	})
	require.NoError(t, f.ctrl.RequestLoad(context.Background(), testSource))
	require.NoError(t, f.ctrl.SelectTrack(1))
	fail = true

	err := f.ctrl.RequestLoad(context.Background(), "broken-item")

	require.Error(t, err)
	assert.Equal(t, 3, f.ctrl.Len())
	assert.Equal(t, 1, f.ctrl.CurrentIndex())
	assert.Equal(t, testSource, f.ctrl.SourceID())
	assert.Equal(t, testSource, f.stored(state.KeySourceID))

	failures := drain(f.sub.FetchFailed)
	require.Len(t, failures, 1)
	assert.Equal(t, "broken-item", failures[0].Identifier)
	assert.True(t, strings.HasPrefix(failures[0].Message, "Failed to load playlist 'broken-item'"), failures[0].Message)
}

func TestRequestLoad_NewestWins(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		delays := map[string]time.Duration{"old": 5 * time.Second, "new": time.Second}
		f := newFixture(t, func(ctx context.Context, id string) (playlist.Playlist, error) {
			select {
			case <-ctx.Done():
				return playlist.Playlist{}, ctx.Err()
			case <-time.After(delays[id]):
			}
			if id == "old" {
				return makePlaylist(5), nil
			}
			return makePlaylist(2), nil
		})

		var wg sync.WaitGroup
		wg.Go(func() {
			assert.NoError(t, f.ctrl.RequestLoad(context.Background(), "old"))
		})
		synctest.Wait()
		wg.Go(func() {
			assert.NoError(t, f.ctrl.RequestLoad(context.Background(), "new"))
		})
		wg.Wait()

		assert.Equal(t, "new", f.ctrl.SourceID())
		assert.Equal(t, 2, f.ctrl.Len())
		assert.Len(t, drain(f.sub.PlaylistChanged), 1)
		assert.Empty(t, drain(f.sub.FetchFailed))
	})
}

func TestRequestLoad_LogsSupersededRequest(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var buf bytes.Buffer
		fetch := func(ctx context.Context, id string) (playlist.Playlist, error) {
			select {
			case <-ctx.Done():
				return playlist.Playlist{}, ctx.Err()
			case <-time.After(time.Second):
			}
			return makePlaylist(2), nil
		}
		ctrl := New(player.NewMock(), state.NewStore(state.NewMemory(), zerolog.Nop()), loader.FetchFunc(fetch), DefaultConfig(), zerolog.New(zerolog.SyncWriter(&buf)))
		t.Cleanup(func() { ctrl.Close() })

		var wg sync.WaitGroup
		wg.Go(func() { _ = ctrl.RequestLoad(context.Background(), "old") })
		synctest.Wait()
		wg.Go(func() { _ = ctrl.RequestLoad(context.Background(), "new") })
		wg.Wait()

		logs := buf.String()
		assert.Contains(t, logs, `"identifier":"old","supersedes":false`)
		assert.Contains(t, logs, `"identifier":"new","supersedes":true`)
	})
}

func TestRestore(t *testing.T) {
	var requested []string
	f := newFixture(t, func(_ context.Context, id string) (playlist.Playlist, error) {
		requested = append(requested, id)
		return makePlaylist(3), nil
	})

	require.NoError(t, f.ctrl.Restore(context.Background()))
	assert.Empty(t, requested, "nothing saved, nothing loaded")

	require.NoError(t, f.kv.Set(state.KeySourceID, testSource))
	require.NoError(t, f.kv.Set(state.KeyTrackIndex, "1"))
	require.NoError(t, f.ctrl.Restore(context.Background()))

	assert.Equal(t, []string{testSource}, requested)
	assert.Equal(t, 1, f.ctrl.CurrentIndex())
}

func TestClose_FlushesAndClosesSubscriptions(t *testing.T) {
	f := newFixture(t, nil)
	f.ctrl.LoadPlaylist(testSource, makePlaylist(2))
	f.ctrl.Progress(250 * time.Millisecond)

	require.NoError(t, f.ctrl.Close())
	require.NoError(t, f.ctrl.Close())

	assert.Equal(t, "0.25", f.stored(state.KeyElapsed))
	assert.Equal(t, player.Stopped, f.player.State())
	select {
	case <-f.sub.Done:
	default:
		t.Error("subscription should be closed")
	}
}

// failingTransport fails every request and records call times.
type failingTransport struct {
	mu    sync.Mutex
	calls []time.Time
	ok    int // succeed from this 1-based attempt on, 0 for never
}

func (f *failingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	f.mu.Lock()
	f.calls = append(f.calls, time.Now())
	n := len(f.calls)
	f.mu.Unlock()

	if f.ok > 0 && n >= f.ok {
		body := `{"files": [{"name": "1.mp3", "format": "VBR MP3"}, {"name": "2.mp3", "format": "VBR MP3"}]}`
		return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader(body))}, nil
	}
	return nil, errors.New("connection reset")
}

func newArchiveFixture(t *testing.T, transport http.RoundTripper) *fixture {
	t.Helper()
	client := archive.NewClient(archive.Config{HTTPClient: &http.Client{Transport: transport}}, zerolog.Nop())
	f := newFixture(t, client.Fetch)
	client.SetAttemptObserver(f.ctrl.ReportAttempt)
	return f
}

func TestRequestLoad_RetriesThenFails(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		transport := &failingTransport{}
		f := newArchiveFixture(t, transport)

		start := time.Now()
		err := f.ctrl.RequestLoad(context.Background(), testSource)

		var netErr *archive.NetworkError
		require.ErrorAs(t, err, &netErr)
		assert.Equal(t, 8*time.Second, time.Since(start))
		assert.Len(t, transport.calls, 5)

		attempts := drain(f.sub.FetchAttempted)
		require.Len(t, attempts, 5)
		for i, a := range attempts {
			assert.Equal(t, i+1, a.Number)
			assert.Equal(t, 5, a.Max)
		}
		assert.Len(t, drain(f.sub.FetchFailed), 1)
		assert.Equal(t, 0, f.ctrl.Len())
	})
}

func TestRequestLoad_SucceedsOnThirdAttempt(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		transport := &failingTransport{ok: 3}
		f := newArchiveFixture(t, transport)

		require.NoError(t, f.ctrl.RequestLoad(context.Background(), testSource))

		assert.Len(t, transport.calls, 3)
		assert.Len(t, drain(f.sub.FetchAttempted), 2)
		assert.Empty(t, drain(f.sub.FetchFailed))
		assert.Equal(t, 2, f.ctrl.Len())
		assert.Equal(t, "Tập 001", f.ctrl.CurrentTrack().Title)
	})
}

func TestRequestLoad_NewRequestCancelsPendingRetry(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		transport := &failingTransport{}
		client := archive.NewClient(archive.Config{HTTPClient: &http.Client{Transport: transport}}, zerolog.Nop())
		f := newFixture(t, func(ctx context.Context, id string) (playlist.Playlist, error) {
			if id == "good" {
				return makePlaylist(4), nil
			}
			return client.Fetch(ctx, id)
		})

		var wg sync.WaitGroup
		wg.Go(func() {
			assert.NoError(t, f.ctrl.RequestLoad(context.Background(), "flaky"))
		})
		time.Sleep(time.Second) // first attempt failed, retry pending
		require.NoError(t, f.ctrl.RequestLoad(context.Background(), "good"))
		wg.Wait()

		assert.Len(t, transport.calls, 1, "the pending retry never ran")
		assert.Equal(t, "good", f.ctrl.SourceID())
		assert.Empty(t, drain(f.sub.FetchFailed))
	})
}
