package loader

import (
	"context"
	"errors"
	"testing"
	"testing/synctest"
	"time"

	"github.com/llehouerou/taplist/internal/playlist"
)

func playlistOf(names ...string) playlist.Playlist {
	tracks := make([]playlist.Track, 0, len(names))
	for _, n := range names {
		tracks = append(tracks, playlist.NewTrack("/"+n, n))
	}
	return playlist.New(tracks...)
}

// delayedFetcher returns a fixed result per identifier after a delay,
// honouring cancellation.
func delayedFetcher(delays map[string]time.Duration, results map[string]playlist.Playlist) FetchFunc {
	return func(ctx context.Context, id string) (playlist.Playlist, error) {
		select {
		case <-ctx.Done():
			return playlist.Playlist{}, ctx.Err()
		case <-time.After(delays[id]):
		}
		return results[id], nil
	}
}

func TestLoad_InstallsResult(t *testing.T) {
	l := New(FetchFunc(func(context.Context, string) (playlist.Playlist, error) {
		return playlistOf("1.mp3", "2.mp3"), nil
	}))

	var installed playlist.Playlist
	err := l.Load(context.Background(), "item", func(p playlist.Playlist) { installed = p })

	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if installed.Len() != 2 {
		t.Errorf("installed %d tracks, want 2", installed.Len())
	}
	if l.Pending() {
		t.Error("Pending() = true after completion")
	}
}

func TestLoad_ErrorNotInstalled(t *testing.T) {
	wantErr := errors.New("boom")
	l := New(FetchFunc(func(context.Context, string) (playlist.Playlist, error) {
		return playlist.Playlist{}, wantErr
	}))

	called := false
	err := l.Load(context.Background(), "item", func(playlist.Playlist) { called = true })

	if !errors.Is(err, wantErr) {
		t.Errorf("Load() error = %v, want %v", err, wantErr)
	}
	if called {
		t.Error("install called on failure")
	}
}

func TestLoad_NewestWins(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		// "old" would finish after "new" if it were not cancelled.
		l := New(delayedFetcher(
			map[string]time.Duration{"old": 5 * time.Second, "new": time.Second},
			map[string]playlist.Playlist{"old": playlistOf("o.mp3"), "new": playlistOf("n1.mp3", "n2.mp3")},
		))

		var installed []string
		install := func(id string) func(playlist.Playlist) {
			return func(playlist.Playlist) { installed = append(installed, id) }
		}

		oldErr := make(chan error, 1)
		go func() { oldErr <- l.Load(context.Background(), "old", install("old")) }()
		synctest.Wait()

		if err := l.Load(context.Background(), "new", install("new")); err != nil {
			t.Fatalf("new Load() error = %v", err)
		}

		if err := <-oldErr; !errors.Is(err, ErrSuperseded) {
			t.Errorf("old Load() error = %v, want ErrSuperseded", err)
		}
		if len(installed) != 1 || installed[0] != "new" {
			t.Errorf("installed = %v, want [new]", installed)
		}
	})
}

func TestLoad_StaleSuccessDiscarded(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		// The first fetch ignores cancellation and completes successfully
		// after the second one started.
		release := make(chan struct{})
		l := New(FetchFunc(func(_ context.Context, id string) (playlist.Playlist, error) {
			if id == "slow" {
				<-release
			}
			return playlistOf(id + ".mp3"), nil
		}))

		var installed []string
		slowErr := make(chan error, 1)
		go func() {
			slowErr <- l.Load(context.Background(), "slow", func(p playlist.Playlist) {
				installed = append(installed, p.Track(0).Name)
			})
		}()
		synctest.Wait()

		fastErr := make(chan error, 1)
		go func() {
			fastErr <- l.Load(context.Background(), "fast", func(p playlist.Playlist) {
				installed = append(installed, p.Track(0).Name)
			})
		}()
		synctest.Wait()
		close(release)

		if err := <-fastErr; err != nil {
			t.Errorf("fast Load() error = %v", err)
		}
		if err := <-slowErr; !errors.Is(err, ErrSuperseded) {
			t.Errorf("slow Load() error = %v, want ErrSuperseded", err)
		}
		if len(installed) != 1 || installed[0] != "fast.mp3" {
			t.Errorf("installed = %v, want [fast.mp3]", installed)
		}
	})
}

func TestCancel(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		l := New(delayedFetcher(map[string]time.Duration{"x": time.Minute}, nil))

		errCh := make(chan error, 1)
		go func() { errCh <- l.Load(context.Background(), "x", func(playlist.Playlist) {}) }()
		synctest.Wait()

		if !l.Pending() {
			t.Fatal("Pending() = false during load")
		}
		l.Cancel()

		if err := <-errCh; !errors.Is(err, ErrSuperseded) {
			t.Errorf("Load() error = %v, want ErrSuperseded", err)
		}
	})
}
