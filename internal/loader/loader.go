// Package loader coordinates playlist fetches so that only the newest
// request can install its result.
package loader

import (
	"context"
	"errors"
	"sync"

	"github.com/llehouerou/taplist/internal/playlist"
)

// ErrSuperseded is returned by a Load call that a newer call replaced.
var ErrSuperseded = errors.New("load superseded by a newer request")

// Fetcher retrieves a playlist for an identifier.
type Fetcher interface {
	Fetch(ctx context.Context, identifier string) (playlist.Playlist, error)
}

// FetchFunc adapts a function to Fetcher.
type FetchFunc func(ctx context.Context, identifier string) (playlist.Playlist, error)

func (f FetchFunc) Fetch(ctx context.Context, identifier string) (playlist.Playlist, error) {
	return f(ctx, identifier)
}

// Loader runs fetches one generation at a time. Starting a load cancels the
// previous one, including any retry delay it is waiting on.
type Loader struct {
	fetcher Fetcher

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
}

// New creates a loader over fetcher.
func New(fetcher Fetcher) *Loader {
	return &Loader{fetcher: fetcher}
}

// Load fetches identifier and, if no newer Load started meanwhile, calls
// install with the result while holding the loader lock. Superseded calls
// return ErrSuperseded whether their fetch succeeded or failed.
func (l *Loader) Load(ctx context.Context, identifier string, install func(playlist.Playlist)) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
	}
	l.seq++
	seq := l.seq
	l.cancel = cancel
	l.mu.Unlock()

	p, err := l.fetcher.Fetch(ctx, identifier)

	l.mu.Lock()
	defer l.mu.Unlock()

	if seq != l.seq {
		return ErrSuperseded
	}
	l.cancel = nil
	if err != nil {
		return err
	}
	install(p)
	return nil
}

// Cancel aborts the current load, if any. Its caller gets ErrSuperseded.
func (l *Loader) Cancel() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.seq++
}

// Pending returns true while a load is in flight.
func (l *Loader) Pending() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cancel != nil
}
