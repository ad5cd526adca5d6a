package playback

import (
	"context"
	"time"

	"github.com/llehouerou/taplist/internal/archive"
	"github.com/llehouerou/taplist/internal/player"
	"github.com/llehouerou/taplist/internal/playlist"
)

// Service defines the playback controller contract.
type Service interface {
	// Playlist acquisition
	RequestLoad(ctx context.Context, identifier string) error
	Restore(ctx context.Context) error
	LoadPlaylist(sourceID string, p playlist.Playlist)
	ReportAttempt(a archive.Attempt)

	// Navigation
	SelectTrack(index int) error
	Next() error
	Previous() error
	Advance()
	Ended()

	// Playback control
	TogglePlayPause()
	SetSpeed(speed float64) float64
	AdjustSpeed(delta float64) float64
	Seek(position time.Duration)
	SeekBy(delta time.Duration)
	Progress(elapsed time.Duration)
	ReportPlayerError(err error)
	Flush()

	// State queries
	Tracks() []playlist.Track
	Len() int
	CurrentIndex() int
	CurrentTrack() *playlist.Track
	Phase() Phase
	Speed() float64
	Elapsed() time.Duration
	SourceID() string
	Player() player.Interface // Direct player access (for UI rendering)

	// Event subscription
	Subscribe() *Subscription

	// Lifecycle
	Close() error
}

// Verify Controller implements Service at compile time.
var _ Service = (*Controller)(nil)
