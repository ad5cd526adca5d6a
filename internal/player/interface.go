// internal/player/interface.go
package player

import "time"

// Interface defines the player contract for dependency injection and testing.
type Interface interface {
	// Play starts loading url and plays it from startAt at the given speed.
	// Loading happens in the background; failures arrive on Errors().
	Play(url string, startAt time.Duration, speed float64) error
	Stop()
	Pause()
	Resume()
	Toggle()
	State() State
	SetSpeed(speed float64)
	Speed() float64
	SetVolume(level float64)
	Volume() float64
	SetMuted(muted bool)
	Muted() bool
	Seek(delta time.Duration)
	SeekTo(position time.Duration)
	Position() time.Duration
	Duration() time.Duration
	TrackInfo() *TrackInfo
	Buffered() int64
	FinishedChan() <-chan struct{}
	Errors() <-chan error
	Close() error
}

// Verify Player implements Interface at compile time.
var _ Interface = (*Player)(nil)
