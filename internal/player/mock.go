// internal/player/mock.go
package player

import (
	"sync"
	"time"
)

// PlayCall records the arguments of a Mock.Play call.
type PlayCall struct {
	URL     string
	StartAt time.Duration
	Speed   float64
}

// Mock is a test double for Player. Play transitions straight to Playing.
type Mock struct {
	mu         sync.Mutex
	state      State
	position   time.Duration
	duration   time.Duration
	speed      float64
	volume     float64
	muted      bool
	buffered   int64
	trackInfo  *TrackInfo
	playErr    error
	playCalls  []PlayCall
	seekCalls  []time.Duration
	stopCalls  int
	finishedCh chan struct{}
	errCh      chan error
}

// NewMock creates a new mock player for testing.
func NewMock() *Mock {
	return &Mock{
		state:      Stopped,
		speed:      1,
		volume:     1,
		finishedCh: make(chan struct{}, 1),
		errCh:      make(chan error, 4),
	}
}

func (m *Mock) Play(url string, startAt time.Duration, speed float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.playCalls = append(m.playCalls, PlayCall{URL: url, StartAt: startAt, Speed: speed})
	if m.playErr != nil {
		return m.playErr
	}
	if url == "" {
		return ErrEmptyURL
	}
	if speed <= 0 {
		return ErrInvalidSpeed
	}
	m.state = Playing
	m.position = startAt
	m.speed = speed
	m.trackInfo = &TrackInfo{URL: url, Title: titleFromURL(url), Duration: m.duration}
	return nil
}

func (m *Mock) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopCalls++
	m.state = Stopped
	m.trackInfo = nil
}

func (m *Mock) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == Playing {
		m.state = Paused
	}
}

func (m *Mock) Resume() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == Paused {
		m.state = Playing
	}
}

func (m *Mock) Toggle() {
	switch m.State() {
	case Playing:
		m.Pause()
	case Paused:
		m.Resume()
	case Stopped, Buffering:
		// Nothing to toggle
	}
}

func (m *Mock) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Mock) SetSpeed(speed float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if speed > 0 {
		m.speed = speed
	}
}

func (m *Mock) Speed() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.speed
}

func (m *Mock) SetVolume(level float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volume = min(max(level, 0), 1)
}

func (m *Mock) Volume() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.volume
}

func (m *Mock) SetMuted(muted bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.muted = muted
}

func (m *Mock) Muted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.muted
}

func (m *Mock) Seek(d time.Duration) {
	m.SeekTo(m.Position() + d)
}

func (m *Mock) SeekTo(position time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seekCalls = append(m.seekCalls, position)
	m.position = max(position, 0)
}

func (m *Mock) Position() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.position
}

func (m *Mock) Duration() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.duration
}

func (m *Mock) TrackInfo() *TrackInfo {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.trackInfo == nil {
		return nil
	}
	info := *m.trackInfo
	return &info
}

func (m *Mock) Buffered() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.buffered
}

func (m *Mock) FinishedChan() <-chan struct{} {
	return m.finishedCh
}

func (m *Mock) Errors() <-chan error {
	return m.errCh
}

func (m *Mock) Close() error {
	m.Stop()
	return nil
}

// Test helpers

func (m *Mock) SetState(s State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = s
}

func (m *Mock) SetPlayError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playErr = err
}

func (m *Mock) PlayCalls() []PlayCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]PlayCall(nil), m.playCalls...)
}

// LastPlay returns the most recent Play call and whether there was one.
func (m *Mock) LastPlay() (PlayCall, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.playCalls) == 0 {
		return PlayCall{}, false
	}
	return m.playCalls[len(m.playCalls)-1], true
}

func (m *Mock) SeekCalls() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]time.Duration(nil), m.seekCalls...)
}

func (m *Mock) StopCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopCalls
}

func (m *Mock) SetDuration(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.duration = d
}

func (m *Mock) SetPosition(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.position = d
}

func (m *Mock) SetBuffered(n int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.buffered = n
}

// SimulateFinished simulates a track finishing.
func (m *Mock) SimulateFinished() {
	select {
	case m.finishedCh <- struct{}{}:
	default:
	}
}

// SimulateError simulates a background load failure.
func (m *Mock) SimulateError(err error) {
	m.mu.Lock()
	m.state = Stopped
	m.mu.Unlock()
	select {
	case m.errCh <- err:
	default:
	}
}

// Verify Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
