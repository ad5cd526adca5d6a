package playback

import "github.com/llehouerou/taplist/internal/metrics"

const eventBufferSize = 16

// outbox is the sending side of one event stream. Sends never block: a
// subscriber that falls eventBufferSize events behind loses the newest
// ones, and the drop is counted under kind.
type outbox[T any] struct {
	ch   chan T
	kind string
}

func newOutbox[T any](kind string) outbox[T] {
	return outbox[T]{ch: make(chan T, eventBufferSize), kind: kind}
}

func (o outbox[T]) send(e T) {
	select {
	case o.ch <- e:
	default:
		metrics.EventsDroppedTotal.WithLabelValues(o.kind).Inc()
	}
}

// Subscription is one listener's view of controller events. Each stream
// is buffered and independent, so no ordering holds across streams; Done
// closes when the controller shuts down.
type Subscription struct {
	PlaylistChanged <-chan PlaylistChange
	TrackChanged    <-chan TrackChange
	PhaseChanged    <-chan PhaseChange
	SpeedChanged    <-chan SpeedChange
	LoadStarted     <-chan LoadStarted
	FetchAttempted  <-chan FetchAttempt
	FetchFailed     <-chan FetchFailed
	Error           <-chan ErrorEvent
	Done            <-chan struct{}

	playlists outbox[PlaylistChange]
	tracks    outbox[TrackChange]
	phases    outbox[PhaseChange]
	speeds    outbox[SpeedChange]
	loads     outbox[LoadStarted]
	attempts  outbox[FetchAttempt]
	failures  outbox[FetchFailed]
	errs      outbox[ErrorEvent]
	done      chan struct{}
}

func newSubscription() *Subscription {
	s := &Subscription{
		playlists: newOutbox[PlaylistChange]("playlist"),
		tracks:    newOutbox[TrackChange]("track"),
		phases:    newOutbox[PhaseChange]("phase"),
		speeds:    newOutbox[SpeedChange]("speed"),
		loads:     newOutbox[LoadStarted]("load"),
		attempts:  newOutbox[FetchAttempt]("fetch_attempt"),
		failures:  newOutbox[FetchFailed]("fetch_failed"),
		errs:      newOutbox[ErrorEvent]("error"),
		done:      make(chan struct{}),
	}
	s.PlaylistChanged = s.playlists.ch
	s.TrackChanged = s.tracks.ch
	s.PhaseChanged = s.phases.ch
	s.SpeedChanged = s.speeds.ch
	s.LoadStarted = s.loads.ch
	s.FetchAttempted = s.attempts.ch
	s.FetchFailed = s.failures.ch
	s.Error = s.errs.ch
	s.Done = s.done
	return s
}

func (s *Subscription) close() {
	close(s.done)
}
