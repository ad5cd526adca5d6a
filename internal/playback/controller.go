package playback

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/llehouerou/taplist/internal/archive"
	"github.com/llehouerou/taplist/internal/errmsg"
	"github.com/llehouerou/taplist/internal/loader"
	"github.com/llehouerou/taplist/internal/metrics"
	"github.com/llehouerou/taplist/internal/player"
	"github.com/llehouerou/taplist/internal/playlist"
	"github.com/llehouerou/taplist/internal/state"
)

// ErrEmptyPlaylist is returned when selecting a track with no playlist.
var ErrEmptyPlaylist = errors.New("playlist is empty")

// Config tunes the controller.
type Config struct {
	ProgressSaveInterval time.Duration // minimum interval between elapsed writes
	MinSpeed             float64
	MaxSpeed             float64
}

// DefaultConfig returns the default tuning.
func DefaultConfig() Config {
	return Config{
		ProgressSaveInterval: time.Second,
		MinSpeed:             0.25,
		MaxSpeed:             4.0,
	}
}

// Controller owns the playlist, the current track and the playback phase,
// and keeps the session store in sync with them. It is safe for concurrent
// use.
type Controller struct {
	mu sync.Mutex

	player player.Interface
	store  state.Interface
	loader *loader.Loader
	cfg    Config
	logger zerolog.Logger

	queue     *playlist.PlayingQueue
	sourceID  string
	phase     Phase
	speed     float64
	elapsed   time.Duration
	lastSaved time.Time

	subs   []*Subscription
	subsMu sync.RWMutex

	closed bool
}

// New creates a controller. Playlists are fetched through fetcher, one
// request at a time with the newest winning.
func New(p player.Interface, store state.Interface, fetcher loader.Fetcher, cfg Config, logger zerolog.Logger) *Controller {
	def := DefaultConfig()
	if cfg.ProgressSaveInterval <= 0 {
		cfg.ProgressSaveInterval = def.ProgressSaveInterval
	}
	if cfg.MinSpeed <= 0 || cfg.MaxSpeed <= 0 || cfg.MinSpeed > cfg.MaxSpeed {
		cfg.MinSpeed, cfg.MaxSpeed = def.MinSpeed, def.MaxSpeed
	}

	return &Controller{
		player: p,
		store:  store,
		loader: loader.New(fetcher),
		cfg:    cfg,
		logger: logger.With().Str("component", "playback").Logger(),
		queue:  playlist.NewQueue(),
		speed:  state.DefaultSpeed,
	}
}

// RequestLoad fetches the playlist for identifier and installs it. A newer
// request supersedes this one; superseded requests return nil without
// touching the playlist. Terminal failures emit FetchFailed and leave the
// current playlist active.
func (c *Controller) RequestLoad(ctx context.Context, identifier string) error {
	id := strings.TrimSpace(identifier)
	if id == "" {
		c.logger.Warn().Msg("Ignoring load request with empty identifier")
		return archive.ErrEmptyIdentifier
	}

	c.broadcast(func(s *Subscription) { s.loads.send(LoadStarted{Identifier: id}) })
	c.logger.Info().
		Str("identifier", id).
		Bool("supersedes", c.loader.Pending()).
		Msg("Loading playlist")

	err := c.loader.Load(ctx, id, func(p playlist.Playlist) {
		c.LoadPlaylist(id, p)
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, loader.ErrSuperseded), errors.Is(err, context.Canceled):
		c.logger.Debug().Str("identifier", id).Msg("Load superseded")
		return nil
	}

	c.logger.Error().Err(err).Str("identifier", id).Msg("Playlist load failed")
	e := FetchFailed{
		Identifier: id,
		Message:    errmsg.Message(errmsg.LoadPlaylist, id, err),
		Err:        err,
	}
	c.broadcast(func(s *Subscription) { s.failures.send(e) })
	return err
}

// Restore loads the identifier saved in the session, if any.
func (c *Controller) Restore(ctx context.Context) error {
	sess := c.store.Load()
	if !sess.HasSource() {
		return nil
	}
	return c.RequestLoad(ctx, sess.SourceID)
}

// ReportAttempt forwards failed fetch attempts to subscribers.
func (c *Controller) ReportAttempt(a archive.Attempt) {
	if a.Err == nil {
		return
	}
	e := FetchAttempt{
		Identifier: a.Identifier,
		Number:     a.Number,
		Max:        a.Max,
		RetryIn:    a.RetryIn,
		Err:        a.Err,
	}
	c.broadcast(func(s *Subscription) { s.attempts.send(e) })
}

// LoadPlaylist installs p and restores the saved position. The saved track
// and elapsed time are used only when the session belongs to sourceID (or
// names no source); a saved index past the end is clamped to the last track
// and its elapsed time dropped. The saved speed always applies.
func (c *Controller) LoadPlaylist(sourceID string, p playlist.Playlist) {
	sess := c.store.Load()

	c.mu.Lock()
	defer c.mu.Unlock()

	index, elapsed := 0, time.Duration(0)
	if sess.SourceID == "" || sess.SourceID == sourceID {
		index, elapsed = sess.TrackIndex, sess.Elapsed
		if index >= p.Len() {
			elapsed = 0
		}
	}

	prev, prevIndex := c.queue.Current(), c.queue.CurrentIndex()
	index = c.queue.Replace(p, index)
	c.sourceID = sourceID
	c.speed = c.clampSpeed(sess.Speed)
	c.elapsed = elapsed
	c.lastSaved = time.Now()
	c.player.SetSpeed(c.speed)

	metrics.PlaylistTracks.Set(float64(p.Len()))
	c.persist(c.store.Save(state.Partial{
		SourceID:   &sourceID,
		TrackIndex: &index,
		Elapsed:    &elapsed,
	}))

	pc := PlaylistChange{SourceID: sourceID, Tracks: p.Tracks(), Index: index}
	c.broadcast(func(s *Subscription) { s.playlists.send(pc) })

	c.logger.Info().
		Str("identifier", sourceID).
		Int("tracks", p.Len()).
		Int("index", index).
		Dur("elapsed", elapsed).
		Float64("speed", c.speed).
		Msg("Playlist installed")

	if p.IsEmpty() {
		c.player.Stop()
		c.setPhase(PhaseIdle)
		return
	}

	c.emitTrackChange(prev, prevIndex, ReasonRestore)
	c.startCurrent()
}

// SelectTrack jumps to index, wrapped modulo the playlist length, and plays
// it from the start.
func (c *Controller) SelectTrack(index int) error {
	return c.selectTrack(index, ReasonSelect)
}

// Next plays the following track, wrapping to the first.
func (c *Controller) Next() error {
	return c.step(1, ReasonNext)
}

// Previous plays the preceding track, wrapping to the last.
func (c *Controller) Previous() error {
	return c.step(-1, ReasonPrevious)
}

// Advance moves to the next track after the current one completed. A single
// track repeats; an empty playlist is left alone.
func (c *Controller) Advance() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.queue.IsEmpty() {
		return
	}
	_ = c.jump(c.queue.CurrentIndex()+1, ReasonAdvance)
}

// Ended handles the player's end-of-track signal.
func (c *Controller) Ended() {
	c.Advance()
}

func (c *Controller) selectTrack(index int, reason string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.jump(index, reason)
}

// step moves delta tracks from the current one. The offset is resolved
// under the same lock as the jump so a concurrently installed playlist
// cannot slip in between.
func (c *Controller) step(delta int, reason string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.jump(c.queue.CurrentIndex()+delta, reason)
}

// jump plays the track at index from the start. Caller must hold c.mu.
func (c *Controller) jump(index int, reason string) error {
	if c.queue.IsEmpty() {
		c.logger.Warn().Int("index", index).Msg("Cannot select track, playlist is empty")
		c.emitError(errmsg.SelectTrack, ErrEmptyPlaylist)
		return ErrEmptyPlaylist
	}

	prev, prevIndex := c.queue.Current(), c.queue.CurrentIndex()
	c.queue.JumpTo(index)
	c.elapsed = 0
	c.lastSaved = time.Now()

	c.persist(c.store.SaveTrack(c.queue.CurrentIndex()))
	c.emitTrackChange(prev, prevIndex, reason)
	c.startCurrent()
	return nil
}

// TogglePlayPause flips between playing and paused. From idle it starts the
// current track at the remembered position.
func (c *Controller) TogglePlayPause() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.queue.IsEmpty() {
		return
	}

	switch c.phase {
	case PhasePlaying:
		c.player.Pause()
		c.setPhase(PhasePaused)
		c.persist(c.store.SaveElapsed(c.elapsed))
	case PhasePaused:
		if c.player.State() == player.Stopped {
			c.startCurrent()
			return
		}
		c.player.Resume()
		c.setPhase(PhasePlaying)
	case PhaseIdle:
		c.startCurrent()
	}
}

// SetSpeed clamps speed into the configured range, applies and saves it.
// It returns the applied speed.
func (c *Controller) SetSpeed(speed float64) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.setSpeed(speed)
}

// AdjustSpeed changes the speed by delta.
func (c *Controller) AdjustSpeed(delta float64) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.setSpeed(c.speed + delta)
}

func (c *Controller) setSpeed(speed float64) float64 {
	if math.IsNaN(speed) {
		return c.speed
	}
	speed = c.clampSpeed(speed)
	if speed == c.speed {
		return speed
	}

	c.speed = speed
	c.player.SetSpeed(speed)
	c.persist(c.store.SaveSpeed(speed))
	c.broadcast(func(s *Subscription) { s.speeds.send(SpeedChange{Speed: speed}) })
	return speed
}

func (c *Controller) clampSpeed(speed float64) float64 {
	if math.IsNaN(speed) || speed <= 0 {
		speed = state.DefaultSpeed
	}
	return min(max(speed, c.cfg.MinSpeed), c.cfg.MaxSpeed)
}

// Seek moves to position in the current track and saves it at once.
func (c *Controller) Seek(position time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seek(position)
}

// SeekBy moves the position by delta. While the track is still buffering
// the offset applies to the remembered position.
func (c *Controller) SeekBy(delta time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seek(c.position() + delta)
}

func (c *Controller) seek(position time.Duration) {
	if c.queue.IsEmpty() {
		return
	}
	position = max(position, 0)
	c.player.SeekTo(position)
	c.elapsed = position
	c.lastSaved = time.Now()
	c.persist(c.store.SaveElapsed(position))
}

// position reports the player's position once audio is running, and the
// remembered position before that. Caller must hold c.mu.
func (c *Controller) position() time.Duration {
	switch c.player.State() {
	case player.Playing, player.Paused:
		return c.player.Position()
	}
	return c.elapsed
}

// Progress records the playback position. It is saved at most once per
// progress save interval. Reports are ignored until the player is actually
// producing audio, so a restored position survives the download.
func (c *Controller) Progress(elapsed time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.queue.IsEmpty() || c.phase != PhasePlaying || elapsed < 0 {
		return
	}
	if c.player.State() != player.Playing {
		return
	}
	c.elapsed = elapsed

	now := time.Now()
	if now.Sub(c.lastSaved) < c.cfg.ProgressSaveInterval {
		return
	}
	c.lastSaved = now
	c.persist(c.store.SaveElapsed(elapsed))
}

// ReportPlayerError handles a background playback failure. The phase drops
// to paused so toggling retries the track.
func (c *Controller) ReportPlayerError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.logger.Error().Err(err).Msg("Playback failed")
	if c.phase == PhasePlaying {
		c.setPhase(PhasePaused)
	}
	c.emitError(errmsg.StartPlayback, err)
}

// Flush saves the current position.
func (c *Controller) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.queue.IsEmpty() {
		return
	}
	c.persist(c.store.SaveElapsed(c.elapsed))
}

func (c *Controller) Tracks() []playlist.Track {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.queue.Tracks()
}

func (c *Controller) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.queue.Len()
}

func (c *Controller) CurrentIndex() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.queue.CurrentIndex()
}

// CurrentTrack returns the current track, or nil if the playlist is empty.
func (c *Controller) CurrentTrack() *playlist.Track {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.queue.Current()
}

func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

func (c *Controller) Speed() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.speed
}

func (c *Controller) Elapsed() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.elapsed
}

func (c *Controller) SourceID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sourceID
}

func (c *Controller) Player() player.Interface {
	return c.player
}

// Subscribe creates a new event subscription.
func (c *Controller) Subscribe() *Subscription {
	c.subsMu.Lock()
	defer c.subsMu.Unlock()
	sub := newSubscription()
	c.subs = append(c.subs, sub)
	return sub
}

// Close cancels any pending load, saves the position, stops the player and
// closes all subscriptions.
func (c *Controller) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	c.loader.Cancel()
	c.Flush()
	c.player.Stop()

	c.subsMu.Lock()
	for _, sub := range c.subs {
		sub.close()
	}
	c.subs = nil
	c.subsMu.Unlock()

	return nil
}

// startCurrent plays the current track from the remembered position.
// Caller must hold c.mu.
func (c *Controller) startCurrent() {
	track := c.queue.Current()
	if track == nil {
		return
	}

	if err := c.player.Play(track.URL, c.elapsed, c.speed); err != nil {
		c.logger.Error().Err(err).Str("url", track.URL).Msg("Failed to start playback")
		c.emitError(errmsg.StartPlayback, err)
		c.setPhase(PhasePaused)
		return
	}
	c.setPhase(PhasePlaying)
}

// setPhase updates the phase and emits PhaseChange if it changed.
// Caller must hold c.mu.
func (c *Controller) setPhase(phase Phase) {
	if c.phase == phase {
		return
	}
	e := PhaseChange{Previous: c.phase, Current: phase}
	c.phase = phase
	c.broadcast(func(s *Subscription) { s.phases.send(e) })
}

// Caller must hold c.mu.
func (c *Controller) emitTrackChange(prev *playlist.Track, prevIndex int, reason string) {
	metrics.TrackChangesTotal.WithLabelValues(reason).Inc()
	e := TrackChange{
		Previous:      prev,
		Current:       c.queue.Current(),
		PreviousIndex: prevIndex,
		Index:         c.queue.CurrentIndex(),
		Reason:        reason,
	}
	c.broadcast(func(s *Subscription) { s.tracks.send(e) })
}

func (c *Controller) emitError(op errmsg.Op, err error) {
	e := ErrorEvent{Operation: string(op), Message: errmsg.Message(op, "", err), Err: err}
	c.broadcast(func(s *Subscription) { s.errs.send(e) })
}

// persist logs a failed session write. Such failures never reach the UI.
func (c *Controller) persist(err error) {
	if err == nil {
		return
	}
	metrics.SessionWriteErrorsTotal.Inc()
	c.logger.Warn().Err(err).Str("op", string(errmsg.SaveSession)).Msg("Session write failed")
}

func (c *Controller) broadcast(fn func(*Subscription)) {
	c.subsMu.RLock()
	defer c.subsMu.RUnlock()
	for _, sub := range c.subs {
		fn(sub)
	}
}
