package player

import (
	"time"

	"github.com/gopxl/beep/v2/speaker"
)

// Stop drops the current track and cancels a download in progress.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.state.HasTrack() {
		return
	}

	// Loads and finish callbacks of the dropped track see a newer gen.
	p.gen.Add(1)
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	if p.streamer != nil {
		speaker.Clear()
		p.streamer.Close()
	}

	p.streamer, p.ctrl, p.resampler, p.volume = nil, nil, nil, nil
	p.trackInfo = nil
	p.startPaused = false
	p.state = Stopped
}

// setPaused moves between Playing and Paused. During Buffering it only
// decides whether the track starts paused. Callers hold p.mu.
func (p *Player) setPaused(paused bool) {
	switch {
	case p.state == Buffering:
		p.startPaused = paused
	case p.state == Playing && paused, p.state == Paused && !paused:
		speaker.Lock()
		p.ctrl.Paused = paused
		speaker.Unlock()
		p.state = Playing
		if paused {
			p.state = Paused
		}
	}
}

func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.setPaused(true)
}

func (p *Player) Resume() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.setPaused(false)
}

// Toggle swaps Playing and Paused and does nothing in other states.
func (p *Player) Toggle() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == Playing || p.state == Paused {
		p.setPaused(p.state == Playing)
	}
}

// SetSpeed changes the rate of the current and later tracks. Speeds that
// are not positive are ignored.
func (p *Player) SetSpeed(speed float64) {
	if speed <= 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	p.speed = speed
	if p.resampler != nil {
		speaker.Lock()
		p.resampler.SetRatio(p.ratio())
		speaker.Unlock()
	}
}

func (p *Player) Speed() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.speed
}

// Position is the playback position in the track, not wall time.
func (p *Player) Position() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.position()
}

func (p *Player) position() time.Duration {
	if p.state == Buffering {
		return p.startAt
	}
	if p.streamer == nil {
		return 0
	}
	speaker.Lock()
	n := p.streamer.Position()
	speaker.Unlock()
	return p.format.SampleRate.D(n)
}

// Seek moves the position by delta.
func (p *Player) Seek(delta time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seekTo(p.position() + delta)
}

// SeekTo moves to position. Seeking to or past the end finishes the track.
func (p *Player) SeekTo(position time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seekTo(position)
}

func (p *Player) seekTo(position time.Duration) {
	if p.state == Buffering {
		p.startAt = max(position, 0)
		return
	}
	if p.streamer == nil || !p.state.HasTrack() {
		return
	}
	n := max(p.format.SampleRate.N(position), 0)
	if n >= p.streamer.Len() {
		p.signalFinished(p.gen.Load())
		return
	}

	// Silence the seek itself; decoders click on a jump.
	speaker.Lock()
	p.volume.Silent = true
	if err := p.streamer.Seek(n); err != nil {
		p.logger.Warn().Err(err).Dur("position", position).Msg("Seek failed")
	}
	p.volume.Silent = p.gain.muted
	speaker.Unlock()
}
