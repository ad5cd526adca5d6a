package player

import (
	"math"

	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
)

// silentExponent is the beep exponent used for a level of 0, about -60 dB.
const silentExponent = -10

// gain is the user volume: a linear level in [0, 1] and a mute switch that
// keeps the level for unmuting.
type gain struct {
	level float64
	muted bool
}

// exponent maps the linear level onto beep's base-2 volume exponent:
// 1 is unchanged, 0.5 is -1, 0.25 is -2.
func (g gain) exponent() float64 {
	if g.level <= 0 {
		return silentExponent
	}
	return math.Log2(min(g.level, 1))
}

// effect wraps s in a volume effect carrying g.
func (g gain) effect(s *effects.Volume) *effects.Volume {
	s.Base = 2
	s.Volume = g.exponent()
	s.Silent = g.muted
	return s
}

// setGain stores g and pushes it to the playing stream, if any.
// Callers hold p.mu.
func (p *Player) setGain(g gain) {
	p.gain = g
	if p.volume == nil {
		return
	}
	speaker.Lock()
	g.effect(p.volume)
	speaker.Unlock()
}

// SetVolume sets the level, clamped to [0, 1]. A muted player keeps
// silent until unmuted.
func (p *Player) SetVolume(level float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.setGain(gain{level: min(max(level, 0), 1), muted: p.gain.muted})
}

func (p *Player) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.gain.level
}

func (p *Player) SetMuted(muted bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.setGain(gain{level: p.gain.level, muted: muted})
}

func (p *Player) Muted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.gain.muted
}
