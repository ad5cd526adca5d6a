package player

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"

	"github.com/llehouerou/taplist/internal/metrics"
)

// Play starts loading the track at url. The download and decode run in the
// background; the track starts at startAt once ready. A newer Play or a Stop
// discards the pending load.
func (p *Player) Play(url string, startAt time.Duration, speed float64) error {
	if url == "" {
		return ErrEmptyURL
	}
	if speed <= 0 {
		return ErrInvalidSpeed
	}

	p.Stop()

	// Drain any stale finish signal from previous track
	select {
	case <-p.finishedCh:
	default:
	}

	ctx, cancel := context.WithCancel(context.Background())

	p.mu.Lock()
	gen := p.gen.Add(1)
	p.cancel = cancel
	p.speed = speed
	p.startPaused = false
	p.startAt = max(startAt, 0)
	p.state = Buffering
	p.trackInfo = &TrackInfo{URL: url}
	p.mu.Unlock()

	p.buffered.Store(0)

	go p.load(ctx, gen, url)
	return nil
}

func (p *Player) load(ctx context.Context, gen uint64, url string) {
	data, err := p.download(ctx, url)
	if err != nil {
		p.failLoad(ctx, gen, fmt.Errorf("download %s: %w", url, err))
		return
	}

	streamer, format, err := openMP3(newMemFile(data))
	if err != nil {
		p.failLoad(ctx, gen, fmt.Errorf("decode %s: %w", url, err))
		return
	}

	info := readTrackInfo(url, data)
	info.Duration = format.SampleRate.D(streamer.Len())
	info.SampleRate = int(format.SampleRate)

	if err := initSpeaker(format.SampleRate); err != nil {
		streamer.Close()
		p.failLoad(ctx, gen, fmt.Errorf("init audio output: %w", err))
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.gen.Load() != gen || p.state != Buffering {
		streamer.Close()
		return
	}

	// Seeks made during the download moved startAt.
	startAt := p.startAt
	if pos := format.SampleRate.N(startAt); pos > 0 && pos < streamer.Len() {
		if err := streamer.Seek(pos); err != nil {
			p.logger.Warn().Err(err).Dur("start_at", startAt).Msg("Failed to seek to start position")
		}
	}

	p.streamer = streamer
	p.format = format
	p.trackInfo = info
	p.resampler = beep.ResampleRatio(resampleQuality, p.ratio(), streamer)
	p.ctrl = &beep.Ctrl{Streamer: p.resampler, Paused: p.startPaused}
	p.volume = p.gain.effect(&effects.Volume{Streamer: p.ctrl})

	if p.startPaused {
		p.state = Paused
	} else {
		p.state = Playing
	}

	speaker.Play(beep.Seq(p.volume, beep.Callback(func() {
		p.signalFinished(gen)
	})))

	p.logger.Debug().
		Str("url", url).
		Dur("duration", info.Duration).
		Dur("start_at", startAt).
		Msg("Track loaded")
}

func (p *Player) failLoad(ctx context.Context, gen uint64, err error) {
	if ctx.Err() != nil {
		return
	}

	p.mu.Lock()
	if p.gen.Load() == gen {
		p.state = Stopped
		p.trackInfo = nil
	}
	p.mu.Unlock()

	p.logger.Error().Err(err).Msg("Track load failed")
	p.reportError(gen, err)
}

func (p *Player) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %s", resp.Status)
	}

	var buf bytes.Buffer
	if resp.ContentLength > 0 && resp.ContentLength < maxTrackBytes {
		buf.Grow(int(resp.ContentLength))
	}
	counter := &countingWriter{w: &buf, n: &p.buffered}
	if _, err := io.Copy(counter, io.LimitReader(resp.Body, maxTrackBytes)); err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return buf.Bytes(), nil
}

// ratio returns the resampling ratio for the current track and speed.
// Caller must hold p.mu.
func (p *Player) ratio() float64 {
	return resampleRatio(p.format.SampleRate, speakerRate(), p.speed)
}

func resampleRatio(trackRate, outputRate beep.SampleRate, speed float64) float64 {
	if outputRate == 0 {
		return speed
	}
	return float64(trackRate) / float64(outputRate) * speed
}

func initSpeaker(rate beep.SampleRate) error {
	speakerMu.Lock()
	defer speakerMu.Unlock()

	if speakerInitialized {
		return nil
	}
	if err := speaker.Init(rate, rate.N(time.Second/10)); err != nil {
		return err
	}
	speakerSampleRate = rate
	speakerInitialized = true
	return nil
}

func speakerRate() beep.SampleRate {
	speakerMu.Lock()
	defer speakerMu.Unlock()
	return speakerSampleRate
}

// countingWriter counts bytes written through it.
type countingWriter struct {
	w io.Writer
	n interface{ Add(int64) int64 }
}

func (c *countingWriter) Write(b []byte) (int, error) {
	n, err := c.w.Write(b)
	c.n.Add(int64(n))
	metrics.TrackDownloadBytes.Add(float64(n))
	return n, err
}

// memFile is an in-memory track the decoder can seek in.
type memFile struct {
	*bytes.Reader
}

func newMemFile(data []byte) memFile {
	return memFile{Reader: bytes.NewReader(data)}
}

func (memFile) Close() error { return nil }
