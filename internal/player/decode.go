package player

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/gopxl/beep/v2"
	"github.com/llehouerou/go-mp3"
)

// The decoder always produces 16-bit little-endian stereo.
const (
	channels   = 2
	sampleSize = 2
	frameSize  = channels * sampleSize
)

var errNoSampleRate = errors.New("mp3 stream has no sample rate")

// mp3Stream is a seekable beep streamer over a decoded MP3 body.
type mp3Stream struct {
	dec *mp3.Decoder
	src io.Closer
	pcm []byte
	err error
}

// openMP3 reads the stream header. src must be seekable: the decoder
// scans it once for the sample count.
func openMP3(src io.ReadSeekCloser) (*mp3Stream, beep.Format, error) {
	dec, err := mp3.NewDecoder(src)
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("mp3 header: %w", err)
	}
	if dec.SampleRate() <= 0 {
		return nil, beep.Format{}, errNoSampleRate
	}
	format := beep.Format{
		SampleRate:  beep.SampleRate(dec.SampleRate()),
		NumChannels: channels,
		Precision:   sampleSize,
	}
	return &mp3Stream{dec: dec, src: src}, format, nil
}

func (s *mp3Stream) Stream(samples [][2]float64) (int, bool) {
	if s.err != nil {
		return 0, false
	}
	want := len(samples) * frameSize
	if cap(s.pcm) < want {
		s.pcm = make([]byte, want)
	}
	got, err := io.ReadFull(s.dec, s.pcm[:want])
	switch {
	case err == nil, errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
	default:
		s.err = err
		return 0, false
	}
	n := decodePCM(s.pcm[:got], samples)
	return n, n > 0
}

// decodePCM fills samples from interleaved 16-bit stereo PCM and returns
// the number of whole frames used. A trailing partial frame is ignored.
func decodePCM(pcm []byte, samples [][2]float64) int {
	n := min(len(pcm)/frameSize, len(samples))
	for i := range n {
		frame := pcm[i*frameSize:]
		for ch := range channels {
			v := int16(binary.LittleEndian.Uint16(frame[ch*sampleSize:])) //nolint:gosec // two's complement sample
			samples[i][ch] = float64(v) / 32768
		}
	}
	return n
}

func (s *mp3Stream) Err() error { return s.err }

func (s *mp3Stream) Len() int { return int(max(s.dec.SampleCount(), 0)) }

func (s *mp3Stream) Position() int { return int(s.dec.SamplePosition()) }

// Seek moves to sample p, clamped into the track, and clears a previous
// read error.
func (s *mp3Stream) Seek(p int) error {
	if err := s.dec.SeekToSample(int64(min(max(p, 0), s.Len()))); err != nil {
		return err
	}
	s.err = nil
	return nil
}

func (s *mp3Stream) Close() error { return s.src.Close() }
