package state

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Storage keys. Each field is stored on its own so a corrupt value only
// loses that field.
const (
	KeyTrackIndex = "currentTap"
	KeyElapsed    = "currentTime"
	KeySpeed      = "currentSpeed"
	KeySourceID   = "audioIdentifier"
)

// Keys lists every session key.
var Keys = []string{KeyTrackIndex, KeyElapsed, KeySpeed, KeySourceID}

// DefaultSpeed is the playback speed when none is stored.
const DefaultSpeed = 1.0

// Session is the persisted playback position.
type Session struct {
	SourceID   string // empty when no identifier was loaded
	TrackIndex int
	Elapsed    time.Duration
	Speed      float64
}

// DefaultSession returns the session used when nothing is stored.
func DefaultSession() Session {
	return Session{Speed: DefaultSpeed}
}

// HasSource returns true if an identifier was saved.
func (s Session) HasSource() bool {
	return s.SourceID != ""
}

// Partial is a session update. Nil fields are left untouched.
type Partial struct {
	SourceID   *string
	TrackIndex *int
	Elapsed    *time.Duration
	Speed      *float64
}

// Store reads and writes the session through a KV backend.
// Reads never fail: unusable values fall back to defaults.
type Store struct {
	kv     KV
	logger zerolog.Logger
}

// NewStore creates a session store over kv.
func NewStore(kv KV, logger zerolog.Logger) *Store {
	return &Store{
		kv:     kv,
		logger: logger.With().Str("component", "state").Logger(),
	}
}

// Load returns the stored session. Missing, unreadable or malformed fields
// get their default.
func (s *Store) Load() Session {
	sess := DefaultSession()

	if v, ok := s.get(KeySourceID); ok {
		if id := strings.TrimSpace(v); id != "" {
			sess.SourceID = id
		}
	}

	if v, ok := s.get(KeyTrackIndex); ok {
		if i, err := parseIndex(v); err == nil {
			sess.TrackIndex = i
		} else {
			s.corrupt(KeyTrackIndex, v, err)
		}
	}

	if v, ok := s.get(KeyElapsed); ok {
		if d, err := parseElapsed(v); err == nil {
			sess.Elapsed = d
		} else {
			s.corrupt(KeyElapsed, v, err)
		}
	}

	if v, ok := s.get(KeySpeed); ok {
		if f, err := parseSpeed(v); err == nil {
			sess.Speed = f
		} else {
			s.corrupt(KeySpeed, v, err)
		}
	}

	return sess
}

// Save writes every present field independently. Fields that fail are
// reported in the joined error; the others are still written.
func (s *Store) Save(p Partial) error {
	var errs []error

	if p.SourceID != nil {
		errs = append(errs, s.SaveSourceID(*p.SourceID))
	}
	if p.TrackIndex != nil {
		errs = append(errs, s.set(KeyTrackIndex, strconv.Itoa(*p.TrackIndex)))
	}
	if p.Elapsed != nil {
		errs = append(errs, s.SaveElapsed(*p.Elapsed))
	}
	if p.Speed != nil {
		errs = append(errs, s.SaveSpeed(*p.Speed))
	}

	return errors.Join(errs...)
}

// SaveSourceID stores the identifier. An empty id clears it.
func (s *Store) SaveSourceID(id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return s.del(KeySourceID)
	}
	return s.set(KeySourceID, id)
}

// SaveTrack stores the track index and resets the elapsed time.
func (s *Store) SaveTrack(index int) error {
	zero := time.Duration(0)
	return s.Save(Partial{TrackIndex: &index, Elapsed: &zero})
}

// SaveElapsed stores the elapsed time as seconds.
func (s *Store) SaveElapsed(elapsed time.Duration) error {
	return s.set(KeyElapsed, strconv.FormatFloat(max(elapsed, 0).Seconds(), 'f', -1, 64))
}

// SaveSpeed stores the playback speed.
func (s *Store) SaveSpeed(speed float64) error {
	return s.set(KeySpeed, strconv.FormatFloat(speed, 'f', -1, 64))
}

// Clear removes every session field.
func (s *Store) Clear() error {
	var errs []error
	for _, key := range Keys {
		errs = append(errs, s.del(key))
	}
	return errors.Join(errs...)
}

// Close closes the backend.
func (s *Store) Close() error {
	return s.kv.Close()
}

func (s *Store) get(key string) (string, bool) {
	v, ok, err := s.kv.Get(key)
	if err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("Failed to read session field")
		return "", false
	}
	return v, ok
}

func (s *Store) set(key, value string) error {
	if err := s.kv.Set(key, value); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func (s *Store) del(key string) error {
	if err := s.kv.Delete(key); err != nil {
		return fmt.Errorf("clear %s: %w", key, err)
	}
	return nil
}

func (s *Store) corrupt(key, value string, err error) {
	s.logger.Debug().Err(err).Str("key", key).Str("value", value).Msg("Ignoring corrupt session field")
}

var (
	errNegative    = errors.New("negative value")
	errNotFinite   = errors.New("not a finite number")
	errNotPositive = errors.New("not positive")
	errTooLarge    = errors.New("out of range")
)

func parseIndex(v string) (int, error) {
	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, err
	}
	if i < 0 {
		return 0, errNegative
	}
	return i, nil
}

func parseElapsed(v string) (time.Duration, error) {
	f, err := parseFinite(v)
	if err != nil {
		return 0, err
	}
	if f < 0 {
		return 0, errNegative
	}
	ns := f * float64(time.Second)
	if ns >= math.MaxInt64 {
		return 0, errTooLarge
	}
	return time.Duration(ns), nil
}

func parseSpeed(v string) (float64, error) {
	f, err := parseFinite(v)
	if err != nil {
		return 0, err
	}
	if f <= 0 {
		return 0, errNotPositive
	}
	return f, nil
}

func parseFinite(v string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errNotFinite
	}
	return f, nil
}
