//go:build linux

// Package mpris exposes the playback controller as an MPRIS media player
// on the session bus, so desktop media keys and widgets can drive it.
package mpris

import (
	"errors"
	"fmt"
	"hash/fnv"

	"github.com/godbus/dbus/v5"
	"github.com/quarckster/go-mpris-server/pkg/server"
	"github.com/rs/zerolog"

	"github.com/llehouerou/taplist/internal/playback"
)

// Options bounds the Rate property.
type Options struct {
	MinRate float64
	MaxRate float64
}

// Adapter owns the MPRIS server.
type Adapter struct {
	srv *server.Server
}

// New registers org.mpris.MediaPlayer2.taplist and serves it in the
// background until Close.
func New(service playback.Service, opts Options, logger zerolog.Logger) (*Adapter, error) {
	if service == nil {
		return nil, errors.New("mpris: nil playback service")
	}
	log := logger.With().Str("component", "mpris").Logger()

	srv := server.NewServer("taplist", app{}, &remote{svc: service, opts: opts})
	go func() {
		if err := srv.Listen(); err != nil {
			log.Warn().Err(err).Msg("MPRIS server stopped")
		}
	}()
	return &Adapter{srv: srv}, nil
}

func (a *Adapter) Close() error {
	return a.srv.Stop()
}

// app is the org.mpris.MediaPlayer2 root object. The terminal UI owns its
// window and lifetime, so raising and quitting are refused.
type app struct{}

func (app) Raise() error                { return nil }
func (app) Quit() error                 { return nil }
func (app) CanQuit() (bool, error)      { return false, nil }
func (app) CanRaise() (bool, error)     { return false, nil }
func (app) HasTrackList() (bool, error) { return false, nil }
func (app) Identity() (string, error)   { return "Taplist", nil }

//nolint:revive // name fixed by the MPRIS interface
func (app) SupportedUriSchemes() ([]string, error) {
	return []string{"http", "https"}, nil
}

func (app) SupportedMimeTypes() ([]string, error) {
	return []string{"audio/mpeg"}, nil
}

// trackID names a playlist entry on the bus. MPRIS needs an object path,
// so the source identifier and index are hashed into one.
func trackID(sourceID string, index int) dbus.ObjectPath {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s\x00%d", sourceID, index)
	return dbus.ObjectPath(fmt.Sprintf("/org/mpris/MediaPlayer2/Track/%x", h.Sum64()))
}
