//go:build !linux

package mpris

import (
	"github.com/rs/zerolog"

	"github.com/llehouerou/taplist/internal/playback"
)

type Options struct {
	MinRate float64
	MaxRate float64
}

// Adapter does nothing: MPRIS is a D-Bus interface.
type Adapter struct{}

func New(playback.Service, Options, zerolog.Logger) (*Adapter, error) { return &Adapter{}, nil }

func (*Adapter) Close() error { return nil }
