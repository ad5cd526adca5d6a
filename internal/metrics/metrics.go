package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Fetch outcomes used as the "outcome" label.
const (
	OutcomeSuccess   = "success"
	OutcomeNetwork   = "network_error"
	OutcomeMalformed = "malformed"
	OutcomeCanceled  = "canceled"
)

// Playlist fetch metrics
var (
	FetchAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taplist_fetch_attempts_total",
			Help: "Total number of metadata fetch attempts",
		},
		[]string{"outcome"},
	)

	FetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "taplist_fetch_duration_seconds",
			Help:    "Duration of a playlist fetch including retries",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 40},
		},
	)

	PlaylistTracks = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "taplist_playlist_tracks",
			Help: "Number of tracks in the installed playlist",
		},
	)
)

// Playback metrics
var (
	TrackChangesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taplist_track_changes_total",
			Help: "Total number of track changes",
		},
		[]string{"reason"},
	)

	SessionWriteErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "taplist_session_write_errors_total",
			Help: "Total number of failed session field writes",
		},
	)

	EventsDroppedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taplist_events_dropped_total",
			Help: "Controller events dropped because a subscriber fell behind",
		},
		[]string{"kind"},
	)

	TrackDownloadBytes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "taplist_track_download_bytes_total",
			Help: "Total bytes of audio downloaded",
		},
	)
)

// Server serves the metrics endpoint.
type Server struct {
	srv *http.Server
}

// NewServer creates a metrics server listening on addr.
func NewServer(addr string) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// ListenAndServe blocks until the server stops. A clean shutdown returns nil.
func (s *Server) ListenAndServe() error {
	err := s.srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Close stops the server.
func (s *Server) Close() error {
	return s.srv.Close()
}
