// Package archive fetches item file listings from the archive.org metadata API
// and turns them into playlists.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/llehouerou/taplist/internal/metrics"
	"github.com/llehouerou/taplist/internal/playlist"
)

const (
	userAgent    = "taplist/0.1 (https://github.com/llehouerou/taplist)"
	maxBodyBytes = 64 << 20

	DefaultMetadataURL = "https://archive.org/metadata"
	DefaultDownloadURL = "https://archive.org/download"
	DefaultFormat      = "VBR MP3"
	DefaultAttempts    = 5
	DefaultRetryDelay  = 2 * time.Second
	DefaultTimeout     = 30 * time.Second
)

// Config configures a Client. Zero fields get the defaults above.
type Config struct {
	MetadataURL string
	DownloadURL string
	Format      string
	Attempts    int
	RetryDelay  time.Duration
	Timeout     time.Duration

	// HTTPClient overrides the default client built from Timeout.
	HTTPClient *http.Client
}

// Client provides access to the archive.org metadata API.
type Client struct {
	httpClient *http.Client
	cfg        Config
	logger     zerolog.Logger
	onAttempt  func(Attempt)
}

// NewClient creates a new metadata client.
func NewClient(cfg Config, logger zerolog.Logger) *Client {
	if cfg.MetadataURL == "" {
		cfg.MetadataURL = DefaultMetadataURL
	}
	if cfg.DownloadURL == "" {
		cfg.DownloadURL = DefaultDownloadURL
	}
	if cfg.Format == "" {
		cfg.Format = DefaultFormat
	}
	if cfg.Attempts <= 0 {
		cfg.Attempts = DefaultAttempts
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = DefaultRetryDelay
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{
		httpClient: httpClient,
		cfg:        cfg,
		logger:     logger.With().Str("component", "archive").Logger(),
	}
}

// SetAttemptObserver registers fn to be called after every request attempt.
// It must be set before Fetch is called.
func (c *Client) SetAttemptObserver(fn func(Attempt)) {
	c.onAttempt = fn
}

// Fetch retrieves the file listing for identifier and returns the audio
// files as a sorted playlist. Network failures are retried up to the
// configured number of attempts with a fixed delay in between; malformed
// responses fail at once.
func (c *Client) Fetch(ctx context.Context, identifier string) (playlist.Playlist, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return playlist.Playlist{}, ErrEmptyIdentifier
	}

	start := time.Now()
	defer func() {
		metrics.FetchDuration.Observe(time.Since(start).Seconds())
	}()

	var lastErr error
	for attempt := 1; attempt <= c.cfg.Attempts; attempt++ {
		p, err := c.fetchOnce(ctx, identifier)
		if err == nil {
			metrics.FetchAttemptsTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
			c.report(Attempt{Identifier: identifier, Number: attempt, Max: c.cfg.Attempts})
			c.logger.Info().
				Str("identifier", identifier).
				Int("attempt", attempt).
				Int("tracks", p.Len()).
				Msg("Fetched playlist")
			return p, nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			metrics.FetchAttemptsTotal.WithLabelValues(metrics.OutcomeCanceled).Inc()
			return playlist.Playlist{}, ctxErr
		}

		if !IsRetryable(err) {
			metrics.FetchAttemptsTotal.WithLabelValues(metrics.OutcomeMalformed).Inc()
			c.report(Attempt{Identifier: identifier, Number: attempt, Max: c.cfg.Attempts, Err: err})
			c.logger.Error().Err(err).Str("identifier", identifier).Msg("Malformed metadata response")
			return playlist.Playlist{}, err
		}

		metrics.FetchAttemptsTotal.WithLabelValues(metrics.OutcomeNetwork).Inc()
		lastErr = err

		var retryIn time.Duration
		if attempt < c.cfg.Attempts {
			retryIn = c.cfg.RetryDelay
		}
		c.report(Attempt{Identifier: identifier, Number: attempt, Max: c.cfg.Attempts, Err: err, RetryIn: retryIn})
		c.logger.Warn().
			Err(err).
			Str("identifier", identifier).
			Int("attempt", attempt).
			Int("max", c.cfg.Attempts).
			Dur("retry_in", retryIn).
			Msg("Metadata request failed")

		if retryIn == 0 {
			break
		}
		if err := sleep(ctx, retryIn); err != nil {
			metrics.FetchAttemptsTotal.WithLabelValues(metrics.OutcomeCanceled).Inc()
			return playlist.Playlist{}, err
		}
	}

	var netErr *NetworkError
	if errors.As(lastErr, &netErr) {
		netErr.Attempts = c.cfg.Attempts
	}
	return playlist.Playlist{}, lastErr
}

// TrackURL returns the download URL of a file in an item.
// Slashes in name are kept as path separators.
func (c *Client) TrackURL(identifier, name string) (string, error) {
	segments := strings.Split(name, "/")
	elems := make([]string, 0, len(segments)+1)
	elems = append(elems, url.PathEscape(identifier))
	for _, s := range segments {
		elems = append(elems, url.PathEscape(s))
	}
	return url.JoinPath(c.cfg.DownloadURL, elems...)
}

// Format returns the file format kept from listings.
func (c *Client) Format() string {
	return c.cfg.Format
}

func (c *Client) fetchOnce(ctx context.Context, identifier string) (playlist.Playlist, error) {
	reqURL, err := url.JoinPath(c.cfg.MetadataURL, url.PathEscape(identifier))
	if err != nil {
		return playlist.Playlist{}, &MalformedResponseError{Identifier: identifier, Err: fmt.Errorf("build url: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return playlist.Playlist{}, &NetworkError{Identifier: identifier, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return playlist.Playlist{}, &NetworkError{Identifier: identifier, Err: fmt.Errorf("http request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return playlist.Playlist{}, &NetworkError{
			Identifier: identifier,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status: %s", resp.Status),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return playlist.Playlist{}, &NetworkError{Identifier: identifier, Err: fmt.Errorf("read body: %w", err)}
	}

	files, err := decodeFiles(body)
	if err != nil {
		return playlist.Playlist{}, &MalformedResponseError{Identifier: identifier, Err: err}
	}

	return c.buildPlaylist(identifier, files)
}

// decodeFiles extracts the files array. A body that is not an object, or
// whose files member is missing or not an array, is rejected.
func decodeFiles(body []byte) ([]fileEntry, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	filesRaw, ok := raw["files"]
	if !ok {
		return nil, errors.New("missing files")
	}
	filesRaw = bytes.TrimSpace(filesRaw)
	if len(filesRaw) == 0 || filesRaw[0] != '[' {
		return nil, errors.New("files is not an array")
	}

	var resp metadataResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode files: %w", err)
	}
	return resp.Files, nil
}

func (c *Client) buildPlaylist(identifier string, files []fileEntry) (playlist.Playlist, error) {
	tracks := make([]playlist.Track, 0, len(files))
	for _, f := range files {
		if f.Format != c.cfg.Format || f.Name == "" {
			continue
		}
		trackURL, err := c.TrackURL(identifier, f.Name)
		if err != nil {
			c.logger.Debug().Err(err).Str("name", f.Name).Msg("Skipping file with unusable name")
			continue
		}
		tracks = append(tracks, playlist.NewTrack(trackURL, f.Name))
	}

	playlist.Sort(tracks)
	return playlist.New(tracks...), nil
}

func (c *Client) report(a Attempt) {
	if c.onAttempt != nil {
		c.onAttempt(a)
	}
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
