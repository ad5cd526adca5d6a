package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const appName = "taplist"

type Config struct {
	Notifications *bool  `koanf:"notifications"` // desktop notification on track change (default: true)
	MPRIS         *bool  `koanf:"mpris"`         // expose media controls over D-Bus (default: true)
	Icons         string `koanf:"icons"`         // "nerd", "unicode" or "none" (default: "unicode")

	Archive  ArchiveConfig  `koanf:"archive"`
	Fetch    FetchConfig    `koanf:"fetch"`
	Playback PlaybackConfig `koanf:"playback"`
	State    StateConfig    `koanf:"state"`
	Log      LogConfig      `koanf:"log"`
	Metrics  MetricsConfig  `koanf:"metrics"`
}

// ArchiveConfig describes the remote listing provider.
type ArchiveConfig struct {
	MetadataURL    string `koanf:"metadata_url"`    // e.g., "https://archive.org/metadata"
	DownloadURL    string `koanf:"download_url"`    // e.g., "https://archive.org/download"
	Format         string `koanf:"format"`          // file format kept from the listing (default: "VBR MP3")
	TimeoutSeconds int    `koanf:"timeout_seconds"` // per-request timeout (default: 30)
}

// FetchConfig holds the listing retry policy.
type FetchConfig struct {
	Attempts     int `koanf:"attempts"`       // total attempts (default: 5)
	RetryDelayMS int `koanf:"retry_delay_ms"` // fixed delay between attempts (default: 2000)
}

// PlaybackConfig holds playback tuning.
type PlaybackConfig struct {
	ProgressSaveMS  int     `koanf:"progress_save_ms"`  // minimum interval between elapsed writes (default: 1000)
	MinSpeed        float64 `koanf:"min_speed"`         // default: 0.25
	MaxSpeed        float64 `koanf:"max_speed"`         // default: 4.0
	SpeedStep       float64 `koanf:"speed_step"`        // default: 0.25
	SeekStepSeconds int     `koanf:"seek_step_seconds"` // default: 10
}

// StateConfig selects where the session is persisted.
type StateConfig struct {
	Backend string `koanf:"backend"` // "sqlite", "bolt" or "memory" (default: "sqlite")
	Path    string `koanf:"path"`    // database file, empty for the XDG data dir
}

// LogConfig controls the log output.
type LogConfig struct {
	Level string `koanf:"level"` // "debug", "info", "warn", "error" (default: "info")
	File  string `koanf:"file"`  // empty for the XDG state dir, "-" for stderr
}

// MetricsConfig enables the Prometheus endpoint.
type MetricsConfig struct {
	Addr string `koanf:"addr"` // e.g., "127.0.0.1:9464"; empty disables
}

// Load reads the default config locations. See LoadFrom.
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom reads configuration. When path is empty the default locations
// are tried in order of priority (last wins); otherwise only path is read
// and it must exist.
func LoadFrom(path string) (*Config, error) {
	k := koanf.New(".")

	configPaths := getConfigPaths()
	if path != "" {
		configPaths = []string{expandPath(path)}
		if _, err := os.Stat(configPaths[0]); err != nil {
			return nil, err
		}
	}

	for _, p := range configPaths {
		if _, err := os.Stat(p); err == nil {
			if err := k.Load(file.Provider(p), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	// Normalize provider URLs (remove trailing slash)
	cfg.Archive.MetadataURL = strings.TrimSuffix(cfg.Archive.MetadataURL, "/")
	cfg.Archive.DownloadURL = strings.TrimSuffix(cfg.Archive.DownloadURL, "/")

	if cfg.State.Path != "" {
		cfg.State.Path = expandPath(cfg.State.Path)
	}
	if cfg.Log.File != "" && cfg.Log.File != "-" {
		cfg.Log.File = expandPath(cfg.Log.File)
	}

	return cfg, nil
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/taplist/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", appName, "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// NotificationsEnabled returns true unless notifications are turned off.
func (c *Config) NotificationsEnabled() bool {
	return c.Notifications == nil || *c.Notifications
}

// MPRISEnabled returns true unless MPRIS is turned off.
func (c *Config) MPRISEnabled() bool {
	return c.MPRIS == nil || *c.MPRIS
}

// IconStyle returns the configured icon style.
func (c *Config) IconStyle() string {
	if c.Icons == "" {
		return "unicode"
	}
	return c.Icons
}

// HasMetrics returns true if the metrics endpoint is configured.
func (c *Config) HasMetrics() bool {
	return c.Metrics.Addr != ""
}

// GetArchiveConfig returns the provider configuration with defaults applied.
func (c *Config) GetArchiveConfig() ArchiveConfig {
	cfg := c.Archive

	if cfg.MetadataURL == "" {
		cfg.MetadataURL = "https://archive.org/metadata"
	}
	if cfg.DownloadURL == "" {
		cfg.DownloadURL = "https://archive.org/download"
	}
	if cfg.Format == "" {
		cfg.Format = "VBR MP3"
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = 30
	}

	return cfg
}

// Timeout returns the per-request timeout.
func (a ArchiveConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// GetFetchConfig returns the retry policy with defaults applied.
func (c *Config) GetFetchConfig() FetchConfig {
	cfg := c.Fetch

	if cfg.Attempts <= 0 || cfg.Attempts > 20 {
		cfg.Attempts = 5
	}
	if cfg.RetryDelayMS <= 0 {
		cfg.RetryDelayMS = 2000
	}

	return cfg
}

// RetryDelay returns the delay between attempts.
func (f FetchConfig) RetryDelay() time.Duration {
	return time.Duration(f.RetryDelayMS) * time.Millisecond
}

// GetPlaybackConfig returns the playback configuration with defaults applied.
func (c *Config) GetPlaybackConfig() PlaybackConfig {
	cfg := c.Playback

	if cfg.ProgressSaveMS <= 0 {
		cfg.ProgressSaveMS = 1000
	}
	if cfg.MinSpeed <= 0 {
		cfg.MinSpeed = 0.25
	}
	if cfg.MaxSpeed <= 0 {
		cfg.MaxSpeed = 4.0
	}
	if cfg.MinSpeed > cfg.MaxSpeed {
		cfg.MinSpeed, cfg.MaxSpeed = 0.25, 4.0
	}
	if cfg.SpeedStep <= 0 {
		cfg.SpeedStep = 0.25
	}
	if cfg.SeekStepSeconds <= 0 {
		cfg.SeekStepSeconds = 10
	}

	return cfg
}

// ProgressSaveInterval returns the minimum interval between elapsed writes.
func (p PlaybackConfig) ProgressSaveInterval() time.Duration {
	return time.Duration(p.ProgressSaveMS) * time.Millisecond
}

// SeekStep returns the seek distance for one key press.
func (p PlaybackConfig) SeekStep() time.Duration {
	return time.Duration(p.SeekStepSeconds) * time.Second
}

// GetStateConfig returns the persistence configuration with defaults applied.
func (c *Config) GetStateConfig() StateConfig {
	cfg := c.State

	switch cfg.Backend {
	case "sqlite", "bolt", "memory":
	default:
		cfg.Backend = "sqlite"
	}

	return cfg
}

// GetLogConfig returns the log configuration with defaults applied.
func (c *Config) GetLogConfig() LogConfig {
	cfg := c.Log

	switch cfg.Level {
	case "debug", "info", "warn", "error":
	default:
		cfg.Level = "info"
	}

	return cfg
}
