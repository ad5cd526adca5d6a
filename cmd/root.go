// Package cmd implements the taplist command line.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/llehouerou/taplist/internal/archive"
	"github.com/llehouerou/taplist/internal/config"
	"github.com/llehouerou/taplist/internal/errmsg"
	"github.com/llehouerou/taplist/internal/logging"
	"github.com/llehouerou/taplist/internal/state"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

// globalFlags override values from the config file when set.
type globalFlags struct {
	configPath  string
	logLevel    string
	logFile     string
	metricsAddr string
	ephemeral   bool
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "taplist [identifier]",
		Short: "Play archive.org audio playlists from the terminal",
		Long: `taplist plays the "VBR MP3" files of an archive.org item as a playlist.

The current track, position and speed are saved while listening, so the
next start resumes where playback stopped. Pass an identifier to open a
different item; without one the saved session is restored.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, flags, args)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "config file (default ~/.config/taplist/config.toml)")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&flags.logFile, "log-file", "", `log file, "-" for stderr`)
	pf.StringVar(&flags.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	pf.BoolVar(&flags.ephemeral, "ephemeral", false, "keep the session in memory only")

	root.AddCommand(newFetchCmd(flags), newSessionCmd(flags))
	return root
}

// Execute runs the root command and exits non-zero on failure.
// This is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := NewRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file and applies the flag overrides.
func loadConfig(flags *globalFlags) (*config.Config, error) {
	cfg, err := config.LoadFrom(flags.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}
	if flags.logFile != "" {
		cfg.Log.File = flags.logFile
	}
	if flags.metricsAddr != "" {
		cfg.Metrics.Addr = flags.metricsAddr
	}
	if flags.ephemeral {
		cfg.State.Backend = state.BackendMemory
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (zerolog.Logger, io.Closer, error) {
	lc := cfg.GetLogConfig()
	logger, closer, err := logging.New(logging.Options{Level: lc.Level, File: lc.File})
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("failed to open log: %w", err)
	}
	return logger, closer, nil
}

func openStore(cfg *config.Config, logger zerolog.Logger) (*state.Store, error) {
	sc := cfg.GetStateConfig()
	kv, err := state.OpenBackend(sc.Backend, sc.Path)
	if err != nil {
		return nil, errmsg.Wrap(errmsg.OpenSession, sc.Path, err)
	}
	return state.NewStore(kv, logger), nil
}

func newArchiveClient(cfg *config.Config, logger zerolog.Logger) *archive.Client {
	ac := cfg.GetArchiveConfig()
	fc := cfg.GetFetchConfig()
	return archive.NewClient(archive.Config{
		MetadataURL: ac.MetadataURL,
		DownloadURL: ac.DownloadURL,
		Format:      ac.Format,
		Attempts:    fc.Attempts,
		RetryDelay:  fc.RetryDelay(),
		Timeout:     ac.Timeout(),
	}, logger)
}
