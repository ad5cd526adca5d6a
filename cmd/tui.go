package cmd

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/llehouerou/taplist/internal/app"
	"github.com/llehouerou/taplist/internal/icons"
	"github.com/llehouerou/taplist/internal/logging"
	"github.com/llehouerou/taplist/internal/metrics"
	"github.com/llehouerou/taplist/internal/mpris"
	"github.com/llehouerou/taplist/internal/notify"
	"github.com/llehouerou/taplist/internal/playback"
	"github.com/llehouerou/taplist/internal/player"
	"github.com/llehouerou/taplist/internal/stderr"
)

func runTUI(cmd *cobra.Command, flags *globalFlags, args []string) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}

	logger, logCloser, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logCloser.Close()
	icons.Init(cfg.IconStyle())

	// ALSA writes to fd 2 directly; capture it unless the log itself goes there.
	if cfg.GetLogConfig().File != logging.Stderr {
		if err := stderr.Start(logger); err != nil {
			logger.Warn().Err(err).Msg("Failed to capture stderr")
		}
		defer stderr.Stop()
	}

	store, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	client := newArchiveClient(cfg, logger)
	p := player.New(logger)
	defer p.Close()

	pc := cfg.GetPlaybackConfig()
	ctrl := playback.New(p, store, client, playback.Config{
		ProgressSaveInterval: pc.ProgressSaveInterval(),
		MinSpeed:             pc.MinSpeed,
		MaxSpeed:             pc.MaxSpeed,
	}, logger)
	defer ctrl.Close()
	client.SetAttemptObserver(ctrl.ReportAttempt)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	if cfg.MPRISEnabled() {
		adapter, err := mpris.New(ctrl, mpris.Options{MinRate: pc.MinSpeed, MaxRate: pc.MaxSpeed}, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("MPRIS unavailable")
		} else {
			defer adapter.Close()
		}
	}

	if cfg.NotificationsEnabled() {
		n, err := notify.New()
		if err != nil {
			logger.Warn().Err(err).Msg("Desktop notifications unavailable")
		} else {
			w := notify.NewWatcher(n, logger)
			sub := ctrl.Subscribe()
			g.Go(func() error { return w.Run(ctx, sub) })
		}
	}

	if cfg.HasMetrics() {
		srv := metrics.NewServer(cfg.Metrics.Addr)
		logger.Info().Str("addr", cfg.Metrics.Addr).Msg("Serving metrics")
		g.Go(func() error {
			if err := srv.ListenAndServe(); err != nil {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			return srv.Close()
		})
	}

	var identifier string
	if len(args) > 0 {
		identifier = args[0]
	}
	model := app.New(ctx, ctrl, app.Options{
		Identifier:  identifier,
		Format:      client.Format(),
		SeekStep:    pc.SeekStep(),
		SpeedStep:   pc.SpeedStep,
		MaxAttempts: cfg.GetFetchConfig().Attempts,
		Logger:      logger,
	})

	g.Go(func() error {
		defer cancel()
		_, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
		ctrl.Flush()
		if errors.Is(err, tea.ErrProgramKilled) {
			return nil
		}
		return err
	})

	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("Exited with error")
		return err
	}
	logger.Info().Msg("Exited")
	return nil
}
