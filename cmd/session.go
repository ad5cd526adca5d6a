package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/llehouerou/taplist/internal/errmsg"
	"github.com/llehouerou/taplist/internal/state"
)

func newSessionCmd(flags *globalFlags) *cobra.Command {
	c := &cobra.Command{
		Use:   "session",
		Short: "Inspect or reset the saved playback session",
	}

	c.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(flags, func(s *state.Store) error {
				return writeSession(cmd.OutOrStdout(), s.Load())
			})
		},
	})

	c.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Forget the saved identifier, track, position and speed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(flags, func(s *state.Store) error {
				if err := s.Clear(); err != nil {
					return errmsg.Wrap(errmsg.ClearSession, "", err)
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "Session cleared")
				return err
			})
		},
	})

	return c
}

func withStore(flags *globalFlags, fn func(*state.Store) error) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}
	logger, closer, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	store, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	return fn(store)
}

// writeSession prints the session under its storage keys.
func writeSession(w io.Writer, s state.Session) error {
	source := s.SourceID
	if source == "" {
		source = "(none)"
	}
	rows := [][2]string{
		{state.KeySourceID, source},
		{state.KeyTrackIndex, strconv.Itoa(s.TrackIndex)},
		{state.KeyElapsed, strconv.FormatFloat(s.Elapsed.Seconds(), 'f', -1, 64)},
		{state.KeySpeed, strconv.FormatFloat(s.Speed, 'f', -1, 64)},
	}
	for _, r := range rows {
		if _, err := fmt.Fprintf(w, "%-16s %s\n", r[0], r[1]); err != nil {
			return err
		}
	}
	return nil
}
