package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/llehouerou/taplist/internal/archive"
	"github.com/llehouerou/taplist/internal/errmsg"
	"github.com/llehouerou/taplist/internal/playlist"
)

func newFetchCmd(flags *globalFlags) *cobra.Command {
	var asJSON bool

	c := &cobra.Command{
		Use:   "fetch <identifier>",
		Short: "Print the playlist of an archive.org item",
		Long: `Fetch the file listing of an archive.org item and print the playlist
taplist would play, in playback order. Failed requests are retried as in
the player.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			logger, closer, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer closer.Close()

			client := newArchiveClient(cfg, logger)
			client.SetAttemptObserver(func(a archive.Attempt) {
				if a.Err != nil && !a.Final() {
					fmt.Fprintf(cmd.ErrOrStderr(), "attempt %d/%d failed: %v (retrying in %s)\n", a.Number, a.Max, a.Err, a.RetryIn)
				}
			})

			p, err := client.Fetch(cmd.Context(), args[0])
			if err != nil {
				return errmsg.Wrap(errmsg.LoadPlaylist, args[0], err)
			}
			if asJSON {
				return writePlaylistJSON(cmd.OutOrStdout(), p)
			}
			return writePlaylist(cmd.OutOrStdout(), p)
		},
	}

	c.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return c
}

type trackJSON struct {
	Index int    `json:"index"`
	Title string `json:"title"`
	Name  string `json:"name"`
	URL   string `json:"url"`
}

func writePlaylist(w io.Writer, p playlist.Playlist) error {
	if p.IsEmpty() {
		_, err := fmt.Fprintln(w, "no tracks")
		return err
	}
	for i, t := range p.Tracks() {
		if _, err := fmt.Fprintf(w, "%4d  %-10s  %s\n", i+1, t.Title, t.URL); err != nil {
			return err
		}
	}
	return nil
}

func writePlaylistJSON(w io.Writer, p playlist.Playlist) error {
	tracks := make([]trackJSON, 0, p.Len())
	for i, t := range p.Tracks() {
		tracks = append(tracks, trackJSON{Index: i, Title: t.Title, Name: t.Name, URL: t.URL})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(tracks)
}
