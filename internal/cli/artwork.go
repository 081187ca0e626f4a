package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tessro/jukebox/internal/browser"
	jberrors "github.com/tessro/jukebox/internal/errors"
)

var artworkOpen bool

var artworkCmd = &cobra.Command{
	Use:   "artwork [mrl]",
	Short: "Show the cover art URL for a song",
	Long: `Print the cover art URL for a song. Without an argument the current
song is used.

Examples:
  jukebox artwork
  jukebox artwork --open`,
	Args: cobra.MaximumNArgs(1),
	RunE: runArtwork,
}

func init() {
	artworkCmd.Flags().BoolVarP(&artworkOpen, "open", "o", false, "open the artwork in a browser")
	rootCmd.AddCommand(artworkCmd)
}

func runArtwork(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	var mrl string
	if len(args) == 1 {
		mrl = args[0]
	} else {
		snap, err := client.NowPlaying(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get now playing: %w", err)
		}
		if !snap.HasSong() || snap.Song.MRL == "" {
			return jberrors.WithSuggestion(jberrors.ErrNothingPlaying, "Pass a song MRL, e.g. jukebox artwork file:///music/song.mp3")
		}
		mrl = snap.Song.MRL
	}

	url, err := client.ArtworkURL(mrl)
	if err != nil {
		return err
	}

	if JSONOutput() {
		return printJSON(map[string]string{"mrl": mrl, "url": url})
	}
	fmt.Println(url)

	if artworkOpen {
		if err := browser.Open(url); err != nil {
			return fmt.Errorf("failed to open browser: %w", err)
		}
	}
	return nil
}
