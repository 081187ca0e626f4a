package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var playPick bool

var playCmd = &cobra.Command{
	Use:   "play [mrl]",
	Short: "Play a song or resume playback",
	Long: `Play a song immediately by its media location (MRL).
Without arguments, resumes current playback.

Examples:
  jukebox play                                   # Resume playback
  jukebox play "file:///music/Artist/Album/a.mp3" # Play a specific song
  jukebox play --pick                            # Pick from the library`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().BoolVarP(&playPick, "pick", "p", false, "Pick a song from the library")
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	client, p, err := newPlayer()
	if err != nil {
		return err
	}

	var mrl, title string
	switch {
	case len(args) == 1:
		mrl, title = args[0], args[0]

	case playPick:
		song, err := pickLibrarySong(ctx, client)
		if err != nil {
			return err
		}
		if song == nil {
			return nil // cancelled
		}
		mrl, title = song.MRL, song.Name

	default:
		if err := p.Resume(ctx); err != nil {
			return fmt.Errorf("failed to resume: %w", err)
		}
		if JSONOutput() {
			return printJSON(map[string]string{"status": "resumed"})
		}
		fmt.Println("▶ Resumed")
		return nil
	}

	if err := p.PlaySong(ctx, mrl); err != nil {
		return fmt.Errorf("failed to play: %w", err)
	}

	if JSONOutput() {
		return printJSON(map[string]string{"status": "playing", "mrl": mrl})
	}
	fmt.Printf("▶ Playing %s\n", title)
	return nil
}
