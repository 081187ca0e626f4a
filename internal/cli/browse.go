package cli

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/tessro/jukebox/internal/core"
	"github.com/tessro/jukebox/internal/jukebox"
	"github.com/tessro/jukebox/internal/wizard"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the music library",
	Long: `Browse the server's library folders: artists at the top level, albums
beneath each artist, and songs inside each album.

Examples:
  jukebox browse artists
  jukebox browse albums "file:///music/Artist"
  jukebox browse songs "file:///music/Artist/Album"`,
}

var browseArtistsCmd = &cobra.Command{
	Use:   "artists",
	Short: "List artists",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		artists, err := client.Artists(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list artists: %w", err)
		}
		return printEntries(artists, func(a core.Artist) (string, string) { return a.Name, a.MRL })
	},
}

var browseAlbumsCmd = &cobra.Command{
	Use:   "albums <artist-mrl>",
	Short: "List an artist's albums",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		albums, err := client.Albums(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to list albums: %w", err)
		}
		return printEntries(albums, func(a core.Album) (string, string) { return a.Name, a.MRL })
	},
}

var browseSongsCmd = &cobra.Command{
	Use:   "songs <album-mrl>",
	Short: "List an album's songs",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		songs, err := client.Songs(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to list songs: %w", err)
		}
		return printEntries(songs, func(s core.LibrarySong) (string, string) { return s.Name, s.MRL })
	},
}

func init() {
	browseCmd.AddCommand(browseArtistsCmd)
	browseCmd.AddCommand(browseAlbumsCmd)
	browseCmd.AddCommand(browseSongsCmd)
	rootCmd.AddCommand(browseCmd)
}

// printEntries prints a name/MRL listing as JSON or a table.
func printEntries[T any](entries []T, fields func(T) (name, mrl string)) error {
	if JSONOutput() {
		if entries == nil {
			entries = []T{}
		}
		return printJSON(entries)
	}

	if len(entries) == 0 {
		fmt.Println("Nothing found")
		return nil
	}

	t := NewTable("NAME", "MRL")
	for _, e := range entries {
		name, mrl := fields(e)
		t.Row(TruncateString(name, 40), mrl)
	}
	t.Flush()
	return nil
}

// pickLibrarySong walks artist, album, then song pickers. It returns nil
// when the user cancels or stdout is not a terminal.
func pickLibrarySong(ctx context.Context, client *jukebox.Client) (*core.LibrarySong, error) {
	picker := wizard.NewInteractive()
	if !picker.CanInteract() {
		return nil, nil
	}

	artists, err := client.Artists(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list artists: %w", err)
	}
	artist, err := picker.PromptItem("🎤 Artist", lo.Map(artists, func(a core.Artist, _ int) wizard.Item {
		return wizard.Item{MRL: a.MRL, Title: a.Name}
	}))
	if err != nil || artist == nil {
		return nil, err
	}

	albums, err := client.Albums(ctx, artist.MRL)
	if err != nil {
		return nil, fmt.Errorf("failed to list albums: %w", err)
	}
	album, err := picker.PromptItem("💿 "+artist.Title, lo.Map(albums, func(a core.Album, _ int) wizard.Item {
		return wizard.Item{MRL: a.MRL, Title: a.Name}
	}))
	if err != nil || album == nil {
		return nil, err
	}

	songs, err := client.Songs(ctx, album.MRL)
	if err != nil {
		return nil, fmt.Errorf("failed to list songs: %w", err)
	}
	song, err := picker.PromptItem("🎵 "+album.Title, lo.Map(songs, func(s core.LibrarySong, _ int) wizard.Item {
		return wizard.Item{MRL: s.MRL, Title: s.Name, Subtitle: artist.Title}
	}))
	if err != nil || song == nil {
		return nil, err
	}

	return &core.LibrarySong{MRL: song.MRL, Name: song.Title}, nil
}
