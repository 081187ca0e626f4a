package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/tessro/jukebox/internal/core"
	jberrors "github.com/tessro/jukebox/internal/errors"
)

var (
	queueLimit int
	queueAll   bool
)

var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Show and manage the play queue",
	Long: `Shows the songs queued after the current one.
Use --all to include songs that have already played.`,
	Args: cobra.NoArgs,
	RunE: runQueueList,
}

var queueAddCmd = &cobra.Command{
	Use:   "add [mrl]",
	Short: "Add a song to the queue",
	Long: `Add a song to the end of the queue by its media location (MRL).
Without an argument in a terminal, pick a song from the library.

Examples:
  jukebox queue add "file:///music/Artist/Album/01 Song.mp3"
  jukebox queue add`,
	Args: cobra.MaximumNArgs(1),
	RunE: runQueueAdd,
}

func init() {
	queueCmd.Flags().IntVarP(&queueLimit, "limit", "l", 20, "Maximum number of songs to show")
	queueCmd.Flags().BoolVarP(&queueAll, "all", "a", false, "Include songs that already played")

	queueCmd.AddCommand(queueAddCmd)
	rootCmd.AddCommand(queueCmd)
}

type queueItem struct {
	Position int    `json:"position"`
	Current  bool   `json:"current,omitempty"`
	MRL      string `json:"mrl"`
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	Album    string `json:"album"`
}

// queueItems picks which entries to show: everything after the current
// song, or the whole queue with the current song flagged.
func queueItems(q *core.Queue, current *core.Song, all bool, limit int) []queueItem {
	entries := q.Upcoming(current)
	currentIdx := -1
	if all {
		entries = q.Entries
		if current != nil {
			currentIdx = q.IndexOf(current.MRL)
		}
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	items := make([]queueItem, len(entries))
	for i, e := range entries {
		items[i] = queueItem{
			Position: i + 1,
			Current:  i == currentIdx,
			MRL:      e.MRL,
			Title:    e.Name,
			Artist:   e.ArtistName,
			Album:    e.AlbumName,
		}
	}
	return items
}

func runQueueList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	client, err := newClient()
	if err != nil {
		return err
	}

	queue, err := client.Queue(ctx)
	if err != nil {
		return fmt.Errorf("failed to get queue: %w", err)
	}

	// The queue is still useful without knowing the current song.
	snap, err := client.NowPlaying(ctx)
	if err != nil {
		log.WithError(err).Warn("could not determine the current song")
	}

	items := queueItems(queue, snap.Song, queueAll, queueLimit)

	if JSONOutput() {
		return printJSON(map[string]any{
			"queue": items,
			"total": queue.Len(),
		})
	}

	if len(items) == 0 {
		fmt.Println("Queue is empty")
		return nil
	}

	t := NewTable("#", "TITLE", "ARTIST", "ALBUM")
	for _, it := range items {
		pos := strconv.Itoa(it.Position)
		if it.Current {
			pos = "▶"
		}
		t.Row(pos, TruncateString(it.Title, 40), TruncateString(it.Artist, 25), TruncateString(it.Album, 25))
	}
	t.Flush()

	return nil
}

func runQueueAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	client, p, err := newPlayer()
	if err != nil {
		return err
	}

	var mrl, title string
	if len(args) == 1 {
		mrl = args[0]
		title = mrl
	} else {
		song, err := pickLibrarySong(ctx, client)
		if err != nil {
			return err
		}
		if song == nil {
			return jberrors.ErrMissingMRL
		}
		mrl, title = song.MRL, song.Name
	}

	if err := p.AddToQueue(ctx, mrl); err != nil {
		return fmt.Errorf("failed to add to queue: %w", err)
	}

	if JSONOutput() {
		return printJSON(map[string]string{"status": "queued", "mrl": mrl})
	}
	fmt.Printf("➕ Queued %s\n", title)
	return nil
}
