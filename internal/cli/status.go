package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/tessro/jukebox/internal/core"
	jberrors "github.com/tessro/jukebox/internal/errors"
	"golang.org/x/sync/errgroup"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show what is playing",
	Long:  `Shows the current song, its progress, and how many songs are queued after it.`,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

// statusSource is the part of the server API status needs.
type statusSource interface {
	NowPlaying(ctx context.Context) (core.Snapshot, error)
	Queue(ctx context.Context) (*core.Queue, error)
	Stations(ctx context.Context) ([]core.Station, error)
}

type statusData struct {
	Snapshot core.Snapshot
	Queue    *core.Queue
	Station  *core.Station
}

func runStatus(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	result, err := fetchStatus(cmd.Context(), client)
	if err != nil {
		return err
	}
	if result.HasErrors() {
		log.WithField("errors", len(result.Errors)).Warn(result.ErrorSummary())
	}

	if JSONOutput() {
		return printJSON(statusJSON(result.Data))
	}
	writeStatus(os.Stdout, result.Data, time.Now())
	return nil
}

// fetchStatus reads now playing and the queue together. Only a now playing
// failure is fatal; the rest are collected as partial errors.
func fetchStatus(ctx context.Context, src statusSource) (*jberrors.PartialResult[statusData], error) {
	result := &jberrors.PartialResult[statusData]{}

	var (
		g        errgroup.Group
		queueErr error
	)
	g.Go(func() error {
		snap, err := src.NowPlaying(ctx)
		result.Data.Snapshot = snap
		return err
	})
	g.Go(func() error {
		result.Data.Queue, queueErr = src.Queue(ctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to get now playing: %w", err)
	}
	if queueErr != nil {
		result.AddError(fmt.Errorf("queue: %w", queueErr))
	}

	if song := result.Data.Snapshot.Song; song.IsInternetRadio() {
		stations, err := src.Stations(ctx)
		if err != nil {
			result.AddError(fmt.Errorf("stations: %w", err))
		} else {
			result.Data.Station = findStation(stations, song)
		}
	}

	return result, nil
}

type statusOutput struct {
	Playing  bool           `json:"playing"`
	Song     *core.Song     `json:"song,omitempty"`
	Progress *core.Progress `json:"progress,omitempty"`
	Percent  float64        `json:"progress_percent,omitempty"`
	Station  string         `json:"station,omitempty"`
	Upcoming int            `json:"upcoming"`
}

func statusJSON(d statusData) statusOutput {
	out := statusOutput{
		Playing:  d.Snapshot.Song.IsPlaying(),
		Song:     d.Snapshot.Song,
		Progress: d.Snapshot.Progress,
		Percent:  d.Snapshot.Progress.Percent(),
		Upcoming: len(d.Queue.Upcoming(d.Snapshot.Song)),
	}
	if d.Station != nil {
		out.Station = d.Station.Name
	}
	return out
}

func writeStatus(w io.Writer, d statusData, now time.Time) {
	song := d.Snapshot.Song
	if song == nil {
		_, _ = fmt.Fprintln(w, "Nothing playing")
		return
	}

	icon := "▶"
	switch {
	case song.IsPaused():
		icon = "⏸"
	case song.IsStopped():
		icon = "⏹"
	}

	if d.Station != nil {
		_, _ = fmt.Fprintf(w, "%s 📻 %s\n", icon, d.Station.Name)
		_, _ = fmt.Fprintf(w, "    %s\n", song.Name)
	} else {
		_, _ = fmt.Fprintf(w, "%s %s\n", icon, song.Name)
		_, _ = fmt.Fprintf(w, "    %s — %s\n", song.ArtistName, song.AlbumName)
	}

	if p := d.Snapshot.Progress; p != nil {
		line := fmt.Sprintf("    %s %s / %s",
			FormatProgress(p.Percent(), 30),
			FormatDuration(p.CurrentSeconds),
			FormatDuration(p.DurationSeconds))
		if song.IsPlaying() {
			remaining := time.Duration((p.DurationSeconds - p.CurrentSeconds) * float64(time.Second))
			line += " (ends " + humanize.RelTime(now.Add(remaining), now, "ago", "from now") + ")"
		}
		_, _ = fmt.Fprintln(w, line)
	}

	if Verbose() {
		_, _ = fmt.Fprintf(w, "    %s\n", song.MRL)
	}

	switch n := len(d.Queue.Upcoming(song)); n {
	case 0:
		_, _ = fmt.Fprintln(w, "Up next: nothing queued")
	case 1:
		_, _ = fmt.Fprintln(w, "Up next: 1 song")
	default:
		_, _ = fmt.Fprintf(w, "Up next: %d songs\n", n)
	}
}
