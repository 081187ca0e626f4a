package components

import (
	"fmt"
	"math"

	"github.com/charmbracelet/lipgloss"
	"github.com/tessro/jukebox/internal/core"
	"github.com/tessro/jukebox/internal/tui/styles"
)

// NowPlayingView is everything the now playing panel shows.
type NowPlayingView struct {
	Song        *core.Song
	Progress    *core.Progress // interpolated, nil when unknown
	StationName string         // set when Song is an internet radio stream
	Connection  core.ConnectionState
}

// NowPlaying displays the currently playing song
type NowPlaying struct{}

// NewNowPlaying creates a new NowPlaying component
func NewNowPlaying() *NowPlaying {
	return &NowPlaying{}
}

// Render renders the now playing panel
func (n *NowPlaying) Render(view NowPlayingView, width, height int, focused bool) string {
	title := styles.PanelTitle("Now Playing", focused)
	badge := styles.ConnectionBadge(string(view.Connection), view.Connection.Label())

	var content string
	if view.Song == nil {
		content = styles.Muted.Render("Nothing playing")
	} else {
		content = n.renderSong(view, width-4)
	}

	panel := styles.Panel(focused).
		Width(width).
		Height(height)

	return panel.Render(lipgloss.JoinVertical(lipgloss.Left,
		title+" "+badge,
		"",
		content,
	))
}

func (n *NowPlaying) renderSong(view NowPlayingView, width int) string {
	song := view.Song

	icon := styles.StatusIcon(song.IsPlaying(), song.IsPaused())
	name := song.Name
	subtitle := song.ArtistName
	if song.IsInternetRadio() && view.StationName != "" {
		name = view.StationName
		subtitle = "Internet radio"
	}

	title := styles.Title.Render(truncate(name, width-4))
	artist := styles.Subtitle.Render(truncate(subtitle, width-2))
	album := styles.Dim.Render(truncate(song.AlbumName, width-2))

	return lipgloss.JoinVertical(lipgloss.Left,
		icon+" "+title,
		"  "+artist,
		"  "+album,
		"",
		n.renderProgress(view.Progress, width),
		"",
		styles.Dim.Render(truncate(song.MRL, width)),
	)
}

func (n *NowPlaying) renderProgress(p *core.Progress, width int) string {
	if p == nil {
		return styles.Dim.Render("live")
	}

	progressWidth := width - 16 // Account for times on either side
	if progressWidth < 10 {
		progressWidth = 10
	}
	bar := styles.ProgressBar(p.Percent(), progressWidth)
	return fmt.Sprintf("%s %s %s", formatSeconds(p.CurrentSeconds), bar, formatSeconds(p.DurationSeconds))
}

func formatSeconds(sec float64) string {
	if math.IsNaN(sec) || sec < 0 {
		sec = 0
	}
	total := int(sec)
	if total >= 3600 {
		return fmt.Sprintf("%d:%02d:%02d", total/3600, total%3600/60, total%60)
	}
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
