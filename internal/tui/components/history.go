package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/tessro/jukebox/internal/core"
	"github.com/tessro/jukebox/internal/tui/styles"
)

// MaxHistory is how many songs the history panel remembers.
const MaxHistory = 50

// HistoryEntry represents a song seen during this session
type HistoryEntry struct {
	Song     core.Song
	PlayedAt time.Time
	Skipped  bool
}

// History displays recently played songs
type History struct{}

// NewHistory creates a new History component
func NewHistory() *History {
	return &History{}
}

// Push adds a song to the front of entries, capped at MaxHistory.
func Push(entries []HistoryEntry, song core.Song, at time.Time) []HistoryEntry {
	entries = append([]HistoryEntry{{Song: song, PlayedAt: at}}, entries...)
	if len(entries) > MaxHistory {
		entries = entries[:MaxHistory]
	}
	return entries
}

// Render renders the history panel
func (h *History) Render(entries []HistoryEntry, now time.Time, width, height int, focused bool) string {
	title := styles.PanelTitle("History", focused)

	var content string
	if len(entries) == 0 {
		content = styles.Muted.Render("No history yet")
	} else {
		content = h.renderHistory(entries, now, width-4, height-4)
	}

	panel := styles.Panel(focused).
		Width(width).
		Height(height)

	return panel.Render(lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		content,
	))
}

func (h *History) renderHistory(entries []HistoryEntry, now time.Time, width, maxLines int) string {
	lines := make([]string, 0, maxLines)

	// Fixed overhead: icon (2) + " " (1) + " — " (3) + padding for time (8)
	const overhead = 14

	for i, entry := range entries {
		if i >= maxLines {
			break
		}

		timeAgo := formatTimeAgo(now, entry.PlayedAt)
		timeWidth := len(timeAgo)

		icon := "✓"
		if entry.Skipped {
			icon = "⏭"
		}

		title, artist := fitPair(entry.Song.Name, entry.Song.ArtistName, width-overhead-timeWidth, 8)
		info := fmt.Sprintf("%s — %s", title, artist)

		padding := width - 2 - runewidth.StringWidth(info) - timeWidth
		if padding < 1 {
			padding = 1
		}

		lines = append(lines, fmt.Sprintf("%s %s%s%s",
			styles.Dim.Render(icon),
			info,
			lipgloss.NewStyle().Width(padding).Render(""),
			styles.Dim.Render(timeAgo)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func formatTimeAgo(now, t time.Time) string {
	d := now.Sub(t)

	if d < time.Minute {
		return "now"
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	if d < 24*time.Hour {
		return fmt.Sprintf("%dh", int(d.Hours()))
	}
	return t.Format("Jan 2")
}
