package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/tessro/jukebox/internal/core"
	"github.com/tessro/jukebox/internal/tui/styles"
)

// Queue displays the songs after the current one
type Queue struct {
	offset int
}

// NewQueue creates a new Queue component
func NewQueue() *Queue {
	return &Queue{}
}

// ScrollDown scrolls the queue down
func (q *Queue) ScrollDown() {
	q.offset++
}

// ScrollUp scrolls the queue up
func (q *Queue) ScrollUp() {
	if q.offset > 0 {
		q.offset--
	}
}

// Render renders the queue panel
func (q *Queue) Render(queue *core.Queue, current *core.Song, width, height int, focused bool) string {
	upcoming := queue.Upcoming(current)
	title := styles.PanelTitle(fmt.Sprintf("Up Next (%d)", len(upcoming)), focused)

	var content string
	if len(upcoming) == 0 {
		content = styles.Muted.Render("Queue is empty")
	} else {
		content = q.renderEntries(upcoming, width-4, height-4)
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

func (q *Queue) renderEntries(entries []core.QueueEntry, width, maxLines int) string {
	if q.offset >= len(entries) {
		q.offset = 0
	}

	visibleCount := maxLines - 1 // Leave room for "more" indicator
	if visibleCount < 1 {
		visibleCount = 1
	}

	start := q.offset
	end := start + visibleCount
	if end > len(entries) {
		end = len(entries)
	}

	lines := make([]string, 0, end-start+1)

	// "XX. " (4) + " — " (3)
	const overhead = 7

	for i := start; i < end; i++ {
		entry := entries[i]
		title, artist := fitPair(entry.Name, entry.ArtistName, width-overhead, 10)

		lines = append(lines, fmt.Sprintf("%s %s — %s",
			styles.Dim.Render(fmt.Sprintf("%2d.", i+1)),
			title,
			styles.Muted.Render(artist)))
	}

	if end < len(entries) {
		lines = append(lines, styles.Dim.Render(fmt.Sprintf("    ... and %d more", len(entries)-end)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
