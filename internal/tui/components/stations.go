package components

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/tessro/jukebox/internal/core"
	"github.com/tessro/jukebox/internal/payload"
	"github.com/tessro/jukebox/internal/tui/styles"
)

// Stations lists internet radio stations
type Stations struct {
	selected int
}

// NewStations creates a new Stations component
func NewStations() *Stations {
	return &Stations{}
}

// SelectNext selects the next station
func (s *Stations) SelectNext() {
	s.selected++
}

// SelectPrev selects the previous station
func (s *Stations) SelectPrev() {
	if s.selected > 0 {
		s.selected--
	}
}

// Selected returns the selected station index
func (s *Stations) Selected() int {
	return s.selected
}

// MatchStation returns the station whose MRL matches the current song, if
// the song is an internet radio stream.
func MatchStation(song *core.Song, stations []core.Station) *core.Station {
	if !song.IsInternetRadio() {
		return nil
	}
	key := payload.CompareKey(song.MRL)
	for i := range stations {
		if payload.CompareKey(stations[i].MRL) == key {
			return &stations[i]
		}
	}
	return nil
}

// Render renders the stations panel
func (s *Stations) Render(stations []core.Station, current *core.Song, width, height int, focused bool) string {
	title := styles.PanelTitle("Radio", focused)

	var content string
	if len(stations) == 0 {
		content = styles.Muted.Render("No stations")
	} else {
		content = s.renderStations(stations, MatchStation(current, stations), width-4, height-4, focused)
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

func (s *Stations) renderStations(stations []core.Station, active *core.Station, width, maxLines int, focused bool) string {
	if s.selected >= len(stations) {
		s.selected = len(stations) - 1
	}
	if s.selected < 0 {
		s.selected = 0
	}

	// Keep the selection visible
	start := 0
	if maxLines > 0 && s.selected >= maxLines {
		start = s.selected - maxLines + 1
	}

	lines := make([]string, 0, len(stations))
	for i := start; i < len(stations); i++ {
		station := stations[i]

		selector := "  "
		if focused && i == s.selected {
			selector = "▸ "
		}

		name := truncate(station.Name, width-4)
		if focused && i == s.selected {
			name = styles.Highlight.Render(name)
		}

		marker := ""
		if active != nil && active.MRL == station.MRL {
			marker = styles.Playing.Render(" ●")
		}

		lines = append(lines, selector+name+marker)
		if len(lines) >= maxLines {
			break
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
