package wizard

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tessro/jukebox/internal/core"
	"github.com/tessro/jukebox/internal/payload"
)

// StationModel is the bubbletea model for the radio station picker.
type StationModel struct {
	stations []core.Station
	current  string // compare key of the playing MRL
	cursor   int
	selected *core.Station
	width    int
	height   int
}

// Styles for station picker
var (
	stationTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("205"))

	stationItemStyle = lipgloss.NewStyle().
				PaddingLeft(2)

	stationSelectedStyle = lipgloss.NewStyle().
				PaddingLeft(2).
				Background(lipgloss.Color("237"))

	stationActiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("82"))

	stationDimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))
)

// NewStationModel creates a new station picker. The station matching
// current, if any, is preselected and marked as on air.
func NewStationModel(stations []core.Station, current *core.Song) StationModel {
	m := StationModel{
		stations: stations,
		width:    80,
		height:   20,
	}
	if current != nil {
		m.current = payload.CompareKey(current.MRL)
		for i, s := range stations {
			if payload.CompareKey(s.MRL) == m.current {
				m.cursor = i
				break
			}
		}
	}
	return m
}

// Init initializes the model.
func (m StationModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m StationModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			return m, tea.Quit

		case "enter", " ":
			if len(m.stations) > 0 && m.cursor < len(m.stations) {
				m.selected = &m.stations[m.cursor]
				return m, tea.Quit
			}

		case "up", "k", "ctrl+p":
			if m.cursor > 0 {
				m.cursor--
			}

		case "down", "j", "ctrl+n":
			if m.cursor < len(m.stations)-1 {
				m.cursor++
			}

		case "home", "g":
			m.cursor = 0

		case "end", "G":
			if len(m.stations) > 0 {
				m.cursor = len(m.stations) - 1
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}

	return m, nil
}

// View renders the model.
func (m StationModel) View() string {
	var b strings.Builder

	b.WriteString(stationTitleStyle.Render("📻 Select Station"))
	b.WriteString("\n\n")

	if len(m.stations) == 0 {
		b.WriteString(stationDimStyle.Render("No stations found"))
		b.WriteString("\n\n")
		b.WriteString(stationDimStyle.Render("Add internet radio stations on the jukebox server first."))
	} else {
		for i, station := range m.stations {
			var line strings.Builder

			if m.current != "" && payload.CompareKey(station.MRL) == m.current {
				line.WriteString(stationActiveStyle.Render("● "))
			} else {
				line.WriteString(stationDimStyle.Render("○ "))
			}

			line.WriteString(station.Name)
			if station.Name != station.MRL {
				line.WriteString(" " + stationDimStyle.Render(station.MRL))
			}

			if i == m.cursor {
				b.WriteString(stationSelectedStyle.Render("▸ " + line.String()))
			} else {
				b.WriteString(stationItemStyle.Render("  " + line.String()))
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(stationDimStyle.Render("↑/↓ navigate • enter select • esc quit"))
	b.WriteString("\n")
	b.WriteString(stationDimStyle.Render("● on air  ○ off air"))

	return b.String()
}

// Selected returns the selected station, or nil if none.
func (m StationModel) Selected() *core.Station {
	return m.selected
}

// RunStationPicker runs the station picker and returns the selected station.
func RunStationPicker(stations []core.Station, current *core.Song) (*core.Station, error) {
	model := NewStationModel(stations, current)
	p := tea.NewProgram(model, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}
	return finalModel.(StationModel).Selected(), nil
}
