package wizard

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Item is one choice in a filter picker.
type Item struct {
	MRL      string
	Title    string
	Subtitle string
}

// FilterModel is a type-to-filter list picker used for library browsing.
type FilterModel struct {
	title    string
	input    textinput.Model
	items    []Item
	matches  []Item
	cursor   int
	selected *Item
	width    int
	height   int
}

// Styles
var (
	filterTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("205"))

	filterItemStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	filterSelectedStyle = lipgloss.NewStyle().
				PaddingLeft(2).
				Background(lipgloss.Color("237"))

	filterSubtitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("243"))
)

// NewFilterModel creates a picker over items.
func NewFilterModel(title string, items []Item) FilterModel {
	ti := textinput.New()
	ti.Placeholder = "Type to filter..."
	ti.Focus()
	ti.CharLimit = 100
	ti.Width = 50

	return FilterModel{
		title:   title,
		input:   ti,
		items:   items,
		matches: items,
		width:   80,
		height:  20,
	}
}

// Init initializes the model.
func (m FilterModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages.
func (m FilterModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "enter":
			if len(m.matches) > 0 && m.cursor < len(m.matches) {
				m.selected = &m.matches[m.cursor]
				return m, tea.Quit
			}
			return m, nil

		case "up", "ctrl+p":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case "down", "ctrl+n":
			if m.cursor < len(m.matches)-1 {
				m.cursor++
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = msg.Width - 4
	}

	var cmd tea.Cmd
	prev := m.input.Value()
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != prev {
		m.matches = Filter(m.items, m.input.Value())
		m.cursor = 0
	}

	return m, cmd
}

// Filter returns the items whose title or subtitle fuzzily matches query,
// ignoring case. The letters of query must appear in order.
func Filter(items []Item, query string) []Item {
	query = strings.TrimSpace(query)
	if query == "" {
		return items
	}

	var out []Item
	for _, it := range items {
		if fuzzy.MatchFold(query, it.Title) || fuzzy.MatchFold(query, it.Subtitle) {
			out = append(out, it)
		}
	}
	return out
}

// View renders the model.
func (m FilterModel) View() string {
	var b strings.Builder

	b.WriteString(filterTitleStyle.Render(m.title))
	b.WriteString("\n\n")

	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	if len(m.matches) == 0 {
		b.WriteString("No matches")
		b.WriteString("\n")
	} else {
		maxResults := m.height - 8
		if maxResults < 5 {
			maxResults = 5
		}

		// Keep the cursor in view
		start := 0
		if m.cursor >= maxResults {
			start = m.cursor - maxResults + 1
		}

		for i := start; i < len(m.matches); i++ {
			if i-start >= maxResults {
				b.WriteString(filterSubtitleStyle.Render("  ...and more"))
				b.WriteString("\n")
				break
			}

			item := m.matches[i]
			line := item.Title
			if item.Subtitle != "" {
				line += " " + filterSubtitleStyle.Render(item.Subtitle)
			}

			if i == m.cursor {
				b.WriteString(filterSelectedStyle.Render("▸ " + line))
			} else {
				b.WriteString(filterItemStyle.Render("  " + line))
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(filterSubtitleStyle.Render("↑/↓ navigate • enter select • esc quit"))

	return b.String()
}

// Selected returns the selected item, or nil if none.
func (m FilterModel) Selected() *Item {
	return m.selected
}

// RunFilter runs a filter picker and returns the selected item.
func RunFilter(title string, items []Item) (*Item, error) {
	p := tea.NewProgram(NewFilterModel(title, items), tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}
	return finalModel.(FilterModel).Selected(), nil
}
